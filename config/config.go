package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config holds all application configuration
type Config struct {
	Port        int
	GinMode     string
	LogLevel    string
	CORSOrigins []string
	Auth        AuthConfig
	Store       StoreConfig
	RedisURL    string
	Digest      DigestConfig
}

// AuthConfig holds token settings
type AuthConfig struct {
	JWTSecret   string
	TokenExpiry time.Duration
	RequireAuth bool
}

// StoreConfig selects and locates the persistence backend
type StoreConfig struct {
	Driver   string
	DBURL    string
	MongoURI string
	MongoDB  string
}

// DigestConfig holds the pipeline digest schedule and Twilio credentials
type DigestConfig struct {
	Schedule         string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	SMSTo            string
}

// SMSEnabled reports whether every Twilio setting needed to text the digest is present.
func (d DigestConfig) SMSEnabled() bool {
	return d.TwilioAccountSID != "" && d.TwilioAuthToken != "" && d.TwilioFromNumber != "" && d.SMSTo != ""
}

// LoadDotEnv reads .env into the process environment when the file exists.
func LoadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "5000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	expiryHours, err := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "1"))
	if err != nil || expiryHours <= 0 {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_HOURS: %q", os.Getenv("JWT_EXPIRY_HOURS"))
	}

	requireAuth, err := strconv.ParseBool(getEnv("REQUIRE_AUTH", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUIRE_AUTH: %w", err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	cfg := &Config{
		Port:        port,
		GinMode:     getEnv("GIN_MODE", "debug"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		Auth: AuthConfig{
			JWTSecret:   secret,
			TokenExpiry: time.Duration(expiryHours) * time.Hour,
			RequireAuth: requireAuth,
		},
		Store: StoreConfig{
			Driver:   strings.ToLower(getEnv("STORE_DRIVER", DriverMemory)),
			DBURL:    os.Getenv("DB_URL"),
			MongoURI: os.Getenv("MONGO_URI"),
			MongoDB:  getEnv("MONGO_DB", "clientconnect"),
		},
		RedisURL: os.Getenv("REDIS_URL"),
		Digest: DigestConfig{
			Schedule:         os.Getenv("DIGEST_SCHEDULE"),
			TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
			TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			TwilioFromNumber: os.Getenv("TWILIO_FROM_NUMBER"),
			SMSTo:            os.Getenv("DIGEST_SMS_TO"),
		},
	}

	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s StoreConfig) validate() error {
	switch s.Driver {
	case DriverMemory:
		return nil
	case DriverPostgres:
		if s.DBURL == "" {
			return errors.New("DB_URL is required when STORE_DRIVER=postgres")
		}
		return nil
	case DriverMongo:
		if s.MongoURI == "" {
			return errors.New("MONGO_URI is required when STORE_DRIVER=mongo")
		}
		return nil
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", s.Driver)
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
