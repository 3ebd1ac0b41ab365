package config

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("JWT_EXPIRY_HOURS", "")
	t.Setenv("REQUIRE_AUTH", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, time.Hour, cfg.Auth.TokenExpiry)
	assert.False(t, cfg.Auth.RequireAuth)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "clientconnect", cfg.Store.MongoDB)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	t.Run("port", func(t *testing.T) {
		t.Setenv("PORT", "abc")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("expiry", func(t *testing.T) {
		t.Setenv("JWT_EXPIRY_HOURS", "0")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "sqlite")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("postgres without dsn", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "postgres")
		t.Setenv("DB_URL", "")
		_, err := Load()
		assert.ErrorContains(t, err, "DB_URL")
	})
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_EXPIRY_HOURS", "12")
	t.Setenv("REQUIRE_AUTH", "true")
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://crm.example.com")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC1")
	t.Setenv("TWILIO_AUTH_TOKEN", "tok")
	t.Setenv("TWILIO_FROM_NUMBER", "+15550000000")
	t.Setenv("DIGEST_SMS_TO", "+15551111111")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenExpiry)
	assert.True(t, cfg.Auth.RequireAuth)
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, []string{"http://localhost:3000", "https://crm.example.com"}, cfg.CORSOrigins)
	assert.True(t, cfg.Digest.SMSEnabled())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CLIENTCONNECT_TEST_VALUE=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CLIENTCONNECT_TEST_VALUE") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("CLIENTCONNECT_TEST_VALUE"))
}

func TestPerformanceLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "test_latency_seconds"},
		[]string{"method", "route", "status"})

	r := gin.New()
	r.Use(PerformanceLogger(NewLogger(&buf, "info"), latency))
	r.GET("/api/customers/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/customers/abc", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), `"path":"/api/customers/abc"`)
	assert.Equal(t, 1, testutil.CollectAndCount(latency))
}
