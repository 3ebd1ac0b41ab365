package routes

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"clientconnect-backend/config"
	"clientconnect-backend/controllers"
	"clientconnect-backend/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Dependencies are the handlers and middleware the router mounts.
type Dependencies struct {
	Customers      *controllers.CustomerController
	Dashboard      *controllers.DashboardController
	Auth           *controllers.AuthController
	Health         *controllers.HealthController
	AuthMiddleware gin.HandlerFunc
	RequireAuth    bool
	CORSOrigins    []string
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(deps.CORSOrigins)))

	var latency *prometheus.HistogramVec
	if deps.Metrics != nil {
		latency = deps.Metrics.EndpointLatency
	}
	r.Use(config.PerformanceLogger(deps.Logger, latency))

	r.GET("/health", deps.Health.Health)
	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", deps.Auth.Register)
		auth.POST("/login", deps.Auth.Login)
		auth.POST("/logout", deps.AuthMiddleware, deps.Auth.Logout)
		auth.GET("/me", deps.AuthMiddleware, deps.Auth.Me)
	}

	protected := api.Group("")
	if deps.RequireAuth {
		protected.Use(deps.AuthMiddleware)
	}

	customers := protected.Group("/customers")
	{
		customers.GET("", deps.Customers.GetCustomers)
		customers.POST("", deps.Customers.CreateCustomer)
		customers.GET("/:id", deps.Customers.GetCustomer)
		customers.PUT("/:id/status", deps.Customers.UpdateStatus)
		customers.POST("/:id/opportunities", deps.Customers.AddOpportunity)
		customers.PUT("/:id/opportunities/:opportunityId", deps.Customers.UpdateOpportunity)
	}

	protected.GET("/dashboard/summary", deps.Dashboard.GetSummary)

	return r
}

// PrintRoutes writes the route table, one "METHOD path" per line.
func PrintRoutes(w io.Writer, r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Fprintf(w, "%-6s %s\n", route.Method, route.Path)
	}
}
