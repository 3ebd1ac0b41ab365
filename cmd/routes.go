package cmd

import (
	"io"
	"log/slog"
	"time"

	"clientconnect-backend/app"
	"clientconnect-backend/config"
	"clientconnect-backend/routes"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the route table",
	RunE: func(cmd *cobra.Command, args []string) error {
		gin.SetMode(gin.ReleaseMode)

		// The table does not depend on the backends, so an in-memory
		// configuration is enough.
		cfg := &config.Config{
			Auth:  config.AuthConfig{JWTSecret: "routes", TokenExpiry: time.Hour},
			Store: config.StoreConfig{Driver: config.DriverMemory},
		}
		a, err := app.New(cmd.Context(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
		if err != nil {
			return err
		}
		defer a.Close()

		routes.PrintRoutes(cmd.OutOrStdout(), a.Router)
		return nil
	},
}
