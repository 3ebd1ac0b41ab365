package cmd

import (
	"fmt"
	"time"

	"clientconnect-backend/app"
	"clientconnect-backend/services"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample customers into an empty store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := app.New(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.Customers.Seed(cmd.Context(), services.SampleCustomers(time.Now().UTC()))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d customers\n", n)
		return nil
	},
}
