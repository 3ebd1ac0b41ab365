package cmd

import (
	"fmt"

	"clientconnect-backend/utils"

	"github.com/spf13/cobra"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Print a random value suitable for JWT_SECRET",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), utils.GenerateJWTSecret())
		return nil
	},
}
