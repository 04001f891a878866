// Command petcarectl son utilidades de operación: tokens de feed, render de
// feeds desde un bundle YAML y migraciones.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const appName = "petcarectl"

var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Herramientas de operación de pet-care-records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		tokenCmd(),
		feedCmd(),
		migrateCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Imprime la versión",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, version)
			},
		},
	)
	return cmd
}
