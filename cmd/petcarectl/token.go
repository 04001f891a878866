package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pet-care-records/internal/calendar"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Tokens de feed de calendario",
	}

	var count int
	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Genera tokens nuevos",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return errors.New("--count must be >= 1")
			}
			for i := 0; i < count; i++ {
				tok, err := calendar.GenerateToken()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), tok)
			}
			return nil
		},
	}
	newCmd.Flags().IntVarP(&count, "count", "n", 1, "Cantidad de tokens")

	checkCmd := &cobra.Command{
		Use:   "check <token>",
		Short: "Valida la forma de un token (sin consultar la base)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !calendar.ValidToken(args[0]) {
				return fmt.Errorf("invalid token: want %d chars of [A-Za-z0-9_-]", calendar.TokenLength)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}

	cmd.AddCommand(newCmd, checkCmd)
	return cmd
}
