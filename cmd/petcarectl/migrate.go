package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	pg "pet-care-records/internal/adapters/storage/postgres"
	"pet-care-records/internal/platform/config"
)

func migrateCmd() *cobra.Command {
	var dsn string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes (DB_DSN o --dsn)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				dsn = cfg.DBDSN
			}
			if dsn == "" {
				return errors.New("no DSN: set DB_DSN or --dsn")
			}

			db, err := pg.Open(dsn)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := pg.Migrate(cmd.Context(), db)
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
			}
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "up to date")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "DSN de Postgres (default DB_DSN)")
	return cmd
}
