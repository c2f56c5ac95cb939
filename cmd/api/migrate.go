package main

import (
	pg "dogpass-api/internal/adapters/storage/postgres"

	"github.com/spf13/cobra"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica o revierte migraciones de Postgres",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Aplica todas las migraciones pendientes",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			if a.db == nil {
				return errNoDatabase
			}
			if err := pg.MigrateUp(a.db); err != nil {
				return err
			}
			a.log.Info("migrations applied", nil)
			return nil
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Revierte migraciones (default: una)",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			if a.db == nil {
				return errNoDatabase
			}
			if err := pg.MigrateDown(a.db, steps); err != nil {
				return err
			}
			a.log.Info("migrations reverted", map[string]any{"steps": steps})
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "cantidad de migraciones a revertir")
	cmd.AddCommand(down)

	return cmd
}
