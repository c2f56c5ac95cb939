package main

import (
	"fmt"
	"os"

	"dogpass-api/internal/platform/eventbus"
	"dogpass-api/internal/router"
	"dogpass-api/internal/seed"

	"github.com/spf13/cobra"
)

func newPopulateCmd(configPath *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "populate",
		Short: "Carga los datos de demostración en la base",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			if a.db == nil {
				return errNoDatabase
			}

			data, err := seed.Default()
			if file != "" {
				raw, rerr := os.ReadFile(file)
				if rerr != nil {
					return fmt.Errorf("read seed %s: %w", file, rerr)
				}
				data, err = seed.Parse(raw)
			}
			if err != nil {
				return err
			}

			svc := router.NewServices(a.db, eventbus.Noop{}, a.log)
			res, err := seed.Populate(cmd.Context(), svc.SeedDeps(a.log), data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "users=%d pets=%d clinics=%d vets=%d services=%d links=%d timeline=%d reactivated=%d\n",
				res.Users, res.Pets, res.Clinics, res.Vets, res.Services, res.Links, res.Timeline, res.Reactivated)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML alternativo (default: datos embebidos)")
	return cmd
}
