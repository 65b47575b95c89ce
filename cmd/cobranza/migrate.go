package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Cobranza-api/internal/infrastructure/postgres"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones del esquema PostgreSQL",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Aplica las migraciones pendientes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, log, err := loadEnv()
				if err != nil {
					return err
				}
				if err := postgres.MigrateUp(cfg.DB.ConnectionString()); err != nil {
					return err
				}
				log.Info().Msg("migraciones aplicadas")
				return nil
			},
		},
		&cobra.Command{
			Use:     "down [pasos]",
			Short:   "Revierte migraciones (por defecto 1)",
			Args:    cobra.MaximumNArgs(1),
			Example: "  cobranza migrate down 1",
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n <= 0 {
						return fmt.Errorf("pasos debe ser un entero positivo")
					}
					steps = n
				}
				cfg, log, err := loadEnv()
				if err != nil {
					return err
				}
				if err := postgres.MigrateDown(cfg.DB.ConnectionString(), steps); err != nil {
					return err
				}
				log.Info().Int("steps", steps).Msg("migraciones revertidas")
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Muestra la versión actual del esquema",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, _, err := loadEnv()
				if err != nil {
					return err
				}
				v, dirty, err := postgres.MigrationVersion(cfg.DB.ConnectionString())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", v, dirty)
				return nil
			},
		},
	)
	return cmd
}
