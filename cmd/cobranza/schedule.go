package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/Cobranza-api/internal/bootstrap"
	"github.com/jhoicas/Cobranza-api/pkg/logger"
)

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Facturación de órdenes recurrentes",
	}
	run := &cobra.Command{
		Use:   "run",
		Short: "Genera las facturas de las órdenes ACTIVE con fecha de facturación vencida",
		Example: `  # Barrido diario
  cobranza schedule run

  # Reproceso a una fecha de corte
  cobranza schedule run --as-of 2025-03-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, _ := cmd.Flags().GetString("as-of")
			return withServices(cmd.Context(), func(svc *bootstrap.Services, log *logger.Logger) error {
				asOf, err := parseAsOf(raw, svc.Clock.Now())
				if err != nil {
					return err
				}
				out, err := svc.Orders.GenerateDueInvoices(cmd.Context(), asOf)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	run.Flags().String("as-of", "", "fecha de corte YYYY-MM-DD (por defecto hoy)")
	cmd.AddCommand(run)
	return cmd
}
