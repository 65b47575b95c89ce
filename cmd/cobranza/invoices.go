package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/Cobranza-api/internal/bootstrap"
	"github.com/jhoicas/Cobranza-api/pkg/logger"
)

func newInvoicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "Mantenimiento de facturas",
	}
	overdue := &cobra.Command{
		Use:   "mark-overdue",
		Short: "Pasa a OVERDUE las facturas SENT con vencimiento anterior a la fecha de corte",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, _ := cmd.Flags().GetString("as-of")
			return withServices(cmd.Context(), func(svc *bootstrap.Services, log *logger.Logger) error {
				asOf, err := parseAsOf(raw, svc.Clock.Now())
				if err != nil {
					return err
				}
				out, err := svc.Invoices.MarkOverdue(cmd.Context(), asOf)
				if err != nil {
					return err
				}
				log.Info().Int("updated", len(out.Updated)).Msg("facturas marcadas como vencidas")
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	overdue.Flags().String("as-of", "", "fecha de corte YYYY-MM-DD (por defecto hoy)")
	cmd.AddCommand(overdue)
	return cmd
}
