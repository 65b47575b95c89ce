package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Cobranza-api/pkg/jwt"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un JWT firmado con JWT_SECRET",
		Long: `Emite un Bearer token para integraciones y pruebas. Roles:
  admin     todo, incluidos los barridos batch
  cobrador  registra pagos y gestiona facturas y órdenes
  consulta  solo lectura`,
		Example: "  cobranza token --user svc-cron --role admin --minutes 15",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, _ := cmd.Flags().GetString("user")
			role, _ := cmd.Flags().GetString("role")
			minutes, _ := cmd.Flags().GetInt("minutes")
			switch role {
			case jwt.RoleAdmin, jwt.RoleCobrador, jwt.RoleConsulta:
			default:
				return fmt.Errorf("rol desconocido %q (admin|cobrador|consulta)", role)
			}
			cfg, _, err := loadEnv()
			if err != nil {
				return err
			}
			if minutes <= 0 {
				minutes = cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, user, role, cfg.JWT.Issuer, minutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().String("user", "", "ID del usuario o servicio")
	cmd.Flags().String("role", jwt.RoleConsulta, "admin, cobrador o consulta")
	cmd.Flags().Int("minutes", 0, "expiración en minutos (por defecto JWT_EXPIRATION_MINUTES)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
