package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Cobranza-api/internal/application/dto"
	"github.com/jhoicas/Cobranza-api/internal/bootstrap"
	"github.com/jhoicas/Cobranza-api/pkg/config"
	"github.com/jhoicas/Cobranza-api/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "cobranza",
	Short: "Tareas operativas de Cobranza API",
	Long: `cobranza ejecuta las tareas que no pasan por HTTP: migraciones de esquema,
generación de facturas de órdenes recurrentes, marcado de vencidas y emisión de tokens.

Lee la misma configuración que el servidor (variables de entorno o .env).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(newMigrateCmd(), newScheduleCmd(), newInvoicesCmd(), newTokenCmd())
}

// loadEnv carga configuración y logger para un subcomando.
func loadEnv() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	return cfg, log, nil
}

// withServices construye los casos de uso, ejecuta fn y libera el almacenamiento.
func withServices(ctx context.Context, fn func(*bootstrap.Services, *logger.Logger) error) error {
	cfg, log, err := loadEnv()
	if err != nil {
		return err
	}
	svc, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.Close()
	return fn(svc, log)
}

// parseAsOf interpreta --as-of (YYYY-MM-DD); vacío es hoy.
func parseAsOf(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return now, nil
	}
	t, err := time.Parse(dto.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--as-of debe tener formato YYYY-MM-DD: %w", err)
	}
	return t, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
