// Command cobranza tareas operativas: migraciones, barridos programados y tokens de servicio.
// Pensado para cron/Kubernetes CronJob junto al servidor HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// .env opcional; las variables ya exportadas tienen prioridad.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
