package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/agent"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/config"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/store"
)

const version = "0.1.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "agent",
	Short: "Agente agrícola para el Casanare",
	Long: `Consulta en lenguaje natural la telemetría de sensores de campo y
obtén análisis climático y recomendaciones de cultivo para los
llanos del Casanare.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "ruta del archivo de configuración YAML")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(serveCmd)
}

// cliLogger keeps interactive output clean: warnings and errors only,
// on stderr.
func cliLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// newCLIOrchestrator opens the telemetry store and builds an orchestrator
// for one-shot CLI use. The caller must Close the returned store.
func newCLIOrchestrator() (*agent.Orchestrator, *store.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return agent.New(st, cliLogger(), nil, agent.WithUserLocation(cfg.DefaultLocation)), st, nil
}
