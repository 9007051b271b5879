package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	httpadapter "github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/adapter/http"
	kafkaadapter "github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/adapter/kafka"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/agent"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/config"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/ingest"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/observability"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Inicia el servicio HTTP y la ingesta de telemetría",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	// main wires SIGINT/SIGTERM into the command context; cancelling it
	// stops both loops.
	ctx := cmd.Context()

	readiness := &serveReadiness{store: st}

	var reader *kafkaadapter.Reader
	if cfg.IngestEnabled() {
		reader = kafkaadapter.NewReader(cfg, logger)
		pipeline := ingest.New(reader, st, logger, metrics, cfg.BatchSize)
		readiness.ingest = pipeline
		go func() {
			if err := pipeline.Run(ctx); err != nil {
				logger.Error("ingest error", "error", err)
			}
		}()
	} else {
		logger.Info("ingest disabled, no kafka brokers configured")
	}

	orchestrator := agent.New(st, logger, metrics, agent.WithUserLocation(cfg.DefaultLocation))
	srv := httpadapter.NewServer(cfg.HTTPAddr, orchestrator, readiness, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

// serveReadiness gates /readyz on the store; when ingest is enabled it
// additionally waits for the first stored reading.
type serveReadiness struct {
	store  *store.Store
	ingest *ingest.Pipeline
}

func (r *serveReadiness) CheckReadiness(ctx context.Context) error {
	if err := r.store.Ping(ctx); err != nil {
		return err
	}
	if r.ingest != nil {
		return r.ingest.CheckReadiness(ctx)
	}
	return nil
}
