package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cosmocloud/stockcopilot/internal/api"
)

var templatesDir string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI and JSON API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&templatesDir, "templates", "", "load HTML templates from this directory instead of the embedded set")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	log := rt.log
	defer log.Sync()

	log.Info("starting stock copilot",
		zap.String("host", rt.cfg.Server.Host),
		zap.Int("port", rt.cfg.Server.Port),
		zap.String("data_source", rt.app.SourceName()),
		zap.Bool("llm", rt.app.LLMEnabled()),
	)

	srvCfg := api.Config{
		Host:           rt.cfg.Server.Host,
		Port:           rt.cfg.Server.Port,
		APIKey:         rt.cfg.Server.APIKey,
		TemplatesDir:   templatesDir,
		RequestTimeout: rt.cfg.Server.RequestTimeout,
	}
	if rt.cfg.Metrics.Enabled {
		srvCfg.MetricsPath = rt.cfg.Metrics.Path
	}

	server, err := api.NewServer(srvCfg, api.Dependencies{App: rt.app, Metrics: rt.metrics}, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info("shutting down stock copilot")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}
