package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/charts"
	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/cli"
	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/log"
	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/menu"
	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/tracker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg)

	st := cli.OpenStore(cfg, logger)
	auditLog := cli.OpenAuditLog(cfg, logger)

	reg := tracker.New(st, auditLog, logger)
	ctx := context.Background()
	if err := reg.LoadData(ctx); err != nil {
		logger.Error("Starting with empty data", log.FieldError, err)
	}

	// Best-effort save when the session is interrupted.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		if err := reg.SaveData(ctx); err != nil {
			logger.Error("Failed to save on shutdown", log.FieldError, err)
		}
		if err := reg.Close(); err != nil {
			logger.Error("Failed to close registry", log.FieldError, err)
		}
		os.Exit(0)
	}()

	m := menu.New(reg, charts.NewGenerator(), cfg.ChartOutputDir, os.Stdin, os.Stdout, logger)
	if err := m.Run(ctx); err != nil {
		logger.Error("Menu loop failed", log.FieldError, err)
	}

	if err := reg.Close(); err != nil {
		logger.Error("Failed to close registry", log.FieldError, err)
		os.Exit(1)
	}
}
