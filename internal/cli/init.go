// Package cli provides common startup wiring for cmd/tracker.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/audit"
	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/config"
	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/log"
	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/store"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it, exiting
// the process on validation failure.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		bootstrap := log.New(log.DefaultConfig())
		bootstrap.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// SetupLogger initializes structured logging at the configured level
// and sets it as the default logger.
func SetupLogger(cfg *config.Config) *log.Logger {
	level, _ := cfg.SlogLevel() // Validate already rejected bad levels
	logger := log.New(log.Config{Level: level, Component: log.ComponentApp})
	log.SetDefault(logger)
	return logger
}

// OpenStore opens the configured snapshot backend, exiting the process
// on failure.
func OpenStore(cfg *config.Config, logger *log.Logger) store.Store {
	switch cfg.DataBackend {
	case config.BackendSQLite:
		st, err := store.NewSQLiteStore(cfg.SQLiteDBPath, logger)
		if err != nil {
			logger.Error("Failed to open SQLite store", log.FieldError, err, log.FieldPath, cfg.SQLiteDBPath)
			os.Exit(1)
		}
		logger.Info("Opened SQLite snapshot store", log.FieldPath, cfg.SQLiteDBPath)
		return st
	default:
		logger.Info("Opened file snapshot store", log.FieldPath, cfg.SnapshotPath)
		return store.NewFileStore(cfg.SnapshotPath, logger)
	}
}

// OpenAuditLog wires the audit stream, attaching the AMQP publisher
// when one is configured. A broker that cannot be reached downgrades
// to file-only auditing rather than blocking startup.
func OpenAuditLog(cfg *config.Config, logger *log.Logger) *audit.Log {
	var publisher audit.Publisher
	if cfg.AMQPURL != "" {
		p, err := audit.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to connect AMQP publisher, continuing with file-only audit", log.FieldError, err)
		} else {
			logger.Info("Audit events mirrored to AMQP",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
			publisher = p
		}
	}
	return audit.NewLog(cfg.AuditLogPath, publisher, logger)
}
