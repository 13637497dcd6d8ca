package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Backends supported for the snapshot store.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type Config struct {
	// Snapshot store
	DataBackend  string
	SnapshotPath string
	SQLiteDBPath string

	// Audit
	AuditLogPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Charts
	ChartOutputDir string

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		DataBackend:  getEnv("TRACKER_BACKEND", BackendFile),
		SnapshotPath: getEnv("TRACKER_DATA_FILE", "finance_data.json"),
		SQLiteDBPath: getEnv("TRACKER_SQLITE_PATH", "./data/tracker.db"),

		AuditLogPath: getEnv("TRACKER_AUDIT_LOG", "transaction_log.txt"),
		AMQPURL:      getEnv("TRACKER_AMQP_URL", ""),
		AMQPExchange: getEnv("TRACKER_AMQP_EXCHANGE", "finance_tracker"),
		AMQPQueue:    getEnv("TRACKER_AMQP_QUEUE", "audit_events"),

		ChartOutputDir: getEnv("TRACKER_CHART_DIR", "."),

		LogLevel: getEnv("TRACKER_LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration and returns one error listing
// every problem found.
func (c *Config) Validate() error {
	var errors []string

	switch c.DataBackend {
	case BackendFile:
		if c.SnapshotPath == "" {
			errors = append(errors, "snapshot path cannot be empty when using the file backend")
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using the sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of [%s %s]", c.DataBackend, BackendFile, BackendSQLite))
	}

	if c.AuditLogPath == "" {
		errors = append(errors, "audit log path cannot be empty")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if _, err := c.SlogLevel(); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// SlogLevel maps the configured level string onto a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
