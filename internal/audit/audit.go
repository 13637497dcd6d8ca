// Package audit records every successful transaction on an append-only
// text stream. The stream is write-only: nothing in the system ever
// reads it back, it exists for external inspection.
package audit

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/core"
	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/log"

	"github.com/google/uuid"
)

// Event is one audited transaction.
type Event struct {
	ID        string               `json:"id"`
	Timestamp time.Time            `json:"timestamp"`
	Type      core.TransactionType `json:"type"`
	Amount    float64              `json:"amount"`
	Category  string               `json:"category"`
}

// Publisher forwards audit events to an external broker.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Log appends one line per transaction to a local file and, when a
// publisher is configured, mirrors the event to it. Publishing is best
// effort: the transaction is already committed locally.
type Log struct {
	path      string
	publisher Publisher
	logger    *log.Logger
}

func NewLog(path string, publisher Publisher, logger *log.Logger) *Log {
	return &Log{
		path:      path,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentAudit),
	}
}

// Transaction records one successful add_transaction call.
func (l *Log) Transaction(ctx context.Context, typ core.TransactionType, amount float64, category string) error {
	e := Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Type:      typ,
		Amount:    amount,
		Category:  category,
	}

	if err := l.append(e); err != nil {
		return err
	}

	if l.publisher == nil {
		return nil
	}
	if err := l.publisher.Publish(ctx, e); err != nil {
		l.logger.Warn("Failed to publish audit event",
			log.FieldError, err,
			log.FieldTxType, string(e.Type),
			log.FieldCategory, e.Category)
	}
	return nil
}

func (l *Log) append(e Event) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log %s: %v: %w", l.path, err, core.ErrStoreIO)
	}
	defer f.Close()

	line := fmt.Sprintf("%s - add_transaction: %s $%.2f - %s\n",
		e.Timestamp.Format("2006-01-02 15:04:05"), e.Type, e.Amount, e.Category)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append audit line: %v: %w", err, core.ErrStoreIO)
	}
	return nil
}

// Close releases the publisher, if any.
func (l *Log) Close() error {
	if l.publisher != nil {
		return l.publisher.Close()
	}
	return nil
}
