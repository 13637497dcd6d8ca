package audit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/core"
	applog "github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/log"
)

type capturePublisher struct {
	events []Event
	err    error
	closed bool
}

func (p *capturePublisher) Publish(_ context.Context, e Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *capturePublisher) Close() error {
	p.closed = true
	return nil
}

func testLogger() *applog.Logger {
	return applog.New(applog.DefaultConfig())
}

func TestTransactionAppendsLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transaction_log.txt")
	l := NewLog(path, nil, testLogger())

	if err := l.Transaction(context.Background(), core.Expense, 42.5, "Groceries"); err != nil {
		t.Fatalf("audit: %v", err)
	}
	if err := l.Transaction(context.Background(), core.Income, 1000, "Other"); err != nil {
		t.Fatalf("audit: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), lines)
	}

	want := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} - add_transaction: expense \$42\.50 - Groceries$`)
	if !want.MatchString(lines[0]) {
		t.Fatalf("line format mismatch: %q", lines[0])
	}
	if !strings.Contains(lines[1], "add_transaction: income $1000.00 - Other") {
		t.Fatalf("unexpected second line: %q", lines[1])
	}
}

func TestTransactionMirrorsToPublisher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transaction_log.txt")
	pub := &capturePublisher{}
	l := NewLog(path, pub, testLogger())

	if err := l.Transaction(context.Background(), core.Expense, 10, "Bills"); err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.events))
	}
	e := pub.events[0]
	if e.ID == "" || e.Type != core.Expense || e.Amount != 10 || e.Category != "Bills" {
		t.Fatalf("unexpected event: %+v", e)
	}

	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !pub.closed {
		t.Fatalf("publisher must be closed with the log")
	}
}

func TestPublisherFailureDoesNotFailAudit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transaction_log.txt")
	pub := &capturePublisher{err: errors.New("broker down")}
	l := NewLog(path, pub, testLogger())

	if err := l.Transaction(context.Background(), core.Expense, 5, "Bills"); err != nil {
		t.Fatalf("publish failure must not fail the audit write: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("audit line must still be written: %v", err)
	}
}

func TestUnwritableAuditPathReportsStoreIO(t *testing.T) {
	l := NewLog(filepath.Join(t.TempDir(), "missing", "log.txt"), nil, testLogger())
	err := l.Transaction(context.Background(), core.Expense, 5, "Bills")
	if !errors.Is(err, core.ErrStoreIO) {
		t.Fatalf("expected ErrStoreIO, got %v", err)
	}
}
