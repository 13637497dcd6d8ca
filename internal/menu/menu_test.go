package menu

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/audit"
	applog "github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/log"
	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/store"
	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/tracker"
)

func newScriptedMenu(t *testing.T, script ...string) (*Menu, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	logger := applog.New(applog.DefaultConfig())
	reg := tracker.New(
		store.NewFileStore(filepath.Join(dir, "finance_data.json"), logger),
		audit.NewLog(filepath.Join(dir, "transaction_log.txt"), nil, logger),
		logger,
	)
	if err := reg.LoadData(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(script, "\n") + "\n")
	return New(reg, nil, dir, in, &out, logger), &out
}

func TestRegisterLoginTransactionFlow(t *testing.T) {
	m, out := newScriptedMenu(t,
		"1", "alice", "pw", // register
		"2", "alice", "pw", // login
		"1", "2", "", "50", "1", "lunch", // add expense, today, category #1
		"3", // view summary
		"8", // exit
	)
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	output := out.String()
	for _, want := range []string{
		"registered successfully",
		"Welcome, alice!",
		"Expense added successfully!",
		"Total Expenses: $50.00",
		"Current Balance: $-50.00",
		"Groceries: $50.00",
		"Thank you for using Personal Finance Tracker!",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q:\n%s", want, output)
		}
	}
}

func TestLoginFailureShowsError(t *testing.T) {
	m, out := newScriptedMenu(t,
		"2", "ghost", "pw", // login against empty registry
		"3", // exit
	)
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "authentication failed") {
		t.Fatalf("expected authentication error in output:\n%s", out.String())
	}
}

func TestInvalidAmountIsReportedNotFatal(t *testing.T) {
	m, out := newScriptedMenu(t,
		"1", "alice", "pw",
		"2", "alice", "pw",
		"1", "2", "", "abc", // non-numeric amount aborts the add
		"8",
	)
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "amount must be a positive number") {
		t.Fatalf("expected amount error in output:\n%s", out.String())
	}
}

func TestBudgetUpdateOfferedForExistingCategory(t *testing.T) {
	m, out := newScriptedMenu(t,
		"1", "alice", "pw",
		"2", "alice", "pw",
		"5", "2", "2", "100", "monthly", // add budget on category #2 (Bills)
		"2", "2", "150", "y", // same category again: accept the update
		"4", // back
		"8",
	)
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	output := out.String()
	if !strings.Contains(output, "Budget for 'Bills' added successfully!") {
		t.Fatalf("expected budget add in output:\n%s", output)
	}
	if !strings.Contains(output, "A budget for 'Bills' already exists.") {
		t.Fatalf("expected duplicate offer in output:\n%s", output)
	}
	if !strings.Contains(output, "Budget for 'Bills' updated to $150.00") {
		t.Fatalf("expected update confirmation in output:\n%s", output)
	}
}
