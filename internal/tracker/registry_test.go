package tracker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/audit"
	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/core"
	applog "github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/log"
	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/store"
)

func testLogger() *applog.Logger {
	return applog.New(applog.DefaultConfig())
}

// newTestRegistry wires a registry over a file store and audit log in
// a temp dir, returning the registry and the paths for reloads.
func newTestRegistry(t *testing.T) (*Registry, string, string) {
	t.Helper()
	dir := t.TempDir()
	snapPath := filepath.Join(dir, "finance_data.json")
	auditPath := filepath.Join(dir, "transaction_log.txt")
	logger := testLogger()
	r := New(
		store.NewFileStore(snapPath, logger),
		audit.NewLog(auditPath, nil, logger),
		logger,
	)
	if err := r.LoadData(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return r, snapPath, auditPath
}

func mustLogin(t *testing.T, r *Registry, username, password string) {
	t.Helper()
	if err := r.RegisterUser(context.Background(), username, password); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Login(username, password); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestRegisterDuplicateLeavesOriginalUntouched(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	ctx := context.Background()
	if err := r.RegisterUser(ctx, "a", "p"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.RegisterUser(ctx, "a", "p2"); !errors.Is(err, core.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
	if err := r.Login("a", "p"); err != nil {
		t.Fatalf("original password must survive the failed registration: %v", err)
	}
}

func TestRegisterPersistsImmediately(t *testing.T) {
	r, snapPath, auditPath := newTestRegistry(t)
	if err := r.RegisterUser(context.Background(), "a", "p"); err != nil {
		t.Fatalf("register: %v", err)
	}

	logger := testLogger()
	reloaded := New(store.NewFileStore(snapPath, logger), audit.NewLog(auditPath, nil, logger), logger)
	if err := reloaded.LoadData(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if err := reloaded.Login("a", "p"); err != nil {
		t.Fatalf("registered user must be on disk: %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	if err := r.Login("ghost", "p"); !errors.Is(err, core.ErrAuthenticationFailed) {
		t.Fatalf("unknown user: expected ErrAuthenticationFailed, got %v", err)
	}
	if err := r.RegisterUser(context.Background(), "a", "p"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Login("a", "wrong"); !errors.Is(err, core.ErrAuthenticationFailed) {
		t.Fatalf("wrong password: expected ErrAuthenticationFailed, got %v", err)
	}
	if r.IsLoggedIn() {
		t.Fatalf("failed login must not open a session")
	}
}

func TestSessionStateMachine(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	if r.IsLoggedIn() {
		t.Fatalf("fresh registry must be anonymous")
	}
	if r.Logout() {
		t.Fatalf("logout without a session must report false")
	}
	mustLogin(t, r, "a", "p")
	if !r.IsLoggedIn() {
		t.Fatalf("expected authenticated state")
	}
	if u, ok := r.CurrentUser(); !ok || u.Username != "a" {
		t.Fatalf("unexpected current user: %v %v", u, ok)
	}
	if !r.Logout() {
		t.Fatalf("logout with a session must report true")
	}
	if r.IsLoggedIn() {
		t.Fatalf("expected anonymous state after logout")
	}
}

func TestSessionRequiredOperations(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	ctx := context.Background()
	if _, err := r.AddTransaction(ctx, "2025-01-01", 10, "Bills", core.Expense, ""); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if _, err := r.Summary(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if err := r.DeleteCategory(ctx, "Bills"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestAddTransactionAuditsAndPersists(t *testing.T) {
	r, snapPath, auditPath := newTestRegistry(t)
	ctx := context.Background()
	mustLogin(t, r, "a", "p")

	tx, err := r.AddTransaction(ctx, "2025-01-07", 42.5, "Groceries", core.Expense, "weekly shop")
	if err != nil {
		t.Fatalf("add transaction: %v", err)
	}
	if tx.ID != 1 {
		t.Fatalf("expected id 1, got %d", tx.ID)
	}

	auditData, err := os.ReadFile(auditPath)
	if err != nil {
		t.Fatalf("audit log must exist: %v", err)
	}
	if !strings.Contains(string(auditData), "add_transaction: expense $42.50 - Groceries") {
		t.Fatalf("unexpected audit line: %q", auditData)
	}

	logger := testLogger()
	reloaded := New(store.NewFileStore(snapPath, logger), nil, logger)
	if err := reloaded.LoadData(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if err := reloaded.Login("a", "p"); err != nil {
		t.Fatalf("login: %v", err)
	}
	got, err := reloaded.FilterByType(core.Expense)
	if err != nil || len(got) != 1 || got[0].Amount != 42.5 {
		t.Fatalf("persisted transaction mismatch: %v err=%v", got, err)
	}
}

func TestAddTransactionInvalidAmountWritesNothing(t *testing.T) {
	r, _, auditPath := newTestRegistry(t)
	mustLogin(t, r, "a", "p")

	if _, err := r.AddTransaction(context.Background(), "2025-01-01", -5, "Bills", core.Expense, ""); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := os.Stat(auditPath); !os.IsNotExist(err) {
		t.Fatalf("rejected transaction must not be audited")
	}
	u, _ := r.CurrentUser()
	if len(u.Transactions) != 0 {
		t.Fatalf("rejected transaction must not be appended")
	}
}

func TestBudgetAndGoalFlow(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	ctx := context.Background()
	mustLogin(t, r, "a", "p")

	b, err := r.AddBudget(ctx, "Bills", 100, core.Monthly)
	if err != nil {
		t.Fatalf("add budget: %v", err)
	}
	if err := r.UpdateBudgetLimit(ctx, b.ID, 50); err != nil {
		t.Fatalf("update budget: %v", err)
	}
	if _, err := r.AddTransaction(ctx, "2025-01-02", 45, "Bills", core.Expense, ""); err != nil {
		t.Fatalf("add transaction: %v", err)
	}
	notes, err := r.BudgetNotifications()
	if err != nil || len(notes) != 1 || !strings.Contains(notes[0], "Budget Warning") {
		t.Fatalf("expected one warning, got %v err=%v", notes, err)
	}

	g, err := r.AddSavingsGoal(ctx, "Vacation", 1000)
	if err != nil {
		t.Fatalf("add goal: %v", err)
	}
	if err := r.AddFundsToGoal(ctx, g.ID, 250); err != nil {
		t.Fatalf("add funds: %v", err)
	}
	if err := r.DeleteBudget(ctx, b.ID); err != nil {
		t.Fatalf("delete budget: %v", err)
	}
	if err := r.DeleteBudget(ctx, b.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCategoryFlowPersistsCascades(t *testing.T) {
	r, snapPath, _ := newTestRegistry(t)
	ctx := context.Background()
	mustLogin(t, r, "a", "p")

	if added, err := r.AddCategory(ctx, "Travel"); err != nil || !added {
		t.Fatalf("add category: %v %v", added, err)
	}
	if added, _ := r.AddCategory(ctx, "Travel"); added {
		t.Fatalf("duplicate category must report false")
	}
	if _, err := r.AddTransaction(ctx, "2025-01-03", 30, "Bills", core.Expense, ""); err != nil {
		t.Fatalf("add transaction: %v", err)
	}
	if _, err := r.AddBudget(ctx, "Bills", 100, core.Monthly); err != nil {
		t.Fatalf("add budget: %v", err)
	}
	if err := r.DeleteCategory(ctx, "Bills"); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	logger := testLogger()
	reloaded := New(store.NewFileStore(snapPath, logger), nil, logger)
	if err := reloaded.LoadData(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if err := reloaded.Login("a", "p"); err != nil {
		t.Fatalf("login: %v", err)
	}
	u, _ := reloaded.CurrentUser()
	if u.Transactions[0].Category != core.FallbackCategory {
		t.Fatalf("cascade must persist: %v", u.Transactions[0])
	}
	if len(u.Budgets) != 0 {
		t.Fatalf("budget cascade must persist: %v", u.Budgets)
	}
	if u.HasCategory("Bills") {
		t.Fatalf("category removal must persist: %v", u.Categories)
	}
}

// failingStore always fails to save, to prove mutations survive store
// outages as reported, non-fatal conditions.
type failingStore struct{}

func (failingStore) Load(context.Context) (map[string]*core.User, error) {
	return map[string]*core.User{}, nil
}

func (failingStore) Save(context.Context, map[string]*core.User) error {
	return core.ErrStoreIO
}

func (failingStore) Close() error { return nil }

func TestSaveFailureDoesNotRollBackMutation(t *testing.T) {
	logger := testLogger()
	r := New(failingStore{}, nil, logger)
	ctx := context.Background()
	if err := r.LoadData(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := r.RegisterUser(ctx, "a", "p"); err != nil {
		t.Fatalf("register must succeed despite save failure: %v", err)
	}
	if err := r.Login("a", "p"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := r.AddTransaction(ctx, "2025-01-01", 10, "Bills", core.Expense, ""); err != nil {
		t.Fatalf("transaction must commit in memory: %v", err)
	}
}

func TestLoadMalformedSnapshotStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	snapPath := filepath.Join(dir, "finance_data.json")
	if err := os.WriteFile(snapPath, []byte("{oops"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	logger := testLogger()
	r := New(store.NewFileStore(snapPath, logger), nil, logger)
	if err := r.LoadData(context.Background()); err == nil {
		t.Fatalf("expected load error")
	}
	// Registry stays usable with an empty set.
	if err := r.RegisterUser(context.Background(), "a", "p"); err != nil {
		t.Fatalf("register after failed load: %v", err)
	}
}
