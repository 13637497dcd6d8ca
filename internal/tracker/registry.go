// Package tracker owns the user registry and the current session. It
// is the single entry point the presentation layer talks to: every
// state change flows through it and ends in a snapshot save.
package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/audit"
	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/core"
	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/log"
	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/store"
)

// ErrNoSession is returned by session-scoped operations while no user
// is logged in.
var ErrNoSession = errors.New("no user logged in")

// Registry holds all users, the current session and the persistence
// wiring. Single-session, single-process: no locking.
type Registry struct {
	users    map[string]*core.User
	current  *core.User
	store    store.Store
	auditLog *audit.Log
	logger   *log.Logger
}

func New(st store.Store, auditLog *audit.Log, logger *log.Logger) *Registry {
	return &Registry{
		users:    make(map[string]*core.User),
		store:    st,
		auditLog: auditLog,
		logger:   logger.WithComponent(log.ComponentRegistry),
	}
}

// LoadData reads the snapshot. A malformed or unreadable snapshot is
// reported and the registry starts empty; the stored document is left
// in place.
func (r *Registry) LoadData(ctx context.Context) error {
	users, err := r.store.Load(ctx)
	if err != nil {
		r.users = make(map[string]*core.User)
		r.logger.Error("Failed to load snapshot, starting empty", log.FieldError, err)
		return fmt.Errorf("load data: %w", err)
	}
	r.users = users
	return nil
}

// SaveData rewrites the whole snapshot.
func (r *Registry) SaveData(ctx context.Context) error {
	if err := r.store.Save(ctx, r.users); err != nil {
		return fmt.Errorf("save data: %w", err)
	}
	return nil
}

// saveAfterMutation persists the snapshot after a committed state
// change. Store failures are reported, never fatal: the in-memory
// mutation stands.
func (r *Registry) saveAfterMutation(ctx context.Context) {
	if err := r.SaveData(ctx); err != nil {
		r.logger.Error("Failed to save snapshot after mutation", log.FieldError, err)
	}
}

// RegisterUser creates a user with the default categories and persists
// immediately. An existing username fails without any mutation.
func (r *Registry) RegisterUser(ctx context.Context, username, password string) error {
	if _, exists := r.users[username]; exists {
		return fmt.Errorf("register %q: %w", username, core.ErrDuplicateUser)
	}
	r.users[username] = core.NewUser(username, password)
	r.saveAfterMutation(ctx)
	r.logger.Info("User registered", log.FieldUser, username)
	return nil
}

// Login authenticates and opens the session. Unknown usernames and
// wrong passwords fail the same way.
func (r *Registry) Login(username, password string) error {
	u, ok := r.users[username]
	if !ok || !u.Authenticate(password) {
		return fmt.Errorf("login %q: %w", username, core.ErrAuthenticationFailed)
	}
	r.current = u
	r.logger.Info("User logged in", log.FieldUser, username)
	return nil
}

// Logout clears the session and reports whether one existed.
func (r *Registry) Logout() bool {
	if r.current == nil {
		return false
	}
	r.logger.Info("User logged out", log.FieldUser, r.current.Username)
	r.current = nil
	return true
}

// IsLoggedIn reports whether a session is open.
func (r *Registry) IsLoggedIn() bool {
	return r.current != nil
}

// CurrentUser returns the session user, if any.
func (r *Registry) CurrentUser() (*core.User, bool) {
	return r.current, r.current != nil
}

func (r *Registry) sessionUser() (*core.User, error) {
	if r.current == nil {
		return nil, ErrNoSession
	}
	return r.current, nil
}

// AddTransaction validates, appends, audits and persists one
// transaction for the session user. The audit line is written only for
// a committed transaction; an audit write failure is reported but does
// not roll the transaction back.
func (r *Registry) AddTransaction(ctx context.Context, date string, amount float64, category string, typ core.TransactionType, description string) (core.Transaction, error) {
	u, err := r.sessionUser()
	if err != nil {
		return core.Transaction{}, err
	}
	t, err := u.AddTransaction(date, amount, category, typ, description)
	if err != nil {
		return core.Transaction{}, err
	}
	if r.auditLog != nil {
		if err := r.auditLog.Transaction(ctx, t.Type, t.Amount, t.Category); err != nil {
			r.logger.Warn("Failed to write audit line", log.FieldError, err)
		}
	}
	r.saveAfterMutation(ctx)
	r.logger.Info("Transaction added",
		log.FieldUser, u.Username,
		log.FieldTxID, t.ID,
		log.FieldTxType, string(t.Type),
		log.FieldAmount, t.Amount,
		log.FieldCategory, t.Category)
	return t, nil
}

// DeleteTransaction removes a transaction by id and persists.
func (r *Registry) DeleteTransaction(ctx context.Context, id int) error {
	u, err := r.sessionUser()
	if err != nil {
		return err
	}
	if err := u.DeleteTransaction(id); err != nil {
		return err
	}
	r.saveAfterMutation(ctx)
	return nil
}

// FilterByDateRange returns the session user's transactions inside the
// inclusive [start, end] date range.
func (r *Registry) FilterByDateRange(start, end string) ([]core.Transaction, error) {
	u, err := r.sessionUser()
	if err != nil {
		return nil, err
	}
	return u.FilterByDateRange(start, end), nil
}

// FilterByCategory returns the session user's transactions for one category.
func (r *Registry) FilterByCategory(category string) ([]core.Transaction, error) {
	u, err := r.sessionUser()
	if err != nil {
		return nil, err
	}
	return u.FilterByCategory(category), nil
}

// FilterByType returns the session user's transactions of one type.
func (r *Registry) FilterByType(typ core.TransactionType) ([]core.Transaction, error) {
	u, err := r.sessionUser()
	if err != nil {
		return nil, err
	}
	return u.FilterByType(typ), nil
}

// Summary returns the session user's financial overview.
func (r *Registry) Summary() (core.Summary, error) {
	u, err := r.sessionUser()
	if err != nil {
		return core.Summary{}, err
	}
	return u.Summarize(), nil
}

// BudgetNotifications returns the session user's budget messages.
func (r *Registry) BudgetNotifications() ([]string, error) {
	u, err := r.sessionUser()
	if err != nil {
		return nil, err
	}
	return u.BudgetNotifications(), nil
}

// AddSavingsGoal appends a goal and persists. Rejecting non-positive
// targets happens before this call, at the input boundary.
func (r *Registry) AddSavingsGoal(ctx context.Context, name string, targetAmount float64) (core.SavingsGoal, error) {
	u, err := r.sessionUser()
	if err != nil {
		return core.SavingsGoal{}, err
	}
	g := u.AddSavingsGoal(name, targetAmount)
	r.saveAfterMutation(ctx)
	r.logger.Info("Savings goal added", log.FieldUser, u.Username, log.FieldGoalID, g.ID)
	return g, nil
}

// AddFundsToGoal credits a goal by id and persists.
func (r *Registry) AddFundsToGoal(ctx context.Context, id int, amount float64) error {
	u, err := r.sessionUser()
	if err != nil {
		return err
	}
	if err := u.AddFundsToGoal(id, amount); err != nil {
		return err
	}
	r.saveAfterMutation(ctx)
	return nil
}

// AddBudget appends a budget and persists.
func (r *Registry) AddBudget(ctx context.Context, category string, limit float64, period core.BudgetPeriod) (core.Budget, error) {
	u, err := r.sessionUser()
	if err != nil {
		return core.Budget{}, err
	}
	b := u.AddBudget(category, limit, period)
	r.saveAfterMutation(ctx)
	r.logger.Info("Budget added", log.FieldUser, u.Username, log.FieldBudgetID, b.ID, log.FieldCategory, b.Category)
	return b, nil
}

// UpdateBudgetLimit sets a new limit on a budget by id and persists.
func (r *Registry) UpdateBudgetLimit(ctx context.Context, id int, limit float64) error {
	u, err := r.sessionUser()
	if err != nil {
		return err
	}
	if err := u.UpdateBudgetLimit(id, limit); err != nil {
		return err
	}
	r.saveAfterMutation(ctx)
	return nil
}

// DeleteBudget removes a budget by id and persists.
func (r *Registry) DeleteBudget(ctx context.Context, id int) error {
	u, err := r.sessionUser()
	if err != nil {
		return err
	}
	if err := u.DeleteBudget(id); err != nil {
		return err
	}
	r.saveAfterMutation(ctx)
	return nil
}

// AddCategory adds a category to the session user's set and persists.
// It reports false when the category was already present.
func (r *Registry) AddCategory(ctx context.Context, name string) (bool, error) {
	u, err := r.sessionUser()
	if err != nil {
		return false, err
	}
	if !u.AddCategory(name) {
		return false, nil
	}
	r.saveAfterMutation(ctx)
	return true, nil
}

// RenameCategory renames a category, rewriting references, and persists.
func (r *Registry) RenameCategory(ctx context.Context, oldName, newName string) error {
	u, err := r.sessionUser()
	if err != nil {
		return err
	}
	if err := u.RenameCategory(oldName, newName); err != nil {
		return err
	}
	r.saveAfterMutation(ctx)
	return nil
}

// DeleteCategory deletes a category with its cascades and persists.
func (r *Registry) DeleteCategory(ctx context.Context, name string) error {
	u, err := r.sessionUser()
	if err != nil {
		return err
	}
	if err := u.DeleteCategory(name); err != nil {
		return err
	}
	r.saveAfterMutation(ctx)
	return nil
}

// Close releases the store and the audit log.
func (r *Registry) Close() error {
	var errs []error
	if r.auditLog != nil {
		if err := r.auditLog.Close(); err != nil {
			errs = append(errs, fmt.Errorf("audit: %w", err))
		}
	}
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close registry: %v", errs)
	}
	return nil
}
