package store

import (
	"encoding/json"
	"fmt"

	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/core"
)

// Wire records for the persisted snapshot. Required fields are pointers
// so a missing key is distinguishable from a zero value when decoding.

type transactionRecord struct {
	ID          *int                  `json:"id"`
	Date        *string               `json:"date"`
	Amount      *float64              `json:"amount"`
	Category    *string               `json:"category"`
	Type        *core.TransactionType `json:"type"`
	Description string                `json:"description"`
}

type savingsGoalRecord struct {
	ID            *int     `json:"id"`
	Name          *string  `json:"name"`
	TargetAmount  *float64 `json:"target_amount"`
	CurrentAmount *float64 `json:"current_amount,omitempty"`
}

type budgetRecord struct {
	ID       *int     `json:"id"`
	Category *string  `json:"category"`
	Limit    *float64 `json:"limit"`
	Period   string   `json:"period,omitempty"`
}

type userRecord struct {
	Username     *string             `json:"username"`
	Password     *string             `json:"password"`
	Transactions []transactionRecord `json:"transactions"`
	SavingsGoals []savingsGoalRecord `json:"savings_goals"`
	Budgets      []budgetRecord      `json:"budgets"`
	Categories   []string            `json:"categories"`
}

func toUserRecord(u *core.User) userRecord {
	rec := userRecord{
		Username:     &u.Username,
		Password:     &u.Password,
		Transactions: make([]transactionRecord, 0, len(u.Transactions)),
		SavingsGoals: make([]savingsGoalRecord, 0, len(u.SavingsGoals)),
		Budgets:      make([]budgetRecord, 0, len(u.Budgets)),
		Categories:   u.Categories,
	}
	for i := range u.Transactions {
		t := &u.Transactions[i]
		rec.Transactions = append(rec.Transactions, transactionRecord{
			ID:          &t.ID,
			Date:        &t.Date,
			Amount:      &t.Amount,
			Category:    &t.Category,
			Type:        &t.Type,
			Description: t.Description,
		})
	}
	for i := range u.SavingsGoals {
		g := &u.SavingsGoals[i]
		rec.SavingsGoals = append(rec.SavingsGoals, savingsGoalRecord{
			ID:            &g.ID,
			Name:          &g.Name,
			TargetAmount:  &g.TargetAmount,
			CurrentAmount: &g.CurrentAmount,
		})
	}
	for i := range u.Budgets {
		b := &u.Budgets[i]
		rec.Budgets = append(rec.Budgets, budgetRecord{
			ID:       &b.ID,
			Category: &b.Category,
			Limit:    &b.Limit,
			Period:   string(b.Period),
		})
	}
	return rec
}

func (r userRecord) toUser() (*core.User, error) {
	if r.Username == nil || r.Password == nil {
		return nil, fmt.Errorf("user record missing username or password: %w", core.ErrMalformedRecord)
	}
	u := &core.User{
		Username:   *r.Username,
		Password:   *r.Password,
		Categories: r.Categories,
	}
	if u.Categories == nil {
		u.Categories = append([]string(nil), core.DefaultCategories...)
	}
	for i, tr := range r.Transactions {
		if tr.ID == nil || tr.Date == nil || tr.Amount == nil || tr.Category == nil || tr.Type == nil {
			return nil, fmt.Errorf("transaction record %d for %q missing required field: %w", i, u.Username, core.ErrMalformedRecord)
		}
		u.Transactions = append(u.Transactions, core.Transaction{
			ID:          *tr.ID,
			Date:        *tr.Date,
			Amount:      *tr.Amount,
			Category:    *tr.Category,
			Type:        *tr.Type,
			Description: tr.Description,
		})
	}
	for i, gr := range r.SavingsGoals {
		if gr.ID == nil || gr.Name == nil || gr.TargetAmount == nil {
			return nil, fmt.Errorf("savings goal record %d for %q missing required field: %w", i, u.Username, core.ErrMalformedRecord)
		}
		g := core.SavingsGoal{
			ID:           *gr.ID,
			Name:         *gr.Name,
			TargetAmount: *gr.TargetAmount,
		}
		if gr.CurrentAmount != nil {
			g.CurrentAmount = *gr.CurrentAmount
		}
		u.SavingsGoals = append(u.SavingsGoals, g)
	}
	for i, br := range r.Budgets {
		if br.ID == nil || br.Category == nil || br.Limit == nil {
			return nil, fmt.Errorf("budget record %d for %q missing required field: %w", i, u.Username, core.ErrMalformedRecord)
		}
		period := core.Monthly
		if br.Period != "" {
			period = core.BudgetPeriod(br.Period)
		}
		u.Budgets = append(u.Budgets, core.Budget{
			ID:       *br.ID,
			Category: *br.Category,
			Limit:    *br.Limit,
			Period:   period,
		})
	}
	return u, nil
}

// MarshalSnapshot serializes the full user set as one JSON document
// keyed by username. A panic inside serialization is converted into a
// store I/O failure instead of taking the process down.
func MarshalSnapshot(users map[string]*core.User) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("serialize snapshot: %v: %w", r, core.ErrStoreIO)
		}
	}()
	records := make(map[string]userRecord, len(users))
	for name, u := range users {
		records[name] = toUserRecord(u)
	}
	data, err = json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize snapshot: %v: %w", err, core.ErrStoreIO)
	}
	return data, nil
}

// UnmarshalSnapshot reconstructs the user set from a snapshot document.
func UnmarshalSnapshot(data []byte) (map[string]*core.User, error) {
	var records map[string]userRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode snapshot: %v: %w", err, core.ErrMalformedRecord)
	}
	users := make(map[string]*core.User, len(records))
	for name, rec := range records {
		u, err := rec.toUser()
		if err != nil {
			return nil, err
		}
		users[name] = u
	}
	return users, nil
}

// MarshalUser serializes a single user document, used by backends that
// store one document per user.
func MarshalUser(u *core.User) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("serialize user %q: %v: %w", u.Username, r, core.ErrStoreIO)
		}
	}()
	data, err = json.Marshal(toUserRecord(u))
	if err != nil {
		return nil, fmt.Errorf("serialize user %q: %v: %w", u.Username, err, core.ErrStoreIO)
	}
	return data, nil
}

// UnmarshalUser reconstructs a single user document.
func UnmarshalUser(data []byte) (*core.User, error) {
	var rec userRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode user document: %v: %w", err, core.ErrMalformedRecord)
	}
	return rec.toUser()
}
