package core

import "fmt"

// FallbackCategory absorbs transactions whose category is deleted.
const FallbackCategory = "Other"

// DefaultCategories seeds every newly registered user.
var DefaultCategories = []string{
	"Groceries", "Bills", "Entertainment", "Transportation", "Housing", FallbackCategory,
}

// User owns one person's transactions, budgets, savings goals and
// category set, and derives every financial view from them.
//
// Category strings on transactions and budgets are not required to
// exist in Categories: deleting or renaming a category never walks
// other users' data, and orphans are tolerated by every computation.
type User struct {
	Username     string
	Password     string
	Transactions []Transaction
	SavingsGoals []SavingsGoal
	Budgets      []Budget
	Categories   []string
}

// NewUser creates a user with the default category set.
func NewUser(username, password string) *User {
	return &User{
		Username:   username,
		Password:   password,
		Categories: append([]string(nil), DefaultCategories...),
	}
}

// Authenticate compares the supplied credential with the stored one.
func (u *User) Authenticate(password string) bool {
	return u.Password == password
}

// TotalIncome sums the amounts of all income transactions.
func (u *User) TotalIncome() float64 {
	var total float64
	for _, t := range u.Transactions {
		if t.Type == Income {
			total += t.Amount
		}
	}
	return total
}

// TotalExpenses sums the amounts of all expense transactions.
func (u *User) TotalExpenses() float64 {
	var total float64
	for _, t := range u.Transactions {
		if t.Type == Expense {
			total += t.Amount
		}
	}
	return total
}

// Balance is total income minus total expenses.
func (u *User) Balance() float64 {
	return u.TotalIncome() - u.TotalExpenses()
}

// ExpensesByCategory groups expense amounts by category string,
// ordered by first appearance in the transaction sequence.
func (u *User) ExpensesByCategory() []CategoryAmount {
	index := make(map[string]int)
	var out []CategoryAmount
	for _, t := range u.Transactions {
		if t.Type != Expense {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, CategoryAmount{Name: t.Category})
		}
		out[i].Amount += t.Amount
	}
	return out
}

// Summarize builds the full overview in one pass over derived views.
func (u *User) Summarize() Summary {
	return Summary{
		TotalIncome:   u.TotalIncome(),
		TotalExpenses: u.TotalExpenses(),
		Balance:       u.Balance(),
		ByCategory:    u.ExpensesByCategory(),
	}
}

// BudgetNotifications reports, per budget in collection order, at most
// one message: an alert once spending reaches the limit, otherwise a
// warning once spending reaches 80% of it.
func (u *User) BudgetNotifications() []string {
	spentBy := make(map[string]float64)
	for _, ca := range u.ExpensesByCategory() {
		spentBy[ca.Name] = ca.Amount
	}

	var notifications []string
	for _, b := range u.Budgets {
		spent := spentBy[b.Category]
		switch {
		case spent >= b.Limit:
			notifications = append(notifications, fmt.Sprintf(
				"Budget Alert: You've exceeded your %s budget of $%.2f. Current spending: $%.2f",
				b.Category, b.Limit, spent))
		case spent >= b.Limit*0.8:
			notifications = append(notifications, fmt.Sprintf(
				"Budget Warning: You're approaching your %s budget of $%.2f. Current spending: $%.2f",
				b.Category, b.Limit, spent))
		}
	}
	return notifications
}

// AddTransaction validates the amount, assigns the next id and appends
// the transaction. Ids follow the count+1 rule: they are never
// renumbered after a deletion, but deleting the highest-id entry frees
// that id for the next append.
func (u *User) AddTransaction(date string, amount float64, category string, typ TransactionType, description string) (Transaction, error) {
	if err := ValidateAmount(amount); err != nil {
		return Transaction{}, err
	}
	t := Transaction{
		ID:          len(u.Transactions) + 1,
		Date:        date,
		Amount:      amount,
		Category:    category,
		Type:        typ,
		Description: description,
	}
	u.Transactions = append(u.Transactions, t)
	return t, nil
}

// DeleteTransaction removes the transaction with the given id.
func (u *User) DeleteTransaction(id int) error {
	for i, t := range u.Transactions {
		if t.ID == id {
			u.Transactions = append(u.Transactions[:i], u.Transactions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("transaction %d: %w", id, ErrNotFound)
}

// FilterByDateRange returns transactions whose date falls within
// [start, end], both zero-padded YYYY-MM-DD, compared lexicographically.
func (u *User) FilterByDateRange(start, end string) []Transaction {
	var out []Transaction
	for _, t := range u.Transactions {
		if start <= t.Date && t.Date <= end {
			out = append(out, t)
		}
	}
	return out
}

// FilterByCategory returns transactions with an exact category match.
func (u *User) FilterByCategory(category string) []Transaction {
	var out []Transaction
	for _, t := range u.Transactions {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// FilterByType returns transactions of the given type.
func (u *User) FilterByType(typ TransactionType) []Transaction {
	var out []Transaction
	for _, t := range u.Transactions {
		if t.Type == typ {
			out = append(out, t)
		}
	}
	return out
}

// AddSavingsGoal assigns the next id and appends the goal. Rejecting a
// non-positive target happens at the input boundary, not here.
func (u *User) AddSavingsGoal(name string, targetAmount float64) SavingsGoal {
	g := SavingsGoal{
		ID:           len(u.SavingsGoals) + 1,
		Name:         name,
		TargetAmount: targetAmount,
	}
	u.SavingsGoals = append(u.SavingsGoals, g)
	return g
}

// AddFundsToGoal credits a goal by id.
func (u *User) AddFundsToGoal(id int, amount float64) error {
	for i := range u.SavingsGoals {
		if u.SavingsGoals[i].ID == id {
			return u.SavingsGoals[i].AddFunds(amount)
		}
	}
	return fmt.Errorf("savings goal %d: %w", id, ErrNotFound)
}

// AddBudget assigns the next id and appends the budget. Uniqueness per
// category is not enforced here; callers look up an existing budget
// with BudgetForCategory and update it instead.
func (u *User) AddBudget(category string, limit float64, period BudgetPeriod) Budget {
	if period == "" {
		period = Monthly
	}
	b := Budget{
		ID:       len(u.Budgets) + 1,
		Category: category,
		Limit:    limit,
		Period:   period,
	}
	u.Budgets = append(u.Budgets, b)
	return b
}

// BudgetForCategory returns the first budget for the category, if any.
func (u *User) BudgetForCategory(category string) (*Budget, bool) {
	for i := range u.Budgets {
		if u.Budgets[i].Category == category {
			return &u.Budgets[i], true
		}
	}
	return nil, false
}

// UpdateBudgetLimit sets a new limit on the budget with the given id.
func (u *User) UpdateBudgetLimit(id int, limit float64) error {
	if err := ValidateAmount(limit); err != nil {
		return err
	}
	for i := range u.Budgets {
		if u.Budgets[i].ID == id {
			u.Budgets[i].Limit = limit
			return nil
		}
	}
	return fmt.Errorf("budget %d: %w", id, ErrNotFound)
}

// DeleteBudget removes the budget with the given id.
func (u *User) DeleteBudget(id int) error {
	for i, b := range u.Budgets {
		if b.ID == id {
			u.Budgets = append(u.Budgets[:i], u.Budgets[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("budget %d: %w", id, ErrNotFound)
}

// HasCategory reports whether the name is in the category set.
func (u *User) HasCategory(name string) bool {
	for _, c := range u.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// AddCategory appends a category name. It reports false if the name is
// already present.
func (u *User) AddCategory(name string) bool {
	if u.HasCategory(name) {
		return false
	}
	u.Categories = append(u.Categories, name)
	return true
}

// RenameCategory renames a category in place and rewrites the category
// string on every transaction and budget that referenced the old name.
func (u *User) RenameCategory(oldName, newName string) error {
	if !u.HasCategory(oldName) {
		return fmt.Errorf("category %q: %w", oldName, ErrNotFound)
	}
	if u.HasCategory(newName) {
		return fmt.Errorf("category %q already exists", newName)
	}
	for i := range u.Transactions {
		if u.Transactions[i].Category == oldName {
			u.Transactions[i].Category = newName
		}
	}
	for i := range u.Budgets {
		if u.Budgets[i].Category == oldName {
			u.Budgets[i].Category = newName
		}
	}
	for i, c := range u.Categories {
		if c == oldName {
			u.Categories[i] = newName
			break
		}
	}
	return nil
}

// DeleteCategory removes a category from the set. Transactions that
// referenced it move to the fallback category; budgets for it are
// removed outright.
func (u *User) DeleteCategory(name string) error {
	if !u.HasCategory(name) {
		return fmt.Errorf("category %q: %w", name, ErrNotFound)
	}
	for i := range u.Transactions {
		if u.Transactions[i].Category == name {
			u.Transactions[i].Category = FallbackCategory
		}
	}
	kept := u.Budgets[:0]
	for _, b := range u.Budgets {
		if b.Category != name {
			kept = append(kept, b)
		}
	}
	u.Budgets = kept
	for i, c := range u.Categories {
		if c == name {
			u.Categories = append(u.Categories[:i], u.Categories[i+1:]...)
			break
		}
	}
	return nil
}
