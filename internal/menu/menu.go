// Package menu is the interactive console flow. It is a thin layer:
// every state change goes through the registry, and all validation it
// performs is input parsing at the boundary.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/charts"
	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/core"
	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/log"
	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/tracker"
)

type Menu struct {
	reg      *tracker.Registry
	charts   *charts.Generator
	chartDir string
	in       *bufio.Scanner
	stdin    io.Reader
	out      io.Writer
	logger   *log.Logger
	eof      bool
}

func New(reg *tracker.Registry, gen *charts.Generator, chartDir string, stdin io.Reader, out io.Writer, logger *log.Logger) *Menu {
	return &Menu{
		reg:      reg,
		charts:   gen,
		chartDir: chartDir,
		in:       bufio.NewScanner(stdin),
		stdin:    stdin,
		out:      out,
		logger:   logger.WithComponent(log.ComponentMenu),
	}
}

// Run drives the blocking read-evaluate loop until the user exits.
func (m *Menu) Run(ctx context.Context) error {
	for !m.eof {
		if !m.reg.IsLoggedIn() {
			if done := m.anonymousMenu(ctx); done {
				return nil
			}
			continue
		}
		if done := m.mainMenu(ctx); done {
			// Best-effort save on the way out.
			if err := m.reg.SaveData(ctx); err != nil {
				m.logger.Error("Failed to save on exit", log.FieldError, err)
			}
			return nil
		}
	}
	// Input stream closed without an explicit exit.
	if err := m.reg.SaveData(ctx); err != nil {
		m.logger.Error("Failed to save on exit", log.FieldError, err)
	}
	return nil
}

func (m *Menu) anonymousMenu(ctx context.Context) (exit bool) {
	m.printf("\n--- Personal Finance Tracker ---\n")
	m.printf("1. Register\n2. Login\n3. Exit\n")
	switch m.prompt("Enter your choice (1-3): ") {
	case "1":
		username := m.prompt("Enter a username: ")
		password := m.promptPassword("Enter a password: ")
		if err := m.reg.RegisterUser(ctx, username, password); err != nil {
			m.printf("Error: %v\n", err)
			return false
		}
		m.printf("User '%s' registered successfully.\n", username)
	case "2":
		username := m.prompt("Enter your username: ")
		password := m.promptPassword("Enter your password: ")
		if err := m.reg.Login(username, password); err != nil {
			m.printf("Error: %v\n", err)
			return false
		}
		m.printf("Welcome, %s!\n", username)
		m.showNotifications()
	case "3":
		m.printf("Thank you for using Personal Finance Tracker!\n")
		return true
	default:
		m.printf("Invalid choice. Please try again.\n")
	}
	return false
}

func (m *Menu) mainMenu(ctx context.Context) (exit bool) {
	summary, err := m.reg.Summary()
	if err != nil {
		return false
	}
	m.printf("\n--- Personal Finance Tracker ---\n")
	m.printf("Current Balance: $%.2f\n", summary.Balance)
	m.printf("1. Add Transaction\n2. View Transactions\n3. View Summary\n4. Manage Savings Goals\n5. Manage Budgets\n6. Manage Categories\n7. Logout\n8. Exit\n")
	switch m.prompt("Enter your choice (1-8): ") {
	case "1":
		m.addTransaction(ctx)
	case "2":
		m.viewTransactions(ctx)
	case "3":
		m.viewSummary()
	case "4":
		m.savingsGoals(ctx)
	case "5":
		m.budgets(ctx)
	case "6":
		m.categories(ctx)
	case "7":
		m.reg.Logout()
		m.printf("Goodbye!\n")
	case "8":
		m.printf("Thank you for using Personal Finance Tracker!\n")
		return true
	default:
		m.printf("Invalid choice. Please try again.\n")
	}
	return false
}

func (m *Menu) showNotifications() {
	notes, err := m.reg.BudgetNotifications()
	if err != nil || len(notes) == 0 {
		return
	}
	m.printf("\n--- Budget Notifications ---\n")
	for _, n := range notes {
		m.printf("%s\n", n)
	}
}

func (m *Menu) addTransaction(ctx context.Context) {
	m.printf("\n--- Add Transaction ---\n1. Add Income\n2. Add Expense\n3. Back\n")
	choice := m.prompt("Enter your choice (1-3): ")
	var typ core.TransactionType
	switch choice {
	case "1":
		typ = core.Income
	case "2":
		typ = core.Expense
	case "3":
		return
	default:
		m.printf("Invalid choice. Please try again.\n")
		return
	}

	date := m.prompt("Enter date (YYYY-MM-DD) or leave blank for today: ")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	amount, err := core.ParseAmount(m.prompt("Enter amount: $"))
	if err != nil {
		m.printf("Error: %v\n", err)
		return
	}
	category := m.chooseCategory(ctx, true)
	if category == "" {
		return
	}
	description := m.prompt("Enter description (optional): ")

	if _, err := m.reg.AddTransaction(ctx, date, amount, category, typ, description); err != nil {
		m.printf("Error: %v\n", err)
		return
	}
	m.printf("%s added successfully!\n", capitalize(string(typ)))
	m.showNotifications()
}

// chooseCategory lets the user pick by number or name. Unknown names
// are offered for addition; declining falls back to the default
// category when allowFallback is set, otherwise aborts.
func (m *Menu) chooseCategory(ctx context.Context, allowFallback bool) string {
	u, ok := m.reg.CurrentUser()
	if !ok {
		return ""
	}
	m.printf("\nAvailable Categories:\n")
	for i, c := range u.Categories {
		m.printf("%d. %s\n", i+1, c)
	}
	choice := m.prompt("Enter category number or name: ")
	category := choice
	if idx, err := strconv.Atoi(choice); err == nil && idx >= 1 && idx <= len(u.Categories) {
		category = u.Categories[idx-1]
	}
	if u.HasCategory(category) {
		return category
	}
	answer := m.prompt(fmt.Sprintf("Category '%s' doesn't exist. Add it to your categories? (y/n): ", category))
	if strings.EqualFold(answer, "y") {
		if _, err := m.reg.AddCategory(ctx, category); err == nil {
			m.printf("Category '%s' added!\n", category)
		}
		return category
	}
	if allowFallback {
		return core.FallbackCategory
	}
	return ""
}

func (m *Menu) viewTransactions(ctx context.Context) {
	u, ok := m.reg.CurrentUser()
	if !ok || len(u.Transactions) == 0 {
		m.printf("\nNo transactions found.\n")
		return
	}
	m.printTransactions(u.Transactions)

	for !m.eof {
		m.printf("\n1. Filter Transactions\n2. Delete Transaction\n3. Back\n")
		switch m.prompt("Enter your choice (1-3): ") {
		case "1":
			m.filterTransactions()
		case "2":
			id, err := strconv.Atoi(m.prompt("Enter ID of transaction to delete: "))
			if err != nil {
				m.printf("Please enter a valid ID.\n")
				continue
			}
			if err := m.reg.DeleteTransaction(ctx, id); err != nil {
				m.printf("Error: %v\n", err)
				continue
			}
			m.printf("Transaction deleted.\n")
		case "3":
			return
		default:
			m.printf("Invalid choice. Please try again.\n")
		}
	}
}

func (m *Menu) filterTransactions() {
	m.printf("\n--- Filter Transactions ---\n1. By Date Range\n2. By Category\n3. By Type (Income/Expense)\n4. Back\n")
	var (
		filtered []core.Transaction
		err      error
	)
	switch m.prompt("Enter your choice (1-4): ") {
	case "1":
		start := m.prompt("Enter start date (YYYY-MM-DD): ")
		end := m.prompt("Enter end date (YYYY-MM-DD): ")
		filtered, err = m.reg.FilterByDateRange(start, end)
	case "2":
		category := m.prompt("Enter category name: ")
		filtered, err = m.reg.FilterByCategory(category)
	case "3":
		typ, parseErr := core.ParseTransactionType(m.prompt("Enter type (income/expense): "))
		if parseErr != nil {
			m.printf("Error: %v\n", parseErr)
			return
		}
		filtered, err = m.reg.FilterByType(typ)
	case "4":
		return
	default:
		m.printf("Invalid choice. Please try again.\n")
		return
	}
	if err != nil {
		m.printf("Error: %v\n", err)
		return
	}
	if len(filtered) == 0 {
		m.printf("\nNo matching transactions found.\n")
		return
	}
	m.printf("\n--- Filtered Transactions ---\n")
	m.printTransactions(filtered)
}

func (m *Menu) printTransactions(txs []core.Transaction) {
	m.printf("ID | Date | Type | Amount | Category | Description\n")
	m.printf("%s\n", strings.Repeat("-", 60))
	for _, t := range txs {
		m.printf("%d | %s | %s | $%.2f | %s | %s\n",
			t.ID, t.Date, capitalize(string(t.Type)), t.Amount, t.Category, t.Description)
	}
}

func (m *Menu) viewSummary() {
	summary, err := m.reg.Summary()
	if err != nil {
		return
	}
	m.printf("\n--- Financial Summary ---\n")
	m.printf("Total Income: $%.2f\n", summary.TotalIncome)
	m.printf("Total Expenses: $%.2f\n", summary.TotalExpenses)
	m.printf("Current Balance: $%.2f\n", summary.Balance)

	if len(summary.ByCategory) == 0 {
		m.printf("\nNo expenses recorded yet.\n")
		return
	}
	m.printf("\n--- Expenses by Category ---\n")
	for _, ca := range summary.ByCategory {
		m.printf("%s: $%.2f\n", ca.Name, ca.Amount)
	}

	if m.charts == nil {
		return
	}
	if answer := m.prompt("\nExport category chart as PNG? (y/n): "); !strings.EqualFold(answer, "y") {
		return
	}
	data, err := m.charts.CategoryBreakdown(summary.ByCategory)
	if err != nil || data == nil {
		m.printf("Could not render chart.\n")
		return
	}
	path := filepath.Join(m.chartDir, fmt.Sprintf("expenses_%s.png", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		m.printf("Error writing chart: %v\n", err)
		return
	}
	m.printf("Chart saved to %s\n", path)
}

func (m *Menu) savingsGoals(ctx context.Context) {
	for !m.eof {
		m.printf("\n--- Savings Goals ---\n1. View Savings Goals\n2. Add New Savings Goal\n3. Add Funds to a Goal\n4. Back\n")
		switch m.prompt("Enter your choice (1-4): ") {
		case "1":
			m.printGoals()
		case "2":
			name := m.prompt("Enter goal name: ")
			target, err := core.ParseAmount(m.prompt("Enter target amount: $"))
			if err != nil {
				m.printf("Error: %v\n", err)
				continue
			}
			if _, err := m.reg.AddSavingsGoal(ctx, name, target); err != nil {
				m.printf("Error: %v\n", err)
				continue
			}
			m.printf("Savings goal '%s' added successfully!\n", name)
		case "3":
			if !m.printGoals() {
				continue
			}
			id, err := strconv.Atoi(m.prompt("\nEnter goal ID to add funds: "))
			if err != nil {
				m.printf("Please enter a valid ID.\n")
				continue
			}
			amount, err := core.ParseAmount(m.prompt("Enter amount to add: $"))
			if err != nil {
				m.printf("Error: %v\n", err)
				continue
			}
			if err := m.reg.AddFundsToGoal(ctx, id, amount); err != nil {
				m.printf("Error: %v\n", err)
				continue
			}
			m.printf("$%.2f added.\n", amount)
		case "4":
			return
		default:
			m.printf("Invalid choice. Please try again.\n")
		}
	}
}

func (m *Menu) printGoals() bool {
	u, ok := m.reg.CurrentUser()
	if !ok || len(u.SavingsGoals) == 0 {
		m.printf("\nNo savings goals found.\n")
		return false
	}
	m.printf("\nID | Name | Target Amount | Current Amount | Progress\n")
	m.printf("%s\n", strings.Repeat("-", 60))
	for _, g := range u.SavingsGoals {
		m.printf("%d | %s | $%.2f | $%.2f | %.2f%%\n",
			g.ID, g.Name, g.TargetAmount, g.CurrentAmount, g.ProgressPercentage())
	}
	return true
}

func (m *Menu) budgets(ctx context.Context) {
	for !m.eof {
		m.printf("\n--- Budgets ---\n1. View Budgets\n2. Add New Budget\n3. Delete Budget\n4. Back\n")
		switch m.prompt("Enter your choice (1-4): ") {
		case "1":
			m.printBudgets()
		case "2":
			m.addBudget(ctx)
		case "3":
			if !m.printBudgets() {
				continue
			}
			id, err := strconv.Atoi(m.prompt("\nEnter budget ID to delete: "))
			if err != nil {
				m.printf("Please enter a valid ID.\n")
				continue
			}
			if err := m.reg.DeleteBudget(ctx, id); err != nil {
				m.printf("Error: %v\n", err)
				continue
			}
			m.printf("Budget deleted.\n")
		case "4":
			return
		default:
			m.printf("Invalid choice. Please try again.\n")
		}
	}
}

func (m *Menu) addBudget(ctx context.Context) {
	category := m.chooseCategory(ctx, false)
	if category == "" {
		return
	}
	limit, err := core.ParseAmount(m.prompt("Enter budget limit: $"))
	if err != nil {
		m.printf("Error: %v\n", err)
		return
	}

	// One budget per category: offer an update when one already exists.
	if u, ok := m.reg.CurrentUser(); ok {
		if existing, found := u.BudgetForCategory(category); found {
			answer := m.prompt(fmt.Sprintf("A budget for '%s' already exists. Update it? (y/n): ", category))
			if strings.EqualFold(answer, "y") {
				if err := m.reg.UpdateBudgetLimit(ctx, existing.ID, limit); err != nil {
					m.printf("Error: %v\n", err)
					return
				}
				m.printf("Budget for '%s' updated to $%.2f\n", category, limit)
			}
			return
		}
	}

	period := core.ParsePeriod(m.prompt("Enter budget period (monthly/weekly/yearly) [default: monthly]: "))
	if _, err := m.reg.AddBudget(ctx, category, limit, period); err != nil {
		m.printf("Error: %v\n", err)
		return
	}
	m.printf("Budget for '%s' added successfully!\n", category)
}

func (m *Menu) printBudgets() bool {
	u, ok := m.reg.CurrentUser()
	if !ok || len(u.Budgets) == 0 {
		m.printf("\nNo budgets found.\n")
		return false
	}
	spentBy := make(map[string]float64)
	for _, ca := range u.ExpensesByCategory() {
		spentBy[ca.Name] = ca.Amount
	}
	m.printf("\nID | Category | Limit | Current Spending | Status\n")
	m.printf("%s\n", strings.Repeat("-", 70))
	for _, b := range u.Budgets {
		spent := spentBy[b.Category]
		status := "OK"
		switch {
		case spent >= b.Limit:
			status = "EXCEEDED"
		case spent >= b.Limit*0.8:
			status = "WARNING"
		}
		m.printf("%d | %s | $%.2f | $%.2f | %s\n", b.ID, b.Category, b.Limit, spent, status)
	}
	return true
}

func (m *Menu) categories(ctx context.Context) {
	for !m.eof {
		u, ok := m.reg.CurrentUser()
		if !ok {
			return
		}
		m.printf("\n--- Manage Categories ---\nCurrent Categories:\n")
		for i, c := range u.Categories {
			m.printf("%d. %s\n", i+1, c)
		}
		m.printf("\n1. Add Category\n2. Rename Category\n3. Delete Category\n4. Back\n")
		switch m.prompt("Enter your choice (1-4): ") {
		case "1":
			name := m.prompt("Enter new category name: ")
			added, err := m.reg.AddCategory(ctx, name)
			if err != nil {
				m.printf("Error: %v\n", err)
				continue
			}
			if !added {
				m.printf("Category '%s' already exists.\n", name)
				continue
			}
			m.printf("Category '%s' added successfully!\n", name)
		case "2":
			oldName := m.prompt("Enter category to rename: ")
			newName := m.prompt("Enter new name: ")
			if err := m.reg.RenameCategory(ctx, oldName, newName); err != nil {
				m.printf("Error: %v\n", err)
				continue
			}
			m.printf("Category renamed from '%s' to '%s'.\n", oldName, newName)
		case "3":
			name := m.prompt("Enter category to delete: ")
			answer := m.prompt(fmt.Sprintf("Are you sure you want to delete the category '%s'? This will set all related transactions to '%s'. (y/n): ", name, core.FallbackCategory))
			if !strings.EqualFold(answer, "y") {
				continue
			}
			if err := m.reg.DeleteCategory(ctx, name); err != nil {
				m.printf("Error: %v\n", err)
				continue
			}
			m.printf("Category '%s' deleted.\n", name)
		case "4":
			return
		default:
			m.printf("Invalid choice. Please try again.\n")
		}
	}
}

func (m *Menu) prompt(label string) string {
	m.printf("%s", label)
	if !m.in.Scan() {
		m.eof = true
		return ""
	}
	return strings.TrimSpace(m.in.Text())
}

// promptPassword masks input when stdin is a terminal and falls back
// to a plain line read otherwise (tests, pipes).
func (m *Menu) promptPassword(label string) string {
	if f, ok := m.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		m.printf("%s", label)
		pw, err := term.ReadPassword(int(f.Fd()))
		m.printf("\n")
		if err == nil {
			return strings.TrimSpace(string(pw))
		}
	}
	return m.prompt(label)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (m *Menu) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(m.out, format, args...); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		m.logger.Warn("Failed to write to console", log.FieldError, err)
	}
}
