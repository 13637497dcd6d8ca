package core

// CategoryAmount is an expense total aggregated under one category name.
type CategoryAmount struct {
	Name   string
	Amount float64
}

// Summary is the compact financial overview shown after login.
type Summary struct {
	TotalIncome   float64
	TotalExpenses float64
	Balance       float64
	ByCategory    []CategoryAmount
}
