// Package core holds the domain model and the budget-analytics
// aggregations: monthly totals, daily spend, per-category spend and
// budget health. All aggregators are pure functions over an immutable
// transaction snapshot; monetary sums accumulate in full precision and
// are rounded to two decimal places once, at the end.
package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyTotal is the income/expense pair for one calendar month.
type MonthlyTotal struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// MonthlyTotals buckets transactions by month key and sums income and
// expense amounts per bucket. Transactions of neither type are ignored.
// Every transaction contributes to exactly one bucket, chosen solely by
// its date. The result has one entry per distinct month key present in
// the input; an empty input yields an empty map.
func MonthlyTotals(txs []Transaction) map[string]MonthlyTotal {
	totals := make(map[string]MonthlyTotal)

	for _, tx := range txs {
		key := MonthKey(tx.Date)
		bucket := totals[key]

		switch tx.Type {
		case Income:
			bucket.Income = bucket.Income.Add(tx.Amount)
		case Expense:
			bucket.Expense = bucket.Expense.Add(tx.Amount)
		default:
			continue
		}
		totals[key] = bucket
	}

	for key, bucket := range totals {
		bucket.Income = bucket.Income.Round(2)
		bucket.Expense = bucket.Expense.Round(2)
		totals[key] = bucket
	}

	return totals
}

// SpentOnDay sums expense amounts for transactions on the same calendar
// day as target. Returns 0 for no matches. Callers that want "today"
// pass their clock's current time; there is no implicit wall-clock read
// so results stay deterministic under test.
func SpentOnDay(txs []Transaction, target time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		if tx.Type == Expense && tx.SameDay(target) {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum.Round(2)
}

// MonthExpenseTotal sums expense amounts for transactions in the same
// calendar month as now. The month is injected rather than read from the
// wall clock for the same determinism reason as SpentOnDay.
func MonthExpenseTotal(txs []Transaction, now time.Time) decimal.Decimal {
	key := MonthKey(now)
	sum := decimal.Zero
	for _, tx := range txs {
		if tx.Type == Expense && MonthKey(tx.Date) == key {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum.Round(2)
}

// DateRange is an optional inclusive date filter. A nil bound is
// unbounded on that side.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// contains reports whether t lies within the range, inclusive on both
// ends. An inverted range matches nothing.
func (r DateRange) contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// CategoryBudget is the per-category spend aggregate. ID is a sequential
// number assigned during construction in first-seen category order; it is
// not stable across calls with different filters and must not be
// persisted. Allocated is merged in by an external allocation store and
// defaults to zero here.
type CategoryBudget struct {
	ID           int
	CategoryName Category
	Spent        decimal.Decimal
	Allocated    decimal.Decimal
}

// CategoryBudgets filters transactions by an optional date range and sums
// expense amounts per category. A transaction tagged with k categories
// contributes its full amount to each of the k totals, so total reported
// spend across categories can exceed total actual outflow. A transaction
// with no categories contributes nothing. Never errors: a malformed or
// inverted range simply yields an empty result.
func CategoryBudgets(txs []Transaction, rng *DateRange) []CategoryBudget {
	spent := make(map[Category]decimal.Decimal)
	var order []Category

	for _, tx := range txs {
		if rng != nil && !rng.contains(tx.Date) {
			continue
		}
		if tx.Type != Expense {
			continue
		}
		for _, cat := range tx.Categories {
			if _, seen := spent[cat]; !seen {
				order = append(order, cat)
			}
			spent[cat] = spent[cat].Add(tx.Amount)
		}
	}

	budgets := make([]CategoryBudget, 0, len(order))
	for i, cat := range order {
		budgets = append(budgets, CategoryBudget{
			ID:           i + 1,
			CategoryName: cat,
			Spent:        spent[cat].Round(2),
			Allocated:    decimal.Zero,
		})
	}

	return budgets
}
