package core

import "github.com/shopspring/decimal"

// BudgetStatus classifies spend-to-limit ratio.
type BudgetStatus string

const (
	OnTrack          BudgetStatus = "OnTrack"
	ApproachingLimit BudgetStatus = "ApproachingLimit"
	OverBudget       BudgetStatus = "OverBudget"
)

// BudgetHealth is a stateless derivation from a budget limit, the amount
// spent so far and the calendar position. It is recomputed on every
// evaluation and never persisted.
type BudgetHealth struct {
	AmountLeft           decimal.Decimal
	DaysRemaining        int
	DailyAverageRequired decimal.Decimal
	PercentageSpent      float64
	Status               BudgetStatus
}

// Progress clamps PercentageSpent to [0, 100] for rendering. It is a
// display derivative only and plays no part in the classification.
func (h BudgetHealth) Progress() float64 {
	if h.PercentageSpent < 0 {
		return 0
	}
	if h.PercentageSpent > 100 {
		return 100
	}
	return h.PercentageSpent
}

// EvaluateBudgetHealth derives the remaining budget, the required daily
// average and a health classification from the four inputs. It is a pure
// function: identical inputs always yield identical outputs.
//
// AmountLeft may be negative (over budget). DaysRemaining counts today,
// so daysInMonth == currentDay leaves one day. Callers are responsible
// for a consistent calendar position; an inconsistent one (currentDay >
// daysInMonth) zeroes DailyAverageRequired rather than erroring.
//
// A non-positive limit is degenerate: rather than dividing by it,
// PercentageSpent is pinned to 100 when anything was spent (classifying
// as OverBudget) and 0 otherwise, so no NaN or infinity escapes.
func EvaluateBudgetHealth(limit, spent decimal.Decimal, currentDay, daysInMonth int) BudgetHealth {
	h := BudgetHealth{
		AmountLeft:           limit.Sub(spent),
		DaysRemaining:        daysInMonth - currentDay + 1,
		DailyAverageRequired: decimal.Zero,
	}

	if h.AmountLeft.Sign() >= 0 && h.DaysRemaining >= 1 {
		h.DailyAverageRequired = h.AmountLeft.Div(decimal.NewFromInt(int64(h.DaysRemaining))).Round(2)
	}

	switch {
	case limit.Sign() <= 0:
		if spent.Sign() > 0 {
			h.PercentageSpent = 100
		}
	default:
		h.PercentageSpent, _ = spent.Div(limit).Mul(decimal.NewFromInt(100)).Float64()
	}

	switch {
	case h.PercentageSpent >= 100:
		h.Status = OverBudget
	case h.PercentageSpent >= 80:
		h.Status = ApproachingLimit
	default:
		h.Status = OnTrack
	}

	return h
}
