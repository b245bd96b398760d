// Package seed generates a deterministic dummy transaction dataset for
// the memory backend and local demos.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"gastos/internal/core"
)

type pattern struct {
	typ         core.TransactionType
	categories  []core.Category
	method      core.PaymentMethod
	description string
	min, max    float64
	perMonth    int
}

var patterns = []pattern{
	{core.Income, []core.Category{core.Salary}, core.BankTransfer, "Monthly salary", 35000, 35000, 1},
	{core.Income, []core.Category{core.Freelance}, core.GCash, "Side project payout", 1500, 6000, 1},
	{core.Expense, []core.Category{core.Rent}, core.BankTransfer, "Apartment rent", 12000, 12000, 1},
	{core.Expense, []core.Category{core.FoodDrinks}, core.Cash, "Groceries", 800, 2500, 4},
	{core.Expense, []core.Category{core.FoodDrinks, core.Shopping}, core.GCash, "Mall food court and shopping", 300, 1500, 2},
	{core.Expense, []core.Category{core.Transport}, core.GCash, "Commute top-up", 100, 500, 4},
	{core.Expense, []core.Category{core.BillsUtilities}, core.PayMaya, "Electric bill", 1500, 3500, 1},
	{core.Expense, []core.Category{core.Health}, core.Visa, "Pharmacy", 200, 900, 1},
	{core.Expense, []core.Category{core.Travel, core.FoodDrinks}, core.Mastercard, "Weekend trip", 1000, 5000, 1},
	{core.Expense, nil, core.Cash, "Misc cash spend", 50, 400, 2},
}

// Transactions returns months*len(patterns)-ish records ending in the
// month of now. The same seed always yields the same dataset.
func Transactions(now time.Time, months int, seedVal int64) []core.Transaction {
	rng := rand.New(rand.NewSource(seedVal))
	var out []core.Transaction

	year, month, _ := now.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())

	for m := months - 1; m >= 0; m-- {
		monthStart := first.AddDate(0, -m, 0)
		daysInMonth := monthStart.AddDate(0, 1, -1).Day()

		for pi, p := range patterns {
			for n := 0; n < p.perMonth; n++ {
				day := 1 + rng.Intn(daysInMonth)
				amount := p.min + rng.Float64()*(p.max-p.min)
				out = append(out, core.Transaction{
					ID:            fmt.Sprintf("seed-%s-%d-%d", monthStart.Format("200601"), pi, n),
					Amount:        decimal.NewFromFloat(amount).Round(2),
					Type:          p.typ,
					Categories:    append([]core.Category(nil), p.categories...),
					Date:          time.Date(monthStart.Year(), monthStart.Month(), day, 8+rng.Intn(12), rng.Intn(60), 0, 0, now.Location()),
					PaymentMethod: p.method,
					Description:   p.description,
				})
			}
		}
	}

	return out
}
