package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"gastos/internal/core"
	"gastos/internal/log"
)

type monthlyTotalJSON struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

func (s *Server) handleMonthlyTotals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "GET")
		return
	}

	txs, err := s.listTransactions(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Transaction list failed", log.FieldError, err)
		writeError(w, r, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	totals := core.MonthlyTotals(txs)
	out := make(map[string]monthlyTotalJSON, len(totals))
	for key, t := range totals {
		out[key] = monthlyTotalJSON{
			Income:  t.Income.InexactFloat64(),
			Expense: t.Expense.InexactFloat64(),
		}
	}
	writeJSON(w, r, http.StatusOK, out)
}

type categoryBudgetJSON struct {
	ID           int     `json:"id"`
	CategoryName string  `json:"categoryName"`
	Spent        float64 `json:"spent"`
	Allocated    float64 `json:"allocated"`
	Color        string  `json:"color"`
	Icon         string  `json:"icon"`
}

func (s *Server) handleCategoryBudgets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "GET")
		return
	}

	q := r.URL.Query()
	var rng *core.DateRange
	startStr, endStr := q.Get("start"), q.Get("end")
	if startStr != "" || endStr != "" {
		rng = &core.DateRange{}
		if startStr != "" {
			t, err := parseDateParam(startStr)
			if err != nil {
				writeError(w, r, http.StatusBadRequest, "invalid start date")
				return
			}
			rng.Start = &t
		}
		if endStr != "" {
			t, err := parseDateParam(endStr)
			if err != nil {
				writeError(w, r, http.StatusBadRequest, "invalid end date")
				return
			}
			rng.End = &t
		}
	}

	cacheKey := startStr + "|" + endStr
	budgets, ok := s.budgetCache.Get(cacheKey)
	if !ok {
		txs, err := s.listTransactions(r.Context())
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Transaction list failed", log.FieldError, err)
			writeError(w, r, http.StatusInternalServerError, "failed to list transactions")
			return
		}
		budgets = core.CategoryBudgets(txs, rng)
		s.budgetCache.Set(cacheKey, budgets)
	}

	out := make([]categoryBudgetJSON, len(budgets))
	for i, b := range budgets {
		out[i] = categoryBudgetJSON{
			ID:           b.ID,
			CategoryName: string(b.CategoryName),
			Spent:        b.Spent.InexactFloat64(),
			Allocated:    b.Allocated.InexactFloat64(),
			Color:        b.CategoryName.Color(),
			Icon:         b.CategoryName.Icon(),
		}
	}
	writeJSON(w, r, http.StatusOK, out)
}

type analyticsJSON struct {
	MonthKey             string  `json:"monthKey"`
	BudgetLimit          float64 `json:"budgetLimit"`
	TotalSpent           float64 `json:"totalSpent"`
	SpentToday           float64 `json:"spentToday"`
	AmountLeft           float64 `json:"amountLeft"`
	DaysRemaining        int     `json:"daysRemaining"`
	DailyAverageRequired float64 `json:"dailyAverageRequired"`
	PercentageSpent      float64 `json:"percentageSpent"`
	Progress             float64 `json:"progress"`
	Status               string  `json:"status"`
}

// handleAnalytics evaluates budget health for the month containing the
// reference date (?date=..., default now). Accepting the date as input
// keeps the endpoint deterministic and testable.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "GET")
		return
	}

	now := time.Now().UTC()
	if d := r.URL.Query().Get("date"); d != "" {
		parsed, err := parseDateParam(d)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid date")
			return
		}
		now = parsed
	}

	settings, err := s.backend.GetSettings(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Settings read failed", log.FieldError, err)
		writeError(w, r, http.StatusInternalServerError, "failed to load settings")
		return
	}

	txs, err := s.listTransactions(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Transaction list failed", log.FieldError, err)
		writeError(w, r, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	limit := settings.Limit()
	spent := core.MonthExpenseTotal(txs, now)
	daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	health := core.EvaluateBudgetHealth(limit, spent, now.Day(), daysInMonth)

	writeJSON(w, r, http.StatusOK, analyticsJSON{
		MonthKey:             core.MonthKey(now),
		BudgetLimit:          limit.InexactFloat64(),
		TotalSpent:           spent.InexactFloat64(),
		SpentToday:           core.SpentOnDay(txs, now).InexactFloat64(),
		AmountLeft:           health.AmountLeft.InexactFloat64(),
		DaysRemaining:        health.DaysRemaining,
		DailyAverageRequired: health.DailyAverageRequired.InexactFloat64(),
		PercentageSpent:      health.PercentageSpent,
		Progress:             health.Progress(),
		Status:               string(health.Status),
	})
}

type settingsJSON struct {
	MonthlyIncome float64 `json:"monthlyIncome"`
	SavingsGoal   float64 `json:"savingsGoal"`
	BudgetLimit   float64 `json:"budgetLimit"`
}

type saveSettingsRequest struct {
	MonthlyIncome json.Number `json:"monthlyIncome"`
	SavingsGoal   json.Number `json:"savingsGoal"`
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		settings, err := s.backend.GetSettings(r.Context())
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Settings read failed", log.FieldError, err)
			writeError(w, r, http.StatusInternalServerError, "failed to load settings")
			return
		}
		writeJSON(w, r, http.StatusOK, settingsJSON{
			MonthlyIncome: settings.MonthlyIncome.InexactFloat64(),
			SavingsGoal:   settings.SavingsGoal.InexactFloat64(),
			BudgetLimit:   settings.Limit().InexactFloat64(),
		})

	case http.MethodPut:
		var req saveSettingsRequest
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}

		income, err := decimal.NewFromString(req.MonthlyIncome.String())
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "invalid monthly income")
			return
		}
		goal, err := decimal.NewFromString(req.SavingsGoal.String())
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "invalid savings goal")
			return
		}

		settings := core.BudgetSettings{MonthlyIncome: income, SavingsGoal: goal}
		if err := settings.Validate(); err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}

		if err := s.backend.SaveSettings(r.Context(), settings); err != nil {
			s.logger.ErrorContext(r.Context(), "Settings save failed", log.FieldError, err)
			writeError(w, r, http.StatusInternalServerError, "failed to save settings")
			return
		}
		s.logger.InfoContext(r.Context(), "Settings updated",
			"monthly_income", income.String(), "savings_goal", goal.String())
		writeJSON(w, r, http.StatusOK, settingsJSON{
			MonthlyIncome: income.InexactFloat64(),
			SavingsGoal:   goal.InexactFloat64(),
			BudgetLimit:   settings.Limit().InexactFloat64(),
		})

	default:
		methodNotAllowed(w, r, "GET, PUT")
	}
}
