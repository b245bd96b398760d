package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/store/memory"
)

func newTestServer(t *testing.T, txs ...core.Transaction) (*Server, *memory.Store) {
	t.Helper()
	store := memory.NewSeeded(txs)
	srv := NewServer(":0", store, log.New(log.DefaultConfig()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv, store
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func seedTx(id string, typ core.TransactionType, amount string, date time.Time, cats ...core.Category) core.Transaction {
	d, _ := decimal.NewFromString(amount)
	return core.Transaction{
		ID:            id,
		Amount:        d,
		Type:          typ,
		Categories:    cats,
		Date:          date,
		PaymentMethod: core.Cash,
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := doJSON(t, srv, http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rr.Code)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/transactions", `{
		"amount": 123.45,
		"type": "Expense",
		"categories": ["Food & Drinks"],
		"date": "2025-03-10T08:00:00Z",
		"paymentMethod": "GCash",
		"description": "groceries"
	}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var created transactionJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated transaction id")
	}
	if created.Amount != 123.45 {
		t.Fatalf("amount = %v, want 123.45", created.Amount)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/transactions", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	var listed []transactionJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("unexpected list: %+v", listed)
	}

	rr = doJSON(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/transactions", "")
	listed = nil
	_ = json.Unmarshal(rr.Body.Bytes(), &listed)
	if len(listed) != 0 {
		t.Fatalf("expected empty list after delete, got %+v", listed)
	}

	rr = doJSON(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("delete missing status = %d", rr.Code)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{not json`, http.StatusBadRequest},
		{"bad amount", `{"amount": "abc", "type": "Expense", "date": "2025-03-10"}`, http.StatusUnprocessableEntity},
		{"bad type", `{"amount": 10, "type": "Transfer", "date": "2025-03-10"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"amount": 10, "type": "Expense", "date": "tomorrow"}`, http.StatusUnprocessableEntity},
		{"bad category", `{"amount": 10, "type": "Expense", "date": "2025-03-10", "categories": ["Yachts"]}`, http.StatusUnprocessableEntity},
		{"bad payment", `{"amount": 10, "type": "Expense", "date": "2025-03-10", "paymentMethod": "Barter"}`, http.StatusUnprocessableEntity},
		{"negative amount", `{"amount": -5, "type": "Expense", "date": "2025-03-10"}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := doJSON(t, srv, http.MethodPost, "/api/transactions", tc.body)
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tc.want, rr.Body.String())
			}
		})
	}

	rr := doJSON(t, srv, http.MethodPut, "/api/transactions", `{}`)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("PUT status = %d, want 405", rr.Code)
	}
}

func TestMonthlyTotalsEndpoint(t *testing.T) {
	jan := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
	srv, _ := newTestServer(t,
		seedTx("a", core.Income, "35000", jan),
		seedTx("b", core.Expense, "1200.50", jan, core.FoodDrinks),
		seedTx("c", core.Expense, "300", feb, core.Transport),
	)

	rr := doJSON(t, srv, http.MethodGet, "/api/budget/monthly", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var got map[string]monthlyTotalJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 months, got %d", len(got))
	}
	janTotal := got["January 2025"]
	if janTotal.Income != 35000 || janTotal.Expense != 1200.50 {
		t.Fatalf("january = %+v", janTotal)
	}
	if got["February 2025"].Expense != 300 {
		t.Fatalf("february = %+v", got["February 2025"])
	}
}

func TestCategoryBudgetsEndpoint(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	srv, _ := newTestServer(t,
		seedTx("a", core.Expense, "100", day, core.FoodDrinks, core.Shopping),
		seedTx("b", core.Expense, "50", day.AddDate(0, 1, 0), core.FoodDrinks),
		seedTx("c", core.Income, "500", day),
	)

	rr := doJSON(t, srv, http.MethodGet, "/api/budget/categories", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var all []categoryBudgetJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &all); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 categories, got %+v", all)
	}
	if all[0].CategoryName != "Food & Drinks" || all[0].Spent != 150 {
		t.Fatalf("first category = %+v", all[0])
	}
	if all[0].ID != 1 || all[1].ID != 2 {
		t.Fatalf("ids not sequential: %+v", all)
	}
	if all[0].Color == "" || all[0].Icon == "" {
		t.Fatalf("missing display attributes: %+v", all[0])
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/budget/categories?start=2025-03-01&end=2025-03-31", "")
	var filtered []categoryBudgetJSON
	_ = json.Unmarshal(rr.Body.Bytes(), &filtered)
	if len(filtered) != 2 || filtered[0].Spent != 100 {
		t.Fatalf("filtered = %+v", filtered)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/budget/categories?start=nonsense", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad start status = %d", rr.Code)
	}
}

func TestAnalyticsEndpoint(t *testing.T) {
	day := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	srv, _ := newTestServer(t,
		seedTx("a", core.Expense, "1000", day, core.FoodDrinks),
		seedTx("b", core.Expense, "500", day.AddDate(0, 0, -3), core.Transport),
		seedTx("c", core.Income, "35000", day),
	)

	rr := doJSON(t, srv, http.MethodGet, "/api/budget/analytics?date=2025-03-10", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var got analyticsJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Default settings: 35000 income, 8000 savings goal, 27000 limit.
	if got.MonthKey != "March 2025" {
		t.Fatalf("month key = %q", got.MonthKey)
	}
	if got.BudgetLimit != 27000 {
		t.Fatalf("limit = %v", got.BudgetLimit)
	}
	if got.TotalSpent != 1500 {
		t.Fatalf("total spent = %v", got.TotalSpent)
	}
	if got.SpentToday != 1000 {
		t.Fatalf("spent today = %v", got.SpentToday)
	}
	if got.AmountLeft != 25500 {
		t.Fatalf("amount left = %v", got.AmountLeft)
	}
	// March has 31 days; on the 10th, 22 remain including today.
	if got.DaysRemaining != 22 {
		t.Fatalf("days remaining = %d", got.DaysRemaining)
	}
	if got.Status != string(core.OnTrack) {
		t.Fatalf("status = %q", got.Status)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/budget/analytics?date=garbage", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad date status = %d", rr.Code)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/budget/settings", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}
	var got settingsJSON
	_ = json.Unmarshal(rr.Body.Bytes(), &got)
	if got.MonthlyIncome != 35000 || got.BudgetLimit != 27000 {
		t.Fatalf("defaults = %+v", got)
	}

	rr = doJSON(t, srv, http.MethodPut, "/api/budget/settings", `{"monthlyIncome": 40000, "savingsGoal": 10000}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("put status = %d, body %s", rr.Code, rr.Body.String())
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &got)
	if got.BudgetLimit != 30000 {
		t.Fatalf("limit after update = %v", got.BudgetLimit)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/budget/settings", "")
	_ = json.Unmarshal(rr.Body.Bytes(), &got)
	if got.SavingsGoal != 10000 {
		t.Fatalf("persisted goal = %v", got.SavingsGoal)
	}

	rr = doJSON(t, srv, http.MethodPut, "/api/budget/settings", `{"monthlyIncome": -1, "savingsGoal": 0}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("negative income status = %d", rr.Code)
	}
}

func TestCacheInvalidationOnWrite(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	srv, store := newTestServer(t, seedTx("a", core.Expense, "100", day, core.FoodDrinks))

	// Prime the caches.
	doJSON(t, srv, http.MethodGet, "/api/transactions", "")
	doJSON(t, srv, http.MethodGet, "/api/budget/categories", "")

	// Write through the store directly: caches must still serve the old
	// snapshot until a write goes through the API.
	if _, err := store.Append(context.Background(), seedTx("b", core.Expense, "50", day, core.Shopping)); err != nil {
		t.Fatalf("append: %v", err)
	}
	rr := doJSON(t, srv, http.MethodGet, "/api/transactions", "")
	var listed []transactionJSON
	_ = json.Unmarshal(rr.Body.Bytes(), &listed)
	if len(listed) != 1 {
		t.Fatalf("expected cached snapshot of 1, got %d", len(listed))
	}

	// An API write purges both caches.
	rr = doJSON(t, srv, http.MethodPost, "/api/transactions", `{
		"amount": 25, "type": "Expense", "categories": ["Transport"], "date": "2025-03-11"
	}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rr.Code, rr.Body.String())
	}
	rr = doJSON(t, srv, http.MethodGet, "/api/transactions", "")
	listed = nil
	_ = json.Unmarshal(rr.Body.Bytes(), &listed)
	if len(listed) != 3 {
		t.Fatalf("expected 3 after invalidation, got %d", len(listed))
	}
}

func TestRateLimitOnWrites(t *testing.T) {
	srv, _ := newTestServer(t)

	var lastCode int
	for i := 0; i < 61; i++ {
		req := httptest.NewRequest(http.MethodDelete, "/api/transactions/nope", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		rr := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rr, req)
		lastCode = rr.Code
	}
	if lastCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", lastCode)
	}

	// Reads are never limited.
	rr := doJSON(t, srv, http.MethodGet, "/api/transactions", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("read status = %d", rr.Code)
	}
}
