package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"gastos/internal/core"
)

func sample(id string) core.Transaction {
	return core.Transaction{
		ID:            id,
		Amount:        decimal.NewFromFloat(12.50),
		Type:          core.Expense,
		Categories:    []core.Category{core.FoodDrinks},
		Date:          time.Date(2025, 1, 10, 0, 0, 0, 0, time.Local),
		PaymentMethod: core.Cash,
		Description:   "lunch",
	}
}

func TestAppendAndList(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref, err := s.Append(ctx, sample("a"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "a" {
		t.Fatalf("ref = %q, want a", ref)
	}

	items, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID != "a" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestAppendAssignsID(t *testing.T) {
	s := New()
	tx := sample("")
	if _, err := s.Append(context.Background(), tx); err != nil {
		t.Fatalf("append: %v", err)
	}
	items, _ := s.ListTransactions(context.Background())
	if items[0].ID == "" {
		t.Fatal("expected generated id")
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New()
	bad := sample("a")
	bad.Type = "Transfer"
	if _, err := s.Append(context.Background(), bad); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDelete(t *testing.T) {
	s := NewSeeded([]core.Transaction{sample("a"), sample("b")})
	ctx := context.Background()

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, _ := s.ListTransactions(ctx)
	if len(items) != 1 || items[0].ID != "b" {
		t.Fatalf("unexpected items after delete: %+v", items)
	}
	if err := s.Delete(ctx, "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListReturnsCopy(t *testing.T) {
	s := NewSeeded([]core.Transaction{sample("a")})
	ctx := context.Background()

	items, _ := s.ListTransactions(ctx)
	items[0].Description = "mutated"

	again, _ := s.ListTransactions(ctx)
	if again[0].Description != "lunch" {
		t.Fatal("caller mutation leaked into the store")
	}
}

func TestSettings(t *testing.T) {
	s := New()
	ctx := context.Background()

	got, err := s.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if !got.MonthlyIncome.Equal(decimal.NewFromInt(35000)) {
		t.Fatalf("default income = %s, want 35000", got.MonthlyIncome)
	}

	next := core.BudgetSettings{
		MonthlyIncome: decimal.NewFromInt(40000),
		SavingsGoal:   decimal.NewFromInt(10000),
	}
	if err := s.SaveSettings(ctx, next); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	got, _ = s.GetSettings(ctx)
	if !got.Limit().Equal(decimal.NewFromInt(30000)) {
		t.Fatalf("limit = %s, want 30000", got.Limit())
	}

	bad := core.BudgetSettings{MonthlyIncome: decimal.NewFromInt(-1)}
	if err := s.SaveSettings(ctx, bad); err == nil {
		t.Fatal("expected validation error")
	}
}
