package store

import (
	"context"
	"errors"

	"gastos/internal/core"
)

// ErrNotFound is returned by every backend when a transaction ID does
// not exist (or was already deleted).
var ErrNotFound = errors.New("transaction not found")

// Ports for outbound adapters. The aggregation core treats the
// transaction store as an opaque, read-only collaborator; writes go
// through the submission side-channel only.
type (
	TransactionWriter interface {
		Append(ctx context.Context, t core.Transaction) (ref string, err error)
	}

	TransactionDeleter interface {
		Delete(ctx context.Context, id string) error
	}

	// TransactionLister returns the full transaction snapshot, supplied
	// synchronously in full (no pagination, no streaming).
	TransactionLister interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	// SettingsStore persists the user's monthly income and savings goal.
	SettingsStore interface {
		GetSettings(ctx context.Context) (core.BudgetSettings, error)
		SaveSettings(ctx context.Context, s core.BudgetSettings) error
	}
)
