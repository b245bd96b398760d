package adapters

import (
	"context"

	"gastos/internal/core"
	"gastos/internal/services"
	"gastos/internal/storage"
)

// SQLiteAdapter joins SQLiteRepository and TransactionService into the
// store ports the HTTP layer consumes: writes go through the service so
// sync events get published, reads hit the repository directly.
type SQLiteAdapter struct {
	storage *storage.SQLiteRepository
	service *services.TransactionService
}

func NewSQLiteAdapter(storage *storage.SQLiteRepository, service *services.TransactionService) *SQLiteAdapter {
	return &SQLiteAdapter{
		storage: storage,
		service: service,
	}
}

// Append implements store.TransactionWriter
func (a *SQLiteAdapter) Append(ctx context.Context, t core.Transaction) (string, error) {
	return a.service.CreateTransaction(ctx, t)
}

// Delete implements store.TransactionDeleter
func (a *SQLiteAdapter) Delete(ctx context.Context, id string) error {
	return a.service.DeleteTransaction(ctx, id)
}

// ListTransactions implements store.TransactionLister
func (a *SQLiteAdapter) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return a.storage.ListTransactions(ctx)
}

// GetSettings implements store.SettingsStore
func (a *SQLiteAdapter) GetSettings(ctx context.Context) (core.BudgetSettings, error) {
	return a.storage.GetSettings(ctx)
}

// SaveSettings implements store.SettingsStore
func (a *SQLiteAdapter) SaveSettings(ctx context.Context, s core.BudgetSettings) error {
	return a.storage.SaveSettings(ctx, s)
}
