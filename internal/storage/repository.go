package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gastos/internal/core"
	"gastos/internal/store"

	_ "modernc.org/sqlite"
)

// ErrNotFound aliases the shared store sentinel.
var ErrNotFound = store.ErrNotFound

// SQLiteRepository persists transactions and budget settings. Amounts
// are stored as decimal strings so nothing is lost to float conversion;
// dates are stored as RFC3339 in UTC.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements store.TransactionWriter. A missing ID is assigned.
func (r *SQLiteRepository) Append(ctx context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, amount, type, date, payment_method, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Amount.String(), string(t.Type), t.Date.UTC().Format(time.RFC3339),
		string(t.PaymentMethod), t.Description)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	for i, cat := range t.Categories {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO transaction_categories (transaction_id, position, category)
			 VALUES (?, ?, ?)`,
			t.ID, i, string(cat))
		if err != nil {
			return "", fmt.Errorf("insert category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", t.ID,
		"type", t.Type,
		"amount", t.Amount.String(),
		"categories", len(t.Categories))

	return t.ID, nil
}

// Delete implements store.TransactionDeleter with a soft delete so the
// sync worker can still propagate the removal.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET deleted = 1, synced = 0 WHERE id = ? AND deleted = 0`, id)
	if err != nil {
		return fmt.Errorf("soft delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction soft deleted", "id", id)
	return nil
}

// ListTransactions implements store.TransactionLister. Soft-deleted rows
// are excluded; categories come back in their original order.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount, type, date, payment_method, description
		 FROM transactions WHERE deleted = 0 ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	index := make(map[string]int)

	for rows.Next() {
		var (
			t                    core.Transaction
			amount, typ, dateStr string
			method               string
		)
		if err := rows.Scan(&t.ID, &amount, &typ, &dateStr, &method, &t.Description); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse amount for %s: %w", t.ID, err)
		}
		t.Date, err = time.Parse(time.RFC3339, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse date for %s: %w", t.ID, err)
		}
		t.Type = core.TransactionType(typ)
		t.PaymentMethod = core.PaymentMethod(method)

		index[t.ID] = len(txs)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	catRows, err := r.db.QueryContext(ctx,
		`SELECT tc.transaction_id, tc.category
		 FROM transaction_categories tc
		 JOIN transactions t ON t.id = tc.transaction_id
		 WHERE t.deleted = 0
		 ORDER BY tc.transaction_id, tc.position`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer catRows.Close()

	for catRows.Next() {
		var id, cat string
		if err := catRows.Scan(&id, &cat); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if i, ok := index[id]; ok {
			txs[i].Categories = append(txs[i].Categories, core.Category(cat))
		}
	}
	if err := catRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return txs, nil
}

// GetTransaction retrieves a single transaction by ID, including
// soft-deleted ones (the sync worker needs those for delete events).
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	var (
		t                    core.Transaction
		amount, typ, dateStr string
		method               string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, amount, type, date, payment_method, description
		 FROM transactions WHERE id = ?`, id).
		Scan(&t.ID, &amount, &typ, &dateStr, &method, &t.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}

	t.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount: %w", err)
	}
	t.Date, err = time.Parse(time.RFC3339, dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse date: %w", err)
	}
	t.Type = core.TransactionType(typ)
	t.PaymentMethod = core.PaymentMethod(method)

	catRows, err := r.db.QueryContext(ctx,
		`SELECT category FROM transaction_categories
		 WHERE transaction_id = ? ORDER BY position`, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("query categories: %w", err)
	}
	defer catRows.Close()
	for catRows.Next() {
		var cat string
		if err := catRows.Scan(&cat); err != nil {
			return core.Transaction{}, fmt.Errorf("scan category: %w", err)
		}
		t.Categories = append(t.Categories, core.Category(cat))
	}
	if err := catRows.Err(); err != nil {
		return core.Transaction{}, fmt.Errorf("iterate categories: %w", err)
	}

	return t, nil
}

// GetSettings implements store.SettingsStore, falling back to the seed
// defaults when nothing was saved yet.
func (r *SQLiteRepository) GetSettings(ctx context.Context) (core.BudgetSettings, error) {
	var income, savings string
	err := r.db.QueryRowContext(ctx,
		`SELECT monthly_income, savings_goal FROM budget_settings WHERE id = 1`).
		Scan(&income, &savings)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DefaultBudgetSettings(), nil
	}
	if err != nil {
		return core.BudgetSettings{}, fmt.Errorf("get settings: %w", err)
	}

	var s core.BudgetSettings
	s.MonthlyIncome, err = decimal.NewFromString(income)
	if err != nil {
		return core.BudgetSettings{}, fmt.Errorf("parse monthly income: %w", err)
	}
	s.SavingsGoal, err = decimal.NewFromString(savings)
	if err != nil {
		return core.BudgetSettings{}, fmt.Errorf("parse savings goal: %w", err)
	}
	return s, nil
}

// SaveSettings implements store.SettingsStore.
func (r *SQLiteRepository) SaveSettings(ctx context.Context, s core.BudgetSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budget_settings (id, monthly_income, savings_goal, updated_at)
		 VALUES (1, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   monthly_income = excluded.monthly_income,
		   savings_goal = excluded.savings_goal,
		   updated_at = excluded.updated_at`,
		s.MonthlyIncome.String(), s.SavingsGoal.String(), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	slog.InfoContext(ctx, "Budget settings saved",
		"monthly_income", s.MonthlyIncome.String(),
		"savings_goal", s.SavingsGoal.String())
	return nil
}

// PendingSyncTransaction is the minimal row the sync worker needs.
type PendingSyncTransaction struct {
	ID      string
	Deleted bool
}

// GetPendingSyncTransactions returns rows that have not been confirmed by
// the sync worker yet, oldest first.
func (r *SQLiteRepository) GetPendingSyncTransactions(ctx context.Context, limit int) ([]PendingSyncTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, deleted FROM transactions
		 WHERE synced = 0 AND sync_error = 0
		 ORDER BY created_at LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	defer rows.Close()

	var pending []PendingSyncTransaction
	for rows.Next() {
		var p PendingSyncTransaction
		if err := rows.Scan(&p.ID, &p.Deleted); err != nil {
			return nil, fmt.Errorf("scan pending row: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// MarkSynced marks a transaction as successfully synced.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET synced = 1, sync_error = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError marks a transaction as having failed to sync.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_error = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}
