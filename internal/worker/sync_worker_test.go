package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"gastos/internal/amqp"
	"gastos/internal/core"
	"gastos/internal/storage"
)

func newWorker(t *testing.T) (*SyncWorker, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "worker_test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewSyncWorker(repo, 10), repo
}

func appendOne(t *testing.T, repo *storage.SQLiteRepository) string {
	t.Helper()
	ref, err := repo.Append(context.Background(), core.Transaction{
		Amount:        decimal.NewFromInt(100),
		Type:          core.Expense,
		Categories:    []core.Category{core.Transport},
		Date:          time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		PaymentMethod: core.Cash,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	return ref
}

func TestHandleMessageMarksSynced(t *testing.T) {
	w, repo := newWorker(t)
	ctx := context.Background()
	ref := appendOne(t, repo)

	if err := w.HandleMessage(ctx, amqp.NewSyncMessage(ref)); err != nil {
		t.Fatalf("handle: %v", err)
	}

	pending, err := repo.GetPendingSyncTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending rows, got %d", len(pending))
	}
}

func TestHandleMessageMissingTransaction(t *testing.T) {
	w, _ := newWorker(t)
	// A vanished row is logged and dropped, not requeued forever
	if err := w.HandleMessage(context.Background(), amqp.NewSyncMessage("ghost")); err != nil {
		t.Fatalf("expected nil for missing transaction, got %v", err)
	}
}

func TestHandleMessageUnknownType(t *testing.T) {
	w, _ := newWorker(t)
	msg := &amqp.TransactionMessage{Type: "transaction.other", Ref: "x"}
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("expected unknown type to be dropped, got %v", err)
	}
}

func TestProcessPendingAndStartup(t *testing.T) {
	w, repo := newWorker(t)
	ctx := context.Background()

	refA := appendOne(t, repo)
	refB := appendOne(t, repo)
	if err := repo.Delete(ctx, refB); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if err := w.StartupSyncCheck(ctx); err != nil {
		t.Fatalf("startup check: %v", err)
	}

	pending, _ := repo.GetPendingSyncTransactions(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("expected both rows reconciled, %d pending", len(pending))
	}

	// Nothing left: ProcessPending is a no-op
	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	_ = refA
}
