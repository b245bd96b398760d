// Package worker confirms locally written transactions against the
// upstream ledger. The upstream call is a stub until a real backend
// exists; the bookkeeping around it (pending scan, ack/error marking,
// recovery on startup) is the part that matters.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gastos/internal/amqp"
	"gastos/internal/storage"
)

// SyncWorker consumes transaction events and reconciles the sync state
// of rows in SQLite.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		batchSize: batchSize,
	}
}

// HandleMessage processes a single transaction event from AMQP.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.TransactionMessage) error {
	slog.InfoContext(ctx, "Processing transaction message",
		"type", msg.Type,
		"ref", msg.Ref)

	switch msg.Type {
	case amqp.MessageTypeSync:
		return w.syncTransaction(ctx, msg.Ref)
	case amqp.MessageTypeDelete:
		return w.syncDeletion(ctx, msg.Ref)
	default:
		// Drop unknown types instead of requeueing them forever
		slog.WarnContext(ctx, "Ignoring unknown message type", "type", msg.Type)
		return nil
	}
}

func (w *SyncWorker) syncTransaction(ctx context.Context, ref string) error {
	t, err := w.storage.GetTransaction(ctx, ref)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			slog.WarnContext(ctx, "Transaction vanished before sync", "ref", ref)
			return nil
		}
		return fmt.Errorf("get transaction: %w", err)
	}

	if err := w.pushUpstream(ctx, ref); err != nil {
		if markErr := w.storage.MarkSyncError(ctx, ref); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "ref", ref, "error", markErr)
		}
		return fmt.Errorf("push transaction upstream: %w", err)
	}

	slog.InfoContext(ctx, "Transaction synced",
		"ref", ref,
		"type", t.Type,
		"amount", t.Amount.String())

	return w.storage.MarkSynced(ctx, ref)
}

func (w *SyncWorker) syncDeletion(ctx context.Context, ref string) error {
	if err := w.pushUpstream(ctx, ref); err != nil {
		if markErr := w.storage.MarkSyncError(ctx, ref); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "ref", ref, "error", markErr)
		}
		return fmt.Errorf("push deletion upstream: %w", err)
	}
	return w.storage.MarkSynced(ctx, ref)
}

// pushUpstream is the placeholder for the real backend call.
func (w *SyncWorker) pushUpstream(ctx context.Context, ref string) error {
	slog.DebugContext(ctx, "Upstream push (stub)", "ref", ref)
	return nil
}

// ProcessPending handles rows that never got a message, a backup for
// lost AMQP deliveries.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, p := range pending {
		var err error
		if p.Deleted {
			err = w.syncDeletion(ctx, p.ID)
		} else {
			err = w.syncTransaction(ctx, p.ID)
		}
		if err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending transaction",
				"ref", p.ID, "error", err)
		}
	}

	return nil
}

// StartupSyncCheck drains a larger pending batch once at worker start to
// recover from downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup",
		"count", len(pending))

	synced, failed := 0, 0
	for _, p := range pending {
		var err error
		if p.Deleted {
			err = w.syncDeletion(ctx, p.ID)
		} else {
			err = w.syncTransaction(ctx, p.ID)
		}
		if err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction during startup",
				"ref", p.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)

	return nil
}
