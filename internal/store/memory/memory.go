package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"gastos/internal/core"
	"gastos/internal/store"
)

// ErrNotFound aliases the shared store sentinel.
var ErrNotFound = store.ErrNotFound

// Store is an in-memory transaction store for demos and tests. It hands
// out defensive copies so callers never alias its internal slice.
type Store struct {
	mu       sync.Mutex
	items    []core.Transaction
	settings core.BudgetSettings
}

func New() *Store {
	return &Store{settings: core.DefaultBudgetSettings()}
}

// NewSeeded returns a store pre-populated with the given transactions.
func NewSeeded(txs []core.Transaction) *Store {
	s := New()
	s.items = append(s.items, txs...)
	return s
}

// Append stores the transaction and returns its ID. A missing ID is
// assigned here.
func (s *Store) Append(_ context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, t)
	return t.ID, nil
}

// Delete removes the transaction with the given ID.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.items {
		if t.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// ListTransactions returns a copy of the full snapshot.
func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *Store) GetSettings(_ context.Context) (core.BudgetSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings, nil
}

func (s *Store) SaveSettings(_ context.Context, settings core.BudgetSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}
