package store

import (
	"sort"
	"sync"
	"time"

	"github.com/example/payrelay/internal/models"
)

// TransactionStore is the in-memory mirror of all payment transactions for
// the lifetime of the process. It is the only writer-shared state in the
// application, so all access goes through the mutex. Records are never
// deleted individually; the store only supports a bulk clear.
type TransactionStore struct {
	mu   sync.RWMutex
	txns []models.Transaction
}

// New constructs an empty TransactionStore. One instance is created in main
// and injected into the handlers.
func New() *TransactionStore {
	return &TransactionStore{}
}

// Insert appends the transaction, assigning its numeric id from the current
// size. Returns the stored record.
func (s *TransactionStore) Insert(txn models.Transaction) models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn.ID = len(s.txns) + 1
	s.txns = append(s.txns, txn)
	return txn
}

// FindByID returns the first transaction matching the external transaction
// id. The result is a copy; mutations must go through UpdateStatus.
func (s *TransactionStore) FindByID(transactionID string) (models.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.txns {
		if s.txns[i].TransactionID == transactionID {
			return s.txns[i], true
		}
	}
	return models.Transaction{}, false
}

// UpdateStatus applies a notification-driven mutation to the matching
// transaction and refreshes its updated_at. Returns the updated record and
// whether a match was found.
func (s *TransactionStore) UpdateStatus(transactionID string, update models.StatusUpdate) (models.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.txns {
		if s.txns[i].TransactionID != transactionID {
			continue
		}
		s.txns[i].Status = update.Status
		s.txns[i].Gateway = update.Gateway
		s.txns[i].GatewayReference = update.GatewayReference
		s.txns[i].Message = update.Message
		s.txns[i].UpdatedAt = time.Now().UTC()
		return s.txns[i], true
	}
	return models.Transaction{}, false
}

// ListAll returns every transaction ordered by created_at descending. Ties
// are broken by insertion order, most recently inserted first. The store
// itself stays insertion-ordered; only the returned view is sorted.
func (s *TransactionStore) ListAll() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Transaction, 0, len(s.txns))
	for i := len(s.txns) - 1; i >= 0; i-- {
		out = append(out, s.txns[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Clear removes all transactions and returns how many were removed.
func (s *TransactionStore) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := len(s.txns)
	s.txns = nil
	return count
}

// Count returns the number of stored transactions.
func (s *TransactionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.txns)
}
