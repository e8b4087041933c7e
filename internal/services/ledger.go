package services

import (
	"context"
	"sync"

	"mines-backend/internal/models"
)

// Ledger records balance movements of the process-wide wallet.
type Ledger interface {
	SaveTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransactions(ctx context.Context, limit int64) ([]*models.Transaction, error)
}

// MemoryLedger keeps the newest MaxHistory transactions in process.
type MemoryLedger struct {
	mu  sync.RWMutex
	txs []*models.Transaction
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

func (l *MemoryLedger) SaveTransaction(_ context.Context, tx *models.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.txs = append(l.txs, tx)
	if len(l.txs) > MaxHistory {
		l.txs = l.txs[len(l.txs)-MaxHistory:]
	}
	return nil
}

// GetTransactions returns up to limit entries, newest first.
func (l *MemoryLedger) GetTransactions(_ context.Context, limit int64) ([]*models.Transaction, error) {
	limit = clampHistoryLimit(limit)

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*models.Transaction, 0, limit)
	for i := len(l.txs) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		out = append(out, l.txs[i])
	}
	return out, nil
}

func clampHistoryLimit(limit int64) int64 {
	if limit <= 0 || limit > MaxHistory {
		return DefaultHistoryLimit
	}
	return limit
}
