package services

import "time"

const (
	KeyTransaction  = "mines:transaction:%s"
	KeyTransactions = "mines:transactions"
	KeyRateLimit    = "mines:ratelimit:%s:%s"

	TTLTransaction = 30 * 24 * time.Hour // 30 days

	// MaxHistory bounds the ledger index; older entries are trimmed.
	MaxHistory = 100
	// DefaultHistoryLimit applies when a caller asks for <= 0 or > MaxHistory entries.
	DefaultHistoryLimit = 50
)
