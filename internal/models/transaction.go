package models

import "time"

type TransactionType string

const (
	TransactionTypeBet  TransactionType = "bet"
	TransactionTypeWin  TransactionType = "win"
	TransactionTypeLoss TransactionType = "loss"
)

type Transaction struct {
	ID            string          `json:"id" redis:"id"`
	Type          TransactionType `json:"type" redis:"type"`
	Amount        float64         `json:"amount" redis:"amount"`
	BalanceBefore float64         `json:"balance_before" redis:"balance_before"`
	BalanceAfter  float64         `json:"balance_after" redis:"balance_after"`
	RoundID       string          `json:"round_id,omitempty" redis:"round_id"`
	Description   string          `json:"description" redis:"description"`
	CreatedAt     time.Time       `json:"created_at" redis:"created_at"`
}
