package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

func GenerateRoundID() string {
	return fmt.Sprintf("round_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}

func GenerateTransactionID() string {
	return fmt.Sprintf("tx_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}

// Validate rejects payloads that cannot describe a round. Range checks
// against the grid and the balance belong to the game itself.
func (r *StartRequest) Validate() error {
	if r.Mines == nil {
		return fmt.Errorf("mines is required")
	}
	if r.Bet == nil {
		return fmt.Errorf("bet is required")
	}
	if math.IsNaN(*r.Bet) || math.IsInf(*r.Bet, 0) {
		return fmt.Errorf("bet must be a finite number")
	}
	return nil
}

func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
