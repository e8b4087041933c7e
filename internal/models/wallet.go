package models

// Wallet aggregates the process-lifetime balance with round totals.
type Wallet struct {
	Balance      float64 `json:"balance"`
	TotalWagered float64 `json:"total_wagered"`
	TotalWon     float64 `json:"total_won"`
	RoundsPlayed int64   `json:"rounds_played"`
	RoundsLost   int64   `json:"rounds_lost"`
}
