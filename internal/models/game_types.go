package models

// StartRequest is the body of POST /game/start.
type StartRequest struct {
	Mines *int     `json:"mines" binding:"required"`
	Bet   *float64 `json:"bet" binding:"required"`
}

// RevealRequest is bound from the GET /game/verify-cell query string.
type RevealRequest struct {
	Row    *int `form:"row" binding:"required"`
	Column *int `form:"column" binding:"required"`
}

// EventType names the messages pushed over the websocket.
type EventType string

const (
	EventRoundStarted  EventType = "ROUND_STARTED"
	EventCellRevealed  EventType = "CELL_REVEALED"
	EventRoundEnded    EventType = "ROUND_ENDED"
	EventBalanceUpdate EventType = "BALANCE_UPDATE"
	EventPong          EventType = "PONG"
)

// RoundEvent describes a committed transition of the active round.
type RoundEvent struct {
	Type      EventType   `json:"type"`
	RoundID   string      `json:"round_id,omitempty"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}
