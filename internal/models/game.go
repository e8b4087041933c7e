package models

import "mines-backend/internal/mines"

// InitResponse is returned by GET /game/init.
type InitResponse struct {
	Mines     int             `json:"mines"`
	Bet       float64         `json:"bet"`
	GameState mines.GameState `json:"gameState"`
	Balance   float64         `json:"balance"`
}

type StartResponse struct {
	GameState mines.GameState `json:"gameState"`
	Balance   float64         `json:"balance"`
}

type RevealResponse struct {
	HasMine          bool            `json:"hasMine"`
	ProfitMultiplier float64         `json:"profitMultiplier"`
	PlayerProfit     float64         `json:"playerProfit"`
	GameState        mines.GameState `json:"gameState"`
}

type EndResponse struct {
	Balance float64 `json:"balance"`
}

// GameStateResponse is the read-only view served by GET /game/state and
// attached to rejected requests.
type GameStateResponse struct {
	RoundID    string          `json:"roundId,omitempty"`
	GameState  mines.GameState `json:"gameState"`
	Mines      int             `json:"mines"`
	Bet        float64         `json:"bet"`
	Multiplier float64         `json:"profitMultiplier"`
	Profit     float64         `json:"playerProfit"`
	Streak     int             `json:"streak"`
	Balance    float64         `json:"balance"`
	Revealed   []mines.Cell    `json:"revealed"`
}

type RulesResponse struct {
	GridSize        int     `json:"gridSize"`
	DefaultMines    int     `json:"defaultMines"`
	DefaultBet      float64 `json:"defaultBet"`
	HouseEdge       float64 `json:"houseEdge"`
	StartingBalance float64 `json:"startingBalance"`
	MaxMines        int     `json:"maxMines"`
}
