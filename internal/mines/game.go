package mines

import (
	"fmt"
	"math"
)

// RoundInfo is the board side of the active round.
type RoundInfo struct {
	Mines     MineSet
	MineCount int
	State     GameState
}

// PlayerRound is the wager side of the active round.
type PlayerRound struct {
	Bet        float64
	Multiplier float64
	Profit     float64
	Streak     int
}

type InitResult struct {
	Mines     int
	Bet       float64
	GameState GameState
	Balance   float64
}

type StartResult struct {
	GameState GameState
	Balance   float64
}

type RevealResult struct {
	HasMine          bool
	ProfitMultiplier float64
	PlayerProfit     float64
	GameState        GameState
}

type EndResult struct {
	Balance float64
	// Credited is the profit paid out; zero after a loss.
	Credited float64
	Lost     bool
}

// Snapshot is a read-only view of the game.
type Snapshot struct {
	State      GameState
	MineCount  int
	Bet        float64
	Multiplier float64
	Profit     float64
	Streak     int
	Balance    float64
	Revealed   []Cell
}

// Game is the state machine for one player's rounds. Balance survives
// Initialize; everything else is reset by it.
//
// Game is not safe for concurrent use.
type Game struct {
	rules    Rules
	gen      *Generator
	paytable Paytable

	round    RoundInfo
	player   PlayerRound
	revealed []Cell
	balance  float64
}

func NewGame(rules Rules, src Source) *Game {
	g := &Game{
		rules:    rules,
		gen:      NewGenerator(rules.GridSize, rules.Strategy, src),
		paytable: NewPaytable(rules.Cells(), rules.HouseEdge),
		balance:  rules.StartingBalance,
	}
	g.Initialize()
	return g
}

func (g *Game) Rules() Rules {
	return g.rules
}

// Initialize is the soft reset between rounds. Valid from any state.
func (g *Game) Initialize() InitResult {
	g.round = RoundInfo{
		Mines:     newMineSet(0),
		MineCount: g.rules.DefaultMines,
		State:     StateIdle,
	}
	g.player = PlayerRound{
		Bet:        g.rules.DefaultBet,
		Multiplier: 1,
	}
	g.revealed = nil
	return InitResult{
		Mines:     g.round.MineCount,
		Bet:       g.player.Bet,
		GameState: g.round.State,
		Balance:   g.balance,
	}
}

// Start places mineCount mines, debits bet and enters Playing.
func (g *Game) Start(mineCount int, bet float64) (StartResult, error) {
	if g.round.State != StateIdle {
		return StartResult{}, fmt.Errorf("%w: cannot start while %s", ErrInvalidState, g.round.State)
	}
	if math.IsNaN(bet) || math.IsInf(bet, 0) || bet < 0 {
		return StartResult{}, fmt.Errorf("%w: %v", ErrInvalidBet, bet)
	}
	if bet > g.balance {
		return StartResult{}, fmt.Errorf("%w: %v exceeds balance %v", ErrInvalidBet, bet, g.balance)
	}
	set, err := g.gen.GenerateGrid(mineCount)
	if err != nil {
		return StartResult{}, err
	}

	g.Initialize()
	g.round.Mines = set
	g.round.MineCount = mineCount
	g.balance -= bet
	g.player.Bet = bet
	g.round.State = StatePlaying

	return StartResult{GameState: g.round.State, Balance: g.balance}, nil
}

// Reveal opens one cell of the active round.
func (g *Game) Reveal(c Cell) (RevealResult, error) {
	if g.round.State != StatePlaying {
		return RevealResult{}, fmt.Errorf("%w: cannot reveal while %s", ErrInvalidState, g.round.State)
	}
	size := g.rules.GridSize
	if c.Row < 0 || c.Row >= size || c.Column < 0 || c.Column >= size {
		return RevealResult{}, fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrInvalidCell, c.Row, c.Column, size, size)
	}
	for _, r := range g.revealed {
		if r == c {
			return RevealResult{}, fmt.Errorf("%w: (%d, %d)", ErrDuplicateReveal, c.Row, c.Column)
		}
	}
	g.revealed = append(g.revealed, c)

	hasMine := g.round.Mines.Contains(c)
	if hasMine {
		g.round.State = StateLost
		g.player.Streak = 0
		g.player.Multiplier = g.paytable.CalculateMultiplier(0, g.round.MineCount)
		g.player.Profit = 0
	} else {
		g.player.Streak++
		g.player.Multiplier = g.paytable.CalculateMultiplier(g.player.Streak, g.round.MineCount)
		g.player.Profit = g.player.Bet * (g.player.Multiplier - 1)
	}

	return RevealResult{
		HasMine:          hasMine,
		ProfitMultiplier: g.player.Multiplier,
		PlayerProfit:     g.player.Profit,
		GameState:        g.round.State,
	}, nil
}

// End credits the profit of a round that was not lost and resets to Idle.
func (g *Game) End() (EndResult, error) {
	if g.round.State == StateIdle {
		return EndResult{}, fmt.Errorf("%w: no round in progress", ErrInvalidState)
	}
	res := EndResult{Lost: g.round.State == StateLost}
	if !res.Lost {
		res.Credited = g.player.Profit
		g.balance += g.player.Profit
	}
	g.Initialize()
	res.Balance = g.balance
	return res, nil
}

// Mines returns the mined cells of the current round.
func (g *Game) Mines() []Cell {
	return g.round.Mines.Cells()
}

func (g *Game) Balance() float64 {
	return g.balance
}

func (g *Game) Snapshot() Snapshot {
	revealed := make([]Cell, len(g.revealed))
	copy(revealed, g.revealed)
	return Snapshot{
		State:      g.round.State,
		MineCount:  g.round.MineCount,
		Bet:        g.player.Bet,
		Multiplier: g.player.Multiplier,
		Profit:     g.player.Profit,
		Streak:     g.player.Streak,
		Balance:    g.balance,
		Revealed:   revealed,
	}
}
