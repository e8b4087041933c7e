package mines

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMineCount = errors.New("invalid mine count")
	ErrInvalidBet       = errors.New("invalid bet")
	ErrInvalidState     = errors.New("invalid game state")
	ErrDuplicateReveal  = errors.New("cell already revealed")
	ErrInvalidCell      = errors.New("cell out of range")
)

// GameState is serialised as its integer value.
type GameState int

const (
	StateIdle GameState = iota
	StatePlaying
	StateLost
)

func (s GameState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateLost:
		return "lost"
	default:
		return fmt.Sprintf("GameState(%d)", int(s))
	}
}

type Cell struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// MineSet is an insertion-ordered set of unique cells.
type MineSet struct {
	cells []Cell
	index map[Cell]struct{}
}

func newMineSet(capacity int) MineSet {
	return MineSet{
		cells: make([]Cell, 0, capacity),
		index: make(map[Cell]struct{}, capacity),
	}
}

// add reports whether c was not already present.
func (m *MineSet) add(c Cell) bool {
	if _, ok := m.index[c]; ok {
		return false
	}
	m.index[c] = struct{}{}
	m.cells = append(m.cells, c)
	return true
}

func (m MineSet) Contains(c Cell) bool {
	_, ok := m.index[c]
	return ok
}

func (m MineSet) Len() int {
	return len(m.cells)
}

// Cells returns a copy of the mined cells in placement order.
func (m MineSet) Cells() []Cell {
	out := make([]Cell, len(m.cells))
	copy(out, m.cells)
	return out
}

// GridStrategy selects how mine positions are drawn.
type GridStrategy string

const (
	StrategyShuffle GridStrategy = "shuffle"
	StrategySample  GridStrategy = "sample"
)

// Rules are the fixed parameters of every round.
type Rules struct {
	GridSize        int
	DefaultMines    int
	DefaultBet      float64
	HouseEdge       float64
	StartingBalance float64
	Strategy        GridStrategy
}

func DefaultRules() Rules {
	return Rules{
		GridSize:        5,
		DefaultMines:    8,
		DefaultBet:      10,
		HouseEdge:       0.01,
		StartingBalance: 100,
		Strategy:        StrategyShuffle,
	}
}

// Cells is the number of cells on the grid.
func (r Rules) Cells() int {
	return r.GridSize * r.GridSize
}

func (r Rules) Validate() error {
	if r.GridSize < 1 {
		return fmt.Errorf("grid size must be >= 1, got %d", r.GridSize)
	}
	if r.DefaultMines < 0 || r.DefaultMines > r.Cells() {
		return fmt.Errorf("default mines must be within [0, %d], got %d", r.Cells(), r.DefaultMines)
	}
	if r.DefaultBet < 0 {
		return fmt.Errorf("default bet must not be negative, got %v", r.DefaultBet)
	}
	if r.HouseEdge < 0 || r.HouseEdge >= 1 {
		return fmt.Errorf("house edge must be within [0, 1), got %v", r.HouseEdge)
	}
	if r.StartingBalance < 0 {
		return fmt.Errorf("starting balance must not be negative, got %v", r.StartingBalance)
	}
	switch r.Strategy {
	case StrategyShuffle, StrategySample:
	default:
		return fmt.Errorf("unknown grid strategy %q", r.Strategy)
	}
	return nil
}
