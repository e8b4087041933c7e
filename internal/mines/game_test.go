package mines_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"mines-backend/internal/mines"
)

func newTestGame(t testing.TB) *mines.Game {
	t.Helper()
	return mines.NewGame(mines.DefaultRules(), mines.NewSource(42, 43))
}

// nthSafeCell returns the n-th unmined cell in row-major order.
func nthSafeCell(t testing.TB, g *mines.Game, n int) mines.Cell {
	t.Helper()
	mined := make(map[mines.Cell]bool)
	for _, c := range g.Mines() {
		mined[c] = true
	}
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			cell := mines.Cell{Row: r, Column: c}
			if mined[cell] {
				continue
			}
			if n == 0 {
				return cell
			}
			n--
		}
	}
	t.Fatal("not enough safe cells")
	return mines.Cell{}
}

func TestGame_Initialize(t *testing.T) {
	g := newTestGame(t)
	res := g.Initialize()
	assert.Equal(t, mines.InitResult{Mines: 8, Bet: 10, GameState: mines.StateIdle, Balance: 100}, res)

	snap := g.Snapshot()
	assert.Equal(t, 1.0, snap.Multiplier)
	assert.Equal(t, 0.0, snap.Profit)
	assert.Equal(t, 0, snap.Streak)
	assert.Empty(t, g.Mines())
}

func TestGame_StartRevealRoundTrip(t *testing.T) {
	g := newTestGame(t)
	g.Initialize()

	start, err := g.Start(8, 10)
	require.NoError(t, err)
	assert.Equal(t, mines.StatePlaying, start.GameState)
	assert.Equal(t, 90.0, start.Balance)
	assert.Len(t, g.Mines(), 8)

	res, err := g.Reveal(nthSafeCell(t, g, 0))
	require.NoError(t, err)
	assert.False(t, res.HasMine)
	assert.Equal(t, mines.StatePlaying, res.GameState)
	assert.InDelta(t, (25.0/17.0)*0.99, res.ProfitMultiplier, 1e-12)
	assert.InDelta(t, 10*((25.0/17.0)*0.99-1), res.PlayerProfit, 1e-12)
}

func TestGame_RevealMine(t *testing.T) {
	g := newTestGame(t)
	_, err := g.Start(3, 10)
	require.NoError(t, err)

	_, err = g.Reveal(nthSafeCell(t, g, 0))
	require.NoError(t, err)

	res, err := g.Reveal(g.Mines()[0])
	require.NoError(t, err)
	assert.True(t, res.HasMine)
	assert.Equal(t, mines.StateLost, res.GameState)
	assert.Equal(t, 0.0, res.ProfitMultiplier)
	assert.Equal(t, 0.0, res.PlayerProfit)
	assert.Equal(t, 0, g.Snapshot().Streak)

	_, err = g.Reveal(nthSafeCell(t, g, 0))
	assert.ErrorIs(t, err, mines.ErrInvalidState, "no reveals after a loss")
}

func TestGame_NoMines(t *testing.T) {
	g := newTestGame(t)
	_, err := g.Start(0, 10)
	require.NoError(t, err)

	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			res, err := g.Reveal(mines.Cell{Row: r, Column: c})
			require.NoError(t, err)
			assert.False(t, res.HasMine)
			assert.InDelta(t, 0.99, res.ProfitMultiplier, 1e-12)
			assert.Equal(t, mines.StatePlaying, res.GameState)
		}
	}
	assert.Equal(t, 25, g.Snapshot().Streak)
}

func TestGame_FullGrid(t *testing.T) {
	g := newTestGame(t)
	_, err := g.Start(25, 10)
	require.NoError(t, err)
	assert.Len(t, g.Mines(), 25)

	res, err := g.Reveal(mines.Cell{Row: 2, Column: 2})
	require.NoError(t, err)
	assert.True(t, res.HasMine)
	assert.Equal(t, mines.StateLost, res.GameState)
}

func TestGame_EndAfterLossKeepsBalance(t *testing.T) {
	g := newTestGame(t)
	_, err := g.Start(25, 10)
	require.NoError(t, err)
	_, err = g.Reveal(mines.Cell{Row: 0, Column: 0})
	require.NoError(t, err)

	before := g.Balance()
	end, err := g.End()
	require.NoError(t, err)
	assert.True(t, end.Lost)
	assert.Equal(t, 0.0, end.Credited)
	assert.Equal(t, before, end.Balance)
	assert.Equal(t, 90.0, end.Balance)
	assert.Equal(t, mines.StateIdle, g.Snapshot().State)
}

func TestGame_EndCreditsProfit(t *testing.T) {
	g := newTestGame(t)
	_, err := g.Start(8, 10)
	require.NoError(t, err)

	var profit float64
	for i := 0; i < 3; i++ {
		res, err := g.Reveal(nthSafeCell(t, g, i))
		require.NoError(t, err)
		profit = res.PlayerProfit
	}

	before := g.Balance()
	end, err := g.End()
	require.NoError(t, err)
	assert.False(t, end.Lost)
	assert.Equal(t, profit, end.Credited)
	assert.Equal(t, before+profit, end.Balance)
}

func TestGame_EndWithoutReveal(t *testing.T) {
	g := newTestGame(t)
	_, err := g.Start(8, 10)
	require.NoError(t, err)

	end, err := g.End()
	require.NoError(t, err)
	assert.Equal(t, 0.0, end.Credited)
	assert.Equal(t, 90.0, end.Balance, "the bet stays debited when cashing out before any reveal")
}

func TestGame_RejectsInvalidTransitions(t *testing.T) {
	g := newTestGame(t)

	_, err := g.Reveal(mines.Cell{})
	assert.ErrorIs(t, err, mines.ErrInvalidState)

	_, err = g.End()
	assert.ErrorIs(t, err, mines.ErrInvalidState)

	_, err = g.Start(8, 10)
	require.NoError(t, err)

	_, err = g.Start(8, 10)
	assert.ErrorIs(t, err, mines.ErrInvalidState)
	assert.Equal(t, 90.0, g.Balance(), "a rejected start must not debit")
}

func TestGame_RejectsInvalidInput(t *testing.T) {
	g := newTestGame(t)

	_, err := g.Start(-1, 10)
	assert.ErrorIs(t, err, mines.ErrInvalidMineCount)
	_, err = g.Start(26, 10)
	assert.ErrorIs(t, err, mines.ErrInvalidMineCount)
	_, err = g.Start(8, -1)
	assert.ErrorIs(t, err, mines.ErrInvalidBet)
	_, err = g.Start(8, 100.01)
	assert.ErrorIs(t, err, mines.ErrInvalidBet)

	snap := g.Snapshot()
	assert.Equal(t, mines.StateIdle, snap.State)
	assert.Equal(t, 100.0, snap.Balance)

	_, err = g.Start(8, 100)
	require.NoError(t, err, "betting the whole balance is allowed")

	_, err = g.Reveal(mines.Cell{Row: 5, Column: 0})
	assert.ErrorIs(t, err, mines.ErrInvalidCell)
	_, err = g.Reveal(mines.Cell{Row: 0, Column: -1})
	assert.ErrorIs(t, err, mines.ErrInvalidCell)
}

func TestGame_DuplicateReveal(t *testing.T) {
	g := newTestGame(t)
	_, err := g.Start(8, 10)
	require.NoError(t, err)

	cell := nthSafeCell(t, g, 0)
	first, err := g.Reveal(cell)
	require.NoError(t, err)

	_, err = g.Reveal(cell)
	assert.ErrorIs(t, err, mines.ErrDuplicateReveal)

	snap := g.Snapshot()
	assert.Equal(t, 1, snap.Streak, "a rejected reveal must not advance the streak")
	assert.Equal(t, first.ProfitMultiplier, snap.Multiplier)
}

func TestGame_InitializeForfeitsRound(t *testing.T) {
	g := newTestGame(t)
	_, err := g.Start(8, 10)
	require.NoError(t, err)
	_, err = g.Reveal(nthSafeCell(t, g, 0))
	require.NoError(t, err)

	res := g.Initialize()
	assert.Equal(t, mines.StateIdle, res.GameState)
	assert.Equal(t, 90.0, res.Balance)
	assert.Equal(t, 0.0, g.Snapshot().Profit)
}

func TestGame_BalanceAcrossRounds_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		g := mines.NewGame(mines.DefaultRules(), mines.NewSource(rapid.Uint64().Draw(rt, "seed"), 1))

		mineCount := rapid.IntRange(0, 25).Draw(rt, "mines")
		bet := rapid.Float64Range(0, g.Balance()).Draw(rt, "bet")
		before := g.Balance()

		start, err := g.Start(mineCount, bet)
		require.NoError(rt, err)
		require.InDelta(rt, before-bet, start.Balance, 1e-9)

		reveals := rapid.IntRange(0, 25).Draw(rt, "reveals")
		var last mines.RevealResult
		for i := 0; i < reveals; i++ {
			cell := mines.Cell{Row: i / 5, Column: i % 5}
			res, err := g.Reveal(cell)
			if err != nil {
				require.ErrorIs(rt, err, mines.ErrInvalidState)
				break
			}
			last = res
		}

		end, err := g.End()
		require.NoError(rt, err)
		if last.GameState == mines.StateLost {
			require.Equal(rt, start.Balance, end.Balance)
		} else {
			require.Equal(rt, start.Balance+last.PlayerProfit, end.Balance)
		}
	})
}

func TestRules_Validate(t *testing.T) {
	assert.NoError(t, mines.DefaultRules().Validate())

	r := mines.DefaultRules()
	r.GridSize = 0
	assert.Error(t, r.Validate())

	r = mines.DefaultRules()
	r.DefaultMines = 26
	assert.Error(t, r.Validate())

	r = mines.DefaultRules()
	r.HouseEdge = 1
	assert.Error(t, r.Validate())

	r = mines.DefaultRules()
	r.Strategy = "roulette"
	assert.Error(t, r.Validate())
}

func TestGameState_String(t *testing.T) {
	assert.Equal(t, "idle", mines.StateIdle.String())
	assert.Equal(t, "playing", mines.StatePlaying.String())
	assert.Equal(t, "lost", mines.StateLost.String())
	assert.Equal(t, "GameState(7)", mines.GameState(7).String())
}
