package mines_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"mines-backend/internal/mines"
)

// zeroSource always draws the lowest value, which makes shuffle placement
// fill the grid in row-major order.
type zeroSource struct{}

func (zeroSource) IntN(int) int { return 0 }

// scriptSource replays fixed draws, wrapping around.
type scriptSource struct {
	draws []int
	pos   int
}

func (s *scriptSource) IntN(n int) int {
	v := s.draws[s.pos%len(s.draws)] % n
	s.pos++
	return v
}

func TestRandomCell_WithinBounds(t *testing.T) {
	src := mines.NewSource(7, 11)
	for i := 0; i < 1000; i++ {
		c := mines.RandomCell(src, 5, 5)
		require.GreaterOrEqual(t, c.Row, 0)
		require.Less(t, c.Row, 5)
		require.GreaterOrEqual(t, c.Column, 0)
		require.Less(t, c.Column, 5)
	}
}

func TestRandomCell_CoversGrid(t *testing.T) {
	src := mines.NewSource(3, 4)
	seen := make(map[mines.Cell]bool)
	for i := 0; i < 5000; i++ {
		seen[mines.RandomCell(src, 5, 5)] = true
	}
	assert.Len(t, seen, 25, "every cell should be drawn eventually")
}

func TestGenerateGrid_AllCounts_Property(t *testing.T) {
	for _, strategy := range []mines.GridStrategy{mines.StrategyShuffle, mines.StrategySample} {
		strategy := strategy
		t.Run(string(strategy), func(t *testing.T) {
			rapid.Check(t, func(rt *rapid.T) {
				count := rapid.IntRange(0, 25).Draw(rt, "mineCount")
				seed := rapid.Uint64().Draw(rt, "seed")
				gen := mines.NewGenerator(5, strategy, mines.NewSource(seed, seed+1))

				set, err := gen.GenerateGrid(count)
				require.NoError(rt, err)
				require.Equal(rt, count, set.Len())

				seen := make(map[mines.Cell]bool)
				for _, c := range set.Cells() {
					assert.False(rt, seen[c], "duplicate cell %v", c)
					seen[c] = true
					assert.True(rt, c.Row >= 0 && c.Row < 5, "row %d out of range", c.Row)
					assert.True(rt, c.Column >= 0 && c.Column < 5, "column %d out of range", c.Column)
					assert.True(rt, set.Contains(c))
				}
			})
		})
	}
}

func TestGenerateGrid_Zero(t *testing.T) {
	gen := mines.NewGenerator(5, mines.StrategySample, mines.NewSource(1, 1))
	set, err := gen.GenerateGrid(0)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	assert.Empty(t, set.Cells())
}

func TestGenerateGrid_FullGrid(t *testing.T) {
	for _, strategy := range []mines.GridStrategy{mines.StrategyShuffle, mines.StrategySample} {
		gen := mines.NewGenerator(5, strategy, mines.NewSource(9, 9))
		set, err := gen.GenerateGrid(25)
		require.NoError(t, err)
		require.Equal(t, 25, set.Len())
		for r := 0; r < 5; r++ {
			for c := 0; c < 5; c++ {
				assert.True(t, set.Contains(mines.Cell{Row: r, Column: c}), "strategy %s missing (%d,%d)", strategy, r, c)
			}
		}
	}
}

func TestGenerateGrid_InvalidCount(t *testing.T) {
	gen := mines.NewGenerator(5, mines.StrategyShuffle, mines.NewSource(1, 2))

	_, err := gen.GenerateGrid(-1)
	assert.ErrorIs(t, err, mines.ErrInvalidMineCount)

	_, err = gen.GenerateGrid(26)
	assert.ErrorIs(t, err, mines.ErrInvalidMineCount)
}

func TestGenerateGrid_ShuffleOrder(t *testing.T) {
	gen := mines.NewGenerator(5, mines.StrategyShuffle, zeroSource{})
	set, err := gen.GenerateGrid(7)
	require.NoError(t, err)

	expected := []mines.Cell{
		{Row: 0, Column: 0}, {Row: 0, Column: 1}, {Row: 0, Column: 2}, {Row: 0, Column: 3},
		{Row: 0, Column: 4}, {Row: 1, Column: 0}, {Row: 1, Column: 1},
	}
	assert.Equal(t, expected, set.Cells())
}

func TestGenerateGrid_SampleSkipsRepeats(t *testing.T) {
	// Draws come in (row, column) pairs: (1,1) twice, then (2,3).
	src := &scriptSource{draws: []int{1, 1, 1, 1, 2, 3}}
	gen := mines.NewGenerator(5, mines.StrategySample, src)

	set, err := gen.GenerateGrid(2)
	require.NoError(t, err)
	assert.Equal(t, []mines.Cell{{Row: 1, Column: 1}, {Row: 2, Column: 3}}, set.Cells())
	assert.Equal(t, 6, src.pos, "the repeated cell should cost one extra draw pair")
}

func TestMineSet_CellsIsCopy(t *testing.T) {
	gen := mines.NewGenerator(5, mines.StrategyShuffle, zeroSource{})
	set, err := gen.GenerateGrid(2)
	require.NoError(t, err)

	cells := set.Cells()
	cells[0] = mines.Cell{Row: 4, Column: 4}
	assert.False(t, set.Contains(mines.Cell{Row: 4, Column: 4}))
	assert.True(t, set.Contains(mines.Cell{Row: 0, Column: 0}))
}
