// Package mines holds the game rules for a single mines round: mine
// placement, payout math and the round state machine.
package mines

import "math/rand/v2"

// Source yields uniformly distributed ints in [0, n).
type Source interface {
	IntN(n int) int
}

type mathSource struct {
	r *rand.Rand
}

// NewSource returns a non-cryptographic Source. A zero seed pair draws its
// seed from the runtime.
func NewSource(seed1, seed2 uint64) Source {
	if seed1 == 0 && seed2 == 0 {
		seed1, seed2 = rand.Uint64(), rand.Uint64()
	}
	return &mathSource{r: rand.New(rand.NewPCG(seed1, seed2))}
}

func (s *mathSource) IntN(n int) int {
	return s.r.IntN(n)
}

// RandomCell draws a row in [0, rowCount) and a column in [0, columnCount).
func RandomCell(src Source, rowCount, columnCount int) Cell {
	return Cell{
		Row:    src.IntN(rowCount),
		Column: src.IntN(columnCount),
	}
}
