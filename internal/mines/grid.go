package mines

import "fmt"

// Generator places mines on a square grid.
type Generator struct {
	size     int
	strategy GridStrategy
	src      Source
}

func NewGenerator(size int, strategy GridStrategy, src Source) *Generator {
	return &Generator{size: size, strategy: strategy, src: src}
}

// GenerateGrid returns exactly mineCount unique cells inside the grid.
func (g *Generator) GenerateGrid(mineCount int) (MineSet, error) {
	total := g.size * g.size
	if mineCount < 0 || mineCount > total {
		return MineSet{}, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidMineCount, mineCount, total)
	}
	if g.strategy == StrategySample {
		return g.sample(mineCount), nil
	}
	return g.shuffle(mineCount), nil
}

// shuffle runs a partial Fisher-Yates over the flattened cell indices and
// keeps the first mineCount of them.
func (g *Generator) shuffle(mineCount int) MineSet {
	total := g.size * g.size
	pool := make([]int, total)
	for i := range pool {
		pool[i] = i
	}

	set := newMineSet(mineCount)
	for i := 0; i < mineCount; i++ {
		j := i + g.src.IntN(total-i)
		pool[i], pool[j] = pool[j], pool[i]
		set.add(Cell{Row: pool[i] / g.size, Column: pool[i] % g.size})
	}
	return set
}

// sample draws random cells and drops repeats until the set is full.
func (g *Generator) sample(mineCount int) MineSet {
	set := newMineSet(mineCount)
	for set.Len() < mineCount {
		set.add(RandomCell(g.src, g.size, g.size))
	}
	return set
}
