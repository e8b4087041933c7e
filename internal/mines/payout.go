package mines

// Paytable computes fair-odds multipliers for a fixed grid and house edge.
type Paytable struct {
	cells     int
	houseEdge float64
}

func NewPaytable(cells int, houseEdge float64) Paytable {
	return Paytable{cells: cells, houseEdge: houseEdge}
}

// SurvivalProbability is the chance of hits consecutive safe reveals when
// mineCount mines are hidden among the cells, drawn without replacement.
func (p Paytable) SurvivalProbability(hits, mineCount int) float64 {
	safe := p.cells - mineCount
	chance := 1.0
	for i := 0; i < hits; i++ {
		chance *= float64(safe-i) / float64(p.cells-i)
	}
	return chance
}

// CalculateMultiplier returns 0 for zero hits, otherwise the inverse
// survival probability reduced by the house edge. It is recomputed from
// scratch on every call.
//
// Precondition: 0 <= hits <= cells-mineCount.
func (p Paytable) CalculateMultiplier(hits, mineCount int) float64 {
	if hits <= 0 {
		return 0
	}
	return (1 / p.SurvivalProbability(hits, mineCount)) * (1 - p.houseEdge)
}
