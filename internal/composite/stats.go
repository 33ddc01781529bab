package composite

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Envelope is the per-offset mean and standard deviation across station-year
// rows, ignoring missing values. Columns with no valid samples carry NaN.
type Envelope struct {
	Mean []float64
	Std  []float64
}

// Envelope computes the cross-series envelope for one variable. ok is false
// for an unknown variable name.
func (c *Composite) Envelope(variable string) (Envelope, bool) {
	rows, ok := c.Variables[variable]
	if !ok {
		return Envelope{}, false
	}

	span := 2*c.HalfWindow + 1
	env := Envelope{
		Mean: make([]float64, span),
		Std:  make([]float64, span),
	}

	col := make([]float64, 0, len(rows))
	for j := 0; j < span; j++ {
		col = col[:0]
		for _, row := range rows {
			if j < len(row) && !math.IsNaN(row[j]) {
				col = append(col, row[j])
			}
		}
		switch len(col) {
		case 0:
			env.Mean[j] = math.NaN()
			env.Std[j] = math.NaN()
		case 1:
			env.Mean[j] = col[0]
			env.Std[j] = 0
		default:
			env.Mean[j] = stat.Mean(col, nil)
			env.Std[j] = stat.StdDev(col, nil)
		}
	}
	return env, true
}
