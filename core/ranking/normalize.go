package ranking

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// MinMax rescales xs onto [0,1] against the batch's own range. NaN entries are
// treated as undefined and map to 0. A column with no defined value or no
// spread maps to all zeros.
func MinMax(xs []float64) []float64 {
	out := make([]float64, len(xs))
	defined := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			defined = append(defined, x)
		}
	}
	if len(defined) == 0 {
		return out
	}
	lo, hi := floats.Min(defined), floats.Max(defined)
	if hi == lo {
		return out
	}
	for i, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		out[i] = (x - lo) / (hi - lo)
	}
	return out
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
