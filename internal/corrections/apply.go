package corrections

import "math"

// Apply interprets the entry's adjustment list over a raw depth series and
// returns a corrected copy. The input is never mutated, so corrections
// cannot be applied twice to the same values. doy and depth are parallel.
func (e *Entry) Apply(doy []int, depth []float64) []float64 {
	z := append([]float64(nil), depth...)
	for i := range e.Adjust {
		e.Adjust[i].apply(doy, z)
	}
	return z
}

// ApplyBoomExclusions blanks the entry's excluded boom-height days,
// returning a copy.
func (e *Entry) ApplyBoomExclusions(doy []int, boom []float64) []float64 {
	out := append([]float64(nil), boom...)
	for _, day := range e.BoomExclude {
		for i, d := range doy {
			if d == day {
				out[i] = math.NaN()
			}
		}
	}
	return out
}

func (a *Adjustment) apply(doy []int, z []float64) {
	delta := a.Delta
	if a.Op == OpOffset && a.Reference != nil {
		// Capture the reference value before mutating: the reference day
		// itself usually matches the predicate and must land at zero.
		delta = math.NaN()
		for i, d := range doy {
			if d == *a.Reference {
				delta = -z[i]
				break
			}
		}
	}

	for i := range z {
		if !a.matches(doy[i], z[i]) {
			continue
		}
		switch a.Op {
		case OpExclude:
			z[i] = math.NaN()
		case OpOffset:
			z[i] += delta
		case OpSet:
			z[i] = a.Value
		}
	}
}

// matches evaluates the predicate against one sample. A missing current
// value never satisfies a value bound.
func (a *Adjustment) matches(day int, v float64) bool {
	if len(a.Days) > 0 {
		found := false
		for _, d := range a.Days {
			if d == day {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if a.After != nil && day <= *a.After {
		return false
	}
	if a.From != nil && day < *a.From {
		return false
	}
	if a.Before != nil && day >= *a.Before {
		return false
	}
	if a.Through != nil && day > *a.Through {
		return false
	}
	if a.Above != nil && !(v > *a.Above) {
		return false
	}
	if a.Below != nil && !(v < *a.Below) {
		return false
	}
	if a.Min != nil && !(v >= *a.Min) {
		return false
	}
	if a.Max != nil && !(v <= *a.Max) {
		return false
	}
	if a.Missing && !math.IsNaN(v) {
		return false
	}
	return true
}
