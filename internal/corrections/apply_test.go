package corrections

import (
	"math"
	"testing"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestApplyOrderMatters(t *testing.T) {
	// The exclusion predicate must see the already-shifted values: after
	// the -5 offset the sample no longer satisfies z >= -1.
	entry := &Entry{
		Flag: FlagLowConfidence,
		Adjust: []Adjustment{
			{Op: OpOffset, From: intPtr(200), Delta: -5},
			{Op: OpExclude, From: intPtr(200), Min: floatPtr(-1)},
		},
	}

	doy := []int{199, 200, 201}
	raw := []float64{0, 0, 0}
	z := entry.Apply(doy, raw)

	if math.IsNaN(z[1]) || math.IsNaN(z[2]) {
		t.Fatalf("exclusion evaluated against raw values instead of corrected values: %v", z)
	}
	if z[1] != -5 || z[2] != -5 {
		t.Errorf("expected offset samples of -5, got %v", z)
	}
	if z[0] != 0 {
		t.Errorf("sample before range changed: got %v", z[0])
	}
	if raw[1] != 0 {
		t.Errorf("raw series mutated: %v", raw)
	}
}

func TestApplyExclusionIdempotent(t *testing.T) {
	entry := &Entry{
		Flag: FlagLowConfidence,
		Adjust: []Adjustment{
			{Op: OpExclude, Days: []int{5}},
			{Op: OpExclude, Days: []int{5}},
		},
	}
	doy := []int{4, 5, 6}
	z := entry.Apply(doy, []float64{1, 2, 3})

	if !math.IsNaN(z[1]) {
		t.Errorf("day 5 should be missing, got %v", z[1])
	}
	if z[0] != 1 || z[2] != 3 {
		t.Errorf("other days changed: %v", z)
	}

	single := &Entry{
		Flag:   FlagLowConfidence,
		Adjust: []Adjustment{{Op: OpExclude, Days: []int{5}}},
	}
	zs := single.Apply(doy, []float64{1, 2, 3})
	for i := range z {
		if math.IsNaN(z[i]) != math.IsNaN(zs[i]) {
			t.Errorf("double exclusion differs from single at %d", i)
		}
	}
}

func TestApplyPredicates(t *testing.T) {
	tests := []struct {
		name    string
		adj     Adjustment
		doy     []int
		in      []float64
		want    []float64 // NaN means missing expected
	}{
		{
			name: "day range with value floor",
			adj:  Adjustment{Op: OpExclude, From: intPtr(260), Min: floatPtr(-3.2)},
			doy:  []int{259, 260, 261, 262},
			in:   []float64{-1, -1, -4, -3.2},
			want: []float64{-1, math.NaN(), -4, math.NaN()},
		},
		{
			name: "strict bounds",
			adj:  Adjustment{Op: OpExclude, After: intPtr(100), Before: intPtr(135), Above: floatPtr(0.15)},
			doy:  []int{100, 101, 134, 135},
			in:   []float64{0.5, 0.5, 0.15, 0.5},
			want: []float64{0.5, math.NaN(), 0.15, 0.5},
		},
		{
			name: "value predicate never matches missing sample",
			adj:  Adjustment{Op: OpExclude, Below: floatPtr(0)},
			doy:  []int{1, 2},
			in:   []float64{math.NaN(), -1},
			want: []float64{math.NaN(), math.NaN()},
		},
		{
			name: "offset within range",
			adj:  Adjustment{Op: OpOffset, From: intPtr(237), Through: intPtr(239), Delta: -0.4},
			doy:  []int{236, 237, 239, 240},
			in:   []float64{1, 1, 1, 1},
			want: []float64{1, 0.6, 0.6, 1},
		},
		{
			name: "backfill missing samples",
			adj:  Adjustment{Op: OpSet, From: intPtr(260), Missing: true, Value: -3.5},
			doy:  []int{259, 260, 261},
			in:   []float64{math.NaN(), math.NaN(), -4},
			want: []float64{math.NaN(), -3.5, -4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry{Flag: FlagLowConfidence, Adjust: []Adjustment{tt.adj}}
			got := entry.Apply(tt.doy, tt.in)
			for i := range tt.want {
				if math.IsNaN(tt.want[i]) {
					if !math.IsNaN(got[i]) {
						t.Errorf("sample %d: expected missing, got %v", i, got[i])
					}
					continue
				}
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("sample %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestApplyReferenceOffset(t *testing.T) {
	// Subtracting the value at a reference day re-levels the series so the
	// reference day itself lands at zero.
	entry := &Entry{
		Flag:   FlagHighConfidence,
		Onset:  123,
		Adjust: []Adjustment{{Op: OpOffset, After: intPtr(58), Reference: intPtr(59)}},
	}
	doy := []int{58, 59, 60}
	z := entry.Apply(doy, []float64{1, 2, 3})

	if z[0] != 1 {
		t.Errorf("day 58 should be untouched, got %v", z[0])
	}
	if z[1] != 0 {
		t.Errorf("reference day should land at zero, got %v", z[1])
	}
	if z[2] != 1 {
		t.Errorf("day 60 should be shifted by -2, got %v", z[2])
	}
}

func TestApplyBoomExclusions(t *testing.T) {
	entry := &Entry{Flag: FlagHighConfidence, Onset: 191, BoomExclude: []int{172, 211}}
	doy := []int{171, 172, 211}
	boom := entry.ApplyBoomExclusions(doy, []float64{2.0, 2.1, 2.2})

	if !math.IsNaN(boom[1]) || !math.IsNaN(boom[2]) {
		t.Errorf("excluded boom days should be missing: %v", boom)
	}
	if boom[0] != 2.0 {
		t.Errorf("unexcluded day changed: %v", boom[0])
	}
}
