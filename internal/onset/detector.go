// Package onset determines the bare ice day (BID) of a station-year from a
// corrected ice-ablation series: the series is baselined to a null pre-melt
// mean, then scanned for the first excursion past the ablation threshold
// after the approximate onset day.
package onset

import (
	"math"

	"go.uber.org/zap"

	"github.com/glacioclim/promice-bic/internal/corrections"
)

// Params defines the onset detection constants.
type Params struct {
	// BaselineWindowDays is the length of the pre-onset window whose mean
	// defines zero ablation (e.g. 45)
	BaselineWindowDays int

	// Threshold is the corrected depth in meters marking significant ice
	// ablation (e.g. -0.06)
	Threshold float64

	// AlbedoBias corrects for measurement platform obstruction of the
	// radiometer field of view after Aoki et al (2011), which increases
	// average PROMICE broadband albedo by 0.034
	AlbedoBias float64
}

// DefaultParams returns the standard PROMICE processing constants.
func DefaultParams() Params {
	return Params{
		BaselineWindowDays: 45,
		Threshold:          -0.06,
		AlbedoBias:         0.034,
	}
}

// Input carries one station-year's corrected depth series and its
// correction metadata into detection.
type Input struct {
	Station string
	Year    int

	DOY    []int
	Depth  []float64 // corrected depth, not yet baselined
	Albedo []float64 // raw albedo

	Flag          int
	OnsetDay      int // 0 when no approximate onset is known
	ExcludeAlbedo bool
}

// Result is the detection outcome. No combination of inputs raises an
// error: undetectable onsets are explicit missing/flag states.
type Result struct {
	Depth  []float64 // baselined depth
	Albedo []float64 // bias-corrected albedo, blanked when invalid

	Flag        int
	AlbedoValid bool
	BareIceDay  int // valid only when Detected
	Detected    bool
}

// Detect baselines the depth series and locates the bare ice day.
//
// Baselining subtracts the mean corrected depth over the open window
// (onset-BaselineWindowDays, onset); it only happens for high-confidence
// entries, since no approximate onset day exists otherwise. Detection scans
// days strictly after the approximate onset for the first sample below
// Threshold. When no such sample exists the onset cannot be confirmed, so
// the paired albedo series is marked invalid for composite purposes.
func Detect(in Input, params Params, logger *zap.SugaredLogger) Result {
	res := Result{
		Depth:       append([]float64(nil), in.Depth...),
		Albedo:      append([]float64(nil), in.Albedo...),
		Flag:        in.Flag,
		AlbedoValid: !in.ExcludeAlbedo,
	}

	for i := range res.Albedo {
		res.Albedo[i] += params.AlbedoBias
	}
	if in.ExcludeAlbedo {
		blank(res.Albedo)
	}
	if allMissing(res.Albedo) {
		res.AlbedoValid = false
	}

	highConfidence := in.Flag == corrections.FlagHighConfidence && in.OnsetDay > 0
	if !highConfidence {
		return res
	}

	// null pre-melt season ablation
	base := windowMean(in.DOY, res.Depth, in.OnsetDay-params.BaselineWindowDays, in.OnsetDay)
	for i := range res.Depth {
		res.Depth[i] -= base
	}

	for i, d := range in.DOY {
		if d > in.OnsetDay && res.Depth[i] < params.Threshold {
			res.BareIceDay = d
			res.Detected = true
			break
		}
	}
	if !res.Detected {
		res.AlbedoValid = false
		if logger != nil {
			logger.Debugf("no bare ice detected for %s %d after day %d", in.Station, in.Year, in.OnsetDay)
		}
	}

	return res
}

// windowMean averages non-missing samples with lo < doy < hi. Returns NaN
// for an empty window, which propagates through the baseline like the
// source data's missing values.
func windowMean(doy []int, v []float64, lo, hi int) float64 {
	sum := 0.0
	n := 0
	for i, d := range doy {
		if d > lo && d < hi && !math.IsNaN(v[i]) {
			sum += v[i]
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func blank(v []float64) {
	for i := range v {
		v[i] = math.NaN()
	}
}

func allMissing(v []float64) bool {
	for _, x := range v {
		if !math.IsNaN(x) {
			return false
		}
	}
	return true
}
