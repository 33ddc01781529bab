// Package process runs the per-station-year cleaning pipeline: table lookup,
// correction, onset detection. Its output is the cleaned series consumed by
// the composite builder and the results store.
package process

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/glacioclim/promice-bic/internal/corrections"
	"github.com/glacioclim/promice-bic/internal/onset"
	"github.com/glacioclim/promice-bic/internal/promice"
)

// StationYear is the cleaned record for one station and year. Series slices
// are parallel with DOY. Values are never re-corrected: the raw input stays
// untouched in its promice.Data.
type StationYear struct {
	Station string
	Year    int

	DOY        []int
	Depth      []float64 // DPT_proc: corrected, baselined ice ablation
	Albedo     []float64 // bias-corrected albedo
	AirTemp    []float64
	BoomHeight []float64

	Flag        int
	AlbedoValid bool
	BareIceDay  int
	Detected    bool

	// NotApplicable marks accumulation-zone stations, which carry no
	// usable ablation signal.
	NotApplicable bool
}

// Label returns the station-year identifier used as a composite row label.
func (sy *StationYear) Label() string {
	return fmt.Sprintf("%s_%d", sy.Station, sy.Year)
}

// Qualifies reports whether the station-year contributes to composites:
// high-confidence onset, valid albedo, and a detected bare ice day.
func (sy *StationYear) Qualifies() bool {
	return sy.Flag == corrections.FlagHighConfidence && sy.AlbedoValid && sy.Detected
}

// Run cleans one station-year. Missing correction rules and accumulation-zone
// stations are expected conditions surfaced as flag states, never errors.
func Run(table *corrections.Table, data *promice.Data, year int, params onset.Params, logger *zap.SugaredLogger) *StationYear {
	sy := &StationYear{
		Station:    data.Station,
		Year:       year,
		DOY:        append([]int(nil), data.DayOfYear...),
		AirTemp:    append([]float64(nil), data.AirTemp...),
		BoomHeight: append([]float64(nil), data.BoomHeight...),
	}

	entry, status := table.Lookup(data.Station, year)
	switch status {
	case corrections.StatusNoRule:
		if logger != nil {
			logger.Warnf("no processing available for %s %d", data.Station, year)
		}
		entry = &corrections.Entry{Flag: corrections.FlagNoData}
	case corrections.StatusNotApplicable:
		if logger != nil {
			logger.Warnf("%s is an accumulation-zone station, not applicable for bare ice detection", data.Station)
		}
		sy.NotApplicable = true
		entry = &corrections.Entry{Flag: corrections.FlagNoData}
	}

	depth := entry.Apply(data.DayOfYear, data.Depth)
	sy.BoomHeight = entry.ApplyBoomExclusions(data.DayOfYear, sy.BoomHeight)

	onsetDay, _ := entry.OnsetDay()
	res := onset.Detect(onset.Input{
		Station:       data.Station,
		Year:          year,
		DOY:           data.DayOfYear,
		Depth:         depth,
		Albedo:        data.Albedo,
		Flag:          entry.Flag,
		OnsetDay:      onsetDay,
		ExcludeAlbedo: entry.ExcludeAlbedo,
	}, params, logger)

	sy.Depth = res.Depth
	sy.Albedo = res.Albedo
	sy.Flag = res.Flag
	sy.AlbedoValid = res.AlbedoValid
	sy.BareIceDay = res.BareIceDay
	sy.Detected = res.Detected
	return sy
}

// RunAll cleans every year present in a station file, in order of
// appearance.
func RunAll(table *corrections.Table, data *promice.Data, params onset.Params, logger *zap.SugaredLogger) []*StationYear {
	var out []*StationYear
	for _, year := range data.Years() {
		sel, ok := data.SelectYear(year)
		if !ok {
			continue
		}
		out = append(out, Run(table, sel, year, params, logger))
	}
	return out
}
