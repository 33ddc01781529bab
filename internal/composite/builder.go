// Package composite aligns cleaned station-years on their bare ice day and
// stacks them into fixed-width matrices for cross-station averaging.
package composite

import (
	"math"

	"go.uber.org/zap"

	"github.com/glacioclim/promice-bic/internal/process"
)

// Variable names keying the composite matrices.
const (
	VarAirTemperature = "air_temperature_degrees"
	VarIceAblation    = "ice_ablation_meters"
	VarSnowHeight     = "snow_height_meters"
	VarAlbedo         = "albedo_unitless"
)

// DefaultHalfWindow is the default number of days considered around bare
// ice appearance.
const DefaultHalfWindow = 45

// Boom-height re-baseline window, in days after bare ice appearance. The
// surface is judged stable over this period.
const (
	boomBaseStart = 10
	boomBaseEnd   = 30
)

// Composite holds one matrix per variable. Every row is one qualifying
// station-year spanning BID±HalfWindow; every row has exactly
// 2*HalfWindow+1 columns, column 0 aligned to BID-HalfWindow.
type Composite struct {
	HalfWindow int                    `msgpack:"half_window"`
	Rows       []string               `msgpack:"rows"`    // "{station}_{year}"
	Offsets    []int                  `msgpack:"offsets"` // -dt..+dt
	Variables  map[string][][]float64 `msgpack:"variables"`
}

// StationYears returns the number of contributing station-years.
func (c *Composite) StationYears() int {
	return len(c.Rows)
}

// Stations returns the number of distinct contributing stations.
func (c *Composite) Stations() int {
	seen := make(map[string]bool)
	for _, label := range c.Rows {
		// label is "{station}_{year}"; the station part may itself
		// contain underscores, so trim the trailing year token
		for i := len(label) - 1; i >= 0; i-- {
			if label[i] == '_' {
				seen[label[:i]] = true
				break
			}
		}
	}
	return len(seen)
}

// Build stacks every qualifying station-year: high-confidence onset, valid
// albedo, detected bare ice day. dt is the half-window radius in days.
func Build(years []*process.StationYear, dt int, logger *zap.SugaredLogger) *Composite {
	span := 2*dt + 1
	c := &Composite{
		HalfWindow: dt,
		Offsets:    make([]int, span),
		Variables: map[string][][]float64{
			VarAirTemperature: {},
			VarIceAblation:    {},
			VarSnowHeight:     {},
			VarAlbedo:         {},
		},
	}
	for i := range c.Offsets {
		c.Offsets[i] = i - dt
	}

	for _, sy := range years {
		if !sy.Qualifies() {
			continue
		}
		if logger != nil {
			logger.Infof("%s %d contributes to composite (BID %d)", sy.Station, sy.Year, sy.BareIceDay)
		}

		boom := rebaseBoom(window(sy.DOY, sy.BoomHeight, sy.BareIceDay, dt), dt)

		c.Rows = append(c.Rows, sy.Label())
		c.Variables[VarAirTemperature] = append(c.Variables[VarAirTemperature], window(sy.DOY, sy.AirTemp, sy.BareIceDay, dt))
		c.Variables[VarIceAblation] = append(c.Variables[VarIceAblation], window(sy.DOY, sy.Depth, sy.BareIceDay, dt))
		c.Variables[VarSnowHeight] = append(c.Variables[VarSnowHeight], boom)
		c.Variables[VarAlbedo] = append(c.Variables[VarAlbedo], window(sy.DOY, sy.Albedo, sy.BareIceDay, dt))
	}

	return c
}

// window extracts the samples with day of year in [bid-dt, bid+dt] and
// right-pads with missing values to exactly 2*dt+1 columns, so short
// records near the year boundary still produce full rows.
func window(doy []int, v []float64, bid, dt int) []float64 {
	span := 2*dt + 1
	out := make([]float64, 0, span)
	for i, d := range doy {
		if d >= bid-dt && d <= bid+dt {
			out = append(out, v[i])
		}
	}
	for len(out) < span {
		out = append(out, math.NaN())
	}
	return out[:span]
}

// rebaseBoom re-references an extracted boom-height row to the mean height
// over offsets +10..+30 from bare ice appearance: the stored value is
// mean - height, net surface lowering relative to a fixed reference.
func rebaseBoom(row []float64, dt int) []float64 {
	sum := 0.0
	n := 0
	for i := dt + boomBaseStart; i <= dt+boomBaseEnd && i < len(row); i++ {
		if !math.IsNaN(row[i]) {
			sum += row[i]
			n++
		}
	}
	mean := math.NaN()
	if n > 0 {
		mean = sum / float64(n)
	}
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = mean - v
	}
	return out
}
