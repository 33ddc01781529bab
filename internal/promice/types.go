// Package promice loads PROMICE automatic weather station daily files into
// in-memory series. Invalid sensor values (-999) are normalized to NaN on
// ingest; all downstream processing treats NaN as missing.
package promice

import "math"

// Data holds the daily series read from one station file. Slices are
// parallel: index i is one station-day. A file may span multiple years.
type Data struct {
	Station    string
	Year       []int
	DayOfYear  []int
	Depth      []float64 // DepthPressureTransducer_Cor(m)
	Albedo     []float64 // Albedo_theta<70d
	AirTemp    []float64 // AirTemperature(C)
	BoomHeight []float64 // HeightSensorBoom(m)
}

// Len returns the number of station-days.
func (d *Data) Len() int {
	return len(d.DayOfYear)
}

// Years returns the distinct years present, in order of first appearance.
func (d *Data) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for _, y := range d.Year {
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	return years
}

// SelectYear returns a copy of the series restricted to one year.
// The second return value is false when the year has no rows.
func (d *Data) SelectYear(year int) (*Data, bool) {
	sel := &Data{Station: d.Station}
	for i, y := range d.Year {
		if y != year {
			continue
		}
		sel.Year = append(sel.Year, y)
		sel.DayOfYear = append(sel.DayOfYear, d.DayOfYear[i])
		sel.Depth = append(sel.Depth, d.Depth[i])
		sel.Albedo = append(sel.Albedo, d.Albedo[i])
		sel.AirTemp = append(sel.AirTemp, d.AirTemp[i])
		sel.BoomHeight = append(sel.BoomHeight, d.BoomHeight[i])
	}
	if sel.Len() == 0 {
		return nil, false
	}
	return sel, true
}

// IsMissing reports whether a sample is a missing value.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Missing returns the missing-value sentinel used throughout the series.
func Missing() float64 {
	return math.NaN()
}
