// Package corrections holds the manually curated per-station, per-year
// correction rules for PROMICE depth-pressure-transducer series, and the
// interpreter that applies them. The rules themselves are data, maintained in
// a YAML asset: sample exclusions, additive offsets keyed to day-of-year
// ranges, onset-day estimates and confidence ratings for every processed
// station-year.
package corrections

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Confidence ratings for the bare-ice onset determination of a station-year.
const (
	FlagNoData         = 0
	FlagUnprocessed    = 1
	FlagLowConfidence  = 2
	FlagHighConfidence = 3
)

// Adjustment operations.
const (
	OpExclude = "exclude" // set matching samples to missing
	OpOffset  = "offset"  // add delta to matching samples
	OpSet     = "set"     // assign value to matching samples
)

//go:embed corrections.yaml
var defaultAsset []byte

// Table is the full correction rule set, keyed by station name.
type Table struct {
	Stations map[string]*StationRules `yaml:"stations"`
}

// StationRules carries the per-year entries for one station. Stations in the
// accumulation area have no usable ablation signal and are marked
// not-applicable instead of carrying entries.
type StationRules struct {
	AccumulationZone bool           `yaml:"accumulation_zone,omitempty"`
	Years            map[int]*Entry `yaml:"years,omitempty"`
}

// Entry is the correction record for one station-year.
type Entry struct {
	// Flag rates how confidently bare ice appearance can be determined
	// (0 no data, 1 unprocessed, 2 low confidence, 3 high confidence).
	Flag int `yaml:"flag"`

	// Onset is the manually identified approximate ice ablation onset
	// (day of year). Present only when Flag is 3.
	Onset int `yaml:"onset,omitempty"`

	// ExcludeAlbedo marks the year's albedo series unusable.
	ExcludeAlbedo bool `yaml:"exclude_albedo,omitempty"`

	// Adjust is applied strictly in order; later offsets are often
	// relative to already-shifted values.
	Adjust []Adjustment `yaml:"adjust,omitempty"`

	// BoomExclude lists days whose boom-height sample is discarded.
	BoomExclude []int `yaml:"boom_exclude,omitempty,flow"`

	Note string `yaml:"note,omitempty"`
}

// Adjustment is one correction step. All present predicate fields must hold
// for a sample to match; value predicates are evaluated against the current,
// partially corrected series.
type Adjustment struct {
	Op string `yaml:"op"`

	Days    []int `yaml:"days,omitempty,flow"` // day of year in list
	After   *int  `yaml:"after,omitempty"`     // day >  After
	From    *int  `yaml:"from,omitempty"`      // day >= From
	Before  *int  `yaml:"before,omitempty"`    // day <  Before
	Through *int  `yaml:"through,omitempty"`   // day <= Through

	Above   *float64 `yaml:"above,omitempty"` // value >  Above
	Below   *float64 `yaml:"below,omitempty"` // value <  Below
	Min     *float64 `yaml:"min,omitempty"`   // value >= Min
	Max     *float64 `yaml:"max,omitempty"`   // value <= Max
	Missing bool     `yaml:"missing,omitempty"`

	Delta float64 `yaml:"delta,omitempty"` // for offset
	// Reference replaces Delta with the negated current value at the given
	// day, re-leveling the series to that day.
	Reference *int    `yaml:"reference,omitempty"`
	Value     float64 `yaml:"value,omitempty"` // for set

	Note string `yaml:"note,omitempty"`
}

// Status classifies a table lookup.
type Status int

const (
	// StatusFound means a curated entry exists for the station-year.
	StatusFound Status = iota
	// StatusNoRule means the station-year is absent from the table.
	StatusNoRule
	// StatusNotApplicable marks accumulation-zone stations, which are
	// excluded from onset detection by design.
	StatusNotApplicable
)

// Default loads the correction table embedded in the binary.
func Default() (*Table, error) {
	return parse(defaultAsset)
}

// LoadFile loads a correction table from a YAML file on disk.
func LoadFile(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corrections file: %w", err)
	}
	return parse(raw)
}

func parse(raw []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("failed to parse corrections: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Table) validate() error {
	for station, rules := range t.Stations {
		if rules == nil {
			return fmt.Errorf("corrections: station %s has no body", station)
		}
		if rules.AccumulationZone && len(rules.Years) > 0 {
			return fmt.Errorf("corrections: accumulation-zone station %s must not carry entries", station)
		}
		for year, e := range rules.Years {
			if e == nil {
				return fmt.Errorf("corrections: %s %d has no body", station, year)
			}
			if e.Flag < FlagNoData || e.Flag > FlagHighConfidence {
				return fmt.Errorf("corrections: %s %d: flag %d out of range", station, year, e.Flag)
			}
			if e.Flag == FlagHighConfidence && e.Onset == 0 {
				return fmt.Errorf("corrections: %s %d: high confidence entry without onset day", station, year)
			}
			if e.Flag != FlagHighConfidence && e.Onset != 0 {
				return fmt.Errorf("corrections: %s %d: onset day on flag %d entry", station, year, e.Flag)
			}
			for i := range e.Adjust {
				if err := e.Adjust[i].validate(); err != nil {
					return fmt.Errorf("corrections: %s %d adjust[%d]: %w", station, year, i, err)
				}
			}
		}
	}
	return nil
}

func (a *Adjustment) validate() error {
	switch a.Op {
	case OpExclude, OpOffset, OpSet:
	default:
		return fmt.Errorf("unknown op %q", a.Op)
	}
	if len(a.Days) == 0 && a.After == nil && a.From == nil && a.Before == nil &&
		a.Through == nil && a.Above == nil && a.Below == nil && a.Min == nil &&
		a.Max == nil && !a.Missing {
		return fmt.Errorf("op %q has no predicate", a.Op)
	}
	if a.Reference != nil && a.Op != OpOffset {
		return fmt.Errorf("reference day on op %q", a.Op)
	}
	return nil
}

// Lookup finds the entry for a station-year. The entry is nil unless the
// status is StatusFound.
func (t *Table) Lookup(station string, year int) (*Entry, Status) {
	rules, ok := t.Stations[station]
	if !ok {
		return nil, StatusNoRule
	}
	if rules.AccumulationZone {
		return nil, StatusNotApplicable
	}
	e, ok := rules.Years[year]
	if !ok {
		return nil, StatusNoRule
	}
	return e, StatusFound
}

// AccumulationZone reports whether a station sits in the accumulation area.
func (t *Table) AccumulationZone(station string) bool {
	rules, ok := t.Stations[station]
	return ok && rules.AccumulationZone
}

// OnsetDay returns the approximate ice ablation onset day. It is only
// defined for high-confidence entries.
func (e *Entry) OnsetDay() (int, bool) {
	if e.Flag != FlagHighConfidence || e.Onset == 0 {
		return 0, false
	}
	return e.Onset, true
}
