package promice

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// sentinel marking invalid samples in PROMICE daily files
const invalidValue = -999.0

// Column headers in the v03 daily files.
const (
	colYear       = "Year"
	colDayOfYear  = "DayOfYear"
	colDepth      = "DepthPressureTransducer_Cor(m)"
	colAlbedo     = "Albedo_theta<70d"
	colAirTemp    = "AirTemperature(C)"
	colBoomHeight = "HeightSensorBoom(m)"
)

// StationFromFilename derives the station name from a PROMICE file name,
// e.g. "NUK_U_day_v03_upd.txt" -> "NUK_U". Single-token stations (MIT, EGP,
// CEN) keep only the first token.
func StationFromFilename(path string) string {
	base := filepath.Base(path)
	parts := strings.Split(base, "_")
	if len(parts) < 2 {
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	station := parts[0] + "_" + parts[1]
	switch parts[0] {
	case "MIT", "EGP", "CEN":
		station = parts[0]
	}
	return station
}

// ReadFile parses a whitespace-delimited PROMICE daily file. The first line
// is a header naming the columns; every -999 value becomes NaN.
func ReadFile(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	data := &Data{Station: StationFromFilename(path)}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		return nil, fmt.Errorf("%s: empty data file", path)
	}

	cols := make(map[string]int)
	for i, name := range strings.Fields(scanner.Text()) {
		cols[name] = i
	}
	for _, required := range []string{colYear, colDayOfYear, colDepth, colAlbedo, colAirTemp, colBoomHeight} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, required)
		}
	}

	line := 1
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		year, err := intField(fields, cols[colYear])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: bad year: %w", path, line, err)
		}
		doy, err := intField(fields, cols[colDayOfYear])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: bad day of year: %w", path, line, err)
		}

		data.Year = append(data.Year, year)
		data.DayOfYear = append(data.DayOfYear, doy)
		data.Depth = append(data.Depth, floatField(fields, cols[colDepth]))
		data.Albedo = append(data.Albedo, floatField(fields, cols[colAlbedo]))
		data.AirTemp = append(data.AirTemp, floatField(fields, cols[colAirTemp]))
		data.BoomHeight = append(data.BoomHeight, floatField(fields, cols[colBoomHeight]))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	return data, nil
}

func intField(fields []string, idx int) (int, error) {
	if idx >= len(fields) {
		return 0, fmt.Errorf("missing field %d", idx)
	}
	// Some files carry integer columns with a decimal point
	v, err := strconv.ParseFloat(fields[idx], 64)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func floatField(fields []string, idx int) float64 {
	if idx >= len(fields) {
		return Missing()
	}
	v, err := strconv.ParseFloat(fields[idx], 64)
	if err != nil || v == invalidValue {
		return Missing()
	}
	return v
}
