package promice

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

const sampleFile = `Year MonthOfYear DayOfMonth DayOfYear AirTemperature(C) Albedo_theta<70d DepthPressureTransducer_Cor(m) HeightSensorBoom(m)
2015 4 10 100 -12.5 0.84 0.01 2.10
2015 4 11 101 -999.0 0.82 -999.0 2.11
2015 4 12 102 -8.1 -999.0 0.02 -999.0
2016 4 10 101 -10.0 0.80 0.00 2.05
`

func writeSample(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(sampleFile), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadFileNormalizesSentinels(t *testing.T) {
	data, err := ReadFile(writeSample(t, "NUK_U_day_v03_upd.txt"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if data.Station != "NUK_U" {
		t.Errorf("station: expected NUK_U, got %q", data.Station)
	}
	if data.Len() != 4 {
		t.Fatalf("expected 4 rows, got %d", data.Len())
	}
	if data.DayOfYear[0] != 100 || data.Year[0] != 2015 {
		t.Errorf("row 0: got year %d day %d", data.Year[0], data.DayOfYear[0])
	}
	if data.AirTemp[0] != -12.5 || data.Depth[0] != 0.01 {
		t.Errorf("row 0 values wrong: %v %v", data.AirTemp[0], data.Depth[0])
	}

	// -999 columns become missing
	if !math.IsNaN(data.AirTemp[1]) || !math.IsNaN(data.Depth[1]) {
		t.Errorf("row 1 sentinels not normalized: %v %v", data.AirTemp[1], data.Depth[1])
	}
	if !math.IsNaN(data.Albedo[2]) || !math.IsNaN(data.BoomHeight[2]) {
		t.Errorf("row 2 sentinels not normalized: %v %v", data.Albedo[2], data.BoomHeight[2])
	}
}

func TestStationFromFilename(t *testing.T) {
	tests := []struct {
		path    string
		station string
	}{
		{"/data/NUK_U_day_v03_upd.txt", "NUK_U"},
		{"KAN_L_day_v03_upd.txt", "KAN_L"},
		{"/data/MIT_day_v03_upd.txt", "MIT"},
		{"/data/EGP_day_v03_upd.txt", "EGP"},
		{"/data/CEN_day_v03_upd.txt", "CEN"},
		{"/data/THU_U2_day_v03_upd.txt", "THU_U2"},
	}
	for _, tt := range tests {
		if got := StationFromFilename(tt.path); got != tt.station {
			t.Errorf("%s: expected %q, got %q", tt.path, tt.station, got)
		}
	}
}

func TestSelectYear(t *testing.T) {
	data, err := ReadFile(writeSample(t, "NUK_U_day_v03_upd.txt"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	sel, ok := data.SelectYear(2015)
	if !ok {
		t.Fatal("2015 should be present")
	}
	if sel.Len() != 3 {
		t.Errorf("expected 3 rows for 2015, got %d", sel.Len())
	}

	if _, ok := data.SelectYear(1999); ok {
		t.Error("empty selection should report no result")
	}

	years := data.Years()
	if len(years) != 2 || years[0] != 2015 || years[1] != 2016 {
		t.Errorf("unexpected years: %v", years)
	}
}

func TestReadFileMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "NUK_U_day_v03_upd.txt")
	if err := os.WriteFile(path, []byte("Year DayOfYear\n2015 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); err == nil {
		t.Error("expected error for file missing required columns")
	}
}
