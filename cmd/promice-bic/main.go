// promice-bic cleans PROMICE automatic weather station daily files, detects
// the yearly bare ice day per station, and composites multi-year records
// centered on bare ice appearance.
package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/glacioclim/promice-bic/internal/composite"
	"github.com/glacioclim/promice-bic/internal/corrections"
	"github.com/glacioclim/promice-bic/internal/log"
	"github.com/glacioclim/promice-bic/internal/onset"
	"github.com/glacioclim/promice-bic/internal/process"
	"github.com/glacioclim/promice-bic/internal/promice"
	"github.com/glacioclim/promice-bic/internal/store"
)

func main() {
	var (
		dataDir     = flag.String("data", "", "Directory containing PROMICE daily .txt files")
		pattern     = flag.String("pattern", "*day_v03_upd.txt", "Glob pattern for daily files")
		correctFile = flag.String("corrections", "", "Correction table YAML (default: embedded table)")
		station     = flag.String("station", "", "Only process this station")
		year        = flag.Int("year", 0, "Only process this year (default: all years)")
		dt          = flag.Int("dt", composite.DefaultHalfWindow, "Half-window radius in days around bare ice appearance")
		dbPath      = flag.String("db", "", "Optional SQLite path for cleaned station-year tables")
		blobPath    = flag.String("out", "", "Optional output path for the composite MessagePack blob")
		debug       = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	if *dataDir == "" {
		log.Fatalf("-data is required")
	}

	table, err := loadTable(*correctFile)
	if err != nil {
		log.Fatalf("%v", err)
	}

	files, err := filepath.Glob(filepath.Join(*dataDir, *pattern))
	if err != nil {
		log.Fatalf("bad file pattern: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("no daily files matching %s under %s", *pattern, *dataDir)
	}

	var resultsDB *store.Store
	if *dbPath != "" {
		resultsDB, err = store.Open(*dbPath)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer resultsDB.Close()
	}

	params := onset.DefaultParams()
	logger := log.GetSugaredLogger()

	var cleaned []*process.StationYear
	for _, file := range files {
		name := promice.StationFromFilename(file)
		if *station != "" && name != *station {
			continue
		}
		// accumulation-area stations are skipped entirely unless
		// explicitly requested
		if *station == "" && table.AccumulationZone(name) {
			log.Infof("skipping accumulation-zone station %s", name)
			continue
		}

		data, err := promice.ReadFile(file)
		if err != nil {
			log.Errorf("%v", err)
			continue
		}

		var stationYears []*process.StationYear
		if *year != 0 {
			sel, ok := data.SelectYear(*year)
			if !ok {
				log.Warnf("%s: selected year %d not available", name, *year)
				continue
			}
			stationYears = []*process.StationYear{process.Run(table, sel, *year, params, logger)}
		} else {
			stationYears = process.RunAll(table, data, params, logger)
		}

		for _, sy := range stationYears {
			cleaned = append(cleaned, sy)
			if resultsDB != nil {
				if err := resultsDB.SaveStationYear(sy); err != nil {
					log.Errorf("%s %d: %v", sy.Station, sy.Year, err)
				}
			}
		}
	}

	comp := composite.Build(cleaned, *dt, logger)
	log.Infof("%d station years from %d stations", comp.StationYears(), comp.Stations())

	if env, ok := comp.Envelope(composite.VarAlbedo); ok && comp.StationYears() > 0 {
		log.Infof("albedo at bare ice day: %.3f±%.3f", env.Mean[*dt], env.Std[*dt])
	}

	if *blobPath != "" {
		path := *blobPath
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, composite.DefaultBlobName(*dt))
		}
		if err := comp.WriteBlob(path); err != nil {
			log.Fatalf("%v", err)
		}
		log.Infof("wrote composite to %s", path)
	}
}

func loadTable(path string) (*corrections.Table, error) {
	if path == "" {
		return corrections.Default()
	}
	return corrections.LoadFile(path)
}
