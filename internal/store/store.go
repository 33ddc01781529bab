// Package store persists cleaned station-year tables to a local SQLite
// results database.
package store

import (
	"database/sql"
	"fmt"
	"math"

	_ "modernc.org/sqlite"

	"github.com/glacioclim/promice-bic/internal/process"
)

const schema = `
CREATE TABLE IF NOT EXISTS cleaned (
	station TEXT NOT NULL,
	year INTEGER NOT NULL,
	doy INTEGER NOT NULL,
	dpt_proc REAL,
	dpt_flag INTEGER NOT NULL,
	bid INTEGER,
	air_temperature_c REAL,
	albedo_theta_inf_70d REAL,
	albedo_flag INTEGER NOT NULL,
	height_sensor_boom_m REAL,
	PRIMARY KEY (station, year, doy)
)`

// Store wraps the results database.
type Store struct {
	db *sql.DB
}

// Row is one cleaned station-day as persisted.
type Row struct {
	Station    string
	Year       int
	DOY        int
	Depth      sql.NullFloat64
	Flag       int
	BID        sql.NullInt64
	AirTemp    sql.NullFloat64
	Albedo     sql.NullFloat64
	AlbedoFlag int
	BoomHeight sql.NullFloat64
}

// Open opens (creating if needed) a results database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping results database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create results schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveStationYear replaces the cleaned rows for one station-year.
func (s *Store) SaveStationYear(sy *process.StationYear) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cleaned WHERE station = ? AND year = ?`, sy.Station, sy.Year); err != nil {
		return fmt.Errorf("failed to delete existing rows: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO cleaned (station, year, doy, dpt_proc, dpt_flag, bid,
		                     air_temperature_c, albedo_theta_inf_70d,
		                     albedo_flag, height_sensor_boom_m)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	var bid sql.NullInt64
	if sy.Detected {
		bid = sql.NullInt64{Int64: int64(sy.BareIceDay), Valid: true}
	}
	albedoFlag := 0
	if sy.AlbedoValid {
		albedoFlag = 1
	}

	for i, doy := range sy.DOY {
		_, err := stmt.Exec(
			sy.Station, sy.Year, doy,
			nullable(sy.Depth[i]), sy.Flag, bid,
			nullable(sy.AirTemp[i]), nullable(sy.Albedo[i]),
			albedoFlag, nullable(sy.BoomHeight[i]),
		)
		if err != nil {
			return fmt.Errorf("failed to insert cleaned row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rows returns the persisted cleaned rows for one station-year in day
// order.
func (s *Store) Rows(station string, year int) ([]Row, error) {
	rows, err := s.db.Query(`
		SELECT station, year, doy, dpt_proc, dpt_flag, bid,
		       air_temperature_c, albedo_theta_inf_70d, albedo_flag,
		       height_sensor_boom_m
		FROM cleaned
		WHERE station = ? AND year = ?
		ORDER BY doy`, station, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query cleaned rows: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		err := rows.Scan(&r.Station, &r.Year, &r.DOY, &r.Depth, &r.Flag,
			&r.BID, &r.AirTemp, &r.Albedo, &r.AlbedoFlag, &r.BoomHeight)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cleaned row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cleaned rows: %w", err)
	}
	return out, nil
}

func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
