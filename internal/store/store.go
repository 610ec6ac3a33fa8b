// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists the property registry and listing pipeline
// state in SQLite: canonical properties, schools, airports, conservation
// areas, raw listings, match results, and enriched listings. Lookups the
// matcher and enricher depend on (reference, postcode + building number,
// postcode candidate sets, nearest neighbor, containment) are all served
// from here.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mkeene/listing-engine/pkg/types"
)

// Store wraps the engine's SQLite database. It is safe for concurrent
// use; the caller owns the lifetime and must Close it.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at path and bootstraps the
// schema.
func Open(cfg types.StoreConfig) (*Store, error) {
	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS properties (
			property_id INTEGER PRIMARY KEY,
			uprn TEXT NOT NULL UNIQUE,
			address_normalized TEXT NOT NULL,
			postcode TEXT NOT NULL,
			building_number TEXT,
			lat REAL NOT NULL,
			lon REAL NOT NULL,
			property_type TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_properties_postcode ON properties(postcode)`,
		`CREATE INDEX IF NOT EXISTS idx_properties_postcode_number ON properties(postcode, building_number)`,
		`CREATE TABLE IF NOT EXISTS schools (
			school_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			phase TEXT NOT NULL,
			rating_score INTEGER,
			lat REAL NOT NULL,
			lon REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_schools_phase ON schools(phase)`,
		`CREATE TABLE IF NOT EXISTS airports (
			airport_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			iata_code TEXT NOT NULL,
			lat REAL NOT NULL,
			lon REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS conservation_areas (
			area_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			boundary TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS raw_listings (
			raw_listing_id INTEGER PRIMARY KEY AUTOINCREMENT,
			external_id TEXT NOT NULL UNIQUE,
			title TEXT,
			description TEXT,
			raw_address TEXT NOT NULL,
			postcode TEXT,
			uprn TEXT,
			price REAL,
			bedrooms INTEGER,
			bathrooms INTEGER,
			property_type_text TEXT,
			tenure TEXT,
			status TEXT NOT NULL DEFAULT 'active',
			listed_date TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS match_results (
			raw_listing_id INTEGER PRIMARY KEY REFERENCES raw_listings(raw_listing_id),
			property_id INTEGER NOT NULL REFERENCES properties(property_id),
			confidence REAL NOT NULL,
			method TEXT NOT NULL,
			matched_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS listings_enriched (
			raw_listing_id INTEGER PRIMARY KEY REFERENCES raw_listings(raw_listing_id),
			property_id INTEGER NOT NULL,
			title TEXT,
			description TEXT,
			price REAL,
			bedrooms INTEGER,
			bathrooms INTEGER,
			property_type TEXT,
			tenure TEXT,
			status TEXT NOT NULL,
			listed_date TEXT,
			address TEXT NOT NULL,
			postcode TEXT NOT NULL,
			lat REAL NOT NULL,
			lon REAL NOT NULL,
			energy_rating TEXT,
			energy_score INTEGER,
			energy_potential_rating TEXT,
			co2_emissions REAL,
			energy_consumption REAL,
			deprivation_decile INTEGER,
			crime_percentile REAL,
			flood_risk_tier TEXT,
			broadband_max_speed REAL,
			recent_planning_apps INTEGER,
			planning_refusals INTEGER,
			in_conservation_area INTEGER NOT NULL DEFAULT 0,
			conservation_area_name TEXT,
			school_quality_score REAL,
			distance_to_primary_m INTEGER,
			distance_to_secondary_m INTEGER,
			distance_to_station_m INTEGER,
			distance_to_airport_m INTEGER,
			nearest_airport_code TEXT,
			avm_estimate REAL,
			avm_ci_lower REAL,
			avm_ci_upper REAL,
			avm_confidence_score REAL,
			avm_value_delta_pct REAL,
			enriched_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_enriched_status ON listings_enriched(status)`,
		`CREATE INDEX IF NOT EXISTS idx_enriched_postcode ON listings_enriched(postcode)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}
