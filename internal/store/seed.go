// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/mkeene/listing-engine/pkg/types"
)

// SeedFile is the on-disk YAML layout for registry and listing data.
// Collection of raw listings happens elsewhere; they arrive here as
// files.
type SeedFile struct {
	Properties        []types.CanonicalProperty `yaml:"properties"`
	Schools           []SeedSchool              `yaml:"schools"`
	Airports          []SeedAirport             `yaml:"airports"`
	ConservationAreas []SeedConservationArea    `yaml:"conservation_areas"`
	RawListings       []types.RawListing        `yaml:"raw_listings"`
}

// SeedSchool is a school record as it appears in seed YAML.
type SeedSchool struct {
	Name        string         `yaml:"name"`
	Phase       string         `yaml:"phase"`
	RatingScore *int           `yaml:"rating_score"`
	Location    types.GeoPoint `yaml:"location"`
}

// SeedAirport is an airport record as it appears in seed YAML.
type SeedAirport struct {
	Name     string         `yaml:"name"`
	IATACode string         `yaml:"iata_code"`
	Location types.GeoPoint `yaml:"location"`
}

// SeedConservationArea is a conservation area as it appears in seed YAML.
type SeedConservationArea struct {
	Name     string           `yaml:"name"`
	Boundary []types.GeoPoint `yaml:"boundary"`
}

// LoadSummary holds counts from a seed load.
type LoadSummary struct {
	Properties        int
	Schools           int
	Airports          int
	ConservationAreas int
	RawListings       int
}

// LoadSeed reads a YAML seed file and inserts its contents, printing
// per-section progress to w. Postcodes are normalized on the way in so
// matcher lookups hit the indexes.
func (s *Store) LoadSeed(ctx context.Context, path string, w io.Writer) (LoadSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("reading seed file: %w", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return LoadSummary{}, fmt.Errorf("parsing seed file %s: %w", path, err)
	}

	var summary LoadSummary

	for _, p := range seed.Properties {
		p.Postcode = NormalizePostcode(p.Postcode)
		if err := s.InsertProperty(ctx, p); err != nil {
			return summary, err
		}
		summary.Properties++
	}
	for _, sc := range seed.Schools {
		if err := s.InsertSchool(ctx, sc); err != nil {
			return summary, err
		}
		summary.Schools++
	}
	for _, a := range seed.Airports {
		if err := s.InsertAirport(ctx, a); err != nil {
			return summary, err
		}
		summary.Airports++
	}
	for _, ca := range seed.ConservationAreas {
		if err := s.InsertConservationArea(ctx, ca); err != nil {
			return summary, err
		}
		summary.ConservationAreas++
	}
	for _, l := range seed.RawListings {
		l.Postcode = NormalizePostcode(l.Postcode)
		if _, err := s.InsertRawListing(ctx, l); err != nil {
			return summary, err
		}
		summary.RawListings++
	}

	fmt.Fprintf(w, "loaded %d properties, %d schools, %d airports, %d conservation areas, %d raw listings\n",
		summary.Properties, summary.Schools, summary.Airports,
		summary.ConservationAreas, summary.RawListings)
	return summary, nil
}

// InsertProperty stores a canonical property. Re-inserting an existing
// property id replaces the row; registry data is reference data and the
// newest load wins.
func (s *Store) InsertProperty(ctx context.Context, p types.CanonicalProperty) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO properties
		 (property_id, uprn, address_normalized, postcode, building_number, lat, lon, property_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.PropertyID, p.UPRN, p.NormalizedAddress, p.Postcode, p.BuildingNumber,
		p.Location.Lat, p.Location.Lon, p.PropertyType)
	if err != nil {
		return fmt.Errorf("inserting property %d: %w", p.PropertyID, err)
	}
	return nil
}

// InsertSchool stores a school record.
func (s *Store) InsertSchool(ctx context.Context, sc SeedSchool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO schools (name, phase, rating_score, lat, lon) VALUES (?, ?, ?, ?, ?)`,
		sc.Name, sc.Phase, sc.RatingScore, sc.Location.Lat, sc.Location.Lon)
	if err != nil {
		return fmt.Errorf("inserting school %q: %w", sc.Name, err)
	}
	return nil
}

// InsertAirport stores an airport record.
func (s *Store) InsertAirport(ctx context.Context, a SeedAirport) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO airports (name, iata_code, lat, lon) VALUES (?, ?, ?, ?)`,
		a.Name, a.IATACode, a.Location.Lat, a.Location.Lon)
	if err != nil {
		return fmt.Errorf("inserting airport %q: %w", a.IATACode, err)
	}
	return nil
}

// InsertConservationArea stores a conservation area with its boundary
// serialized as a JSON ring.
func (s *Store) InsertConservationArea(ctx context.Context, ca SeedConservationArea) error {
	boundary, err := json.Marshal(ca.Boundary)
	if err != nil {
		return fmt.Errorf("marshaling boundary for %q: %w", ca.Name, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO conservation_areas (name, boundary) VALUES (?, ?)`,
		ca.Name, string(boundary))
	if err != nil {
		return fmt.Errorf("inserting conservation area %q: %w", ca.Name, err)
	}
	return nil
}

// TableCounts returns row counts for the main tables, for `store stats`.
func (s *Store) TableCounts(ctx context.Context) (map[string]int, error) {
	tables := []string{
		"properties", "schools", "airports", "conservation_areas",
		"raw_listings", "match_results", "listings_enriched",
	}
	counts := make(map[string]int, len(tables))
	for _, table := range tables {
		var n int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("counting %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// NormalizePostcode uppercases a postcode and strips all spaces.
func NormalizePostcode(postcode string) string {
	return strings.ToUpper(strings.ReplaceAll(postcode, " ", ""))
}
