// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mkeene/listing-engine/internal/geo"
	"github.com/mkeene/listing-engine/pkg/types"
)

// School is a registry school record. RatingScore is the most recent
// inspection score (1-4, 4 outstanding) or nil when the school has not
// been rated.
type School struct {
	SchoolID    int64
	Name        string
	Phase       string
	RatingScore *int
	Location    types.GeoPoint
}

// SchoolPhase values used by the registry.
const (
	PhasePrimary   = "primary"
	PhaseSecondary = "secondary"
)

// Airport is a registry airport record.
type Airport struct {
	AirportID int64
	Name      string
	IATACode  string
	Location  types.GeoPoint
}

// ConservationArea is a designated planning-restriction zone with a
// polygon boundary.
type ConservationArea struct {
	AreaID   int64
	Name     string
	Boundary geo.Ring
}

// PropertyByID returns the canonical property with the given id, or
// types.ErrNotFound.
func (s *Store) PropertyByID(ctx context.Context, propertyID int64) (*types.CanonicalProperty, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT property_id, uprn, address_normalized, postcode, building_number, lat, lon, property_type
		 FROM properties WHERE property_id = ?`, propertyID)
	return scanProperty(row)
}

// PropertyByUPRN returns the property with the given unique reference,
// or nil when no property carries it.
func (s *Store) PropertyByUPRN(ctx context.Context, uprn string) (*types.CanonicalProperty, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT property_id, uprn, address_normalized, postcode, building_number, lat, lon, property_type
		 FROM properties WHERE uprn = ?`, uprn)
	p, err := scanProperty(row)
	if err == types.ErrNotFound {
		return nil, nil
	}
	return p, err
}

// PropertyByPostcodeNumber returns the property at (postcode, building
// number), or nil when absent. Postcode must already be normalized.
func (s *Store) PropertyByPostcodeNumber(ctx context.Context, postcode, buildingNumber string) (*types.CanonicalProperty, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT property_id, uprn, address_normalized, postcode, building_number, lat, lon, property_type
		 FROM properties WHERE postcode = ? AND building_number = ?
		 ORDER BY property_id LIMIT 1`, postcode, buildingNumber)
	p, err := scanProperty(row)
	if err == types.ErrNotFound {
		return nil, nil
	}
	return p, err
}

// PropertiesByPostcode returns all properties sharing a normalized
// postcode, ordered by id. The matcher scores these as fuzzy candidates.
func (s *Store) PropertiesByPostcode(ctx context.Context, postcode string) ([]types.CanonicalProperty, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT property_id, uprn, address_normalized, postcode, building_number, lat, lon, property_type
		 FROM properties WHERE postcode = ? ORDER BY property_id`, postcode)
	if err != nil {
		return nil, fmt.Errorf("querying properties by postcode: %w", err)
	}
	defer rows.Close()

	var props []types.CanonicalProperty
	for rows.Next() {
		var p types.CanonicalProperty
		var buildingNumber, propertyType sql.NullString
		if err := rows.Scan(&p.PropertyID, &p.UPRN, &p.NormalizedAddress, &p.Postcode,
			&buildingNumber, &p.Location.Lat, &p.Location.Lon, &propertyType); err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		p.BuildingNumber = buildingNumber.String
		p.PropertyType = propertyType.String
		props = append(props, p)
	}
	return props, rows.Err()
}

// NearestSchool returns the school of the given phase closest to p and
// its distance in meters, or nil when no school of that phase exists.
func (s *Store) NearestSchool(ctx context.Context, p types.GeoPoint, phase string) (*School, float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT school_id, name, phase, rating_score, lat, lon FROM schools WHERE phase = ?`, phase)
	if err != nil {
		return nil, 0, fmt.Errorf("querying schools: %w", err)
	}
	defer rows.Close()

	var best *School
	var bestDist float64
	for rows.Next() {
		var sc School
		var rating sql.NullInt64
		if err := rows.Scan(&sc.SchoolID, &sc.Name, &sc.Phase, &rating,
			&sc.Location.Lat, &sc.Location.Lon); err != nil {
			return nil, 0, fmt.Errorf("scanning school: %w", err)
		}
		if rating.Valid {
			v := int(rating.Int64)
			sc.RatingScore = &v
		}
		d := geo.DistanceM(p, sc.Location)
		if best == nil || d < bestDist {
			cp := sc
			best = &cp
			bestDist = d
		}
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return best, bestDist, nil
}

// NearestAirport returns the airport closest to p and its distance in
// meters, or nil when the airport index is empty.
func (s *Store) NearestAirport(ctx context.Context, p types.GeoPoint) (*Airport, float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT airport_id, name, iata_code, lat, lon FROM airports`)
	if err != nil {
		return nil, 0, fmt.Errorf("querying airports: %w", err)
	}
	defer rows.Close()

	var best *Airport
	var bestDist float64
	for rows.Next() {
		var a Airport
		if err := rows.Scan(&a.AirportID, &a.Name, &a.IATACode,
			&a.Location.Lat, &a.Location.Lon); err != nil {
			return nil, 0, fmt.Errorf("scanning airport: %w", err)
		}
		d := geo.DistanceM(p, a.Location)
		if best == nil || d < bestDist {
			cp := a
			best = &cp
			bestDist = d
		}
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return best, bestDist, nil
}

// ConservationAreaContaining returns the conservation area whose boundary
// contains p, or nil when the point is in no area. Overlapping areas
// resolve to the lowest area id so repeated calls give the same answer.
func (s *Store) ConservationAreaContaining(ctx context.Context, p types.GeoPoint) (*ConservationArea, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT area_id, name, boundary FROM conservation_areas ORDER BY area_id`)
	if err != nil {
		return nil, fmt.Errorf("querying conservation areas: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ca ConservationArea
		var boundaryJSON string
		if err := rows.Scan(&ca.AreaID, &ca.Name, &boundaryJSON); err != nil {
			return nil, fmt.Errorf("scanning conservation area: %w", err)
		}
		if err := json.Unmarshal([]byte(boundaryJSON), &ca.Boundary); err != nil {
			return nil, fmt.Errorf("parsing boundary for area %d: %w", ca.AreaID, err)
		}
		if ca.Boundary.Contains(p) {
			return &ca, nil
		}
	}
	return nil, rows.Err()
}

func scanProperty(row *sql.Row) (*types.CanonicalProperty, error) {
	var p types.CanonicalProperty
	var buildingNumber, propertyType sql.NullString
	err := row.Scan(&p.PropertyID, &p.UPRN, &p.NormalizedAddress, &p.Postcode,
		&buildingNumber, &p.Location.Lat, &p.Location.Lon, &propertyType)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning property: %w", err)
	}
	p.BuildingNumber = buildingNumber.String
	p.PropertyType = propertyType.String
	return &p, nil
}
