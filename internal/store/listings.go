// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mkeene/listing-engine/pkg/types"
)

// InsertRawListing stores a raw listing and returns its assigned id.
// Re-inserting the same external id is ignored and returns the existing
// row's id, so seed loads are repeatable.
func (s *Store) InsertRawListing(ctx context.Context, l types.RawListing) (int64, error) {
	status := l.Status
	if status == "" {
		status = types.StatusActive
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO raw_listings
		 (external_id, title, description, raw_address, postcode, uprn, price,
		  bedrooms, bathrooms, property_type_text, tenure, status, listed_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ExternalID, l.Title, l.Description, l.RawAddress, l.Postcode, l.UPRN,
		l.Price, l.Bedrooms, l.Bathrooms, l.PropertyTypeText, l.Tenure,
		string(status), nullTime(l.ListedDate))
	if err != nil {
		return 0, fmt.Errorf("inserting raw listing: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return res.LastInsertId()
	}
	var id int64
	err = s.db.QueryRowContext(ctx,
		`SELECT raw_listing_id FROM raw_listings WHERE external_id = ?`, l.ExternalID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("looking up existing raw listing: %w", err)
	}
	return id, nil
}

// RawListingByID returns the raw listing with the given id, or
// types.ErrNotFound.
func (s *Store) RawListingByID(ctx context.Context, id int64) (*types.RawListing, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT raw_listing_id, external_id, title, description, raw_address, postcode,
		        uprn, price, bedrooms, bathrooms, property_type_text, tenure, status, listed_date
		 FROM raw_listings WHERE raw_listing_id = ?`, id)

	var l types.RawListing
	var title, description, postcode, uprn, typeText, tenure, listedDate sql.NullString
	var price sql.NullFloat64
	var bedrooms, bathrooms sql.NullInt64
	var status string
	err := row.Scan(&l.RawListingID, &l.ExternalID, &title, &description, &l.RawAddress,
		&postcode, &uprn, &price, &bedrooms, &bathrooms, &typeText, &tenure, &status, &listedDate)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning raw listing: %w", err)
	}

	l.Title = title.String
	l.Description = description.String
	l.Postcode = postcode.String
	l.UPRN = uprn.String
	l.PropertyTypeText = typeText.String
	l.Tenure = tenure.String
	l.Status = types.ListingStatus(status)
	if price.Valid {
		v := price.Float64
		l.Price = &v
	}
	if bedrooms.Valid {
		v := int(bedrooms.Int64)
		l.Bedrooms = &v
	}
	if bathrooms.Valid {
		v := int(bathrooms.Int64)
		l.Bathrooms = &v
	}
	if listedDate.Valid && listedDate.String != "" {
		if t, parseErr := time.Parse(time.RFC3339, listedDate.String); parseErr == nil {
			l.ListedDate = t
		}
	}
	return &l, nil
}

// RawListingIDs returns all raw listing ids in insertion order. When
// unmatchedOnly is set, listings that already have a match result are
// skipped.
func (s *Store) RawListingIDs(ctx context.Context, unmatchedOnly bool) ([]int64, error) {
	query := `SELECT raw_listing_id FROM raw_listings ORDER BY raw_listing_id`
	if unmatchedOnly {
		query = `SELECT r.raw_listing_id FROM raw_listings r
		         LEFT JOIN match_results m ON m.raw_listing_id = r.raw_listing_id
		         WHERE m.raw_listing_id IS NULL ORDER BY r.raw_listing_id`
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying raw listing ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning raw listing id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SaveMatchResult records the match for a raw listing, replacing any
// previous result. Matching is recomputable, so a replace is safe.
func (s *Store) SaveMatchResult(ctx context.Context, rawListingID int64, m types.MatchResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO match_results (raw_listing_id, property_id, confidence, method, matched_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(raw_listing_id) DO UPDATE SET
			property_id=excluded.property_id, confidence=excluded.confidence,
			method=excluded.method, matched_at=excluded.matched_at`,
		rawListingID, m.PropertyID, m.Confidence, string(m.Method),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving match result: %w", err)
	}
	return nil
}

// MatchResultFor returns the stored match for a raw listing, or nil when
// the listing has not been matched.
func (s *Store) MatchResultFor(ctx context.Context, rawListingID int64) (*types.MatchResult, error) {
	var m types.MatchResult
	var method string
	err := s.db.QueryRowContext(ctx,
		`SELECT property_id, confidence, method FROM match_results WHERE raw_listing_id = ?`,
		rawListingID).Scan(&m.PropertyID, &m.Confidence, &method)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying match result: %w", err)
	}
	m.Method = types.MatchMethod(method)
	return &m, nil
}

// UpsertEnrichedListing writes the full enriched record for a raw
// listing, replacing any previous one wholesale.
func (s *Store) UpsertEnrichedListing(ctx context.Context, e types.EnrichedListing) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO listings_enriched
		 (raw_listing_id, property_id, title, description, price, bedrooms, bathrooms,
		  property_type, tenure, status, listed_date, address, postcode, lat, lon,
		  energy_rating, energy_score, energy_potential_rating, co2_emissions, energy_consumption,
		  deprivation_decile, crime_percentile, flood_risk_tier, broadband_max_speed,
		  recent_planning_apps, planning_refusals, in_conservation_area, conservation_area_name,
		  school_quality_score, distance_to_primary_m, distance_to_secondary_m,
		  distance_to_station_m, distance_to_airport_m, nearest_airport_code,
		  avm_estimate, avm_ci_lower, avm_ci_upper, avm_confidence_score, avm_value_delta_pct,
		  enriched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
		         ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RawListingID, e.PropertyID, e.Title, e.Description, e.Price, e.Bedrooms, e.Bathrooms,
		e.PropertyType, e.Tenure, string(e.Status), nullTime(e.ListedDate),
		e.Address, e.Postcode, e.Location.Lat, e.Location.Lon,
		e.EnergyRating, e.EnergyScore, e.EnergyPotentialRating, e.CO2Emissions, e.EnergyConsumption,
		e.DeprivationDecile, e.CrimePercentile, e.FloodRiskTier, e.BroadbandMaxSpeed,
		e.RecentPlanningApps, e.PlanningRefusals, boolInt(e.InConservationArea), e.ConservationAreaName,
		e.SchoolQualityScore, e.DistanceToPrimaryM, e.DistanceToSecondaryM,
		e.DistanceToStationM, e.DistanceToAirportM, e.NearestAirportCode,
		e.AVMEstimate, e.AVMCILower, e.AVMCIUpper, e.AVMConfidenceScore, e.AVMValueDeltaPct,
		e.EnrichedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upserting enriched listing: %w", err)
	}
	return nil
}

// EnrichedListingByRawID returns the enriched record for a raw listing,
// or types.ErrNotFound.
func (s *Store) EnrichedListingByRawID(ctx context.Context, rawListingID int64) (*types.EnrichedListing, error) {
	rows, err := s.db.QueryContext(ctx, selectEnriched+` WHERE raw_listing_id = ?`, rawListingID)
	if err != nil {
		return nil, fmt.Errorf("querying enriched listing: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, types.ErrNotFound
	}
	e, err := scanEnriched(rows)
	if err != nil {
		return nil, err
	}
	return e, rows.Err()
}

// ActiveListings returns every enriched listing whose status is active,
// ordered by raw listing id. The scorer applies hard filters on top.
func (s *Store) ActiveListings(ctx context.Context) ([]types.EnrichedListing, error) {
	rows, err := s.db.QueryContext(ctx,
		selectEnriched+` WHERE status = ? ORDER BY raw_listing_id`, string(types.StatusActive))
	if err != nil {
		return nil, fmt.Errorf("querying active listings: %w", err)
	}
	defer rows.Close()

	var out []types.EnrichedListing
	for rows.Next() {
		e, err := scanEnriched(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

const selectEnriched = `SELECT raw_listing_id, property_id, title, description, price,
	bedrooms, bathrooms, property_type, tenure, status, listed_date, address, postcode,
	lat, lon, energy_rating, energy_score, energy_potential_rating, co2_emissions,
	energy_consumption, deprivation_decile, crime_percentile, flood_risk_tier,
	broadband_max_speed, recent_planning_apps, planning_refusals, in_conservation_area,
	conservation_area_name, school_quality_score, distance_to_primary_m,
	distance_to_secondary_m, distance_to_station_m, distance_to_airport_m,
	nearest_airport_code, avm_estimate, avm_ci_lower, avm_ci_upper,
	avm_confidence_score, avm_value_delta_pct, enriched_at
	FROM listings_enriched`

func scanEnriched(rows *sql.Rows) (*types.EnrichedListing, error) {
	var e types.EnrichedListing
	var (
		title, description, propertyType, tenure, listedDate          sql.NullString
		energyRating, energyPotential, floodTier, caName, airportCode sql.NullString
		price, co2, consumption, crime, broadband                     sql.NullFloat64
		schoolQuality, avmEst, avmLo, avmHi, avmConf, avmDelta        sql.NullFloat64
		bedrooms, bathrooms, energyScore, deprivation                 sql.NullInt64
		planningApps, planningRefusals                                sql.NullInt64
		distPrimary, distSecondary, distStation, distAirport          sql.NullInt64
		inCA                                                          int
		status, enrichedAt                                            string
	)

	err := rows.Scan(&e.RawListingID, &e.PropertyID, &title, &description, &price,
		&bedrooms, &bathrooms, &propertyType, &tenure, &status, &listedDate,
		&e.Address, &e.Postcode, &e.Location.Lat, &e.Location.Lon,
		&energyRating, &energyScore, &energyPotential, &co2, &consumption,
		&deprivation, &crime, &floodTier, &broadband, &planningApps, &planningRefusals,
		&inCA, &caName, &schoolQuality, &distPrimary, &distSecondary,
		&distStation, &distAirport, &airportCode,
		&avmEst, &avmLo, &avmHi, &avmConf, &avmDelta, &enrichedAt)
	if err != nil {
		return nil, fmt.Errorf("scanning enriched listing: %w", err)
	}

	e.Title = title.String
	e.Description = description.String
	e.PropertyType = propertyType.String
	e.Tenure = tenure.String
	e.Status = types.ListingStatus(status)
	e.InConservationArea = inCA != 0
	e.Price = nullableFloat(price)
	e.CO2Emissions = nullableFloat(co2)
	e.EnergyConsumption = nullableFloat(consumption)
	e.CrimePercentile = nullableFloat(crime)
	e.BroadbandMaxSpeed = nullableFloat(broadband)
	e.SchoolQualityScore = nullableFloat(schoolQuality)
	e.AVMEstimate = nullableFloat(avmEst)
	e.AVMCILower = nullableFloat(avmLo)
	e.AVMCIUpper = nullableFloat(avmHi)
	e.AVMConfidenceScore = nullableFloat(avmConf)
	e.AVMValueDeltaPct = nullableFloat(avmDelta)
	e.Bedrooms = nullableInt(bedrooms)
	e.Bathrooms = nullableInt(bathrooms)
	e.EnergyScore = nullableInt(energyScore)
	e.DeprivationDecile = nullableInt(deprivation)
	e.RecentPlanningApps = nullableInt(planningApps)
	e.PlanningRefusals = nullableInt(planningRefusals)
	e.DistanceToPrimaryM = nullableInt(distPrimary)
	e.DistanceToSecondaryM = nullableInt(distSecondary)
	e.DistanceToStationM = nullableInt(distStation)
	e.DistanceToAirportM = nullableInt(distAirport)
	e.EnergyRating = nullableString(energyRating)
	e.EnergyPotentialRating = nullableString(energyPotential)
	e.FloodRiskTier = nullableString(floodTier)
	e.ConservationAreaName = nullableString(caName)
	e.NearestAirportCode = nullableString(airportCode)

	if listedDate.Valid && listedDate.String != "" {
		if t, parseErr := time.Parse(time.RFC3339, listedDate.String); parseErr == nil {
			e.ListedDate = t
		}
	}
	if t, parseErr := time.Parse(time.RFC3339, enrichedAt); parseErr == nil {
		e.EnrichedAt = t
	}
	return &e, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
