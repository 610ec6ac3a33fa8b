// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// PropertyFeatures is the payload returned by the external feature store
// for one property. Every field is optional; a nil field means the source
// had no data (or was unavailable) for that property.
type PropertyFeatures struct {
	EnergyRating          *string  `json:"energy_rating"`
	EnergyScore           *int     `json:"energy_score"`
	EnergyPotentialRating *string  `json:"energy_potential_rating"`
	CO2Emissions          *float64 `json:"co2_emissions"`
	EnergyConsumption     *float64 `json:"energy_consumption"`
	DeprivationDecile     *int     `json:"deprivation_decile"`
	CrimePercentile       *float64 `json:"crime_percentile"`
	FloodRiskTier         *string  `json:"flood_risk_tier"`
	BroadbandMaxSpeed     *float64 `json:"broadband_max_speed"`
	RecentPlanningApps    *int     `json:"recent_planning_app_count"`
	PlanningRefusals      *int     `json:"planning_refusal_count"`
}

// AVMEstimate is an automated valuation for one property. All fields are
// nil when no asking price was available to anchor the estimate.
type AVMEstimate struct {
	Estimate        *float64 `json:"estimate" yaml:"estimate"`
	CILower         *float64 `json:"ci_lower" yaml:"ci_lower"`
	CIUpper         *float64 `json:"ci_upper" yaml:"ci_upper"`
	ConfidenceScore *float64 `json:"confidence_score" yaml:"confidence_score"`
	ValueDeltaPct   *float64 `json:"value_delta_pct" yaml:"value_delta_pct"`
}

// EnrichedListing is the full feature profile for a matched listing: the
// raw listing joined with its canonical property and every derived
// feature. It is written wholesale by the enrichment engine (blind
// replace, one row per raw listing); the geo point is inherited from the
// canonical property and never recomputed.
type EnrichedListing struct {
	RawListingID int64 `json:"raw_listing_id" yaml:"raw_listing_id"`
	PropertyID   int64 `json:"property_id" yaml:"property_id"`

	// Core listing data carried over from the raw listing.
	Title        string        `json:"title" yaml:"title"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	Price        *float64      `json:"price,omitempty" yaml:"price,omitempty"`
	Bedrooms     *int          `json:"bedrooms,omitempty" yaml:"bedrooms,omitempty"`
	Bathrooms    *int          `json:"bathrooms,omitempty" yaml:"bathrooms,omitempty"`
	PropertyType string        `json:"property_type,omitempty" yaml:"property_type,omitempty"`
	Tenure       string        `json:"tenure,omitempty" yaml:"tenure,omitempty"`
	Status       ListingStatus `json:"status" yaml:"status"`
	ListedDate   time.Time     `json:"listed_date,omitempty" yaml:"listed_date,omitempty"`

	// Address and location from the canonical property.
	Address  string   `json:"address" yaml:"address"`
	Postcode string   `json:"postcode" yaml:"postcode"`
	Location GeoPoint `json:"location" yaml:"location"`

	// Energy performance.
	EnergyRating          *string  `json:"energy_rating,omitempty" yaml:"energy_rating,omitempty"`
	EnergyScore           *int     `json:"energy_score,omitempty" yaml:"energy_score,omitempty"`
	EnergyPotentialRating *string  `json:"energy_potential_rating,omitempty" yaml:"energy_potential_rating,omitempty"`
	CO2Emissions          *float64 `json:"co2_emissions,omitempty" yaml:"co2_emissions,omitempty"`
	EnergyConsumption     *float64 `json:"energy_consumption,omitempty" yaml:"energy_consumption,omitempty"`

	// Area indicators.
	DeprivationDecile *int     `json:"deprivation_decile,omitempty" yaml:"deprivation_decile,omitempty"`
	CrimePercentile   *float64 `json:"crime_percentile,omitempty" yaml:"crime_percentile,omitempty"`
	FloodRiskTier     *string  `json:"flood_risk_tier,omitempty" yaml:"flood_risk_tier,omitempty"`
	BroadbandMaxSpeed *float64 `json:"broadband_max_speed,omitempty" yaml:"broadband_max_speed,omitempty"`

	// Planning history.
	RecentPlanningApps *int `json:"recent_planning_app_count,omitempty" yaml:"recent_planning_app_count,omitempty"`
	PlanningRefusals   *int `json:"planning_refusal_count,omitempty" yaml:"planning_refusal_count,omitempty"`

	// Conservation area membership.
	InConservationArea   bool    `json:"in_conservation_area" yaml:"in_conservation_area"`
	ConservationAreaName *string `json:"conservation_area_name,omitempty" yaml:"conservation_area_name,omitempty"`

	// Schools.
	SchoolQualityScore   *float64 `json:"school_quality_score,omitempty" yaml:"school_quality_score,omitempty"`
	DistanceToPrimaryM   *int     `json:"distance_to_nearest_primary_m,omitempty" yaml:"distance_to_nearest_primary_m,omitempty"`
	DistanceToSecondaryM *int     `json:"distance_to_nearest_secondary_m,omitempty" yaml:"distance_to_nearest_secondary_m,omitempty"`

	// Transport. DistanceToStationM stays nil until a stations dataset is
	// wired; scoring treats it as unknown rather than zero.
	DistanceToStationM *int    `json:"distance_to_nearest_station_m,omitempty" yaml:"distance_to_nearest_station_m,omitempty"`
	DistanceToAirportM *int    `json:"distance_to_nearest_airport_m,omitempty" yaml:"distance_to_nearest_airport_m,omitempty"`
	NearestAirportCode *string `json:"nearest_airport_code,omitempty" yaml:"nearest_airport_code,omitempty"`

	// Valuation.
	AVMEstimate        *float64 `json:"avm_estimate,omitempty" yaml:"avm_estimate,omitempty"`
	AVMCILower         *float64 `json:"avm_ci_lower,omitempty" yaml:"avm_ci_lower,omitempty"`
	AVMCIUpper         *float64 `json:"avm_ci_upper,omitempty" yaml:"avm_ci_upper,omitempty"`
	AVMConfidenceScore *float64 `json:"avm_confidence_score,omitempty" yaml:"avm_confidence_score,omitempty"`
	AVMValueDeltaPct   *float64 `json:"avm_value_delta_pct,omitempty" yaml:"avm_value_delta_pct,omitempty"`

	EnrichedAt time.Time `json:"enriched_at" yaml:"enriched_at"`
}

// ScoredListing pairs an enriched listing with its match score for one
// search request. It is computed per request, never persisted.
type ScoredListing struct {
	EnrichedListing `yaml:",inline"`
	MatchScore      float64 `json:"match_score" yaml:"match_score"`
}
