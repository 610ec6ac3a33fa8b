// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// PreferenceWeights holds the six user importance weights for soft
// scoring. Each weight is in [0,1] and the sum must not exceed 1.0;
// Validate enforces this at the boundary so the scorer never sees an
// invalid set.
type PreferenceWeights struct {
	Schools      float64 `json:"schools" yaml:"schools"`
	Commute      float64 `json:"commute" yaml:"commute"`
	Safety       float64 `json:"safety" yaml:"safety"`
	Energy       float64 `json:"energy" yaml:"energy"`
	Value        float64 `json:"value" yaml:"value"`
	Conservation float64 `json:"conservation" yaml:"conservation"`
}

// Total returns the sum of all six weights.
func (w PreferenceWeights) Total() float64 {
	return w.Schools + w.Commute + w.Safety + w.Energy + w.Value + w.Conservation
}

// Validate checks that each weight is in [0,1] and the sum is at most 1.0.
func (w PreferenceWeights) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"schools", w.Schools},
		{"commute", w.Commute},
		{"safety", w.Safety},
		{"energy", w.Energy},
		{"value", w.Value},
		{"conservation", w.Conservation},
	} {
		if f.value < 0 || f.value > 1 {
			return &ValidationError{Field: f.name, Reason: fmt.Sprintf("weight %.2f outside [0,1]", f.value)}
		}
	}
	if total := w.Total(); total > 1.0 {
		return &ValidationError{Field: "weights", Reason: fmt.Sprintf("weight sum %.2f exceeds 1.0", total)}
	}
	return nil
}

// SearchFilters holds the hard constraints for a listing search. A
// listing failing any populated filter is excluded before scoring.
type SearchFilters struct {
	BudgetMin     *float64 `json:"budget_min,omitempty" yaml:"budget_min,omitempty"`
	BudgetMax     float64  `json:"budget_max" yaml:"budget_max"`
	BedroomsMin   int      `json:"bedrooms_min" yaml:"bedrooms_min"`
	BedroomsMax   *int     `json:"bedrooms_max,omitempty" yaml:"bedrooms_max,omitempty"`
	PropertyTypes []string `json:"property_types,omitempty" yaml:"property_types,omitempty"`

	// MinEnergyRating is a letter grade A-G; listings rated worse (or with
	// no rating, which counts as G) are excluded.
	MinEnergyRating string `json:"min_energy_rating,omitempty" yaml:"min_energy_rating,omitempty"`

	RequireConservationArea bool     `json:"require_conservation_area" yaml:"require_conservation_area"`
	ExcludeFloodTiers       []string `json:"exclude_flood_tiers,omitempty" yaml:"exclude_flood_tiers,omitempty"`

	// PostcodePrefixes is an any-of allow-list of postcode prefixes
	// (e.g. "SW1", "W1").
	PostcodePrefixes []string `json:"postcode_prefixes,omitempty" yaml:"postcode_prefixes,omitempty"`

	// TargetAirports and MaxAirportDistanceM form a joint airport filter:
	// both must be set for either to apply.
	TargetAirports      []string `json:"target_airports,omitempty" yaml:"target_airports,omitempty"`
	MaxAirportDistanceM *int     `json:"max_airport_distance_m,omitempty" yaml:"max_airport_distance_m,omitempty"`
}

// SearchRequest is the full search input: hard filters, soft weights, and
// pagination.
type SearchRequest struct {
	Filters SearchFilters     `json:"filters" yaml:"filters"`
	Weights PreferenceWeights `json:"weights" yaml:"weights"`
	Limit   int               `json:"limit" yaml:"limit"`
	Offset  int               `json:"offset" yaml:"offset"`
}
