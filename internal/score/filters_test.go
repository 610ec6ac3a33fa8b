// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"testing"

	"github.com/mkeene/listing-engine/pkg/types"
)

func TestMatchesFilters(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*types.EnrichedListing)
		filters types.SearchFilters
		want    bool
	}{
		{
			name:    "no filters passes",
			mutate:  func(l *types.EnrichedListing) {},
			filters: types.SearchFilters{},
			want:    true,
		},
		{
			name:    "inactive listing excluded",
			mutate:  func(l *types.EnrichedListing) { l.Status = types.StatusSold },
			filters: types.SearchFilters{},
			want:    false,
		},
		{
			name:    "price within budget",
			mutate:  func(l *types.EnrichedListing) {},
			filters: types.SearchFilters{BudgetMin: floatp(300000), BudgetMax: 500000},
			want:    true,
		},
		{
			name:    "price over budget",
			mutate:  func(l *types.EnrichedListing) {},
			filters: types.SearchFilters{BudgetMax: 350000},
			want:    false,
		},
		{
			name:    "price under minimum",
			mutate:  func(l *types.EnrichedListing) {},
			filters: types.SearchFilters{BudgetMin: floatp(450000)},
			want:    false,
		},
		{
			name:    "unknown price excluded when budget set",
			mutate:  func(l *types.EnrichedListing) { l.Price = nil },
			filters: types.SearchFilters{BudgetMax: 500000},
			want:    false,
		},
		{
			name:    "bedrooms in range",
			mutate:  func(l *types.EnrichedListing) {},
			filters: types.SearchFilters{BedroomsMin: 2, BedroomsMax: intp(4)},
			want:    true,
		},
		{
			name:    "too few bedrooms",
			mutate:  func(l *types.EnrichedListing) {},
			filters: types.SearchFilters{BedroomsMin: 4},
			want:    false,
		},
		{
			name:    "property type match is case-insensitive",
			mutate:  func(l *types.EnrichedListing) {},
			filters: types.SearchFilters{PropertyTypes: []string{"Terraced", "flat"}},
			want:    true,
		},
		{
			name:    "property type not in set",
			mutate:  func(l *types.EnrichedListing) {},
			filters: types.SearchFilters{PropertyTypes: []string{"detached"}},
			want:    false,
		},
		{
			name:    "energy rating at threshold",
			mutate:  func(l *types.EnrichedListing) { l.EnergyRating = stringp("C") },
			filters: types.SearchFilters{MinEnergyRating: "C"},
			want:    true,
		},
		{
			name:    "energy rating worse than threshold",
			mutate:  func(l *types.EnrichedListing) { l.EnergyRating = stringp("E") },
			filters: types.SearchFilters{MinEnergyRating: "C"},
			want:    false,
		},
		{
			name:    "unknown energy rating treated as G",
			mutate:  func(l *types.EnrichedListing) {},
			filters: types.SearchFilters{MinEnergyRating: "F"},
			want:    false,
		},
		{
			name:    "unknown energy rating passes G threshold",
			mutate:  func(l *types.EnrichedListing) {},
			filters: types.SearchFilters{MinEnergyRating: "G"},
			want:    true,
		},
		{
			name:    "conservation required and present",
			mutate:  func(l *types.EnrichedListing) { l.InConservationArea = true },
			filters: types.SearchFilters{RequireConservationArea: true},
			want:    true,
		},
		{
			name:    "conservation required and absent",
			mutate:  func(l *types.EnrichedListing) {},
			filters: types.SearchFilters{RequireConservationArea: true},
			want:    false,
		},
		{
			name:    "flood tier excluded",
			mutate:  func(l *types.EnrichedListing) { l.FloodRiskTier = stringp("high") },
			filters: types.SearchFilters{ExcludeFloodTiers: []string{"high", "very_high"}},
			want:    false,
		},
		{
			name:    "unknown flood tier passes",
			mutate:  func(l *types.EnrichedListing) {},
			filters: types.SearchFilters{ExcludeFloodTiers: []string{"high"}},
			want:    true,
		},
		{
			name:    "postcode prefix matches",
			mutate:  func(l *types.EnrichedListing) {},
			filters: types.SearchFilters{PostcodePrefixes: []string{"E1", "SW1"}},
			want:    true,
		},
		{
			name:    "postcode prefix does not match",
			mutate:  func(l *types.EnrichedListing) {},
			filters: types.SearchFilters{PostcodePrefixes: []string{"N1"}},
			want:    false,
		},
		{
			name: "airport filter passes",
			mutate: func(l *types.EnrichedListing) {
				l.NearestAirportCode = stringp("LHR")
				l.DistanceToAirportM = intp(20000)
			},
			filters: types.SearchFilters{TargetAirports: []string{"LHR", "LGW"}, MaxAirportDistanceM: intp(30000)},
			want:    true,
		},
		{
			name: "airport too far",
			mutate: func(l *types.EnrichedListing) {
				l.NearestAirportCode = stringp("LHR")
				l.DistanceToAirportM = intp(45000)
			},
			filters: types.SearchFilters{TargetAirports: []string{"LHR"}, MaxAirportDistanceM: intp(30000)},
			want:    false,
		},
		{
			name: "wrong airport",
			mutate: func(l *types.EnrichedListing) {
				l.NearestAirportCode = stringp("STN")
				l.DistanceToAirportM = intp(20000)
			},
			filters: types.SearchFilters{TargetAirports: []string{"LHR"}, MaxAirportDistanceM: intp(30000)},
			want:    false,
		},
		{
			name:    "airport filter inert without max distance",
			mutate:  func(l *types.EnrichedListing) {},
			filters: types.SearchFilters{TargetAirports: []string{"LHR"}},
			want:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := baseListing()
			tt.mutate(&l)
			if got := MatchesFilters(l, tt.filters); got != tt.want {
				t.Errorf("MatchesFilters() = %v, want %v", got, tt.want)
			}
		})
	}
}
