// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"strings"

	"github.com/mkeene/listing-engine/pkg/types"
)

// worstEnergyRating is assumed when a listing has no energy certificate.
const worstEnergyRating = "G"

// MatchesFilters reports whether the listing passes every populated hard
// filter. Filters are conjunctive: failing any one excludes the listing
// before scoring.
func MatchesFilters(l types.EnrichedListing, f types.SearchFilters) bool {
	if l.Status != types.StatusActive {
		return false
	}
	if !matchesBudget(l, f) {
		return false
	}
	if !matchesBedrooms(l, f) {
		return false
	}
	if !matchesPropertyType(l, f) {
		return false
	}
	if !matchesEnergyRating(l, f) {
		return false
	}
	if f.RequireConservationArea && !l.InConservationArea {
		return false
	}
	if !matchesFloodTiers(l, f) {
		return false
	}
	if !matchesPostcodePrefixes(l, f) {
		return false
	}
	return matchesAirport(l, f)
}

func matchesBudget(l types.EnrichedListing, f types.SearchFilters) bool {
	if f.BudgetMin == nil && f.BudgetMax <= 0 {
		return true
	}
	if l.Price == nil {
		return false
	}
	if f.BudgetMin != nil && *l.Price < *f.BudgetMin {
		return false
	}
	if f.BudgetMax > 0 && *l.Price > f.BudgetMax {
		return false
	}
	return true
}

func matchesBedrooms(l types.EnrichedListing, f types.SearchFilters) bool {
	if f.BedroomsMin <= 0 && f.BedroomsMax == nil {
		return true
	}
	if l.Bedrooms == nil {
		return false
	}
	if f.BedroomsMin > 0 && *l.Bedrooms < f.BedroomsMin {
		return false
	}
	if f.BedroomsMax != nil && *l.Bedrooms > *f.BedroomsMax {
		return false
	}
	return true
}

func matchesPropertyType(l types.EnrichedListing, f types.SearchFilters) bool {
	if len(f.PropertyTypes) == 0 {
		return true
	}
	for _, t := range f.PropertyTypes {
		if strings.EqualFold(l.PropertyType, t) {
			return true
		}
	}
	return false
}

// matchesEnergyRating compares letter grades A-G alphabetically (A is
// best). A listing with no rating is treated as G.
func matchesEnergyRating(l types.EnrichedListing, f types.SearchFilters) bool {
	if f.MinEnergyRating == "" {
		return true
	}
	rating := worstEnergyRating
	if l.EnergyRating != nil && *l.EnergyRating != "" {
		rating = strings.ToUpper(*l.EnergyRating)
	}
	return rating <= strings.ToUpper(f.MinEnergyRating)
}

func matchesFloodTiers(l types.EnrichedListing, f types.SearchFilters) bool {
	if len(f.ExcludeFloodTiers) == 0 || l.FloodRiskTier == nil {
		return true
	}
	for _, tier := range f.ExcludeFloodTiers {
		if strings.EqualFold(*l.FloodRiskTier, tier) {
			return false
		}
	}
	return true
}

func matchesPostcodePrefixes(l types.EnrichedListing, f types.SearchFilters) bool {
	if len(f.PostcodePrefixes) == 0 {
		return true
	}
	postcode := strings.ToUpper(strings.ReplaceAll(l.Postcode, " ", ""))
	for _, prefix := range f.PostcodePrefixes {
		p := strings.ToUpper(strings.ReplaceAll(prefix, " ", ""))
		if p != "" && strings.HasPrefix(postcode, p) {
			return true
		}
	}
	return false
}

// matchesAirport applies the joint airport filter: both the target list
// and the max distance must be set for the filter to apply at all.
func matchesAirport(l types.EnrichedListing, f types.SearchFilters) bool {
	if len(f.TargetAirports) == 0 || f.MaxAirportDistanceM == nil {
		return true
	}
	if l.NearestAirportCode == nil || l.DistanceToAirportM == nil {
		return false
	}
	if *l.DistanceToAirportM > *f.MaxAirportDistanceM {
		return false
	}
	for _, code := range f.TargetAirports {
		if strings.EqualFold(*l.NearestAirportCode, code) {
			return true
		}
	}
	return false
}
