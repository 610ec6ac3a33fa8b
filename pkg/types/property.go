// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the listing engine:
// canonical properties, raw and enriched listings, match results, search
// filters, and per-stage configuration.
package types

import "time"

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// CanonicalProperty is an immutable reference record from the property
// registry. Postcode is stored normalized (uppercase, no spaces).
type CanonicalProperty struct {
	PropertyID        int64    `json:"property_id" yaml:"property_id"`
	UPRN              string   `json:"uprn" yaml:"uprn"`
	NormalizedAddress string   `json:"normalized_address" yaml:"normalized_address"`
	Postcode          string   `json:"postcode" yaml:"postcode"`
	BuildingNumber    string   `json:"building_number" yaml:"building_number"`
	Location          GeoPoint `json:"location" yaml:"location"`
	PropertyType      string   `json:"property_type" yaml:"property_type"`
}

// ListingStatus is the lifecycle state of a raw listing.
type ListingStatus string

const (
	StatusActive     ListingStatus = "active"
	StatusUnderOffer ListingStatus = "under_offer"
	StatusSold       ListingStatus = "sold"
	StatusWithdrawn  ListingStatus = "withdrawn"
)

// RawListing is a scraped listing as delivered by the collection layer.
// Most fields are optional: scrapers rarely produce a complete record.
type RawListing struct {
	RawListingID     int64         `json:"raw_listing_id" yaml:"raw_listing_id"`
	ExternalID       string        `json:"external_id" yaml:"external_id"`
	Title            string        `json:"title,omitempty" yaml:"title,omitempty"`
	Description      string        `json:"description,omitempty" yaml:"description,omitempty"`
	RawAddress       string        `json:"raw_address" yaml:"raw_address"`
	Postcode         string        `json:"postcode,omitempty" yaml:"postcode,omitempty"`
	UPRN             string        `json:"uprn,omitempty" yaml:"uprn,omitempty"`
	Price            *float64      `json:"price,omitempty" yaml:"price,omitempty"`
	Bedrooms         *int          `json:"bedrooms,omitempty" yaml:"bedrooms,omitempty"`
	Bathrooms        *int          `json:"bathrooms,omitempty" yaml:"bathrooms,omitempty"`
	PropertyTypeText string        `json:"property_type_text,omitempty" yaml:"property_type_text,omitempty"`
	Tenure           string        `json:"tenure,omitempty" yaml:"tenure,omitempty"`
	Status           ListingStatus `json:"status" yaml:"status"`
	ListedDate       time.Time     `json:"listed_date,omitempty" yaml:"listed_date,omitempty"`
}

// MatchMethod identifies which matcher tier produced a MatchResult.
type MatchMethod string

const (
	MethodReferenceExact MatchMethod = "reference_exact"
	MethodPostcodeNumber MatchMethod = "postcode_number"
	MethodAddressFuzzy   MatchMethod = "address_fuzzy"
)

// MatchResult links a raw listing to a canonical property. Confidence is
// fixed per tier: 1.00 for reference_exact, 0.95 for postcode_number, and
// the rounded similarity (0.70-1.00) for address_fuzzy.
type MatchResult struct {
	PropertyID int64       `json:"property_id" yaml:"property_id"`
	Confidence float64     `json:"confidence" yaml:"confidence"`
	Method     MatchMethod `json:"method" yaml:"method"`
}
