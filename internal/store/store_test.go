// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkeene/listing-engine/pkg/types"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }
func stringp(v string) *string  { return &v }

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(types.StoreConfig{DBPath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func testProperty(id int64, uprn, postcode, number string) types.CanonicalProperty {
	return types.CanonicalProperty{
		PropertyID:        id,
		UPRN:              uprn,
		NormalizedAddress: "10 downing",
		Postcode:          postcode,
		BuildingNumber:    number,
		Location:          types.GeoPoint{Lat: 51.5034, Lon: -0.1276},
		PropertyType:      "terraced",
	}
}

func TestPropertyLookups(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.InsertProperty(ctx, testProperty(1, "100023336956", "SW1A1AA", "10")))
	require.NoError(t, st.InsertProperty(ctx, testProperty(2, "100023336957", "SW1A1AA", "11")))

	p, err := st.PropertyByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "100023336956", p.UPRN)
	assert.Equal(t, 51.5034, p.Location.Lat)

	_, err = st.PropertyByID(ctx, 99)
	assert.True(t, errors.Is(err, types.ErrNotFound))

	p, err = st.PropertyByUPRN(ctx, "100023336957")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, int64(2), p.PropertyID)

	p, err = st.PropertyByUPRN(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, p, "unknown reference is not an error")

	p, err = st.PropertyByPostcodeNumber(ctx, "SW1A1AA", "11")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, int64(2), p.PropertyID)

	p, err = st.PropertyByPostcodeNumber(ctx, "SW1A1AA", "12")
	require.NoError(t, err)
	assert.Nil(t, p)

	props, err := st.PropertiesByPostcode(ctx, "SW1A1AA")
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, int64(1), props[0].PropertyID, "candidates ordered by id")
	assert.Equal(t, int64(2), props[1].PropertyID)
}

func TestPropertyReplaceOnReload(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.InsertProperty(ctx, testProperty(1, "100023336956", "SW1A1AA", "10")))

	updated := testProperty(1, "100023336956", "SW1A1AA", "10")
	updated.PropertyType = "detached"
	require.NoError(t, st.InsertProperty(ctx, updated))

	p, err := st.PropertyByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "detached", p.PropertyType, "newest load wins")
}

func TestNearestSchool(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	home := types.GeoPoint{Lat: 51.5034, Lon: -0.1276}

	require.NoError(t, st.InsertSchool(ctx, SeedSchool{
		Name: "Near Primary", Phase: PhasePrimary, RatingScore: intp(3),
		Location: types.GeoPoint{Lat: 51.5050, Lon: -0.1280},
	}))
	require.NoError(t, st.InsertSchool(ctx, SeedSchool{
		Name: "Far Primary", Phase: PhasePrimary, RatingScore: intp(4),
		Location: types.GeoPoint{Lat: 51.5500, Lon: -0.1280},
	}))

	school, dist, err := st.NearestSchool(ctx, home, PhasePrimary)
	require.NoError(t, err)
	require.NotNil(t, school)
	assert.Equal(t, "Near Primary", school.Name)
	assert.InDelta(t, 180, dist, 30)

	school, _, err = st.NearestSchool(ctx, home, PhaseSecondary)
	require.NoError(t, err)
	assert.Nil(t, school, "no secondary schools loaded")
}

func TestNearestAirport(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	home := types.GeoPoint{Lat: 51.5034, Lon: -0.1276}

	require.NoError(t, st.InsertAirport(ctx, SeedAirport{
		Name: "Heathrow", IATACode: "LHR",
		Location: types.GeoPoint{Lat: 51.4700, Lon: -0.4543},
	}))
	require.NoError(t, st.InsertAirport(ctx, SeedAirport{
		Name: "Gatwick", IATACode: "LGW",
		Location: types.GeoPoint{Lat: 51.1537, Lon: -0.1821},
	}))

	airport, dist, err := st.NearestAirport(ctx, home)
	require.NoError(t, err)
	require.NotNil(t, airport)
	assert.Equal(t, "LHR", airport.IATACode)
	assert.InDelta(t, 23000, dist, 2000)
}

func TestConservationAreaContaining(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	square := []types.GeoPoint{
		{Lat: 51.50, Lon: -0.14},
		{Lat: 51.50, Lon: -0.12},
		{Lat: 51.52, Lon: -0.12},
		{Lat: 51.52, Lon: -0.14},
	}
	require.NoError(t, st.InsertConservationArea(ctx, SeedConservationArea{
		Name: "Westminster", Boundary: square,
	}))
	// Same footprint, higher id.
	require.NoError(t, st.InsertConservationArea(ctx, SeedConservationArea{
		Name: "Westminster Overlap", Boundary: square,
	}))

	area, err := st.ConservationAreaContaining(ctx, types.GeoPoint{Lat: 51.51, Lon: -0.13})
	require.NoError(t, err)
	require.NotNil(t, area)
	assert.Equal(t, "Westminster", area.Name, "overlap resolves to lowest area id")

	area, err = st.ConservationAreaContaining(ctx, types.GeoPoint{Lat: 51.60, Lon: -0.13})
	require.NoError(t, err)
	assert.Nil(t, area)
}

func TestRawListingRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	listing := types.RawListing{
		ExternalID: "zp-1001",
		Title:      "Two bed flat",
		RawAddress: "Flat 5, 10 Oak Lane",
		Postcode:   "SW1A1AA",
		Price:      floatp(450000),
		Bedrooms:   intp(2),
		Status:     types.StatusActive,
		ListedDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	id, err := st.InsertRawListing(ctx, listing)
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	// Re-inserting the same external id returns the existing row.
	again, err := st.InsertRawListing(ctx, listing)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	got, err := st.RawListingByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "zp-1001", got.ExternalID)
	assert.Equal(t, "Flat 5, 10 Oak Lane", got.RawAddress)
	require.NotNil(t, got.Price)
	assert.Equal(t, 450000.0, *got.Price)
	assert.Nil(t, got.Bathrooms)
	assert.Equal(t, listing.ListedDate, got.ListedDate)

	_, err = st.RawListingByID(ctx, 999)
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestRawListingDefaultStatus(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id, err := st.InsertRawListing(ctx, types.RawListing{
		ExternalID: "zp-1002", RawAddress: "12 Oak Lane",
	})
	require.NoError(t, err)

	got, err := st.RawListingByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.StatusActive, got.Status)
}

func TestRawListingIDsUnmatchedOnly(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.InsertProperty(ctx, testProperty(1, "100023336956", "SW1A1AA", "10")))
	id1, err := st.InsertRawListing(ctx, types.RawListing{ExternalID: "a", RawAddress: "10 Oak Lane"})
	require.NoError(t, err)
	id2, err := st.InsertRawListing(ctx, types.RawListing{ExternalID: "b", RawAddress: "11 Oak Lane"})
	require.NoError(t, err)

	require.NoError(t, st.SaveMatchResult(ctx, id1, types.MatchResult{
		PropertyID: 1, Confidence: 0.95, Method: types.MethodPostcodeNumber,
	}))

	all, err := st.RawListingIDs(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []int64{id1, id2}, all)

	unmatched, err := st.RawListingIDs(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []int64{id2}, unmatched)
}

func TestMatchResultRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.InsertProperty(ctx, testProperty(1, "100023336956", "SW1A1AA", "10")))
	require.NoError(t, st.InsertProperty(ctx, testProperty(2, "100023336957", "SW1A1AA", "11")))
	id, err := st.InsertRawListing(ctx, types.RawListing{ExternalID: "a", RawAddress: "10 Oak Lane"})
	require.NoError(t, err)

	none, err := st.MatchResultFor(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, none, "unmatched listing has no result")

	require.NoError(t, st.SaveMatchResult(ctx, id, types.MatchResult{
		PropertyID: 1, Confidence: 0.95, Method: types.MethodPostcodeNumber,
	}))
	got, err := st.MatchResultFor(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.PropertyID)
	assert.Equal(t, 0.95, got.Confidence)
	assert.Equal(t, types.MethodPostcodeNumber, got.Method)

	// A re-match replaces the previous result.
	require.NoError(t, st.SaveMatchResult(ctx, id, types.MatchResult{
		PropertyID: 2, Confidence: 1.0, Method: types.MethodReferenceExact,
	}))
	got, err = st.MatchResultFor(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.PropertyID)
	assert.Equal(t, types.MethodReferenceExact, got.Method)
}

func testEnriched(rawListingID int64) types.EnrichedListing {
	return types.EnrichedListing{
		RawListingID:         rawListingID,
		PropertyID:           1,
		Title:                "Two bed flat",
		Price:                floatp(450000),
		Bedrooms:             intp(2),
		PropertyType:         "terraced",
		Status:               types.StatusActive,
		Address:              "10 downing",
		Postcode:             "SW1A1AA",
		Location:             types.GeoPoint{Lat: 51.5034, Lon: -0.1276},
		EnergyRating:         stringp("C"),
		EnergyScore:          intp(72),
		DeprivationDecile:    intp(8),
		CrimePercentile:      floatp(35),
		FloodRiskTier:        stringp("low"),
		InConservationArea:   true,
		ConservationAreaName: stringp("Westminster"),
		SchoolQualityScore:   floatp(0.75),
		DistanceToPrimaryM:   intp(350),
		DistanceToAirportM:   intp(23000),
		NearestAirportCode:   stringp("LHR"),
		AVMEstimate:          floatp(442000),
		AVMCILower:           floatp(419900),
		AVMCIUpper:           floatp(464100),
		AVMConfidenceScore:   floatp(0.82),
		AVMValueDeltaPct:     floatp(1.81),
		EnrichedAt:           time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
	}
}

func TestEnrichedListingRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	want := testEnriched(1)
	require.NoError(t, st.UpsertEnrichedListing(ctx, want))

	got, err := st.EnrichedListingByRawID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, want, *got)

	_, err = st.EnrichedListingByRawID(ctx, 2)
	assert.True(t, errors.Is(err, types.ErrNotFound))

	// A second upsert replaces the row wholesale.
	replaced := testEnriched(1)
	replaced.EnergyRating = nil
	replaced.SchoolQualityScore = nil
	require.NoError(t, st.UpsertEnrichedListing(ctx, replaced))

	got, err = st.EnrichedListingByRawID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got.EnergyRating, "blind replace clears previous values")
	assert.Nil(t, got.SchoolQualityScore)
}

func TestActiveListings(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first := testEnriched(2)
	require.NoError(t, st.UpsertEnrichedListing(ctx, first))

	second := testEnriched(1)
	require.NoError(t, st.UpsertEnrichedListing(ctx, second))

	sold := testEnriched(3)
	sold.Status = types.StatusSold
	require.NoError(t, st.UpsertEnrichedListing(ctx, sold))

	active, err := st.ActiveListings(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, int64(1), active[0].RawListingID, "ordered by raw listing id")
	assert.Equal(t, int64(2), active[1].RawListingID)
}
