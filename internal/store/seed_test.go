// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `properties:
  - property_id: 1
    uprn: "100023336956"
    normalized_address: "10 downing"
    postcode: "SW1A 1AA"
    building_number: "10"
    location: {lat: 51.5034, lon: -0.1276}
    property_type: terraced
  - property_id: 2
    uprn: "100023336957"
    normalized_address: "11 downing"
    postcode: "SW1A 1AA"
    building_number: "11"
    location: {lat: 51.5035, lon: -0.1277}
    property_type: terraced
schools:
  - name: "St Mary's"
    phase: primary
    rating_score: 4
    location: {lat: 51.5050, lon: -0.1280}
airports:
  - name: Heathrow
    iata_code: LHR
    location: {lat: 51.4700, lon: -0.4543}
conservation_areas:
  - name: Westminster
    boundary:
      - {lat: 51.50, lon: -0.14}
      - {lat: 51.50, lon: -0.12}
      - {lat: 51.52, lon: -0.12}
      - {lat: 51.52, lon: -0.14}
raw_listings:
  - external_id: zp-1001
    title: "Two bed flat"
    raw_address: "Flat 5, 10 Oak Lane"
    postcode: "sw1a 1aa"
    price: 450000
    bedrooms: 2
    status: active
`

func TestLoadSeed(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o644))

	var buf bytes.Buffer
	summary, err := st.LoadSeed(ctx, path, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Properties)
	assert.Equal(t, 1, summary.Schools)
	assert.Equal(t, 1, summary.Airports)
	assert.Equal(t, 1, summary.ConservationAreas)
	assert.Equal(t, 1, summary.RawListings)
	assert.Contains(t, buf.String(), "loaded 2 properties")

	// Postcodes are normalized on the way in.
	p, err := st.PropertyByPostcodeNumber(ctx, "SW1A1AA", "10")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "SW1A1AA", p.Postcode)

	raw, err := st.RawListingByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "SW1A1AA", raw.Postcode)

	counts, err := st.TableCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts["properties"])
	assert.Equal(t, 1, counts["raw_listings"])
	assert.Equal(t, 0, counts["match_results"])
}

func TestLoadSeedMissingFile(t *testing.T) {
	st := openTestStore(t)

	_, err := st.LoadSeed(context.Background(), "does-not-exist.yaml", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNormalizePostcode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sw1a 1aa", "SW1A1AA"},
		{"SW1A1AA", "SW1A1AA"},
		{" e1 6an ", "E16AN"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizePostcode(tt.in); got != tt.want {
			t.Errorf("NormalizePostcode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
