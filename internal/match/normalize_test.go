// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import "testing"

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "10 Downing Street", "10 downing"},
		{"strips punctuation", "Flat 5, 10 Oak Lane", "flat 5 10 oak"},
		{"strips hyphens", "14-16 High Street", "14 16 high"},
		{"drops all suffixes", "1 The Avenue Road Close", "1 the"},
		{"collapses whitespace", "  22   Acacia   Avenue  ", "22 acacia"},
		{"suffix word inside name kept", "99 Waylands", "99 waylands"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeAddress(tt.in); got != tt.want {
				t.Errorf("NormalizeAddress(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractBuildingNumber(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"leading number", "42 High Street", "42"},
		{"letter suffix", "123a Main Road", "123a"},
		{"flat prefix", "Flat 5, 10 Oak Lane", "10"},
		{"apartment with comma", "Apartment B, 7 Mill Close", "7"},
		{"no number", "The Old Rectory", ""},
		{"named house with comma but no number", "Rose Cottage, Church Walk", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractBuildingNumber(tt.in); got != tt.want {
				t.Errorf("ExtractBuildingNumber(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizePostcode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SW1A 1AA", "SW1A1AA"},
		{"sw1a1aa", "SW1A1AA"},
		{" e1  6an ", "E16AN"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizePostcode(tt.in); got != tt.want {
			t.Errorf("NormalizePostcode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
