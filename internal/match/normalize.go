// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"regexp"
	"strings"
)

// streetSuffixes are generic street-type words stripped before fuzzy
// comparison; they carry no discriminating signal within a postcode.
var streetSuffixes = map[string]bool{
	"street": true,
	"road":   true,
	"avenue": true,
	"lane":   true,
	"drive":  true,
	"close":  true,
	"way":    true,
	"place":  true,
}

var (
	leadingNumberRe = regexp.MustCompile(`^(\d+[a-z]?)\b`)
	commaNumberRe   = regexp.MustCompile(`,\s*(\d+[a-z]?)\b`)
)

// NormalizeAddress lowercases an address, strips punctuation and street
// type suffixes, and collapses whitespace.
func NormalizeAddress(address string) string {
	lower := strings.ToLower(address)
	lower = strings.NewReplacer(".", " ", ",", " ", "-", " ").Replace(lower)

	fields := strings.Fields(lower)
	kept := fields[:0]
	for _, f := range fields {
		if !streetSuffixes[f] {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

// ExtractBuildingNumber pulls the building number token from a raw
// address: leading digits with an optional single letter ("42", "123a"),
// or the first number after a comma for flat-style addresses
// ("Flat 5, 10 Oak Lane" yields "10"). Returns "" when no number is
// present.
func ExtractBuildingNumber(rawAddress string) string {
	addr := strings.ToLower(strings.TrimSpace(rawAddress))
	if m := leadingNumberRe.FindStringSubmatch(addr); m != nil {
		return m[1]
	}
	if m := commaNumberRe.FindStringSubmatch(addr); m != nil {
		return m[1]
	}
	return ""
}

// NormalizePostcode uppercases a postcode and strips spaces so lookups
// agree with the registry's stored form.
func NormalizePostcode(postcode string) string {
	return strings.ToUpper(strings.ReplaceAll(postcode, " ", ""))
}
