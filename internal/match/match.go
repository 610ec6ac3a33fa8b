// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match links raw listing addresses to canonical properties with
// a three-tier escalating strategy: unique-reference exact lookup,
// postcode plus building number, then trigram similarity over the
// postcode's candidate set. Each tier short-circuits on a hit.
package match

import (
	"context"
	"fmt"
	"math"

	"github.com/mkeene/listing-engine/pkg/types"
)

// DefaultFuzzyThreshold is the minimum trigram similarity the fuzzy tier
// accepts.
const DefaultFuzzyThreshold = 0.70

// Registry is the property lookup surface the matcher needs. The store
// implements it.
type Registry interface {
	PropertyByUPRN(ctx context.Context, uprn string) (*types.CanonicalProperty, error)
	PropertyByPostcodeNumber(ctx context.Context, postcode, buildingNumber string) (*types.CanonicalProperty, error)
	PropertiesByPostcode(ctx context.Context, postcode string) ([]types.CanonicalProperty, error)
}

// Matcher resolves raw addresses against a property registry.
type Matcher struct {
	registry  Registry
	threshold float64
}

// New returns a Matcher over registry. A non-positive FuzzyThreshold in
// cfg falls back to the default 0.70.
func New(registry Registry, cfg types.MatcherConfig) *Matcher {
	threshold := cfg.FuzzyThreshold
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	return &Matcher{registry: registry, threshold: threshold}
}

// Match resolves a raw address to a canonical property. It returns
// (nil, nil) when nothing matches; an error means the registry itself
// failed. Postcode and uprn may be empty: without a postcode only the
// reference tier can run.
func (m *Matcher) Match(ctx context.Context, rawAddress, postcode, uprn string) (*types.MatchResult, error) {
	if uprn != "" {
		result, err := m.matchByReference(ctx, uprn)
		if err != nil || result != nil {
			return result, err
		}
	}

	if postcode == "" {
		return nil, nil
	}
	normalized := NormalizePostcode(postcode)

	result, err := m.matchByPostcodeNumber(ctx, rawAddress, normalized)
	if err != nil || result != nil {
		return result, err
	}

	return m.matchByFuzzyAddress(ctx, rawAddress, normalized)
}

func (m *Matcher) matchByReference(ctx context.Context, uprn string) (*types.MatchResult, error) {
	prop, err := m.registry.PropertyByUPRN(ctx, uprn)
	if err != nil {
		return nil, fmt.Errorf("reference lookup: %w", err)
	}
	if prop == nil {
		return nil, nil
	}
	return &types.MatchResult{
		PropertyID: prop.PropertyID,
		Confidence: 1.00,
		Method:     types.MethodReferenceExact,
	}, nil
}

func (m *Matcher) matchByPostcodeNumber(ctx context.Context, rawAddress, postcode string) (*types.MatchResult, error) {
	buildingNumber := ExtractBuildingNumber(rawAddress)
	if buildingNumber == "" {
		return nil, nil
	}

	prop, err := m.registry.PropertyByPostcodeNumber(ctx, postcode, buildingNumber)
	if err != nil {
		return nil, fmt.Errorf("postcode-number lookup: %w", err)
	}
	if prop == nil {
		return nil, nil
	}
	return &types.MatchResult{
		PropertyID: prop.PropertyID,
		Confidence: 0.95,
		Method:     types.MethodPostcodeNumber,
	}, nil
}

// matchByFuzzyAddress scores every property in the postcode by trigram
// similarity of normalized addresses and accepts the best score at or
// above the threshold. Candidates arrive ordered by property id and only
// a strictly better score displaces the leader, so ties resolve to the
// lowest property id.
func (m *Matcher) matchByFuzzyAddress(ctx context.Context, rawAddress, postcode string) (*types.MatchResult, error) {
	candidates, err := m.registry.PropertiesByPostcode(ctx, postcode)
	if err != nil {
		return nil, fmt.Errorf("postcode candidate lookup: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	normalized := NormalizeAddress(rawAddress)

	var best *types.CanonicalProperty
	var bestScore float64
	for i := range candidates {
		score := Similarity(normalized, NormalizeAddress(candidates[i].NormalizedAddress))
		if score > bestScore {
			best = &candidates[i]
			bestScore = score
		}
	}

	if best == nil || bestScore < m.threshold {
		return nil, nil
	}
	return &types.MatchResult{
		PropertyID: best.PropertyID,
		Confidence: math.Round(bestScore*100) / 100,
		Method:     types.MethodAddressFuzzy,
	}, nil
}
