// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score ranks enriched listings against user preferences: hard
// filters exclude, soft weighted sub-scores order what remains. Scores
// are computed per request and never persisted.
package score

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/mkeene/listing-engine/pkg/types"
)

const (
	defaultMaxResults = 100

	// commuteDecayM is the station distance at which the commute
	// sub-score bottoms out at 0.
	commuteDecayM = 2000.0
)

// Store is the listing source for search. *store.Store implements it.
type Store interface {
	ActiveListings(ctx context.Context) ([]types.EnrichedListing, error)
}

// Scorer filters and ranks enriched listings.
type Scorer struct {
	store      Store
	maxResults int
}

// New returns a Scorer over the given listing store.
func New(st Store, cfg types.SearchConfig) *Scorer {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &Scorer{store: st, maxResults: maxResults}
}

// Score computes the weighted preference score for one listing. Each
// sub-score is normalized to [0,1] and multiplied by its weight; the sum
// is divided by the weight actually counted. A sub-score with missing
// data contributes nothing but its weight still counts, except schools,
// whose weight leaves the denominator entirely when the quality score is
// nil. All-zero weights score exactly 0.5. The result is rounded to two
// decimals and clamped to [0,1].
func Score(l types.EnrichedListing, w types.PreferenceWeights) float64 {
	if w.Total() == 0 {
		return 0.5
	}

	denominator := w.Total()
	var sum float64

	if l.SchoolQualityScore != nil {
		sum += w.Schools * *l.SchoolQualityScore
	} else {
		denominator -= w.Schools
	}

	sum += w.Commute * commuteScore(l.DistanceToStationM)

	if s, ok := safetyScore(l); ok {
		sum += w.Safety * s
	}

	if l.EnergyScore != nil {
		sum += w.Energy * float64(*l.EnergyScore) / 100.0
	}

	if l.AVMValueDeltaPct != nil {
		sum += w.Value * valueScore(*l.AVMValueDeltaPct)
	}

	if l.InConservationArea {
		sum += w.Conservation
	}

	if denominator <= 0 {
		return 0.5
	}

	score := math.Round(sum / denominator * 100) / 100
	return math.Max(0, math.Min(1, score))
}

// commuteScore decays linearly from 1.0 at the station door to 0.0 at
// commuteDecayM. Unknown distance is neutral.
func commuteScore(distanceM *int) float64 {
	if distanceM == nil {
		return 0.5
	}
	d := float64(*distanceM)
	if d >= commuteDecayM {
		return 0
	}
	return 1.0 - d/commuteDecayM
}

// safetyScore averages whichever of the two area indicators are present:
// deprivation decile (10 is least deprived) and crime percentile (lower
// is safer). The second return is false when neither is known.
func safetyScore(l types.EnrichedListing) (float64, bool) {
	var sum float64
	var n int
	if l.DeprivationDecile != nil {
		sum += float64(*l.DeprivationDecile) / 10.0
		n++
	}
	if l.CrimePercentile != nil {
		sum += (100.0 - *l.CrimePercentile) / 100.0
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// valueScore maps the valuation delta to [0,1]: 10% or more under the
// model estimate is a full score, 10% or more over is zero, linear in
// between.
func valueScore(deltaPct float64) float64 {
	switch {
	case deltaPct <= -10:
		return 1.0
	case deltaPct >= 10:
		return 0.0
	default:
		return 0.5 - deltaPct/20.0
	}
}

// Search filters, scores, and ranks the active listings. Results are
// ordered by descending score; ties order by listing id ascending so the
// ranking is stable across runs. Limit and offset paginate the ranked
// list; a zero limit falls back to the configured maximum.
func (s *Scorer) Search(ctx context.Context, req types.SearchRequest) ([]types.ScoredListing, error) {
	if err := req.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search request: %w", err)
	}

	listings, err := s.store.ActiveListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading active listings: %w", err)
	}

	scored := make([]types.ScoredListing, 0, len(listings))
	for _, l := range listings {
		if !MatchesFilters(l, req.Filters) {
			continue
		}
		scored = append(scored, types.ScoredListing{
			EnrichedListing: l,
			MatchScore:      Score(l, req.Weights),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].MatchScore != scored[j].MatchScore {
			return scored[i].MatchScore > scored[j].MatchScore
		}
		return scored[i].RawListingID < scored[j].RawListingID
	})

	offset := req.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(scored) {
		return []types.ScoredListing{}, nil
	}
	scored = scored[offset:]

	limit := req.Limit
	if limit <= 0 || limit > s.maxResults {
		limit = s.maxResults
	}
	if limit < len(scored) {
		scored = scored[:limit]
	}
	return scored, nil
}
