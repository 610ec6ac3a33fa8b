// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package avm produces automated valuation estimates. The durable
// contract is the Estimator interface; the seeded placeholder stands in
// until a comparables-based model is available, and any replacement must
// honor the same input, output, and rounding behavior.
package avm

import (
	"context"
	"math"
	"math/rand"

	"github.com/mkeene/listing-engine/pkg/types"
)

// Estimator values a property anchored on its asking price. An absent
// asking price yields an estimate with all fields nil.
type Estimator interface {
	Estimate(ctx context.Context, propertyID int64, askingPrice *float64) (types.AVMEstimate, error)
}

// SeededEstimator is the placeholder model: a multiplicative noise
// factor in [0.92, 1.08] drawn from a generator seeded with the property
// id, so repeated calls for the same property return identical values.
type SeededEstimator struct{}

// NewSeeded returns the deterministic placeholder estimator.
func NewSeeded() *SeededEstimator {
	return &SeededEstimator{}
}

// Estimate values the property. The confidence interval is estimate ±5%
// and the confidence score is drawn from [0.75, 0.95] off the same seed.
// Monetary values and the delta percentage are rounded to 2 decimals.
func (e *SeededEstimator) Estimate(_ context.Context, propertyID int64, askingPrice *float64) (types.AVMEstimate, error) {
	if askingPrice == nil {
		return types.AVMEstimate{}, nil
	}

	rng := rand.New(rand.NewSource(propertyID))
	noiseFactor := 0.92 + rng.Float64()*0.16
	confidence := round2(0.75 + rng.Float64()*0.20)

	estimate := round2(*askingPrice * noiseFactor)
	ciLower := round2(estimate * 0.95)
	ciUpper := round2(estimate * 1.05)
	deltaPct := round2((*askingPrice - estimate) / estimate * 100)

	return types.AVMEstimate{
		Estimate:        &estimate,
		CILower:         &ciLower,
		CIUpper:         &ciUpper,
		ConfidenceScore: &confidence,
		ValueDeltaPct:   &deltaPct,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
