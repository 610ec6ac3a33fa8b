// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich assembles the full feature profile for a matched
// listing: external feature store data, conservation area membership,
// school and transport proximity, and a valuation estimate. Sub-sources
// are independent; any of them failing degrades its fields to nil
// rather than aborting, so enrichment always produces a record.
package enrich

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/mkeene/listing-engine/internal/avm"
	"github.com/mkeene/listing-engine/internal/store"
	"github.com/mkeene/listing-engine/pkg/types"
)

const (
	defaultSourceTimeout = 10 * time.Second
	defaultWorkers       = 4
)

// Store is the persistence surface the engine needs. *store.Store
// implements it.
type Store interface {
	RawListingByID(ctx context.Context, id int64) (*types.RawListing, error)
	MatchResultFor(ctx context.Context, rawListingID int64) (*types.MatchResult, error)
	PropertyByID(ctx context.Context, propertyID int64) (*types.CanonicalProperty, error)
	NearestSchool(ctx context.Context, p types.GeoPoint, phase string) (*store.School, float64, error)
	NearestAirport(ctx context.Context, p types.GeoPoint) (*store.Airport, float64, error)
	ConservationAreaContaining(ctx context.Context, p types.GeoPoint) (*store.ConservationArea, error)
	UpsertEnrichedListing(ctx context.Context, e types.EnrichedListing) error
}

// FeatureSource fetches external feature data for a property.
type FeatureSource interface {
	GetPropertyFeatures(ctx context.Context, reference, postcode string) (types.PropertyFeatures, error)
}

// Engine enriches matched listings. It is stateless apart from the
// per-listing locks that serialize concurrent enrichment of the same id;
// the upsert is a blind overwrite, so two interleaved writers for one
// listing must not race.
type Engine struct {
	store     Store
	features  FeatureSource
	estimator avm.Estimator
	timeout   time.Duration
	workers   int

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// New returns an Engine over the given collaborators. Zero config values
// fall back to defaults (10s source timeout, 4 batch workers).
func New(st Store, features FeatureSource, estimator avm.Estimator, cfg types.EnrichConfig) *Engine {
	timeout := cfg.SourceTimeout
	if timeout <= 0 {
		timeout = defaultSourceTimeout
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Engine{
		store:     st,
		features:  features,
		estimator: estimator,
		timeout:   timeout,
		workers:   workers,
		locks:     make(map[int64]*sync.Mutex),
	}
}

// subResults collects the outcome of the independent sub-lookups. Each
// goroutine writes only its own field group.
type subResults struct {
	features types.PropertyFeatures

	inConservationArea   bool
	conservationAreaName *string

	schoolQuality *float64
	distPrimary   *int
	distSecondary *int

	distAirport *int
	airportCode *string

	valuation types.AVMEstimate
}

// Enrich builds and stores the enriched record for one raw listing.
// It returns types.ErrNotFound when the listing or its matched property
// is missing and types.ErrUnmatched when no match result exists. Source
// failures are absorbed as nil fields.
func (e *Engine) Enrich(ctx context.Context, rawListingID int64) (*types.EnrichedListing, error) {
	lock := e.lockFor(rawListingID)
	lock.Lock()
	defer lock.Unlock()

	raw, err := e.store.RawListingByID(ctx, rawListingID)
	if err != nil {
		return nil, fmt.Errorf("listing %d: %w", rawListingID, err)
	}

	match, err := e.store.MatchResultFor(ctx, rawListingID)
	if err != nil {
		return nil, fmt.Errorf("listing %d: %w", rawListingID, err)
	}
	if match == nil {
		return nil, fmt.Errorf("listing %d: %w", rawListingID, types.ErrUnmatched)
	}

	prop, err := e.store.PropertyByID(ctx, match.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("property %d: %w", match.PropertyID, err)
	}

	results := e.gather(ctx, raw, prop)

	enriched := e.assemble(raw, prop, results)
	if err := e.store.UpsertEnrichedListing(ctx, enriched); err != nil {
		return nil, fmt.Errorf("storing enriched listing %d: %w", rawListingID, err)
	}
	return &enriched, nil
}

// gather runs the five sub-lookups concurrently. Each has its own
// timeout; a failed or timed-out lookup leaves its fields at their nil
// zero values.
func (e *Engine) gather(ctx context.Context, raw *types.RawListing, prop *types.CanonicalProperty) subResults {
	var results subResults
	var wg sync.WaitGroup

	run := func(fn func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			subCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()
			fn(subCtx)
		}()
	}

	run(func(ctx context.Context) {
		features, err := e.features.GetPropertyFeatures(ctx, prop.UPRN, prop.Postcode)
		if err == nil {
			results.features = features
		}
	})

	run(func(ctx context.Context) {
		area, err := e.store.ConservationAreaContaining(ctx, prop.Location)
		if err == nil && area != nil {
			results.inConservationArea = true
			results.conservationAreaName = &area.Name
		}
	})

	run(func(ctx context.Context) {
		results.schoolQuality, results.distPrimary, results.distSecondary = e.schoolMetrics(ctx, prop.Location)
	})

	run(func(ctx context.Context) {
		airport, dist, err := e.store.NearestAirport(ctx, prop.Location)
		if err == nil && airport != nil {
			d := int(dist)
			results.distAirport = &d
			results.airportCode = &airport.IATACode
		}
	})

	run(func(ctx context.Context) {
		valuation, err := e.estimator.Estimate(ctx, prop.PropertyID, raw.Price)
		if err == nil {
			results.valuation = valuation
		}
	})

	wg.Wait()
	return results
}

// schoolMetrics finds the nearest primary and secondary schools and
// derives the quality sub-score: the mean of available inspection scores
// normalized by the maximum rating of 4. A phase with no school yields a
// nil distance; no rated school in either phase yields a nil quality.
func (e *Engine) schoolMetrics(ctx context.Context, location types.GeoPoint) (quality *float64, distPrimary, distSecondary *int) {
	var scores []float64

	primary, primaryDist, err := e.store.NearestSchool(ctx, location, store.PhasePrimary)
	if err == nil && primary != nil {
		d := int(primaryDist)
		distPrimary = &d
		if primary.RatingScore != nil {
			scores = append(scores, float64(*primary.RatingScore)/4.0)
		}
	}

	secondary, secondaryDist, err := e.store.NearestSchool(ctx, location, store.PhaseSecondary)
	if err == nil && secondary != nil {
		d := int(secondaryDist)
		distSecondary = &d
		if secondary.RatingScore != nil {
			scores = append(scores, float64(*secondary.RatingScore)/4.0)
		}
	}

	if len(scores) > 0 {
		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		q := math.Round(sum/float64(len(scores))*100) / 100
		quality = &q
	}
	return quality, distPrimary, distSecondary
}

// assemble builds the enriched record from the raw listing, its
// canonical property, and whatever the sub-lookups produced. The geo
// point always comes from the property. Station distance has no data
// source yet and stays nil.
func (e *Engine) assemble(raw *types.RawListing, prop *types.CanonicalProperty, r subResults) types.EnrichedListing {
	title := raw.Title
	if title == "" {
		title = "Untitled"
	}

	propertyType := raw.PropertyTypeText
	if propertyType == "" {
		propertyType = prop.PropertyType
	}

	return types.EnrichedListing{
		RawListingID: raw.RawListingID,
		PropertyID:   prop.PropertyID,

		Title:        title,
		Description:  raw.Description,
		Price:        raw.Price,
		Bedrooms:     raw.Bedrooms,
		Bathrooms:    raw.Bathrooms,
		PropertyType: propertyType,
		Tenure:       raw.Tenure,
		Status:       raw.Status,
		ListedDate:   raw.ListedDate,

		Address:  prop.NormalizedAddress,
		Postcode: prop.Postcode,
		Location: prop.Location,

		EnergyRating:          r.features.EnergyRating,
		EnergyScore:           r.features.EnergyScore,
		EnergyPotentialRating: r.features.EnergyPotentialRating,
		CO2Emissions:          r.features.CO2Emissions,
		EnergyConsumption:     r.features.EnergyConsumption,
		DeprivationDecile:     r.features.DeprivationDecile,
		CrimePercentile:       r.features.CrimePercentile,
		FloodRiskTier:         r.features.FloodRiskTier,
		BroadbandMaxSpeed:     r.features.BroadbandMaxSpeed,
		RecentPlanningApps:    r.features.RecentPlanningApps,
		PlanningRefusals:      r.features.PlanningRefusals,

		InConservationArea:   r.inConservationArea,
		ConservationAreaName: r.conservationAreaName,

		SchoolQualityScore:   r.schoolQuality,
		DistanceToPrimaryM:   r.distPrimary,
		DistanceToSecondaryM: r.distSecondary,

		DistanceToStationM: nil,
		DistanceToAirportM: r.distAirport,
		NearestAirportCode: r.airportCode,

		AVMEstimate:        r.valuation.Estimate,
		AVMCILower:         r.valuation.CILower,
		AVMCIUpper:         r.valuation.CIUpper,
		AVMConfidenceScore: r.valuation.ConfidenceScore,
		AVMValueDeltaPct:   r.valuation.ValueDeltaPct,

		EnrichedAt: time.Now().UTC(),
	}
}

// lockFor returns the mutex serializing enrichment of one listing id.
func (e *Engine) lockFor(rawListingID int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[rawListingID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[rawListingID] = lock
	}
	return lock
}
