package agents

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/propertypilot/backend/internal/adapter/publicdata"
	"github.com/propertypilot/backend/internal/analysis/neighborhood"
	"github.com/propertypilot/backend/internal/model/property"
	"github.com/propertypilot/backend/internal/storage"
)

// ListingClient is the listing-data surface the scout tools call.
type ListingClient interface {
	SearchProperties(ctx context.Context, location string, maxPrice float64) ([]property.Property, error)
	GetPropertyDetails(ctx context.Context, zillowURL string) (property.Details, error)
}

// Toolset bundles the concrete tool functions the agents invoke. Each tool
// is a plain method so callers (and tests) can exercise them directly.
type Toolset struct {
	Listings     ListingClient
	Demographics publicdata.DemographicsProvider
	Schools      publicdata.SchoolProvider
	Crime        publicdata.CrimeProvider
	Trends       publicdata.TrendsProvider
	Store        storage.PropertyStore
}

// NeighborhoodReport is the multi-factor score plus the sources behind it.
type NeighborhoodReport struct {
	Location    string             `json:"location"`
	Score       neighborhood.Score `json:"neighborhood_score"`
	DataSources map[string]string  `json:"data_sources"`
	Timestamp   time.Time          `json:"timestamp"`
}

// NeighborhoodScore pulls demographics, school ratings and crime stats for
// the location and folds them into the weighted score.
func (t *Toolset) NeighborhoodScore(location string) (NeighborhoodReport, error) {
	demo, err := t.Demographics.Demographics(location)
	if err != nil {
		return NeighborhoodReport{}, fmt.Errorf("demographic lookup for %s: %w", location, err)
	}

	schools, err := t.Schools.SchoolRatings(location)
	if err != nil {
		return NeighborhoodReport{}, fmt.Errorf("school lookup for %s: %w", location, err)
	}

	crime, err := t.Crime.CrimeStats(location)
	if err != nil {
		return NeighborhoodReport{}, fmt.Errorf("crime lookup for %s: %w", location, err)
	}

	score := neighborhood.Calculate(neighborhood.Inputs{
		MedianIncome:      demo.MedianIncome,
		EducationRate:     demo.EducationRate,
		SchoolRating:      schools.AverageRating,
		SafetyScore:       crime.SafetyScore,
		HomeownershipRate: demo.HomeownershipRate,
	})

	return NeighborhoodReport{
		Location: location,
		Score:    score,
		DataSources: map[string]string{
			"demographics": demo.DataSource,
			"schools":      schools.DataSource,
			"crime":        "public_estimates",
		},
		Timestamp: time.Now().UTC(),
	}, nil
}

// ScoutListings searches for listings under the price cap and persists each
// hit. Store failures are logged and skipped, never fatal.
func (t *Toolset) ScoutListings(ctx context.Context, location string, maxPrice float64) ([]property.Property, error) {
	listings, err := t.Listings.SearchProperties(ctx, location, maxPrice)
	if err != nil {
		return nil, fmt.Errorf("listing search for %s: %w", location, err)
	}

	if len(listings) == 0 {
		return t.recentlyStored(ctx)
	}

	for i := range listings {
		id, err := t.Store.SaveProperty(ctx, listings[i])
		if err != nil {
			log.Printf("[agents] failed to store property %s: %v", listings[i].Address, err)
			continue
		}
		listings[i].PropertyID = id
	}
	return listings, nil
}

const recentListingLimit = 10

// recentlyStored falls back to the newest persisted properties when the
// upstream search yields nothing.
func (t *Toolset) recentlyStored(ctx context.Context) ([]property.Property, error) {
	lister, ok := t.Store.(storage.RecentLister)
	if !ok {
		return []property.Property{}, nil
	}

	stored, err := lister.FetchRecent(ctx, recentListingLimit)
	if err != nil {
		log.Printf("[agents] failed to fetch stored properties: %v", err)
		return []property.Property{}, nil
	}
	return stored, nil
}
