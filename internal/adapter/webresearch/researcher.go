// Package webresearch drives a headless browser across fixed real-estate
// sources and distills page content into structured market insights.
package webresearch

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/propertypilot/backend/internal/model/research"
)

// Fetcher retrieves the visible text of a page.
type Fetcher interface {
	FetchPageText(ctx context.Context, url string) (string, error)
}

// Config tunes fan-out and per-page budgets.
type Config struct {
	MaxConcurrency int
	PageTimeout    time.Duration
}

// Researcher coordinates research runs over the configured targets.
type Researcher struct {
	fetcher Fetcher
	targets []research.Target
	cfg     Config
}

// NewResearcher builds a researcher over the default target set.
func NewResearcher(fetcher Fetcher, cfg Config) *Researcher {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 3
	}
	if cfg.PageTimeout <= 0 {
		cfg.PageTimeout = 60 * time.Second
	}
	return &Researcher{
		fetcher: fetcher,
		targets: defaultTargets(),
		cfg:     cfg,
	}
}

// MarketConditions fans out across high-priority targets and synthesizes the
// extracted insights. Individual source failures degrade to partial results.
func (r *Researcher) MarketConditions(ctx context.Context, location, propertyType string) (research.MarketConditions, error) {
	result := research.MarketConditions{
		Location:          location,
		PropertyType:      propertyType,
		ResearchTimestamp: time.Now().UTC(),
		Insights:          []research.Insight{},
	}

	var mu sync.Mutex
	perSource := make(map[string][]research.Insight)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.cfg.MaxConcurrency)

	for _, target := range r.targets {
		if target.Priority > 2 {
			continue
		}
		group.Go(func() error {
			insights := r.researchTarget(groupCtx, target, location)
			if len(insights) == 0 {
				return nil
			}
			mu.Lock()
			perSource[target.Name] = insights
			result.Insights = append(result.Insights, insights...)
			mu.Unlock()
			return nil
		})
	}

	// Per-target errors are swallowed inside researchTarget; the only group
	// error is context cancellation.
	if err := group.Wait(); err != nil {
		return result, err
	}

	result.Summary = synthesize(result.Insights)
	result.ConfidenceScore = confidenceScore(perSource, r.targets)
	return result, nil
}

func (r *Researcher) researchTarget(ctx context.Context, target research.Target, location string) []research.Insight {
	pageURL := buildSearchURL(target, location)

	pageCtx, cancel := context.WithTimeout(ctx, r.cfg.PageTimeout)
	defer cancel()

	text, err := r.fetcher.FetchPageText(pageCtx, pageURL)
	if err != nil {
		log.Printf("[research] %s failed for %s: %v", target.Name, location, err)
		return nil
	}

	return extractInsights(text, target, location, pageURL, time.Now().UTC())
}

// PropertySpecifics gathers address-level findings from the property sources.
func (r *Researcher) PropertySpecifics(ctx context.Context, address string) (research.PropertyResearch, error) {
	result := research.PropertyResearch{
		Address:           address,
		ResearchTimestamp: time.Now().UTC(),
		Insights:          []research.SourceFinding{},
	}

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.cfg.MaxConcurrency)

	for _, source := range propertySources {
		group.Go(func() error {
			pageCtx, cancel := context.WithTimeout(groupCtx, r.cfg.PageTimeout)
			defer cancel()

			text, err := r.fetcher.FetchPageText(pageCtx, source)
			if err != nil {
				log.Printf("[research] property research failed for %s: %v", source, err)
				return nil
			}
			mu.Lock()
			result.Insights = append(result.Insights, research.SourceFinding{
				Source:    source,
				Findings:  truncate(text, generalSummaryLimit),
				Timestamp: time.Now().UTC(),
			})
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return result, err
	}
	if len(result.Insights) == 0 {
		return result, fmt.Errorf("all property research sources failed for %s", address)
	}
	return result, nil
}

// InvestmentOpportunities surveys investment-focused sources against criteria.
func (r *Researcher) InvestmentOpportunities(ctx context.Context, criteria research.Criteria) (research.Opportunities, error) {
	result := research.Opportunities{
		Criteria:          criteria,
		ResearchTimestamp: time.Now().UTC(),
		Findings:          []research.SourceFinding{},
	}

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.cfg.MaxConcurrency)

	for _, source := range opportunitySources {
		group.Go(func() error {
			pageCtx, cancel := context.WithTimeout(groupCtx, r.cfg.PageTimeout)
			defer cancel()

			text, err := r.fetcher.FetchPageText(pageCtx, source.Source)
			if err != nil {
				log.Printf("[research] opportunity research failed for %s: %v", source.Source, err)
				return nil
			}
			mu.Lock()
			result.Findings = append(result.Findings, research.SourceFinding{
				Source:      source.Source,
				Description: source.Description,
				Findings:    truncate(text, generalSummaryLimit),
				Timestamp:   time.Now().UTC(),
			})
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return result, err
	}
	return result, nil
}
