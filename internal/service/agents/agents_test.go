package agents

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/propertypilot/backend/internal/adapter/publicdata"
	"github.com/propertypilot/backend/internal/config"
	"github.com/propertypilot/backend/internal/model/property"
	"github.com/propertypilot/backend/internal/storage"
)

type fakeListings struct {
	searchResult []property.Property
	searchErr    error
	details      property.Details
	detailsErr   error
}

func (f *fakeListings) SearchProperties(_ context.Context, _ string, _ float64) ([]property.Property, error) {
	return f.searchResult, f.searchErr
}

func (f *fakeListings) GetPropertyDetails(_ context.Context, _ string) (property.Details, error) {
	return f.details, f.detailsErr
}

func newTestToolset(listings ListingClient) *Toolset {
	return &Toolset{
		Listings:     listings,
		Demographics: publicdata.StaticDemographics{},
		Schools:      publicdata.StaticSchools{},
		Crime:        publicdata.StaticCrime{},
		Trends:       publicdata.StaticTrends{},
		Store:        storage.NoopStore{},
	}
}

func TestNeighborhoodScoreComposesProviders(t *testing.T) {
	tools := newTestToolset(&fakeListings{})

	report, err := tools.NeighborhoodScore("Austin, TX")
	if err != nil {
		t.Fatalf("NeighborhoodScore returned error: %v", err)
	}
	if report.Score.Overall <= 0 || report.Score.Overall > 10 {
		t.Errorf("overall score %v out of range", report.Score.Overall)
	}
	if report.DataSources["demographics"] != "city_estimates" {
		t.Errorf("demographics source = %q, want city_estimates", report.DataSources["demographics"])
	}
}

func TestNeighborhoodScoreInvalidLocation(t *testing.T) {
	tools := newTestToolset(&fakeListings{})
	if _, err := tools.NeighborhoodScore("nowhere"); err == nil {
		t.Fatal("NeighborhoodScore accepted an invalid location")
	}
}

func TestAnalyzeOpportunityStrongBuy(t *testing.T) {
	tools := newTestToolset(&fakeListings{
		details: property.Details{
			Address:       "789 Cedar Ln, Austin, TX",
			Price:         200000,
			Zestimate:     250000,
			RentZestimate: 2500,
			LivingArea:    1600,
		},
	})

	analysis, err := tools.AnalyzeOpportunity(context.Background(), "https://zillow.com/x", 8.0)
	if err != nil {
		t.Fatalf("AnalyzeOpportunity returned error: %v", err)
	}

	// expenses = 200000*0.01/12 = 166.67; cash flow = 2333.33; roi = 14.0%
	if analysis.InvestmentMetrics.EstimatedMonthlyExpenses != 166.67 {
		t.Errorf("expenses = %v, want 166.67", analysis.InvestmentMetrics.EstimatedMonthlyExpenses)
	}
	if analysis.InvestmentMetrics.ROIPercentage != 14.0 {
		t.Errorf("ROI = %v, want 14.0", analysis.InvestmentMetrics.ROIPercentage)
	}
	if analysis.InvestmentMetrics.RentalYield != 15.0 {
		t.Errorf("rental yield = %v, want 15.0", analysis.InvestmentMetrics.RentalYield)
	}
	if !analysis.InvestmentMetrics.MeetsTargetROI {
		t.Error("MeetsTargetROI = false, want true")
	}
	if !strings.HasPrefix(analysis.Recommendation, "STRONG BUY") {
		t.Errorf("recommendation = %q, want STRONG BUY prefix", analysis.Recommendation)
	}
	// discount = (250000-200000)/250000 = 20% > 10
	if !strings.Contains(analysis.Recommendation, "priced below market estimate") {
		t.Errorf("recommendation %q missing below-market annotation", analysis.Recommendation)
	}
	if analysis.MarketAnalysis.PriceVsZestimate != 80.0 {
		t.Errorf("price vs zestimate = %v, want 80.0", analysis.MarketAnalysis.PriceVsZestimate)
	}
	if analysis.MarketAnalysis.PricePerSqft != 125.0 {
		t.Errorf("price per sqft = %v, want 125.0", analysis.MarketAnalysis.PricePerSqft)
	}
}

func TestAnalyzeOpportunityPass(t *testing.T) {
	tools := newTestToolset(&fakeListings{
		details: property.Details{
			Address:       "12 Low Yield Rd",
			Price:         500000,
			Zestimate:     460000,
			RentZestimate: 1200,
			LivingArea:    2000,
		},
	})

	analysis, err := tools.AnalyzeOpportunity(context.Background(), "https://zillow.com/y", 8.0)
	if err != nil {
		t.Fatalf("AnalyzeOpportunity returned error: %v", err)
	}
	if !strings.HasPrefix(analysis.Recommendation, "PASS") {
		t.Errorf("recommendation = %q, want PASS prefix", analysis.Recommendation)
	}
	// discount = (460000-500000)/460000 = -8.7% < -5
	if !strings.Contains(analysis.Recommendation, "may be overpriced") {
		t.Errorf("recommendation %q missing overpriced annotation", analysis.Recommendation)
	}
}

func TestAnalyzeOpportunityNoRentData(t *testing.T) {
	tools := newTestToolset(&fakeListings{
		details: property.Details{Address: "5 No Rent Ct", Price: 300000},
	})

	analysis, err := tools.AnalyzeOpportunity(context.Background(), "https://zillow.com/z", 8.0)
	if err != nil {
		t.Fatalf("AnalyzeOpportunity returned error: %v", err)
	}
	if !strings.HasPrefix(analysis.Recommendation, "RESEARCH REQUIRED") {
		t.Errorf("recommendation = %q, want RESEARCH REQUIRED prefix", analysis.Recommendation)
	}
	if analysis.InvestmentMetrics.Note == "" {
		t.Error("expected a note about missing rent data")
	}
}

func TestAnalyzeOpportunityFetchFailure(t *testing.T) {
	tools := newTestToolset(&fakeListings{detailsErr: errors.New("upstream down")})
	if _, err := tools.AnalyzeOpportunity(context.Background(), "https://zillow.com/q", 8.0); err == nil {
		t.Fatal("AnalyzeOpportunity swallowed the fetch error")
	}
}

func TestSystemDeterministicFallback(t *testing.T) {
	tools := newTestToolset(&fakeListings{})
	system, err := NewSystem(context.Background(), config.AIConfig{}, tools)
	if err != nil {
		t.Fatalf("NewSystem returned error: %v", err)
	}
	if system.Enabled() {
		t.Fatal("system reports enabled without credentials")
	}

	analysis, err := system.AnalyzeInvestment(context.Background(), "Austin, TX", 500000)
	if err != nil {
		t.Fatalf("AnalyzeInvestment returned error: %v", err)
	}
	if !strings.Contains(analysis.AnalysisResult, "PROPERTY INVESTMENT ANALYSIS REPORT") {
		t.Errorf("fallback narrative missing report header:\n%s", analysis.AnalysisResult)
	}
	if !strings.Contains(analysis.AnalysisResult, "RECOMMENDATION:") {
		t.Errorf("fallback narrative missing recommendation:\n%s", analysis.AnalysisResult)
	}
	if analysis.Location != "Austin, TX" {
		t.Errorf("Location = %q, want Austin, TX", analysis.Location)
	}
}

func TestSystemStreamRequiresModel(t *testing.T) {
	system, err := NewSystem(context.Background(), config.AIConfig{}, newTestToolset(&fakeListings{}))
	if err != nil {
		t.Fatalf("NewSystem returned error: %v", err)
	}
	if _, err := system.StreamInvestment(context.Background(), "Austin, TX", 500000); err == nil {
		t.Fatal("StreamInvestment succeeded without a chat model")
	}
}

func TestScoutListingsDegradesOnSearchFailure(t *testing.T) {
	tools := newTestToolset(&fakeListings{searchErr: errors.New("search down")})
	if _, err := tools.ScoutListings(context.Background(), "Austin, TX", 400000); err == nil {
		t.Fatal("ScoutListings swallowed the search error")
	}
}

func TestScoutListingsAssignsStoreIDs(t *testing.T) {
	tools := newTestToolset(&fakeListings{
		searchResult: []property.Property{{Address: "1 Elm St"}, {Address: "2 Oak Ave"}},
	})

	listings, err := tools.ScoutListings(context.Background(), "Austin, TX", 400000)
	if err != nil {
		t.Fatalf("ScoutListings returned error: %v", err)
	}
	for _, listing := range listings {
		if !strings.HasPrefix(listing.PropertyID, "prop_") {
			t.Errorf("listing %q missing store ID, got %q", listing.Address, listing.PropertyID)
		}
	}
}

type recentStore struct {
	storage.NoopStore
	recent []property.Property
}

func (s *recentStore) FetchRecent(_ context.Context, _ int) ([]property.Property, error) {
	return s.recent, nil
}

func TestScoutListingsFallsBackToStoredProperties(t *testing.T) {
	tools := newTestToolset(&fakeListings{})
	tools.Store = &recentStore{recent: []property.Property{
		{PropertyID: "prop_20240601_123045_1", Address: "1 Elm St"},
	}}

	listings, err := tools.ScoutListings(context.Background(), "Austin, TX", 400000)
	if err != nil {
		t.Fatalf("ScoutListings returned error: %v", err)
	}
	if len(listings) != 1 || listings[0].Address != "1 Elm St" {
		t.Fatalf("listings = %+v, want the stored property", listings)
	}
}

func TestScoutListingsEmptyWithoutRecentStore(t *testing.T) {
	tools := newTestToolset(&fakeListings{})

	listings, err := tools.ScoutListings(context.Background(), "Austin, TX", 400000)
	if err != nil {
		t.Fatalf("ScoutListings returned error: %v", err)
	}
	if len(listings) != 0 {
		t.Fatalf("listings = %+v, want none", listings)
	}
}

func TestAnalyzeOpportunityEstimatesRepairCosts(t *testing.T) {
	tools := newTestToolset(&fakeListings{
		details: property.Details{
			Address:    "9 Fixer Ln",
			Price:      250000,
			LivingArea: 1200,
			YearBuilt:  1950,
		},
	})

	analysis, err := tools.AnalyzeOpportunity(context.Background(), "https://zillow.com/x", 8.0)
	if err != nil {
		t.Fatalf("AnalyzeOpportunity returned error: %v", err)
	}

	// Condition 7 gives 15/sqft; a 1950 build hits the age cap of 10/sqft.
	if analysis.InvestmentMetrics.EstimatedRepairCosts != 30000 {
		t.Errorf("repair costs = %v, want 30000", analysis.InvestmentMetrics.EstimatedRepairCosts)
	}
}

func TestStreamingDisabledWithoutModel(t *testing.T) {
	system, err := NewSystem(context.Background(), config.AIConfig{Stream: true}, newTestToolset(&fakeListings{}))
	if err != nil {
		t.Fatalf("NewSystem returned error: %v", err)
	}
	if system.StreamingEnabled() {
		t.Error("StreamingEnabled() = true without a chat model")
	}
}

func TestSystemAnalyzeOpportunityDelegatesToTools(t *testing.T) {
	system, err := NewSystem(context.Background(), config.AIConfig{}, newTestToolset(&fakeListings{
		details: property.Details{Address: "3 Yield Way", Price: 200000, Zestimate: 250000, RentZestimate: 2500},
	}))
	if err != nil {
		t.Fatalf("NewSystem returned error: %v", err)
	}

	analysis, err := system.AnalyzeOpportunity(context.Background(), "https://zillow.com/x", 8.0)
	if err != nil {
		t.Fatalf("AnalyzeOpportunity returned error: %v", err)
	}
	if !strings.HasPrefix(analysis.Recommendation, "STRONG BUY") {
		t.Errorf("recommendation = %q, want STRONG BUY tier", analysis.Recommendation)
	}
}

func TestInvestmentReportTemplate(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	report := InvestmentReport("prop_test_1", ReportData{
		ROIPercentage:     8.0,
		CashFlowMonthly:   2000,
		RiskScore:         4.5,
		RentalYield:       10.0,
		NeighborhoodScore: 7.2,
		MarketConditions:  "positive",
		PriceTrend:        "rising",
		Recommendation:    "CONSIDER",
	}, now)

	for _, want := range []string{
		"Property ID: prop_test_1",
		"Generated: 2024-06-01 09:00:00",
		"ROI: 8.0%",
		"Monthly Cash Flow: $2000.00",
		"Risk Score: 4.5/10",
		"Neighborhood Score: 7.2/10",
		"Market Conditions: positive",
		"RECOMMENDATION: CONSIDER",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestInvestmentReportDefaults(t *testing.T) {
	report := InvestmentReport("prop_test_2", ReportData{}, time.Now())
	for _, want := range []string{"neutral", "stable", "Further analysis required"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing default %q", want)
		}
	}
}
