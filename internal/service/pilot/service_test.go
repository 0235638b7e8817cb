package pilot

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/propertypilot/backend/internal/model/research"
	model "github.com/propertypilot/backend/internal/model/session"
	"github.com/propertypilot/backend/internal/service/agents"
)

type fakeAnalyzer struct {
	analysis       agents.InvestmentAnalysis
	err            error
	opportunity    agents.OpportunityAnalysis
	opportunityErr error
	gotZillowURL   string
	gotTargetROI   float64
}

func (f *fakeAnalyzer) AnalyzeInvestment(_ context.Context, location string, maxPrice float64) (agents.InvestmentAnalysis, error) {
	if f.err != nil {
		return agents.InvestmentAnalysis{}, f.err
	}
	result := f.analysis
	result.Location = location
	result.MaxPrice = maxPrice
	return result, nil
}

func (f *fakeAnalyzer) AnalyzeOpportunity(_ context.Context, zillowURL string, targetROI float64) (agents.OpportunityAnalysis, error) {
	f.gotZillowURL = zillowURL
	f.gotTargetROI = targetROI
	return f.opportunity, f.opportunityErr
}

type fakeResearcher struct {
	conditions    research.MarketConditions
	conditionsErr error
	properties    research.PropertyResearch
	opportunities research.Opportunities
	oppErr        error
}

func (f *fakeResearcher) MarketConditions(_ context.Context, location, propertyType string) (research.MarketConditions, error) {
	if f.conditionsErr != nil {
		return research.MarketConditions{}, f.conditionsErr
	}
	result := f.conditions
	result.Location = location
	result.PropertyType = propertyType
	return result, nil
}

func (f *fakeResearcher) PropertySpecifics(_ context.Context, address string) (research.PropertyResearch, error) {
	result := f.properties
	result.Address = address
	return result, nil
}

func (f *fakeResearcher) InvestmentOpportunities(_ context.Context, criteria research.Criteria) (research.Opportunities, error) {
	if f.oppErr != nil {
		return research.Opportunities{}, f.oppErr
	}
	result := f.opportunities
	result.Criteria = criteria
	return result, nil
}

func healthyConditions() research.MarketConditions {
	return research.MarketConditions{
		Summary: research.Summary{
			MarketOverview: research.MarketOverview{Temperature: "hot", Confidence: 0.8},
			PriceAnalysis:  &research.PriceAnalysis{MedianPriceEstimate: 450000, DataPoints: 4},
			InvestmentIndicators: research.InvestmentIndicators{
				OverallSentiment: "positive",
			},
		},
		ConfidenceScore: 0.8,
	}
}

func TestMarketResearchPayload(t *testing.T) {
	svc := NewService(&fakeAnalyzer{}, &fakeResearcher{conditions: healthyConditions()})

	payload, _ := svc.Handle(context.Background(), KindMarketResearch, Request{Prompt: "x"}, model.Record{})

	if payload["type"] != "market_research" {
		t.Errorf("type = %v, want market_research", payload["type"])
	}
	if payload["location"] != "Austin, TX" {
		t.Errorf("location default = %v, want Austin, TX", payload["location"])
	}
	insights, ok := payload["actionable_insights"].([]string)
	if !ok || len(insights) == 0 {
		t.Fatalf("actionable_insights missing or empty: %v", payload["actionable_insights"])
	}
	joined := strings.Join(insights, "\n")
	for _, want := range []string{
		"Market is competitive",
		"Estimated median price: $450000",
		"High confidence",
		"Positive market sentiment",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("insights missing %q:\n%s", want, joined)
		}
	}
}

func TestMarketResearchFailureIsolated(t *testing.T) {
	svc := NewService(&fakeAnalyzer{}, &fakeResearcher{conditionsErr: errors.New("browser crashed")})

	payload, update := svc.Handle(context.Background(), KindMarketResearch, Request{Prompt: "x"}, model.Record{})

	if payload["status"] != "failed" {
		t.Errorf("status = %v, want failed", payload["status"])
	}
	if payload["error"] == nil {
		t.Error("error field missing from failure payload")
	}
	if update.AnalysisEntry != nil || update.ResearchEntry != nil {
		t.Error("failed handler should not record history")
	}
}

func TestPropertyAnalysisRecordsHistory(t *testing.T) {
	svc := NewService(
		&fakeAnalyzer{analysis: agents.InvestmentAnalysis{AnalysisResult: strings.Repeat("a", 300)}},
		&fakeResearcher{conditions: healthyConditions()},
	)

	record := model.Record{AnalysisHistory: []model.AnalysisEntry{{Location: "Dallas, TX"}}}
	payload, update := svc.Handle(context.Background(), KindPropertyAnalysis, Request{Prompt: "x", Location: "Austin, TX"}, record)

	if payload["type"] != "property_analysis" {
		t.Errorf("type = %v, want property_analysis", payload["type"])
	}
	if update.AnalysisEntry == nil {
		t.Fatal("expected an analysis history entry")
	}
	if got := len(update.AnalysisEntry.Summary); got != 203 {
		t.Errorf("summary length = %d, want 203 (200 + ellipsis)", got)
	}
	sessionContext := payload["session_context"].(map[string]any)
	if sessionContext["total_analyses"] != 2 {
		t.Errorf("total_analyses = %v, want 2", sessionContext["total_analyses"])
	}
	locations := sessionContext["preferred_locations"].([]string)
	if len(locations) != 2 {
		t.Errorf("preferred_locations = %v, want both Dallas and Austin", locations)
	}
}

func TestAutomatedResearchFocusDispatch(t *testing.T) {
	researcher := &fakeResearcher{conditions: healthyConditions()}
	svc := NewService(&fakeAnalyzer{}, researcher)

	payload, update := svc.Handle(context.Background(), KindAutomatedResearch,
		Request{Prompt: "x", ResearchFocus: "investment_opportunities"}, model.Record{})

	if payload["research_focus"] != "investment_opportunities" {
		t.Errorf("research_focus = %v", payload["research_focus"])
	}
	if update.ResearchEntry == nil {
		t.Fatal("expected a research history entry")
	}
	if update.ResearchEntry.ResearchType != "investment_opportunities" {
		t.Errorf("research type = %q", update.ResearchEntry.ResearchType)
	}
}

func TestAutomatedResearchEvaluatesZillowListing(t *testing.T) {
	analyzer := &fakeAnalyzer{opportunity: agents.OpportunityAnalysis{
		PropertyInfo:   agents.PropertyInfo{Address: "1 Deal Dr", Price: 200000},
		Recommendation: "STRONG BUY - Exceeds target ROI of 8.0% with positive cash flow",
		InvestmentMetrics: agents.InvestmentMetrics{
			ROIPercentage: 14.0,
		},
	}}
	svc := NewService(analyzer, &fakeResearcher{})

	payload, update := svc.Handle(context.Background(), KindAutomatedResearch, Request{
		Prompt:        "evaluate this listing",
		ResearchFocus: "property_specific",
		ZillowURL:     "https://www.zillow.com/homedetails/123",
		MinROI:        10.0,
	}, model.Record{})

	if analyzer.gotZillowURL != "https://www.zillow.com/homedetails/123" {
		t.Errorf("zillow url = %q", analyzer.gotZillowURL)
	}
	if analyzer.gotTargetROI != 10.0 {
		t.Errorf("target roi = %v, want 10.0", analyzer.gotTargetROI)
	}

	result, ok := payload["result"].(agents.OpportunityAnalysis)
	if !ok {
		t.Fatalf("result = %T, want opportunity analysis", payload["result"])
	}
	if result.InvestmentMetrics.ROIPercentage != 14.0 {
		t.Errorf("roi = %v, want 14.0", result.InvestmentMetrics.ROIPercentage)
	}
	if update.ResearchEntry == nil || update.ResearchEntry.ResearchType != "property_specific" {
		t.Errorf("research entry = %+v", update.ResearchEntry)
	}
}

func TestAutomatedResearchZillowFailureIsolated(t *testing.T) {
	analyzer := &fakeAnalyzer{opportunityErr: errors.New("listing fetch failed")}
	svc := NewService(analyzer, &fakeResearcher{})

	payload, update := svc.Handle(context.Background(), KindAutomatedResearch, Request{
		Prompt:        "evaluate this listing",
		ResearchFocus: "property_specific",
		ZillowURL:     "https://www.zillow.com/homedetails/123",
	}, model.Record{})

	if payload["status"] != "failed" {
		t.Errorf("status = %v, want failed", payload["status"])
	}
	if update.ResearchEntry != nil {
		t.Error("failed evaluation must not record history")
	}
}

func TestAutomatedResearchAddressWithoutURL(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	svc := NewService(analyzer, &fakeResearcher{
		properties: research.PropertyResearch{Address: "42 Census Ct"},
	})

	payload, _ := svc.Handle(context.Background(), KindAutomatedResearch, Request{
		Prompt:        "x",
		ResearchFocus: "property_specific",
		Address:       "42 Census Ct",
	}, model.Record{})

	if analyzer.gotZillowURL != "" {
		t.Errorf("listing evaluation ran unexpectedly for %q", analyzer.gotZillowURL)
	}
	result, ok := payload["result"].(research.PropertyResearch)
	if !ok {
		t.Fatalf("result = %T, want property research", payload["result"])
	}
	if result.Address != "42 Census Ct" {
		t.Errorf("address = %q", result.Address)
	}
}

func TestAutomatedResearchDefaultsToMarketConditions(t *testing.T) {
	svc := NewService(&fakeAnalyzer{}, &fakeResearcher{conditions: healthyConditions()})

	payload, update := svc.Handle(context.Background(), KindAutomatedResearch, Request{Prompt: "x"}, model.Record{})

	if payload["research_focus"] != "market_conditions" {
		t.Errorf("research_focus = %v, want market_conditions", payload["research_focus"])
	}
	if update.ResearchEntry == nil || update.ResearchEntry.Confidence != 0.8 {
		t.Errorf("research entry = %+v, want confidence 0.8", update.ResearchEntry)
	}
}

func TestInvestmentOpportunitiesRecommendations(t *testing.T) {
	svc := NewService(&fakeAnalyzer{}, &fakeResearcher{
		opportunities: research.Opportunities{
			Findings: []research.SourceFinding{
				{Source: "Zillow Research", Findings: "x"},
				{Source: "Realtor.com", Findings: "y"},
			},
		},
	})

	payload, _ := svc.Handle(context.Background(), KindInvestmentOpportunities,
		Request{Prompt: "x", MaxPrice: 400000}, model.Record{})

	recommendations := payload["recommendations"].([]string)
	if !strings.Contains(recommendations[0], "Found 2 potential opportunity sources") {
		t.Errorf("recommendations[0] = %q", recommendations[0])
	}
	criteria := payload["criteria"].(research.Criteria)
	if criteria.MaxPrice != 400000 || criteria.MinROI != 8.0 {
		t.Errorf("criteria = %+v", criteria)
	}
}

func TestEnhancedAnalysisDegradesOnResearchFailure(t *testing.T) {
	svc := NewService(
		&fakeAnalyzer{analysis: agents.InvestmentAnalysis{AnalysisResult: "solid"}},
		&fakeResearcher{conditionsErr: errors.New("research down"), oppErr: errors.New("also down")},
	)

	payload, update := svc.Handle(context.Background(), KindEnhancedAnalysis, Request{Prompt: "x"}, model.Record{})

	// Agent output survives; research degradation must not fail the request.
	if payload["status"] == "failed" {
		t.Fatalf("enhanced analysis failed outright: %v", payload)
	}
	if msg, _ := payload["message"].(string); !strings.Contains(msg, "Enhanced analysis completed") {
		t.Errorf("message = %q", msg)
	}
	if update.AnalysisEntry == nil || update.AnalysisEntry.AnalysisType != "enhanced" {
		t.Errorf("analysis entry = %+v", update.AnalysisEntry)
	}
	if update.PropertyAnalyzed == "" {
		t.Error("expected a properties_analyzed key")
	}
}

func TestEnhancedAnalysisFailsWhenAgentFails(t *testing.T) {
	svc := NewService(&fakeAnalyzer{err: errors.New("model offline")}, &fakeResearcher{conditions: healthyConditions()})

	payload, _ := svc.Handle(context.Background(), KindEnhancedAnalysis, Request{Prompt: "x"}, model.Record{})

	if payload["status"] != "failed" {
		t.Errorf("status = %v, want failed", payload["status"])
	}
	if msg, _ := payload["message"].(string); !strings.Contains(msg, "Enhanced analysis failed") {
		t.Errorf("message = %q", msg)
	}
}

func TestEnhancedInsightsScoring(t *testing.T) {
	insights := generateEnhancedInsights(healthyConditions(), research.Opportunities{})

	// hot +1, positive +1.5, 0.8*2 data quality: 5 + 1 + 1.5 + 1.6 = 9.1
	if math.Abs(insights.OpportunityScore-9.1) > 1e-9 {
		t.Errorf("opportunity score = %v, want 9.1", insights.OpportunityScore)
	}
	if insights.RiskAssessment["overall_risk"] != "low" {
		t.Errorf("risk = %v, want low", insights.RiskAssessment["overall_risk"])
	}
	if insights.ActionableRecommendations[0] != "Strong investment opportunity - consider moving quickly" {
		t.Errorf("recommendations[0] = %q", insights.ActionableRecommendations[0])
	}
}

func TestEnhancedInsightsLowData(t *testing.T) {
	insights := generateEnhancedInsights(research.MarketConditions{ConfidenceScore: 0.2}, research.Opportunities{})

	if insights.RiskAssessment["overall_risk"] != "high" {
		t.Errorf("risk = %v, want high", insights.RiskAssessment["overall_risk"])
	}
	joined := strings.Join(insights.ActionableRecommendations, "\n")
	if !strings.Contains(joined, "Limited market data available") {
		t.Errorf("missing limited-data recommendation:\n%s", joined)
	}
}

func TestResearchEntryTimestampRecent(t *testing.T) {
	svc := NewService(&fakeAnalyzer{}, &fakeResearcher{conditions: healthyConditions()})

	_, update := svc.Handle(context.Background(), KindAutomatedResearch, Request{Prompt: "x"}, model.Record{})

	if update.ResearchEntry == nil {
		t.Fatal("expected research entry")
	}
	if age := time.Since(update.ResearchEntry.Timestamp); age > time.Minute {
		t.Errorf("entry timestamp too old: %v", age)
	}
}
