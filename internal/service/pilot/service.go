package pilot

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/propertypilot/backend/internal/model/research"
	model "github.com/propertypilot/backend/internal/model/session"
	"github.com/propertypilot/backend/internal/service/agents"
	sessionsvc "github.com/propertypilot/backend/internal/service/session"
)

// MarketResearcher is the automated web research surface the handlers use.
type MarketResearcher interface {
	MarketConditions(ctx context.Context, location, propertyType string) (research.MarketConditions, error)
	PropertySpecifics(ctx context.Context, address string) (research.PropertyResearch, error)
	InvestmentOpportunities(ctx context.Context, criteria research.Criteria) (research.Opportunities, error)
}

// InvestmentAnalyzer runs the coordinated multi-agent analysis and the
// single-listing deal evaluation.
type InvestmentAnalyzer interface {
	AnalyzeInvestment(ctx context.Context, location string, maxPrice float64) (agents.InvestmentAnalysis, error)
	AnalyzeOpportunity(ctx context.Context, zillowURL string, targetROI float64) (agents.OpportunityAnalysis, error)
}

// Request carries the normalized invoke parameters.
type Request struct {
	Prompt        string
	Type          string
	Location      string
	MaxPrice      float64
	PropertyType  string
	SessionID     string
	UserID        string
	ResearchFocus string
	Address       string
	ZillowURL     string
	MinROI        float64
}

// Normalize applies the documented parameter defaults.
func (r *Request) Normalize() {
	if r.Location == "" {
		r.Location = "Austin, TX"
	}
	if r.MaxPrice <= 0 {
		r.MaxPrice = 500000
	}
	if r.PropertyType == "" {
		r.PropertyType = "residential"
	}
	if r.ResearchFocus == "" {
		r.ResearchFocus = "market_conditions"
	}
	if r.MinROI <= 0 {
		r.MinROI = 8.0
	}
}

// Service dispatches invoke requests to the five domain handlers. Handler
// failures become payloads carrying an error field and status "failed"; the
// call itself never errors after validation.
type Service struct {
	analyzer   InvestmentAnalyzer
	researcher MarketResearcher
}

func NewService(analyzer InvestmentAnalyzer, researcher MarketResearcher) *Service {
	return &Service{analyzer: analyzer, researcher: researcher}
}

// Handle runs the handler for kind and returns the response payload plus the
// session bookkeeping update the caller should apply.
func (s *Service) Handle(ctx context.Context, kind Kind, req Request, record model.Record) (map[string]any, sessionsvc.Update) {
	req.Normalize()

	switch kind {
	case KindAutomatedResearch:
		return s.handleAutomatedResearch(ctx, req, record)
	case KindMarketResearch:
		return s.handleMarketResearch(ctx, req)
	case KindPropertyAnalysis:
		return s.handlePropertyAnalysis(ctx, req, record)
	case KindInvestmentOpportunities:
		return s.handleInvestmentOpportunities(ctx, req)
	default:
		return s.handleEnhancedAnalysis(ctx, req, record)
	}
}

func (s *Service) handleAutomatedResearch(ctx context.Context, req Request, record model.Record) (map[string]any, sessionsvc.Update) {
	log.Printf("[pilot] automated research for %s, focus=%s", req.Location, req.ResearchFocus)

	var result any
	var confidence float64
	var err error

	switch req.ResearchFocus {
	case "property_specific":
		if req.ZillowURL != "" {
			var opportunity agents.OpportunityAnalysis
			opportunity, err = s.analyzer.AnalyzeOpportunity(ctx, req.ZillowURL, req.MinROI)
			result = opportunity
		} else {
			var propResult research.PropertyResearch
			propResult, err = s.researcher.PropertySpecifics(ctx, req.Address)
			result = propResult
		}
	case "investment_opportunities":
		var opps research.Opportunities
		opps, err = s.researcher.InvestmentOpportunities(ctx, research.Criteria{
			Location:     req.Location,
			MaxPrice:     req.MaxPrice,
			PropertyType: req.PropertyType,
			MinROI:       req.MinROI,
		})
		result = opps
	default:
		var conditions research.MarketConditions
		conditions, err = s.researcher.MarketConditions(ctx, req.Location, req.PropertyType)
		result = conditions
		confidence = conditions.ConfidenceScore
	}

	if err != nil {
		log.Printf("[pilot] automated research error: %v", err)
		return failure(KindAutomatedResearch, err), sessionsvc.Update{}
	}

	entry := model.ResearchEntry{
		Timestamp:    time.Now().UTC(),
		Location:     req.Location,
		ResearchType: req.ResearchFocus,
		Confidence:   confidence,
	}

	payload := map[string]any{
		"type":           string(KindAutomatedResearch),
		"research_focus": req.ResearchFocus,
		"location":       req.Location,
		"result":         result,
		"session_context": map[string]any{
			"total_research_sessions": len(record.ResearchHistory) + 1,
			"research_locations":      researchLocations(record.ResearchHistory, entry),
		},
	}
	return payload, sessionsvc.Update{ResearchEntry: &entry}
}

func (s *Service) handleMarketResearch(ctx context.Context, req Request) (map[string]any, sessionsvc.Update) {
	log.Printf("[pilot] market research for %s", req.Location)

	marketData, err := s.researcher.MarketConditions(ctx, req.Location, req.PropertyType)
	if err != nil {
		log.Printf("[pilot] market research error: %v", err)
		return failure(KindMarketResearch, err), sessionsvc.Update{}
	}

	payload := map[string]any{
		"type":                string(KindMarketResearch),
		"location":            req.Location,
		"property_type":       req.PropertyType,
		"market_data":         marketData,
		"actionable_insights": extractActionableInsights(marketData),
		"timestamp":           time.Now().UTC().Format(time.RFC3339),
	}
	return payload, sessionsvc.Update{}
}

func (s *Service) handlePropertyAnalysis(ctx context.Context, req Request, record model.Record) (map[string]any, sessionsvc.Update) {
	log.Printf("[pilot] property analysis: %s, max_price=$%.0f", req.Location, req.MaxPrice)

	analysis, err := s.analyzer.AnalyzeInvestment(ctx, req.Location, req.MaxPrice)
	if err != nil {
		log.Printf("[pilot] property analysis error: %v", err)
		return failure(KindPropertyAnalysis, err), sessionsvc.Update{}
	}

	entry := model.AnalysisEntry{
		Timestamp:    time.Now().UTC(),
		Location:     req.Location,
		MaxPrice:     req.MaxPrice,
		AnalysisType: "standard",
		Summary:      truncateSummary(analysis.AnalysisResult, 200),
	}

	payload := map[string]any{
		"type":     string(KindPropertyAnalysis),
		"analysis": analysis,
		"session_context": map[string]any{
			"total_analyses":      len(record.AnalysisHistory) + 1,
			"preferred_locations": analysisLocations(record.AnalysisHistory, entry),
		},
	}
	return payload, sessionsvc.Update{AnalysisEntry: &entry}
}

func (s *Service) handleInvestmentOpportunities(ctx context.Context, req Request) (map[string]any, sessionsvc.Update) {
	log.Printf("[pilot] researching investment opportunities for %s", req.Location)

	criteria := research.Criteria{
		Location:     req.Location,
		MaxPrice:     req.MaxPrice,
		PropertyType: req.PropertyType,
		MinROI:       req.MinROI,
	}

	opportunities, err := s.researcher.InvestmentOpportunities(ctx, criteria)
	if err != nil {
		log.Printf("[pilot] opportunity research error: %v", err)
		return failure(KindInvestmentOpportunities, err), sessionsvc.Update{}
	}

	payload := map[string]any{
		"type":            string(KindInvestmentOpportunities),
		"criteria":        criteria,
		"location":        req.Location,
		"opportunities":   opportunities,
		"recommendations": generateOpportunityRecommendations(opportunities),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	}
	return payload, sessionsvc.Update{}
}

func (s *Service) handleEnhancedAnalysis(ctx context.Context, req Request, record model.Record) (map[string]any, sessionsvc.Update) {
	log.Printf("[pilot] enhanced analysis for %s", req.Location)

	analysis, err := s.analyzer.AnalyzeInvestment(ctx, req.Location, req.MaxPrice)
	if err != nil {
		log.Printf("[pilot] enhanced analysis error: %v", err)
		payload := failure(KindEnhancedAnalysis, err)
		payload["message"] = fmt.Sprintf("Enhanced analysis failed: %v", err)
		return payload, sessionsvc.Update{}
	}

	// Partial research results still enrich the analysis; only the agent
	// failure above aborts the handler.
	marketResearch, mErr := s.researcher.MarketConditions(ctx, req.Location, req.PropertyType)
	if mErr != nil {
		log.Printf("[pilot] enhanced analysis market research degraded: %v", mErr)
	}

	opportunityResearch, oErr := s.researcher.InvestmentOpportunities(ctx, research.Criteria{
		Location:     req.Location,
		MaxPrice:     req.MaxPrice,
		PropertyType: req.PropertyType,
		MinROI:       req.MinROI,
	})
	if oErr != nil {
		log.Printf("[pilot] enhanced analysis opportunity research degraded: %v", oErr)
	}

	insights := generateEnhancedInsights(marketResearch, opportunityResearch)

	entry := model.AnalysisEntry{
		Timestamp:    time.Now().UTC(),
		Location:     req.Location,
		MaxPrice:     req.MaxPrice,
		AnalysisType: "enhanced",
		Summary:      truncateSummary(analysis.AnalysisResult, 200),
		Confidence:   marketResearch.ConfidenceScore,
	}

	payload := map[string]any{
		"message":   fmt.Sprintf("Enhanced analysis completed for %s", req.Location),
		"type":      string(KindEnhancedAnalysis),
		"location":  req.Location,
		"max_price": req.MaxPrice,
		"enhanced_analysis": map[string]any{
			"original_analysis": analysis,
			"web_research": map[string]any{
				"market_conditions":        marketResearch,
				"investment_opportunities": opportunityResearch,
			},
			"enhanced_insights":  insights,
			"research_timestamp": time.Now().UTC().Format(time.RFC3339),
		},
		"session_context": map[string]any{
			"total_analyses":    len(record.AnalysisHistory) + 1,
			"enhanced_analyses": countEnhanced(record.AnalysisHistory) + 1,
			"unique_locations":  len(uniqueProperties(record.PropertiesAnalyzed, propertyKey(req))),
		},
	}
	return payload, sessionsvc.Update{AnalysisEntry: &entry, PropertyAnalyzed: propertyKey(req)}
}

func propertyKey(req Request) string {
	return fmt.Sprintf("%s_%.0f", req.Location, req.MaxPrice)
}

func failure(kind Kind, err error) map[string]any {
	return map[string]any{
		"type":   string(kind),
		"error":  err.Error(),
		"status": "failed",
	}
}

func truncateSummary(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

func researchLocations(history []model.ResearchEntry, next model.ResearchEntry) []string {
	seen := make(map[string]struct{}, len(history)+1)
	locations := make([]string, 0, len(history)+1)
	for _, entry := range history {
		if _, ok := seen[entry.Location]; ok {
			continue
		}
		seen[entry.Location] = struct{}{}
		locations = append(locations, entry.Location)
	}
	if _, ok := seen[next.Location]; !ok {
		locations = append(locations, next.Location)
	}
	return locations
}

func analysisLocations(history []model.AnalysisEntry, next model.AnalysisEntry) []string {
	seen := make(map[string]struct{}, len(history)+1)
	locations := make([]string, 0, len(history)+1)
	for _, entry := range history {
		if _, ok := seen[entry.Location]; ok {
			continue
		}
		seen[entry.Location] = struct{}{}
		locations = append(locations, entry.Location)
	}
	if _, ok := seen[next.Location]; !ok {
		locations = append(locations, next.Location)
	}
	return locations
}

func countEnhanced(history []model.AnalysisEntry) int {
	count := 0
	for _, entry := range history {
		if entry.AnalysisType == "enhanced" {
			count++
		}
	}
	return count
}

func uniqueProperties(analyzed []string, next string) []string {
	seen := make(map[string]struct{}, len(analyzed)+1)
	unique := make([]string, 0, len(analyzed)+1)
	for _, key := range analyzed {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, key)
	}
	if _, ok := seen[next]; !ok {
		unique = append(unique, next)
	}
	return unique
}
