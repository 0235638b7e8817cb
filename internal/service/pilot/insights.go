package pilot

import (
	"fmt"

	"github.com/propertypilot/backend/internal/model/research"
)

// extractActionableInsights turns market research output into short guidance
// statements for the response payload.
func extractActionableInsights(marketData research.MarketConditions) []string {
	insights := []string{}

	switch marketData.Summary.MarketOverview.Temperature {
	case "hot":
		insights = append(insights, "Market is competitive - prepare strong offers and act quickly")
	case "cold":
		insights = append(insights, "Buyer's market conditions - negotiate aggressively and take time for analysis")
	case "balanced":
		insights = append(insights, "Balanced market - standard negotiation strategies apply")
	}

	if price := marketData.Summary.PriceAnalysis; price != nil && price.MedianPriceEstimate > 0 {
		insights = append(insights, fmt.Sprintf("Estimated median price: $%.0f", price.MedianPriceEstimate))
	}

	if marketData.ConfidenceScore > 0.7 {
		insights = append(insights, "High confidence in market data - reliable for decision making")
	} else if marketData.ConfidenceScore < 0.4 {
		insights = append(insights, "Limited market data available - conduct additional research before investing")
	}

	switch marketData.Summary.InvestmentIndicators.OverallSentiment {
	case "positive":
		insights = append(insights, "Positive market sentiment - favorable conditions for investment")
	case "negative":
		insights = append(insights, "Negative market sentiment - exercise caution and consider timing")
	}

	return insights
}

// generateOpportunityRecommendations summarizes an opportunity research run
// as next-step guidance.
func generateOpportunityRecommendations(opportunities research.Opportunities) []string {
	recommendations := []string{}

	if count := len(opportunities.Findings); count > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Found %d potential opportunity sources", count),
			"Review each opportunity source for specific investment leads",
			"Cross-reference findings with local market analysis",
		)
	} else {
		recommendations = append(recommendations, "No specific opportunities identified - consider broadening search criteria")
	}

	recommendations = append(recommendations,
		"Monitor market conditions regularly for optimal timing",
		"Consider seasonal trends in real estate activity",
	)
	return recommendations
}

// EnhancedInsights combines market and opportunity research into a risk and
// opportunity view of the location.
type EnhancedInsights struct {
	MarketValidation          map[string]any `json:"market_validation"`
	RiskAssessment            map[string]any `json:"risk_assessment"`
	OpportunityScore          float64        `json:"opportunity_score"`
	ActionableRecommendations []string       `json:"actionable_recommendations"`
}

func generateEnhancedInsights(marketResearch research.MarketConditions, _ research.Opportunities) EnhancedInsights {
	temperature := marketResearch.Summary.MarketOverview.Temperature
	sentiment := marketResearch.Summary.InvestmentIndicators.OverallSentiment
	if sentiment == "" {
		sentiment = "neutral"
	}
	dataQuality := marketResearch.ConfidenceScore

	riskLevel := "medium"
	if sentiment == "positive" && dataQuality > 0.7 {
		riskLevel = "low"
	} else if sentiment == "negative" || dataQuality < 0.4 {
		riskLevel = "high"
	}

	score := 5.0
	switch temperature {
	case "hot":
		score += 1.0
	case "cold":
		score -= 1.0
	}
	switch sentiment {
	case "positive":
		score += 1.5
	case "negative":
		score -= 1.5
	}
	score += dataQuality * 2.0
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}

	recommendations := []string{}
	switch {
	case score >= 7.0:
		recommendations = append(recommendations, "Strong investment opportunity - consider moving quickly")
	case score >= 5.0:
		recommendations = append(recommendations, "Moderate opportunity - conduct additional due diligence")
	default:
		recommendations = append(recommendations, "Weak opportunity - consider alternative locations or timing")
	}
	switch temperature {
	case "hot":
		recommendations = append(recommendations, "Competitive market - prepare strong offers and move quickly")
	case "cold":
		recommendations = append(recommendations, "Buyer's market - negotiate aggressively and take time for analysis")
	}
	if dataQuality < 0.5 {
		recommendations = append(recommendations, "Limited market data available - conduct additional research")
	}

	return EnhancedInsights{
		MarketValidation: map[string]any{
			"market_temperature":       temperature,
			"price_trend_confirmation": marketResearch.Summary.PriceAnalysis,
			"research_confidence":      dataQuality,
		},
		RiskAssessment: map[string]any{
			"overall_risk":     riskLevel,
			"market_sentiment": sentiment,
			"data_reliability": dataQuality,
		},
		OpportunityScore:          score,
		ActionableRecommendations: recommendations,
	}
}
