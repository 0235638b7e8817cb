package agents

import (
	"fmt"
	"time"
)

// ReportData feeds the deterministic investment report template.
type ReportData struct {
	ROIPercentage     float64
	CashFlowMonthly   float64
	RiskScore         float64
	RentalYield       float64
	NeighborhoodScore float64
	MarketConditions  string
	PriceTrend        string
	Recommendation    string
}

// InvestmentReport renders the fixed-format report used when no language
// model is configured and as the base document for the manager agent.
func InvestmentReport(propertyID string, data ReportData, now time.Time) string {
	conditions := data.MarketConditions
	if conditions == "" {
		conditions = "neutral"
	}
	trend := data.PriceTrend
	if trend == "" {
		trend = "stable"
	}
	recommendation := data.Recommendation
	if recommendation == "" {
		recommendation = "Further analysis required"
	}

	return fmt.Sprintf(`PROPERTY INVESTMENT ANALYSIS REPORT
===================================

Property ID: %s
Generated: %s

FINANCIAL METRICS:
- ROI: %.1f%%
- Monthly Cash Flow: $%.2f
- Risk Score: %.1f/10
- Rental Yield: %.1f%%

MARKET ANALYSIS:
- Neighborhood Score: %.1f/10
- Market Conditions: %s
- Price Trend: %s

RECOMMENDATION: %s
`,
		propertyID,
		now.Format("2006-01-02 15:04:05"),
		data.ROIPercentage,
		data.CashFlowMonthly,
		data.RiskScore,
		data.RentalYield,
		data.NeighborhoodScore,
		conditions,
		trend,
		recommendation,
	)
}
