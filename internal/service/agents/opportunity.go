package agents

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/propertypilot/backend/internal/analysis/finance"
)

// Listing condition is not part of the scraped payload; repairs are
// estimated assuming good condition on the 1-10 scale.
const assumedConditionScore = 7

// PropertyInfo summarizes the listing under evaluation.
type PropertyInfo struct {
	Address      string  `json:"address"`
	ZPID         string  `json:"zpid"`
	Price        float64 `json:"price"`
	Zestimate    float64 `json:"zestimate"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    float64 `json:"bathrooms"`
	LivingArea   int     `json:"living_area"`
	YearBuilt    int     `json:"year_built"`
	DaysOnMarket int     `json:"days_on_market"`
	Status       string  `json:"status,omitempty"`
}

// MarketComparison relates the asking price to external estimates.
type MarketComparison struct {
	PriceVsZestimate     float64 `json:"price_vs_zestimate"`
	PricePerSqft         float64 `json:"price_per_sqft"`
	PriceDiscountPercent float64 `json:"price_discount_percent"`
	Neighborhood         string  `json:"neighborhood,omitempty"`
	WalkScore            int     `json:"walk_score"`
}

// InvestmentMetrics carries the rental cash-flow projection.
type InvestmentMetrics struct {
	EstimatedMonthlyRent     float64 `json:"estimated_monthly_rent"`
	EstimatedMonthlyExpenses float64 `json:"estimated_monthly_expenses"`
	MonthlyCashFlow          float64 `json:"monthly_cash_flow"`
	AnnualCashFlow           float64 `json:"annual_cash_flow"`
	ROIPercentage            float64 `json:"roi_percentage"`
	RentalYield              float64 `json:"rental_yield"`
	MeetsTargetROI           bool    `json:"meets_target_roi"`
	EstimatedRepairCosts     float64 `json:"estimated_repair_costs,omitempty"`
	Note                     string  `json:"note,omitempty"`
}

// OpportunityAnalysis is the full evaluation of one listing.
type OpportunityAnalysis struct {
	PropertyInfo      PropertyInfo      `json:"property_info"`
	MarketAnalysis    MarketComparison  `json:"market_analysis"`
	InvestmentMetrics InvestmentMetrics `json:"investment_metrics"`
	Recommendation    string            `json:"recommendation"`
}

// AnalyzeOpportunity fetches the listing detail and scores it against the
// target ROI. Monthly expenses are estimated at 1% of the purchase price
// per year (tax, insurance, maintenance, vacancy).
func (t *Toolset) AnalyzeOpportunity(ctx context.Context, zillowURL string, targetROI float64) (OpportunityAnalysis, error) {
	if targetROI <= 0 {
		targetROI = 8.0
	}

	details, err := t.Listings.GetPropertyDetails(ctx, zillowURL)
	if err != nil {
		return OpportunityAnalysis{}, fmt.Errorf("failed to fetch property details: %w", err)
	}

	analysis := OpportunityAnalysis{
		PropertyInfo: PropertyInfo{
			Address:      details.Address,
			ZPID:         details.ZPID,
			Price:        details.Price,
			Zestimate:    details.Zestimate,
			Bedrooms:     details.Bedrooms,
			Bathrooms:    details.Bathrooms,
			LivingArea:   details.LivingArea,
			YearBuilt:    details.YearBuilt,
			DaysOnMarket: details.DaysOnMarket,
			Status:       details.Status,
		},
		MarketAnalysis: MarketComparison{
			Neighborhood: details.Neighborhood,
			WalkScore:    details.WalkScore,
		},
	}

	if details.Zestimate > 0 {
		analysis.MarketAnalysis.PriceVsZestimate = round2(details.Price / details.Zestimate * 100)
	}
	if details.LivingArea > 0 {
		analysis.MarketAnalysis.PricePerSqft = round2(details.Price / float64(details.LivingArea))
	}

	if details.RentZestimate > 0 {
		monthlyExpenses := details.Price * 0.01 / 12
		monthlyCashFlow := details.RentZestimate - monthlyExpenses

		roiMetrics, err := finance.CalculateROI(details.Price, details.RentZestimate, monthlyExpenses)
		if err != nil {
			// No usable price; keep the rent-only cash flow.
			roiMetrics = finance.ROIMetrics{
				CashFlowMonthly: round2(monthlyCashFlow),
				AnnualNetIncome: round2(monthlyCashFlow * 12),
			}
		}
		roi := roiMetrics.ROIPercentage

		analysis.InvestmentMetrics = InvestmentMetrics{
			EstimatedMonthlyRent:     details.RentZestimate,
			EstimatedMonthlyExpenses: round2(monthlyExpenses),
			MonthlyCashFlow:          roiMetrics.CashFlowMonthly,
			AnnualCashFlow:           roiMetrics.AnnualNetIncome,
			ROIPercentage:            roi,
			RentalYield:              roiMetrics.RentalYield,
			MeetsTargetROI:           roi >= targetROI,
		}

		switch {
		case roi >= targetROI && monthlyCashFlow > 0:
			analysis.Recommendation = fmt.Sprintf("STRONG BUY - Exceeds target ROI of %.1f%% with positive cash flow", targetROI)
		case roi >= targetROI*0.8:
			analysis.Recommendation = "CONSIDER - Close to target ROI, analyze market trends"
		default:
			analysis.Recommendation = fmt.Sprintf("PASS - Below target ROI of %.1f%%", targetROI)
		}
	} else {
		analysis.InvestmentMetrics.Note = "Rent estimate not available"
		analysis.Recommendation = "RESEARCH REQUIRED - No rental data available, conduct local market research"
	}

	if details.LivingArea > 0 && details.YearBuilt > 0 {
		analysis.InvestmentMetrics.EstimatedRepairCosts = finance.EstimateRepairCosts(
			details.LivingArea, details.YearBuilt, assumedConditionScore, time.Now())
	}

	if details.Zestimate > 0 {
		discount := (details.Zestimate - details.Price) / details.Zestimate * 100
		analysis.MarketAnalysis.PriceDiscountPercent = round2(discount)

		if discount > 10 {
			analysis.Recommendation += " - Property priced below market estimate"
		} else if discount < -5 {
			analysis.Recommendation += " - Property may be overpriced"
		}
	}

	return analysis, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
