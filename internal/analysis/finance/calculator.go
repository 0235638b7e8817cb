package finance

import (
	"errors"
	"math"
	"time"
)

var ErrInvalidPurchasePrice = errors.New("purchase price must be positive")

// ROIMetrics holds the return metrics for a rental purchase.
type ROIMetrics struct {
	ROIPercentage   float64 `json:"roi_percentage"`
	CashFlowMonthly float64 `json:"cash_flow_monthly"`
	RentalYield     float64 `json:"rental_yield"`
	AnnualNetIncome float64 `json:"annual_net_income"`
}

// CalculateROI computes return-on-investment metrics from purchase price,
// expected monthly rent and monthly expenses.
func CalculateROI(purchasePrice, monthlyRent, monthlyExpenses float64) (ROIMetrics, error) {
	if purchasePrice <= 0 {
		return ROIMetrics{}, ErrInvalidPurchasePrice
	}

	annualRent := monthlyRent * 12
	annualExpenses := monthlyExpenses * 12
	netAnnualIncome := annualRent - annualExpenses

	return ROIMetrics{
		ROIPercentage:   round2(netAnnualIncome / purchasePrice * 100),
		CashFlowMonthly: round2(monthlyRent - monthlyExpenses),
		RentalYield:     round2(annualRent / purchasePrice * 100),
		AnnualNetIncome: round2(netAnnualIncome),
	}, nil
}

// EstimateRepairCosts estimates total repair cost from square footage, build
// year and a 1-10 condition score. Cost per square foot grows as condition
// drops, with an age surcharge capped at 10 per square foot.
func EstimateRepairCosts(squareFeet, yearBuilt, conditionScore int, asOf time.Time) float64 {
	repairPerSqft := math.Max(0, float64(10-conditionScore)*5)
	ageFactor := math.Min(float64(asOf.Year()-yearBuilt)*0.5, 10)
	return round2((repairPerSqft + ageFactor) * float64(squareFeet))
}

// AssessInvestmentRisk scores investment risk from 1 (low) to 10 (high) given
// the market condition label and a 0-10 neighborhood score.
func AssessInvestmentRisk(marketConditions string, neighborhoodScore float64) float64 {
	risk := 5.0

	switch marketConditions {
	case "buyer_market":
		risk -= 1.0
	case "seller_market":
		risk += 1.0
	}

	risk -= (neighborhoodScore - 5.0) * 0.3

	return math.Max(1.0, math.Min(10.0, round1(risk)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
