package publicdata

import "time"

// EconomicData carries the macro indicators feeding market sentiment.
type EconomicData struct {
	UnemploymentRate float64 `json:"unemployment_rate"`
	FederalFundsRate float64 `json:"federal_funds_rate"`
	DataSource       string  `json:"data_source"`
}

// MarketIndicators summarize sentiment derived from the economic data.
type MarketIndicators struct {
	OverallSentiment  string   `json:"overall_sentiment"`
	SentimentFactors  []string `json:"sentiment_factors"`
	MarketTemperature string   `json:"market_temperature"`
	InvestmentOutlook string   `json:"investment_outlook"`
}

// RealEstateTrends are coarse real-estate activity indicators.
type RealEstateTrends struct {
	PriceTrend        string `json:"price_trend"`
	InventoryLevel    string `json:"inventory_level"`
	DaysOnMarketTrend string `json:"days_on_market_trend"`
	BuyerDemand       string `json:"buyer_demand"`
}

// MarketTrends is the combined trend report for a location.
type MarketTrends struct {
	Location         string           `json:"location"`
	EconomicData     EconomicData     `json:"economic_data"`
	MarketIndicators MarketIndicators `json:"market_indicators"`
	RealEstateTrends RealEstateTrends `json:"real_estate_trends"`
	Timestamp        time.Time        `json:"timestamp"`
}

// TrendsProvider resolves market trends for a "City, ST" location.
type TrendsProvider interface {
	MarketTrends(location string) (MarketTrends, error)
}

// StaticTrends derives sentiment from general economic estimates.
type StaticTrends struct{}

func (StaticTrends) MarketTrends(location string) (MarketTrends, error) {
	if _, _, err := SplitLocation(location); err != nil {
		return MarketTrends{}, err
	}

	economic := EconomicData{
		UnemploymentRate: 3.8,
		FederalFundsRate: 5.25,
		DataSource:       "public_estimates",
	}

	factors := []string{
		rateSentiment(economic.UnemploymentRate, 4.0, 6.0),
		rateSentiment(economic.FederalFundsRate, 3.0, 6.0),
	}

	sentiment := voteSentiment(factors)
	outlook := sentiment
	if sentiment == "neutral" {
		outlook = "moderate"
	}

	return MarketTrends{
		Location:     location,
		EconomicData: economic,
		MarketIndicators: MarketIndicators{
			OverallSentiment:  sentiment,
			SentimentFactors:  factors,
			MarketTemperature: "balanced",
			InvestmentOutlook: outlook,
		},
		RealEstateTrends: RealEstateTrends{
			PriceTrend:        "stable",
			InventoryLevel:    "moderate",
			DaysOnMarketTrend: "stable",
			BuyerDemand:       "moderate",
		},
		Timestamp: time.Now().UTC(),
	}, nil
}

// rateSentiment maps a rate onto positive/neutral/negative bands. Low rates
// are favorable for both unemployment and borrowing costs.
func rateSentiment(rate, lowBand, highBand float64) string {
	switch {
	case rate < lowBand:
		return "positive"
	case rate > highBand:
		return "negative"
	default:
		return "neutral"
	}
}

func voteSentiment(factors []string) string {
	positive, negative := 0, 0
	for _, f := range factors {
		switch f {
		case "positive":
			positive++
		case "negative":
			negative++
		}
	}
	switch {
	case positive > negative:
		return "positive"
	case negative > positive:
		return "negative"
	default:
		return "neutral"
	}
}
