package research

import "time"

// Target defines a web research source and how to reach it for a location.
type Target struct {
	Name           string
	BaseURL        string
	SearchPatterns []string
	Priority       int
}

// InsightType classifies an extracted market observation.
type InsightType string

const (
	PriceTrend        InsightType = "price_trend"
	Inventory         InsightType = "inventory"
	MarketTemperature InsightType = "market_temperature"
	DaysOnMarket      InsightType = "days_on_market"
	GeneralMarketInfo InsightType = "general_market_info"
)

// Insight is a single market observation extracted from a research target.
type Insight struct {
	Source     string      `json:"source"`
	Location   string      `json:"location"`
	Type       InsightType `json:"insight_type"`
	Value      string      `json:"value"`
	RawExcerpt string      `json:"raw_excerpt,omitempty"`
	Confidence float64     `json:"confidence"`
	Timestamp  time.Time   `json:"timestamp"`
	URL        string      `json:"url"`
}

// PriceAnalysis aggregates numeric price observations.
type PriceAnalysis struct {
	MedianPriceEstimate float64 `json:"median_price_estimate"`
	MinPrice            float64 `json:"min_price"`
	MaxPrice            float64 `json:"max_price"`
	DataPoints          int     `json:"data_points"`
}

// MarketOverview summarizes the market temperature vote across sources.
type MarketOverview struct {
	Temperature string  `json:"temperature"`
	Confidence  float64 `json:"confidence"`
}

// InvestmentIndicators describes the breadth and sentiment of collected data.
type InvestmentIndicators struct {
	DataAvailability  int    `json:"data_availability"`
	SourceDiversity   int    `json:"source_diversity"`
	ResearchFreshness string `json:"research_freshness,omitempty"`
	OverallSentiment  string `json:"overall_sentiment"`
}

// Summary is the synthesized view over all insights for one research run.
type Summary struct {
	MarketOverview       MarketOverview       `json:"market_overview"`
	PriceAnalysis        *PriceAnalysis       `json:"price_analysis,omitempty"`
	InvestmentIndicators InvestmentIndicators `json:"investment_indicators"`
}

// MarketConditions is the full result of a market-conditions research run.
type MarketConditions struct {
	Location          string    `json:"location"`
	PropertyType      string    `json:"property_type"`
	ResearchTimestamp time.Time `json:"research_timestamp"`
	Insights          []Insight `json:"insights"`
	Summary           Summary   `json:"summary"`
	ConfidenceScore   float64   `json:"confidence_score"`
}

// SourceFinding is one source's contribution to property or opportunity research.
type SourceFinding struct {
	Source      string    `json:"source"`
	Description string    `json:"description,omitempty"`
	Findings    string    `json:"findings"`
	Timestamp   time.Time `json:"timestamp"`
}

// PropertyResearch holds per-property research across sources.
type PropertyResearch struct {
	Address           string          `json:"address"`
	ResearchTimestamp time.Time       `json:"research_timestamp"`
	Insights          []SourceFinding `json:"property_insights"`
}

// Criteria narrows an investment-opportunity research run.
type Criteria struct {
	Location     string  `json:"location"`
	MaxPrice     float64 `json:"max_price"`
	PropertyType string  `json:"property_type"`
	MinROI       float64 `json:"min_roi"`
	Strategy     string  `json:"strategy,omitempty"`
}

// Opportunities holds the result of an opportunity research run.
type Opportunities struct {
	Criteria          Criteria        `json:"criteria"`
	ResearchTimestamp time.Time       `json:"research_timestamp"`
	Findings          []SourceFinding `json:"opportunities"`
}
