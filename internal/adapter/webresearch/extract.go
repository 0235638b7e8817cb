package webresearch

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/propertypilot/backend/internal/analysis/sentiment"
	"github.com/propertypilot/backend/internal/model/research"
)

// Per-type extraction patterns; the first matching pattern wins for a type.
var insightPatterns = map[research.InsightType][]*regexp.Regexp{
	research.PriceTrend: {
		regexp.MustCompile(`(?i)prices?\s+(?:increased|decreased|up|down|rose|fell)\s+by\s+([0-9.]+%?)`),
		regexp.MustCompile(`(?i)median\s+(?:home\s+)?prices?\s+(?:is|are)\s+\$?([0-9,]+)`),
		regexp.MustCompile(`(?i)(?:home\s+)?values?\s+(?:increased|decreased)\s+([0-9.]+%?)`),
	},
	research.Inventory: {
		regexp.MustCompile(`(?i)([0-9,]+)\s+(?:homes?|properties|listings?)\s+(?:available|for sale)`),
		regexp.MustCompile(`(?i)inventory\s+(?:is\s+)?(?:up|down)\s+([0-9.]+%?)`),
		regexp.MustCompile(`(?i)([0-9,]+)\s+(?:active\s+)?listings?`),
	},
	research.MarketTemperature: {
		regexp.MustCompile(`(?i)(?:market\s+is\s+)?(hot|cold|warm|competitive|balanced)`),
		regexp.MustCompile(`(?i)(buyers?'?|sellers?'?)\s+market`),
		regexp.MustCompile(`(?i)competition\s+(?:score|level):\s*([0-9.]+)`),
	},
	research.DaysOnMarket: {
		regexp.MustCompile(`(?i)(?:average\s+)?days?\s+on\s+market[:\s]+([0-9]+)`),
		regexp.MustCompile(`(?i)DOM[:\s]+([0-9]+)`),
		regexp.MustCompile(`(?i)properties\s+sell\s+in\s+([0-9]+)\s+days?`),
	},
}

// Extraction order is fixed so insight ordering is stable across runs.
var insightOrder = []research.InsightType{
	research.PriceTrend,
	research.Inventory,
	research.MarketTemperature,
	research.DaysOnMarket,
}

const (
	rawExcerptLimit     = 500
	generalSummaryLimit = 1000
)

// extractInsights parses page text into typed insights. If nothing structured
// matches, a single low-confidence general insight carries the raw excerpt.
func extractInsights(pageText string, target research.Target, location, pageURL string, now time.Time) []research.Insight {
	var insights []research.Insight

	for _, insightType := range insightOrder {
		for _, pattern := range insightPatterns[insightType] {
			matches := pattern.FindAllStringSubmatch(pageText, -1)
			if len(matches) == 0 {
				continue
			}
			for _, match := range matches {
				insights = append(insights, research.Insight{
					Source:     target.Name,
					Location:   location,
					Type:       insightType,
					Value:      match[1],
					RawExcerpt: truncate(pageText, rawExcerptLimit),
					Confidence: 0.7,
					Timestamp:  now,
					URL:        pageURL,
				})
			}
			break // first matching pattern wins for this type
		}
	}

	if len(insights) == 0 && strings.TrimSpace(pageText) != "" {
		insights = append(insights, research.Insight{
			Source:     target.Name,
			Location:   location,
			Type:       research.GeneralMarketInfo,
			Value:      truncate(pageText, generalSummaryLimit),
			Confidence: 0.5,
			Timestamp:  now,
			URL:        pageURL,
		})
	}

	return insights
}

var numberPattern = regexp.MustCompile(`[0-9,]+`)

// synthesize folds all insights into the summary block.
func synthesize(insights []research.Insight) research.Summary {
	summary := research.Summary{
		MarketOverview: research.MarketOverview{Temperature: "unknown"},
	}
	if len(insights) == 0 {
		return summary
	}

	// Price analysis from numeric price-trend values.
	var prices []float64
	for _, insight := range insights {
		if insight.Type != research.PriceTrend {
			continue
		}
		if num := numberPattern.FindString(insight.Value); num != "" {
			if v, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", ""), 64); err == nil {
				prices = append(prices, v)
			}
		}
	}
	if len(prices) > 0 {
		analysis := research.PriceAnalysis{
			MinPrice:   prices[0],
			MaxPrice:   prices[0],
			DataPoints: len(prices),
		}
		sum := 0.0
		for _, p := range prices {
			sum += p
			if p < analysis.MinPrice {
				analysis.MinPrice = p
			}
			if p > analysis.MaxPrice {
				analysis.MaxPrice = p
			}
		}
		analysis.MedianPriceEstimate = sum / float64(len(prices))
		summary.PriceAnalysis = &analysis
	}

	// Market temperature by voting across sources.
	hot, cold, tempTotal := 0, 0, 0
	for _, insight := range insights {
		if insight.Type != research.MarketTemperature {
			continue
		}
		tempTotal++
		value := strings.ToLower(insight.Value)
		switch {
		case containsAny(value, "hot", "competitive", "seller"):
			hot++
		case containsAny(value, "cold", "buyer", "slow"):
			cold++
		}
	}
	if tempTotal > 0 {
		switch {
		case hot > cold:
			summary.MarketOverview.Temperature = "hot"
		case cold > hot:
			summary.MarketOverview.Temperature = "cold"
		default:
			summary.MarketOverview.Temperature = "balanced"
		}
		summary.MarketOverview.Confidence = float64(hot+cold) / float64(tempTotal)
	}

	sources := make(map[string]struct{})
	freshest := insights[0].Timestamp
	for _, insight := range insights {
		sources[insight.Source] = struct{}{}
		if insight.Timestamp.After(freshest) {
			freshest = insight.Timestamp
		}
	}

	summary.InvestmentIndicators = research.InvestmentIndicators{
		DataAvailability:  len(insights),
		SourceDiversity:   len(sources),
		ResearchFreshness: freshest.Format(time.RFC3339),
		OverallSentiment:  analyzeSentiment(insights),
	}

	return summary
}

// analyzeSentiment reads direction across insight values and excerpts.
func analyzeSentiment(insights []research.Insight) string {
	texts := make([]string, 0, len(insights))
	for _, insight := range insights {
		texts = append(texts, insight.Value+" "+insight.RawExcerpt)
	}
	return string(sentiment.Assess(texts...).Sentiment)
}

// confidenceScore grows with source count and insight volume, capped below
// certainty; two or more high-priority sources earn a bonus.
func confidenceScore(perSource map[string][]research.Insight, targets []research.Target) float64 {
	if len(perSource) == 0 {
		return 0.0
	}

	total := 0
	for _, insights := range perSource {
		total += len(insights)
	}

	confidence := float64(len(perSource))*0.2 + float64(total)*0.05
	if confidence > 0.9 {
		confidence = 0.9
	}

	highPriority := 0
	for name := range perSource {
		for _, target := range targets {
			if target.Name == name && target.Priority == 1 {
				highPriority++
				break
			}
		}
	}
	if highPriority >= 2 {
		confidence += 0.1
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
