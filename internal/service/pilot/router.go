package pilot

import "strings"

// Kind identifies one of the request handlers.
type Kind string

const (
	KindPropertyAnalysis        Kind = "property_analysis"
	KindMarketResearch          Kind = "market_research"
	KindEnhancedAnalysis        Kind = "enhanced_analysis"
	KindInvestmentOpportunities Kind = "investment_opportunities"
	KindAutomatedResearch       Kind = "automated_research"
	KindGeneral                 Kind = "general"
)

var knownKinds = map[Kind]bool{
	KindPropertyAnalysis:        true,
	KindMarketResearch:          true,
	KindEnhancedAnalysis:        true,
	KindInvestmentOpportunities: true,
	KindAutomatedResearch:       true,
}

// keywordRules is the free-text fallback, checked in order. The first rule
// with a matching keyword wins, so order is part of the contract.
var keywordRules = []struct {
	kind     Kind
	keywords []string
}{
	{KindMarketResearch, []string{"market research", "market conditions", "market analysis"}},
	{KindInvestmentOpportunities, []string{"opportunities", "investment opportunities", "find investments"}},
	{KindEnhancedAnalysis, []string{"enhanced analysis", "comprehensive analysis", "detailed analysis"}},
	{KindAutomatedResearch, []string{"research", "web research", "automated research"}},
	{KindPropertyAnalysis, []string{"property", "real estate", "investment", "roi"}},
}

// Route picks the handler for a request. An explicit known type always wins;
// otherwise the prompt is matched against the keyword rules, defaulting to
// enhanced analysis. Deterministic for identical inputs.
func Route(requestType, prompt string) Kind {
	if kind := Kind(requestType); knownKinds[kind] {
		return kind
	}

	lowered := strings.ToLower(prompt)
	for _, rule := range keywordRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return rule.kind
			}
		}
	}
	return KindEnhancedAnalysis
}
