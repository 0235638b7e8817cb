package pilot

import "testing"

func TestRouteExplicitTypeWins(t *testing.T) {
	// The prompt mentions market research but the type field takes precedence.
	kind := Route("property_analysis", "please do market research on this")
	if kind != KindPropertyAnalysis {
		t.Errorf("Route = %v, want property_analysis", kind)
	}
}

func TestRouteKeywordFallback(t *testing.T) {
	cases := []struct {
		prompt string
		want   Kind
	}{
		{"what are the market conditions in Dallas?", KindMarketResearch},
		{"find investment opportunities for me", KindInvestmentOpportunities},
		{"run a comprehensive analysis of Austin", KindEnhancedAnalysis},
		{"do some web research on Seattle", KindAutomatedResearch},
		{"is this property a good buy?", KindPropertyAnalysis},
		{"tell me about roi expectations", KindPropertyAnalysis},
		{"hello there", KindEnhancedAnalysis},
	}
	for _, tc := range cases {
		if got := Route("", tc.prompt); got != tc.want {
			t.Errorf("Route(%q) = %v, want %v", tc.prompt, got, tc.want)
		}
	}
}

func TestRouteKeywordPriority(t *testing.T) {
	// "market research" outranks the later "investment" rule even though
	// both keywords appear.
	kind := Route("", "market research into investment properties")
	if kind != KindMarketResearch {
		t.Errorf("Route = %v, want market_research", kind)
	}
	// "opportunities" outranks "research".
	kind = Route("", "research opportunities in Miami")
	if kind != KindInvestmentOpportunities {
		t.Errorf("Route = %v, want investment_opportunities", kind)
	}
}

func TestRouteDeterministic(t *testing.T) {
	prompts := []string{
		"find me a rental property",
		"automated research please",
		"anything at all",
	}
	for _, prompt := range prompts {
		first := Route("", prompt)
		for i := 0; i < 10; i++ {
			if got := Route("", prompt); got != first {
				t.Fatalf("Route(%q) unstable: %v then %v", prompt, first, got)
			}
		}
	}
}

func TestRouteUnknownTypeFallsBack(t *testing.T) {
	if kind := Route("general", "show me roi numbers"); kind != KindPropertyAnalysis {
		t.Errorf("Route = %v, want keyword fallback to property_analysis", kind)
	}
	if kind := Route("bogus_type", "market conditions"); kind != KindMarketResearch {
		t.Errorf("Route = %v, want market_research", kind)
	}
}
