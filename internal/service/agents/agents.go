package agents

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/propertypilot/backend/internal/analysis/finance"
	"github.com/propertypilot/backend/internal/config"
	"github.com/propertypilot/backend/internal/model/property"
	"github.com/propertypilot/backend/internal/storage"
)

const propertyScoutPrompt = `You are a Property Scout Agent specialized in finding and collecting real estate investment opportunities using real Zillow data.

Your responsibilities:
1. Search for properties using the Zillow listing integration
2. Get detailed property information from Zillow URLs
3. Filter properties based on investment criteria (price, location, type)
4. Collect comprehensive property data including market estimates
5. Store property data for further analysis

Always prioritize properties with strong investment potential based on location and neighborhood quality, price relative to market estimates, rental potential, property condition and age, and days on market.

Provide detailed property information including financial estimates for further analysis by other agents.`

const marketAnalyzerPrompt = `You are a Market Analyzer Agent specialized in real estate market research and property valuation using real data sources.

Your responsibilities:
1. Analyze demographic and economic data from public sources
2. Evaluate neighborhood desirability using multiple data sources
3. Assess school districts using public data estimates
4. Analyze market trends using economic indicators
5. Calculate comprehensive neighborhood scores based on real metrics

Always provide data-driven analysis with specific metrics and sources. Focus on accurate market valuations and identifying emerging market opportunities. Your analysis directly impacts investment decisions and must be based on real, current data.`

const dealEvaluatorPrompt = `You are a Deal Evaluator Agent specialized in financial analysis and investment evaluation.

Your responsibilities:
1. Calculate ROI, cash flow, and rental yield metrics
2. Estimate repair and renovation costs
3. Assess investment risks and market factors
4. Generate investment recommendations with detailed financial projections

Be conservative in your estimates and always consider worst-case scenarios. Your analysis determines whether deals are profitable investments.`

const investmentManagerPrompt = `You are an Investment Manager Agent responsible for coordinating all other agents and managing the investment pipeline.

Your responsibilities:
1. Orchestrate workflows between Property Scout, Market Analyzer, and Deal Evaluator
2. Conduct comprehensive investment analysis using real market data
3. Generate detailed investment reports
4. Make data-driven investment recommendations

When analyzing properties, always compare listing prices to market estimates, evaluate rental potential, consider days on market and neighborhood scores, and provide clear buy/hold/pass recommendations with reasoning.

You have the highest level view of all investment activities and make strategic decisions based on real market data.`

// Agent is a named system prompt bound to a compiled generation chain.
type Agent struct {
	Name  string
	chain compose.Runnable[map[string]any, *schema.Message]
}

func newAgent(ctx context.Context, chatModel model.ChatModel, name, systemPrompt string) (*Agent, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s chain: %w", name, err)
	}

	return &Agent{Name: name, chain: runnable}, nil
}

// Generate runs one synthesis pass over the assembled context.
func (a *Agent) Generate(ctx context.Context, query string) (string, error) {
	response, err := a.chain.Invoke(ctx, map[string]any{"query": query})
	if err != nil {
		return "", fmt.Errorf("failed to run %s chain: %w", a.Name, err)
	}
	log.Printf("[agents] %s generated response, length=%d", a.Name, len(response.Content))
	return response.Content, nil
}

// Stream runs one synthesis pass and streams the output chunks.
func (a *Agent) Stream(ctx context.Context, query string) (*schema.StreamReader[*schema.Message], error) {
	stream, err := a.chain.Stream(ctx, map[string]any{"query": query})
	if err != nil {
		return nil, fmt.Errorf("failed to stream %s chain output: %w", a.Name, err)
	}
	return stream, nil
}

// InvestmentAnalysis is the manager's combined assessment for a location.
type InvestmentAnalysis struct {
	Location       string    `json:"location"`
	MaxPrice       float64   `json:"max_price"`
	AnalysisResult string    `json:"analysis_result"`
	Timestamp      time.Time `json:"timestamp"`
	DataSource     string    `json:"data_source"`
	APIIntegration string    `json:"api_integration"`
}

// System wires the four agents over a shared toolset. When no chat model is
// configured the manager falls back to the deterministic report template.
type System struct {
	scout     *Agent
	analyzer  *Agent
	evaluator *Agent
	manager   *Agent
	tools     *Toolset
	enabled   bool
	streaming bool
}

// NewSystem builds the agents, compiling one chain per agent when AI
// credentials are configured.
func NewSystem(ctx context.Context, cfg config.AIConfig, tools *Toolset) (*System, error) {
	system := &System{tools: tools}

	if !cfg.Enabled() {
		log.Printf("[agents] no chat model configured, using deterministic reports")
		return system, nil
	}

	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	definitions := []struct {
		target **Agent
		name   string
		prompt string
	}{
		{&system.scout, "PropertyScout", propertyScoutPrompt},
		{&system.analyzer, "MarketAnalyzer", marketAnalyzerPrompt},
		{&system.evaluator, "DealEvaluator", dealEvaluatorPrompt},
		{&system.manager, "InvestmentManager", investmentManagerPrompt},
	}
	for _, def := range definitions {
		agent, err := newAgent(ctx, chatModel, def.name, def.prompt)
		if err != nil {
			return nil, err
		}
		*def.target = agent
	}

	system.enabled = true
	system.streaming = cfg.Stream
	return system, nil
}

// Enabled reports whether model-backed synthesis is available.
func (s *System) Enabled() bool { return s.enabled }

// StreamingEnabled reports whether chunked model output is configured.
func (s *System) StreamingEnabled() bool { return s.enabled && s.streaming }

// AnalyzeOpportunity evaluates one listing against the target ROI using the
// deal-evaluator toolset.
func (s *System) AnalyzeOpportunity(ctx context.Context, zillowURL string, targetROI float64) (OpportunityAnalysis, error) {
	return s.tools.AnalyzeOpportunity(ctx, zillowURL, targetROI)
}

// Tools exposes the shared toolset for direct invocation by handlers.
func (s *System) Tools() *Toolset { return s.tools }

// AnalyzeInvestment runs the coordinated analysis for a location: scout the
// listings, score the neighborhood, read market trends, then synthesize.
func (s *System) AnalyzeInvestment(ctx context.Context, location string, maxPrice float64) (InvestmentAnalysis, error) {
	gathered := s.gatherContext(ctx, location, maxPrice)

	narrative, err := s.synthesize(ctx, location, maxPrice, gathered)
	if err != nil {
		return InvestmentAnalysis{}, err
	}

	return InvestmentAnalysis{
		Location:       location,
		MaxPrice:       maxPrice,
		AnalysisResult: narrative,
		Timestamp:      time.Now().UTC(),
		DataSource:     "Zillow API via HasData",
		APIIntegration: "enabled",
	}, nil
}

// StreamInvestment streams the manager's narrative for a location. Only
// available when a chat model is configured.
func (s *System) StreamInvestment(ctx context.Context, location string, maxPrice float64) (*schema.StreamReader[*schema.Message], error) {
	if !s.enabled {
		return nil, fmt.Errorf("streaming requires a configured chat model")
	}
	gathered := s.gatherContext(ctx, location, maxPrice)
	return s.manager.Stream(ctx, s.buildManagerQuery(location, maxPrice, gathered))
}

// gatheredContext is the tool output the manager synthesizes from. Tool
// failures leave fields nil; synthesis degrades rather than aborts.
type gatheredContext struct {
	listingCount int
	neighborhood *NeighborhoodReport
	trends       *trendsSnapshot
}

type trendsSnapshot struct {
	sentiment  string
	priceTrend string
	outlook    string
}

func (s *System) gatherContext(ctx context.Context, location string, maxPrice float64) gatheredContext {
	var gathered gatheredContext

	listings, err := s.tools.ScoutListings(ctx, location, maxPrice)
	if err != nil {
		log.Printf("[agents] listing scout failed for %s: %v", location, err)
	} else {
		gathered.listingCount = len(listings)
	}

	report, err := s.tools.NeighborhoodScore(location)
	if err != nil {
		log.Printf("[agents] neighborhood scoring failed for %s: %v", location, err)
	} else {
		gathered.neighborhood = &report
	}

	trends, err := s.tools.Trends.MarketTrends(location)
	if err != nil {
		log.Printf("[agents] trend lookup failed for %s: %v", location, err)
	} else {
		gathered.trends = &trendsSnapshot{
			sentiment:  trends.MarketIndicators.OverallSentiment,
			priceTrend: trends.RealEstateTrends.PriceTrend,
			outlook:    trends.MarketIndicators.InvestmentOutlook,
		}
	}

	return gathered
}

func (s *System) synthesize(ctx context.Context, location string, maxPrice float64, gathered gatheredContext) (string, error) {
	if s.enabled {
		return s.manager.Generate(ctx, s.buildManagerQuery(location, maxPrice, gathered))
	}
	return s.deterministicReport(location, gathered), nil
}

func (s *System) buildManagerQuery(location string, maxPrice float64, gathered gatheredContext) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Analyze real estate investment opportunities in %s with a maximum price of $%.0f.\n\n", location, maxPrice)
	fmt.Fprintf(&builder, "Collected data:\n- Listings found under the price cap: %d\n", gathered.listingCount)
	if gathered.neighborhood != nil {
		fmt.Fprintf(&builder, "- Neighborhood score: %.1f/10 (components: %v)\n",
			gathered.neighborhood.Score.Overall, gathered.neighborhood.Score.Components)
	}
	if gathered.trends != nil {
		fmt.Fprintf(&builder, "- Market sentiment: %s, price trend: %s, outlook: %s\n",
			gathered.trends.sentiment, gathered.trends.priceTrend, gathered.trends.outlook)
	}
	builder.WriteString(`
Coordinate between all agents to:
1. Evaluate the collected listings against the price cap
2. Analyze market conditions and neighborhood quality
3. Evaluate financial metrics including ROI, cash flow, and rental yield
4. Generate data-driven investment recommendations

Focus on properties with strong cash flow potential, good value relative to market estimates, reasonable days on market, and positive neighborhood indicators.`)
	return builder.String()
}

// deterministicReport renders the fixed template from whatever tool output
// is available.
func (s *System) deterministicReport(location string, gathered gatheredContext) string {
	data := ReportData{MarketConditions: "neutral", PriceTrend: "stable"}

	if gathered.neighborhood != nil {
		data.NeighborhoodScore = gathered.neighborhood.Score.Overall
	}
	if gathered.trends != nil {
		data.MarketConditions = gathered.trends.sentiment
		data.PriceTrend = gathered.trends.priceTrend
	}

	data.RiskScore = finance.AssessInvestmentRisk(data.MarketConditions, data.NeighborhoodScore)
	switch {
	case data.RiskScore <= 4:
		data.Recommendation = "Favorable risk profile - proceed with targeted property evaluation"
	case data.RiskScore <= 7:
		data.Recommendation = "Moderate risk - conduct additional due diligence before committing"
	default:
		data.Recommendation = "Elevated risk - consider alternative locations or timing"
	}

	propertyID := storage.PropertyID(property.Property{Address: location}, time.Now())
	return InvestmentReport(propertyID, data, time.Now())
}
