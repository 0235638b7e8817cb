package webresearch

import (
	"net/url"
	"strings"

	"github.com/propertypilot/backend/internal/model/research"
)

// Research targets in priority order. Priority 1-2 sources participate in
// market-conditions fan-out; priority 3 is reserved for deep dives.
func defaultTargets() []research.Target {
	return []research.Target{
		{
			Name:    "Zillow Market Data",
			BaseURL: "https://www.zillow.com",
			SearchPatterns: []string{
				"/homes/{location}/",
				"/{location}/home-values/",
				"/research/data/",
			},
			Priority: 1,
		},
		{
			Name:    "Realtor.com Market Insights",
			BaseURL: "https://www.realtor.com",
			SearchPatterns: []string{
				"/research/data/",
				"/realestateandhomes-search/{location}",
				"/local/{location}",
			},
			Priority: 1,
		},
		{
			Name:    "Redfin Market Data",
			BaseURL: "https://www.redfin.com",
			SearchPatterns: []string{
				"/city/{location}",
				"/news/data-center/",
			},
			Priority: 2,
		},
		{
			Name:    "Census Demographics",
			BaseURL: "https://data.census.gov",
			SearchPatterns: []string{
				"/cedsci/",
				"/profile/",
			},
			Priority: 3,
		},
		{
			Name:    "Local Market News",
			BaseURL: "https://news.google.com",
			SearchPatterns: []string{
				"/search?q={location}+real+estate+market",
				"/search?q={location}+housing+market+trends",
			},
			Priority: 2,
		},
	}
}

// Sources consulted for address-specific property research.
var propertySources = []string{
	"https://www.zillow.com",
	"https://www.realtor.com",
	"https://www.redfin.com",
}

// Sources consulted for investment-opportunity research.
var opportunitySources = []research.SourceFinding{
	{Source: "https://www.biggerpockets.com", Description: "Investment community insights"},
	{Source: "https://www.reit.com", Description: "REIT and commercial opportunities"},
	{Source: "https://www.loopnet.com", Description: "Commercial property opportunities"},
	{Source: "https://www.realtor.com/research", Description: "Market research and trends"},
}

// buildSearchURL expands the first location-bearing search pattern of a
// target; targets without one fall back to the base URL.
func buildSearchURL(target research.Target, location string) string {
	clean := strings.ReplaceAll(strings.ToLower(location), " ", "-")
	clean = strings.ReplaceAll(clean, ",", "")

	for _, pattern := range target.SearchPatterns {
		if strings.Contains(pattern, "{location}") {
			path := strings.ReplaceAll(pattern, "{location}", url.PathEscape(clean))
			return strings.TrimSuffix(target.BaseURL, "/") + path
		}
	}
	return target.BaseURL
}
