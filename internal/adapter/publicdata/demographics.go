// Package publicdata provides estimate-based market data providers backed by
// static public tables, with a city -> state -> national fallback cascade.
// Real data sources can be substituted behind the same interfaces without
// touching any calculation logic.
package publicdata

import (
	"errors"
	"strings"
)

var ErrInvalidLocation = errors.New("location must be in \"City, ST\" format")

// Demographics describes a location's population and housing profile.
type Demographics struct {
	MedianIncome      float64 `json:"median_income"`
	Population        int     `json:"population"`
	MedianHomeValue   float64 `json:"median_home_value"`
	HomeownershipRate float64 `json:"homeownership_rate"`
	EducationRate     float64 `json:"education_rate"`
	TotalCommuters    int     `json:"total_commuters"`
	DataSource        string  `json:"data_source"`
	Location          string  `json:"location"`
}

// DemographicsProvider resolves demographics for a "City, ST" location.
type DemographicsProvider interface {
	Demographics(location string) (Demographics, error)
}

// StaticDemographics serves public estimates for major cities, falling back to
// state averages and finally national medians.
type StaticDemographics struct{}

type cityKey struct {
	city  string
	state string
}

var cityDemographics = map[cityKey]Demographics{
	{"austin", "TX"}:         {MedianIncome: 78000, Population: 965000, MedianHomeValue: 465000, HomeownershipRate: 62.1, EducationRate: 47.2, TotalCommuters: 450000},
	{"houston", "TX"}:        {MedianIncome: 52000, Population: 2300000, MedianHomeValue: 185000, HomeownershipRate: 58.3, EducationRate: 32.1, TotalCommuters: 1100000},
	{"dallas", "TX"}:         {MedianIncome: 52000, Population: 1340000, MedianHomeValue: 195000, HomeownershipRate: 56.8, EducationRate: 35.4, TotalCommuters: 650000},
	{"san antonio", "TX"}:    {MedianIncome: 49000, Population: 1550000, MedianHomeValue: 165000, HomeownershipRate: 61.2, EducationRate: 28.9, TotalCommuters: 700000},
	{"los angeles", "CA"}:    {MedianIncome: 65000, Population: 3900000, MedianHomeValue: 750000, HomeownershipRate: 48.2, EducationRate: 38.1, TotalCommuters: 1800000},
	{"san francisco", "CA"}:  {MedianIncome: 112000, Population: 875000, MedianHomeValue: 1350000, HomeownershipRate: 37.8, EducationRate: 58.3, TotalCommuters: 420000},
	{"new york", "NY"}:       {MedianIncome: 63000, Population: 8400000, MedianHomeValue: 680000, HomeownershipRate: 33.2, EducationRate: 42.7, TotalCommuters: 3200000},
	{"miami", "FL"}:          {MedianIncome: 44000, Population: 470000, MedianHomeValue: 385000, HomeownershipRate: 52.1, EducationRate: 31.8, TotalCommuters: 220000},
	{"seattle", "WA"}:        {MedianIncome: 93000, Population: 750000, MedianHomeValue: 820000, HomeownershipRate: 47.5, EducationRate: 63.1, TotalCommuters: 380000},
}

var stateDemographics = map[string]Demographics{
	"TX": {MedianIncome: 64000, Population: 500000, MedianHomeValue: 250000, HomeownershipRate: 62.0, EducationRate: 35.0, TotalCommuters: 200000},
	"CA": {MedianIncome: 75000, Population: 400000, MedianHomeValue: 650000, HomeownershipRate: 55.0, EducationRate: 42.0, TotalCommuters: 180000},
	"NY": {MedianIncome: 68000, Population: 300000, MedianHomeValue: 350000, HomeownershipRate: 54.0, EducationRate: 40.0, TotalCommuters: 140000},
	"FL": {MedianIncome: 55000, Population: 250000, MedianHomeValue: 280000, HomeownershipRate: 68.0, EducationRate: 32.0, TotalCommuters: 120000},
	"WA": {MedianIncome: 78000, Population: 200000, MedianHomeValue: 450000, HomeownershipRate: 63.0, EducationRate: 45.0, TotalCommuters: 95000},
}

var nationalDemographics = Demographics{
	MedianIncome:      62000,
	Population:        300000,
	MedianHomeValue:   350000,
	HomeownershipRate: 65.0,
	EducationRate:     35.0,
	TotalCommuters:    150000,
}

// Demographics resolves a location through the city -> state -> national cascade.
func (StaticDemographics) Demographics(location string) (Demographics, error) {
	city, state, err := SplitLocation(location)
	if err != nil {
		return Demographics{}, err
	}

	if d, ok := cityDemographics[cityKey{city, state}]; ok {
		d.DataSource = "city_estimates"
		d.Location = location
		return d, nil
	}
	if d, ok := stateDemographics[state]; ok {
		d.DataSource = "state_estimates"
		d.Location = location
		return d, nil
	}

	d := nationalDemographics
	d.DataSource = "national_estimates"
	d.Location = location
	return d, nil
}

// SplitLocation parses "City, ST" into a lowercase city and uppercase state.
func SplitLocation(location string) (city, state string, err error) {
	parts := strings.SplitN(location, ",", 2)
	if len(parts) < 2 {
		return "", "", ErrInvalidLocation
	}
	city = strings.ToLower(strings.TrimSpace(parts[0]))
	state = strings.ToUpper(strings.TrimSpace(parts[1]))
	if city == "" || state == "" {
		return "", "", ErrInvalidLocation
	}
	return city, state, nil
}
