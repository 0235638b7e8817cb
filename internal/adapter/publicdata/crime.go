package publicdata

// CrimeStats holds crime-rate estimates for a location.
type CrimeStats struct {
	CrimeRatePer1000  float64 `json:"crime_rate_per_1000"`
	ViolentCrimeRate  float64 `json:"violent_crime_rate"`
	PropertyCrimeRate float64 `json:"property_crime_rate"`
	SafetyScore       float64 `json:"safety_score"`
	Trend             string  `json:"trend"`
	LastUpdated       string  `json:"last_updated"`
}

// CrimeProvider resolves crime statistics for a "City, ST" location.
type CrimeProvider interface {
	CrimeStats(location string) (CrimeStats, error)
}

// StaticCrime returns national-average crime estimates for any valid location.
type StaticCrime struct{}

func (StaticCrime) CrimeStats(location string) (CrimeStats, error) {
	if _, _, err := SplitLocation(location); err != nil {
		return CrimeStats{}, err
	}
	return CrimeStats{
		CrimeRatePer1000:  25.5,
		ViolentCrimeRate:  4.2,
		PropertyCrimeRate: 21.3,
		SafetyScore:       7.5,
		Trend:             "decreasing",
		LastUpdated:       "2024-01-01",
	}, nil
}
