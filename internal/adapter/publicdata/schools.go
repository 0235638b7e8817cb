package publicdata

// SchoolRatings holds the school profile estimate for a location.
type SchoolRatings struct {
	AverageRating      float64 `json:"average_rating"`
	ElementaryAverage  float64 `json:"elementary_avg"`
	MiddleAverage      float64 `json:"middle_avg"`
	HighAverage        float64 `json:"high_avg"`
	TotalSchools       int     `json:"total_schools"`
	SchoolsWithRatings int     `json:"schools_with_ratings"`
	DataSource         string  `json:"data_source"`
}

// SchoolProvider resolves school ratings for a "City, ST" location.
type SchoolProvider interface {
	SchoolRatings(location string) (SchoolRatings, error)
}

// StaticSchools returns moderate public estimates for any valid location.
type StaticSchools struct{}

func (StaticSchools) SchoolRatings(location string) (SchoolRatings, error) {
	if _, _, err := SplitLocation(location); err != nil {
		return SchoolRatings{}, err
	}
	return SchoolRatings{
		AverageRating:      7.0,
		ElementaryAverage:  7.0,
		MiddleAverage:      7.0,
		HighAverage:        7.0,
		TotalSchools:       10,
		SchoolsWithRatings: 8,
		DataSource:         "public_estimates",
	}, nil
}
