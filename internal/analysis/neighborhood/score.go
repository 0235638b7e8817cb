package neighborhood

import "math"

// Benchmarks used to normalize raw component inputs onto a 0-10 scale.
const (
	incomeBenchmark        = 70000 // national median household income
	educationBenchmark     = 35.0  // % with bachelor's degree or higher
	homeownershipBenchmark = 70.0  // % owner occupied
)

// Component weights. Must sum to 1.
var weights = map[string]float64{
	"income_score":    0.25,
	"education_score": 0.20,
	"school_score":    0.25,
	"safety_score":    0.20,
	"housing_score":   0.10,
}

// Inputs are the raw metrics a score is derived from. Zero values mean the
// metric was unavailable and its component stays at zero.
type Inputs struct {
	MedianIncome      float64
	EducationRate     float64
	SchoolRating      float64
	SafetyScore       float64
	HomeownershipRate float64
}

// Score is a weighted neighborhood desirability rating on a 0-10 scale.
type Score struct {
	Overall    float64            `json:"overall_score"`
	Components map[string]float64 `json:"component_scores"`
}

// Calculate derives the weighted overall score from the raw inputs. Each
// component is independently normalized against its benchmark and capped at 10.
func Calculate(in Inputs) Score {
	components := map[string]float64{
		"income_score":    0,
		"education_score": 0,
		"school_score":    0,
		"safety_score":    in.SafetyScore,
		"housing_score":   0,
	}

	if in.MedianIncome > 0 {
		components["income_score"] = math.Min(10, in.MedianIncome/incomeBenchmark*7.5)
	}
	if in.EducationRate > 0 {
		components["education_score"] = math.Min(10, in.EducationRate/educationBenchmark*10)
	}
	if in.SchoolRating > 0 {
		components["school_score"] = in.SchoolRating // already 0-10
	}
	if in.HomeownershipRate > 0 {
		components["housing_score"] = math.Min(10, in.HomeownershipRate/homeownershipBenchmark*10)
	}

	overall := 0.0
	for name, weight := range weights {
		overall += components[name] * weight
	}

	rounded := make(map[string]float64, len(components))
	for name, value := range components {
		rounded[name] = round1(value)
	}

	return Score{Overall: round1(overall), Components: rounded}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
