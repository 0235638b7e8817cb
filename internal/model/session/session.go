package session

import "time"

// UserProfile holds the identity claims attached to an authenticated session.
type UserProfile struct {
	UserID                string `json:"user_id"`
	Username              string `json:"username,omitempty"`
	Email                 string `json:"email,omitempty"`
	GivenName             string `json:"given_name,omitempty"`
	FamilyName            string `json:"family_name,omitempty"`
	InvestmentPreferences string `json:"investment_preferences,omitempty"`
	RiskTolerance         string `json:"risk_tolerance,omitempty"`
	InvestmentTimeline    string `json:"investment_timeline,omitempty"`
}

// AnalysisEntry summarizes one completed analysis for the session history.
type AnalysisEntry struct {
	Timestamp    time.Time `json:"timestamp"`
	Location     string    `json:"location"`
	MaxPrice     float64   `json:"max_price"`
	AnalysisType string    `json:"analysis_type"`
	Summary      string    `json:"summary,omitempty"`
	Confidence   float64   `json:"confidence"`
}

// ResearchEntry summarizes one automated research run.
type ResearchEntry struct {
	Timestamp    time.Time `json:"timestamp"`
	Location     string    `json:"location"`
	ResearchType string    `json:"research_type"`
	Confidence   float64   `json:"confidence"`
}

// Record is the bookkeeping state kept per session for the process lifetime.
// Session identifiers are opaque strings with no structural guarantees.
type Record struct {
	ID                 string            `json:"id"`
	CreatedAt          time.Time         `json:"created_at"`
	LastUpdated        time.Time         `json:"last_updated"`
	RequestCount       int               `json:"request_count"`
	PropertiesAnalyzed []string          `json:"properties_analyzed"`
	AnalysisHistory    []AnalysisEntry   `json:"analysis_history"`
	ResearchHistory    []ResearchEntry   `json:"research_history"`
	User               *UserProfile      `json:"user,omitempty"`
	Preferences        map[string]string `json:"preferences,omitempty"`
}

// UniqueLocations returns the distinct locations seen in the analysis history.
func (r Record) UniqueLocations() []string {
	seen := make(map[string]struct{}, len(r.AnalysisHistory))
	locations := make([]string, 0, len(r.AnalysisHistory))
	for _, entry := range r.AnalysisHistory {
		if _, ok := seen[entry.Location]; ok {
			continue
		}
		seen[entry.Location] = struct{}{}
		locations = append(locations, entry.Location)
	}
	return locations
}
