// Package sentiment scores market text on keyword evidence.
package sentiment

import "strings"

// Label is the directional read on a batch of market text.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// Decision carries the label plus the raw keyword tallies behind it.
type Decision struct {
	Sentiment Label
	Positive  int
	Negative  int
}

var keywordBuckets = map[Label][]string{
	Positive: {"increased", "up", "rose", "growth", "strong", "hot", "competitive"},
	Negative: {"decreased", "down", "fell", "decline", "weak", "cold", "slow"},
}

// Assess tallies directional keywords across the given texts. Ties and
// keyword-free text read as neutral.
func Assess(texts ...string) Decision {
	decision := Decision{Sentiment: Neutral}
	for _, text := range texts {
		normalized := strings.ToLower(strings.TrimSpace(text))
		if normalized == "" {
			continue
		}
		for _, word := range keywordBuckets[Positive] {
			if strings.Contains(normalized, word) {
				decision.Positive++
			}
		}
		for _, word := range keywordBuckets[Negative] {
			if strings.Contains(normalized, word) {
				decision.Negative++
			}
		}
	}

	switch {
	case decision.Positive > decision.Negative:
		decision.Sentiment = Positive
	case decision.Negative > decision.Positive:
		decision.Sentiment = Negative
	}
	return decision
}
