package analysis

import "math"

const (
	minScore = 0
	maxScore = 100
)

// clampScore turns the model score into an integer in [0, 100]. Anything that
// is not a JSON number counts as 0.
func clampScore(v any) int {
	f, ok := asNumber(v)
	if !ok || math.IsNaN(f) {
		return minScore
	}
	return int(math.Min(maxScore, math.Max(minScore, math.Round(f))))
}

// scoreInput is everything the score reconciliation looks at.
type scoreInput struct {
	modelScore       int
	message          string
	matched          []string
	missing          []string
	keywordFrequency []KeywordCount
	suggestions      []Suggestion
}

// reconcileScore raises the model score to the keyword coverage and enforces
// that a perfect score comes with nothing left to fix.
func reconcileScore(in scoreInput, perfectMessage string) *Result {
	score := in.modelScore
	if total := len(in.matched) + len(in.missing); total > 0 {
		coverage := int(math.Round(float64(maxScore) * float64(len(in.matched)) / float64(total)))
		score = max(score, coverage)
		if len(in.missing) == 0 {
			score = maxScore
		}
	}

	result := &Result{
		Score:            score,
		Message:          in.message,
		MatchedKeywords:  in.matched,
		MissingKeywords:  in.missing,
		KeywordFrequency: in.keywordFrequency,
		Suggestions:      in.suggestions,
	}

	if score == maxScore {
		result.MissingKeywords = []string{}
		result.Suggestions = []Suggestion{}
		if result.Message == "" {
			result.Message = perfectMessage
		}
	}

	return result
}
