package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		value  any
		expect int
	}{
		{name: "in range", value: json.Number("80"), expect: 80},
		{name: "above range", value: json.Number("150"), expect: 100},
		{name: "below range", value: json.Number("-5"), expect: 0},
		{name: "rounds half up", value: json.Number("79.5"), expect: 80},
		{name: "rounds down", value: json.Number("79.4"), expect: 79},
		{name: "overflow", value: json.Number("1e400"), expect: 100},
		{name: "negative overflow", value: json.Number("-1e400"), expect: 0},
		{name: "numeric string", value: "80", expect: 0},
		{name: "missing", value: nil, expect: 0},
		{name: "bool", value: true, expect: 0},
		{name: "float", value: 42.4, expect: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, clampScore(tt.value))
		})
	}
}

func TestReconcileScore(t *testing.T) {
	t.Parallel()

	suggestions := []Suggestion{{ID: "1", Category: CategorySkills, Text: "Docker"}}

	tests := []struct {
		name        string
		in          scoreInput
		score       int
		message     string
		missing     []string
		suggestions []Suggestion
	}{
		{
			name: "coverage raises the model score",
			in: scoreInput{
				modelScore:  50,
				matched:     []string{"Go", "Kafka", "Python"},
				missing:     []string{"Docker"},
				suggestions: suggestions,
			},
			score:       75,
			missing:     []string{"Docker"},
			suggestions: suggestions,
		},
		{
			name: "coverage never lowers the model score",
			in: scoreInput{
				modelScore:  90,
				message:     "Well aligned.",
				matched:     []string{"Go"},
				missing:     []string{"Docker", "Kafka"},
				suggestions: suggestions,
			},
			score:       90,
			message:     "Well aligned.",
			missing:     []string{"Docker", "Kafka"},
			suggestions: suggestions,
		},
		{
			name: "coverage rounds to nearest",
			in: scoreInput{
				modelScore:  10,
				matched:     []string{"Python", "React"},
				missing:     []string{"Docker"},
				suggestions: []Suggestion{},
			},
			score:       67,
			missing:     []string{"Docker"},
			suggestions: []Suggestion{},
		},
		{
			name: "no keywords keeps the model score",
			in: scoreInput{
				modelScore:  40,
				matched:     []string{},
				missing:     []string{},
				suggestions: suggestions,
			},
			score:       40,
			missing:     []string{},
			suggestions: suggestions,
		},
		{
			name: "nothing missing forces a perfect score",
			in: scoreInput{
				modelScore:  30,
				matched:     []string{"Go"},
				missing:     []string{},
				suggestions: suggestions,
			},
			score:       100,
			message:     defaultPerfectMatchMessage,
			missing:     []string{},
			suggestions: []Suggestion{},
		},
		{
			name: "perfect model score clears suggestions and keeps the message",
			in: scoreInput{
				modelScore:  100,
				message:     "Great fit.",
				matched:     []string{},
				missing:     []string{},
				suggestions: suggestions,
			},
			score:       100,
			message:     "Great fit.",
			missing:     []string{},
			suggestions: []Suggestion{},
		},
		{
			name: "perfect model score clears missing keywords",
			in: scoreInput{
				modelScore:  100,
				matched:     []string{"Go"},
				missing:     []string{"Docker"},
				suggestions: suggestions,
			},
			score:       100,
			message:     defaultPerfectMatchMessage,
			missing:     []string{},
			suggestions: []Suggestion{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := reconcileScore(tt.in, defaultPerfectMatchMessage)
			assert.Equal(t, tt.score, result.Score)
			assert.Equal(t, tt.message, result.Message)
			assert.Equal(t, tt.missing, result.MissingKeywords)
			assert.Equal(t, tt.suggestions, result.Suggestions)
			assert.Equal(t, tt.in.matched, result.MatchedKeywords)
		})
	}
}

func TestReconcileScoreKeepsKeywordFrequency(t *testing.T) {
	t.Parallel()

	rows := []KeywordCount{{Keyword: "Go", JobDescriptionCount: 3, ResumeCount: 1}}

	partial := reconcileScore(scoreInput{
		modelScore:       60,
		matched:          []string{"Go"},
		missing:          []string{"Docker"},
		keywordFrequency: rows,
		suggestions:      []Suggestion{},
	}, defaultPerfectMatchMessage)
	assert.Equal(t, rows, partial.KeywordFrequency)

	perfect := reconcileScore(scoreInput{
		modelScore:       100,
		matched:          []string{"Go"},
		missing:          []string{},
		keywordFrequency: rows,
		suggestions:      []Suggestion{},
	}, defaultPerfectMatchMessage)
	assert.Equal(t, 100, perfect.Score)
	assert.Equal(t, rows, perfect.KeywordFrequency)
}
