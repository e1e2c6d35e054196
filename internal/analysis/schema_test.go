package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validResult() *Result {
	return &Result{
		Score:            80,
		Message:          "Well aligned.",
		MatchedKeywords:  []string{"Python"},
		MissingKeywords:  []string{"Docker"},
		KeywordFrequency: []KeywordCount{{Keyword: "Python", JobDescriptionCount: 2, ResumeCount: 1}},
		Suggestions:      []Suggestion{{ID: "1", Category: CategorySkills, Text: "Docker"}},
	}
}

func TestValidateResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(r *Result)
		field  string
	}{
		{name: "valid"},
		{
			name:   "no message",
			mutate: func(r *Result) { r.Message = "" },
		},
		{
			name:   "score above range",
			mutate: func(r *Result) { r.Score = 101 },
			field:  "score",
		},
		{
			name:   "negative score",
			mutate: func(r *Result) { r.Score = -1 },
			field:  "score",
		},
		{
			name:   "null keyword list",
			mutate: func(r *Result) { r.MatchedKeywords = nil },
			field:  "matchedKeywords",
		},
		{
			name:   "null suggestions",
			mutate: func(r *Result) { r.Suggestions = nil },
			field:  "suggestions",
		},
		{
			name:   "unknown category",
			mutate: func(r *Result) { r.Suggestions[0].Category = "Hobbies" },
			field:  "category",
		},
		{
			name:   "zero id",
			mutate: func(r *Result) { r.Suggestions[0].ID = "0" },
			field:  "id",
		},
		{
			name:   "blank keyword",
			mutate: func(r *Result) { r.KeywordFrequency[0].Keyword = "" },
			field:  "keyword",
		},
		{
			name:   "negative count",
			mutate: func(r *Result) { r.KeywordFrequency[0].ResumeCount = -2 },
			field:  "resumeCount",
		},
		{
			name: "perfect score with suggestions",
			mutate: func(r *Result) {
				r.Score = 100
				r.MissingKeywords = []string{}
			},
			field: "suggestions",
		},
		{
			name: "perfect score with missing keywords",
			mutate: func(r *Result) {
				r.Score = 100
				r.Suggestions = []Suggestion{}
			},
			field: "missingKeywords",
		},
		{
			name: "perfect score",
			mutate: func(r *Result) {
				r.Score = 100
				r.MissingKeywords = []string{}
				r.Suggestions = []Suggestion{}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := validResult()
			if tt.mutate != nil {
				tt.mutate(r)
			}

			err := ValidateResult(r)
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidResult)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidateResultNil(t *testing.T) {
	assert.ErrorIs(t, ValidateResult(nil), ErrInvalidResult)
}
