package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-matcher/internal/analysis"
	"github.com/spigell/resume-matcher/internal/source"
)

func reportResult() *analysis.Result {
	return &analysis.Result{
		Score:           80,
		Message:         "Well aligned.",
		MatchedKeywords: []string{"Python", "React"},
		MissingKeywords: []string{"Docker"},
		KeywordFrequency: []analysis.KeywordCount{
			{Keyword: "Python", JobDescriptionCount: 2, ResumeCount: 1},
		},
		Suggestions: []analysis.Suggestion{
			{ID: "1", Category: analysis.CategorySkills, Text: "Docker"},
			{ID: "2", Category: analysis.CategoryExperience, Text: "Built Docker images for the CI pipeline."},
		},
	}
}

func TestResolveSource(t *testing.T) {
	tests := []struct {
		name       string
		file       string
		text       string
		configured string
		expect     source.Source
	}{
		{
			name:   "file flag",
			file:   "cv.txt",
			expect: source.Source{Name: inputResume, File: "cv.txt"},
		},
		{
			name:       "inline text wins over config",
			text:       "Go developer",
			configured: "cv.txt",
			expect:     source.Source{Name: inputResume, Value: "Go developer"},
		},
		{
			name:       "config fallback",
			configured: "cv.txt",
			expect:     source.Source{Name: inputResume, File: "cv.txt"},
		},
		{
			name:   "nothing set",
			expect: source.Source{Name: inputResume},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, resolveSource(inputResume, tt.file, tt.text, tt.configured))
		})
	}
}

func TestLoadInputs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.txt")
	require.NoError(t, os.WriteFile(path, []byte("Python developer\n"), 0o600))

	texts, err := loadInputs([]source.Source{
		{Name: inputResume, Value: " Go developer "},
		{Name: inputJob, File: path},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go developer", "Python developer"}, texts)

	_, err = loadInputs([]source.Source{
		{Name: inputResume, File: "-"},
		{Name: inputResponse, File: "-"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only one input can be read from stdin")

	_, err = loadInputs([]source.Source{{Name: inputJob, Value: "  "}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job description is not configured")
}

func TestRenderJSON(t *testing.T) {
	result := &analysis.Result{
		Score:            100,
		Message:          "Perfect.",
		MatchedKeywords:  []string{"Go"},
		MissingKeywords:  []string{},
		KeywordFrequency: []analysis.KeywordCount{},
		Suggestions:      []analysis.Suggestion{},
	}

	out, err := render(result, FormatJSON)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(out), "}\n"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, []any{}, decoded["missingKeywords"])
	assert.Equal(t, []any{}, decoded["suggestions"])
	assert.Equal(t, "Perfect.", decoded["message"])

	_, err = render(result, "yaml")
	assert.Error(t, err)
}

func TestWriteReport(t *testing.T) {
	out, err := render(reportResult(), FormatText)
	require.NoError(t, err)

	expect := `Score: 80/100
Message: Well aligned.
Matched keywords: Python, React
Missing keywords: Docker

Keyword frequency:
  Python: job 2, resume 1

Suggestions:
  Experience
    2. Built Docker images for the CI pipeline.
  Skills
    1. Docker
`
	assert.Equal(t, expect, string(out))
}

func TestWriteReportEmptyLists(t *testing.T) {
	var b strings.Builder
	writeReport(&b, &analysis.Result{
		Score:            40,
		MatchedKeywords:  []string{},
		MissingKeywords:  []string{},
		KeywordFrequency: []analysis.KeywordCount{},
		Suggestions:      []analysis.Suggestion{},
	})

	assert.Equal(t, "Score: 40/100\nMatched keywords: none\nMissing keywords: none\n", b.String())
}

func TestWriteOutputToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, writeOutput(path, []byte("{}\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}
