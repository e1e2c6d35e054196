package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/analysis"
	"github.com/spigell/resume-matcher/internal/source"
)

const (
	batchResume = "Experienced software engineer with Python and React skills."
	batchJob    = "We are looking for a Python developer with Docker experience."
)

func writeResponses(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func responseSources(dir string, names ...string) []source.Source {
	sources := make([]source.Source, 0, len(names))
	for _, name := range names {
		sources = append(sources, source.Source{Name: inputResponse, File: filepath.Join(dir, name)})
	}
	return sources
}

func TestRunBatch(t *testing.T) {
	dir := writeResponses(t, map[string]string{
		"plain.json":     `{"score": 80, "matchedKeywords": ["Python"], "missingKeywords": ["Docker"], "suggestions": [{"id": "7", "category": "Skills", "text": "Docker"}]}`,
		"fenced.txt":     "Here you go:\n```json\n{\"score\": 100, \"matchedKeywords\": [\"Python\"], \"missingKeywords\": []}\n```",
		"garbage.txt":    "I cannot answer that.",
		"whitespace.txt": "   \n",
	})

	analyzer, err := analysis.New(analysis.DefaultPolicy(), zap.NewNop())
	require.NoError(t, err)

	responses := responseSources(dir, "plain.json", "garbage.txt", "fenced.txt", "absent.json", "whitespace.txt")

	entries, err := runBatch(context.Background(), analyzer, batchResume, batchJob, responses, 2)
	require.NoError(t, err)
	require.Len(t, entries, len(responses))

	for i, entry := range entries {
		assert.Equal(t, responses[i].File, entry.File)
	}

	plain := entries[0]
	assert.Empty(t, plain.Error)
	require.NotNil(t, plain.Result)
	assert.Equal(t, 80, plain.Result.Score)
	assert.Equal(t, []analysis.Suggestion{{ID: "1", Category: analysis.CategorySkills, Text: "Docker"}}, plain.Result.Suggestions)

	assert.Nil(t, entries[1].Result)
	assert.Contains(t, entries[1].Error, "failed to parse model response")

	fenced := entries[2]
	assert.Empty(t, fenced.Error)
	require.NotNil(t, fenced.Result)
	assert.Equal(t, 100, fenced.Result.Score)
	assert.Equal(t, analysis.DefaultPolicy().PerfectMatchMessage, fenced.Result.Message)

	assert.Nil(t, entries[3].Result)
	assert.Contains(t, entries[3].Error, "reading model response from file")

	assert.Nil(t, entries[4].Result)
	assert.Contains(t, entries[4].Error, "is empty")
}

func TestRunBatchCancelled(t *testing.T) {
	dir := writeResponses(t, map[string]string{"plain.json": `{"score": 50}`})

	analyzer, err := analysis.New(analysis.DefaultPolicy(), zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = runBatch(ctx, analyzer, batchResume, batchJob, responseSources(dir, "plain.json"), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
