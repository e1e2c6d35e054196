package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spigell/resume-matcher/internal/analysis"
	"github.com/spigell/resume-matcher/internal/source"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultParallel = 4

// batchEntry is the outcome for one response file. Exactly one of Result and
// Error is set.
type batchEntry struct {
	File   string           `json:"file"`
	Result *analysis.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

var batchCmd = &cobra.Command{
	Use:   "batch RESPONSE...",
	Short: "Analyze several model responses against the same resume and job description",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		batch(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("resume", "", "resume file, - for stdin (default from resume-file config key or RESUME_MATCHER_RESUME_FILE)")
	batchCmd.Flags().String("job", "", "job description file, - for stdin (default from job-file config key or RESUME_MATCHER_JOB_FILE)")
	batchCmd.Flags().String("resume-text", "", "resume as inline text")
	batchCmd.Flags().String("job-text", "", "job description as inline text")
	batchCmd.Flags().IntP("parallel", "p", defaultParallel, "how many responses are analyzed at once")
	batchCmd.Flags().StringP("output", "o", "", "write the results to this file instead of stdout")
}

func batch(cmd *cobra.Command, files []string) {
	logger, config, analyzer := setup()

	parallel, err := cmd.Flags().GetInt("parallel")
	if err != nil || parallel < 1 {
		logger.Fatal("parallel must be a positive number", zap.Int("parallel", parallel))
	}

	inputs := []source.Source{
		resolveSource(inputResume, flagString(cmd, "resume"), flagString(cmd, "resume-text"), config.ResumeFile),
		resolveSource(inputJob, flagString(cmd, "job"), flagString(cmd, "job-text"), config.JobFile),
	}
	responses := make([]source.Source, 0, len(files))
	for _, file := range files {
		responses = append(responses, source.Source{Name: inputResponse, File: file})
	}

	if n := source.CountStdin(append(inputs, responses...)...); n > 1 {
		logger.Fatal("only one input can be read from stdin", zap.Int("stdin_inputs", n))
	}

	texts, err := loadInputs(inputs)
	if err != nil {
		logger.Fatal("loading inputs", zap.Error(err))
	}

	logger.Info("starting the batch", zap.Int("responses", len(files)), zap.Int("parallel", parallel))

	entries, err := runBatch(cmd.Context(), analyzer, texts[0], texts[1], responses, parallel)
	if err != nil {
		logger.Fatal("running the batch", zap.Error(err))
	}

	failed := 0
	for _, entry := range entries {
		if entry.Error != "" {
			failed++
			logger.Warn("response was not analyzed", zap.String("file", entry.File), zap.String("error", entry.Error))
		}
	}

	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		logger.Fatal("rendering results", zap.Error(err))
	}

	if err := writeOutput(flagString(cmd, "output"), append(out, '\n')); err != nil {
		logger.Fatal("writing results", zap.Error(err))
	}

	logger.Info("batch completed", zap.Int("analyzed", len(entries)-failed), zap.Int("failed", failed))
}

// runBatch analyzes every response with at most parallel analyses in flight.
// Entries keep the order of responses. A failing response is reported in its
// entry and does not stop the others.
func runBatch(ctx context.Context, analyzer *analysis.Analyzer, resume, job string, responses []source.Source, parallel int) ([]batchEntry, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	entries := make([]batchEntry, len(responses))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, src := range responses {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			entries[i] = analyzeOne(analyzer, resume, job, src)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch interrupted: %w", err)
	}

	return entries, nil
}

func analyzeOne(analyzer *analysis.Analyzer, resume, job string, src source.Source) batchEntry {
	entry := batchEntry{File: src.File}

	raw, err := source.Load(src)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}

	result, err := analyzer.Analyze(resume, job, raw)
	if err != nil {
		entry.Error = fmt.Sprintf("failed to parse model response: %s", err)
		return entry
	}

	if err := analysis.ValidateResult(result); err != nil {
		entry.Error = err.Error()
		return entry
	}

	entry.Result = result
	return entry
}
