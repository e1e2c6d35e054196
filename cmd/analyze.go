package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spigell/resume-matcher/internal/analysis"
	"github.com/spigell/resume-matcher/internal/jsonextract"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/source"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

const (
	inputResume   = "resume"
	inputJob      = "job description"
	inputResponse = "model response"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Normalize a raw model answer against a resume and a job description",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("resume", "", "resume file, - for stdin (default from resume-file config key or RESUME_MATCHER_RESUME_FILE)")
	analyzeCmd.Flags().String("job", "", "job description file, - for stdin (default from job-file config key or RESUME_MATCHER_JOB_FILE)")
	analyzeCmd.Flags().String("response", "", "raw model response file, - for stdin")
	analyzeCmd.Flags().String("resume-text", "", "resume as inline text")
	analyzeCmd.Flags().String("job-text", "", "job description as inline text")
	analyzeCmd.Flags().String("response-text", "", "raw model response as inline text")
	analyzeCmd.Flags().StringP("output", "o", "", "write the result to this file instead of stdout")
	analyzeCmd.Flags().StringP("format", "f", FormatJSON, "output format: json or text")
	analyzeCmd.Flags().BoolP("interactive", "i", false, "ask for input files that are not set")
}

func analyze(cmd *cobra.Command) {
	logger, config, analyzer := setup()

	format := flagString(cmd, "format")
	if format != FormatJSON && format != FormatText {
		logger.Fatal("unsupported output format", zap.String("format", format))
	}

	inputs := []source.Source{
		resolveSource(inputResume, flagString(cmd, "resume"), flagString(cmd, "resume-text"), config.ResumeFile),
		resolveSource(inputJob, flagString(cmd, "job"), flagString(cmd, "job-text"), config.JobFile),
		resolveSource(inputResponse, flagString(cmd, "response"), flagString(cmd, "response-text"), ""),
	}

	if flagBool(cmd, "interactive") {
		if err := askMissing(inputs); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
	}

	texts, err := loadInputs(inputs)
	if err != nil {
		logger.Fatal("loading inputs", zap.Error(err))
	}

	for _, src := range inputs {
		logger.Debug("input loaded", inputFields(src)...)
	}

	result, err := analyzer.Analyze(texts[0], texts[1], texts[2])
	if err != nil {
		if errors.Is(err, jsonextract.ErrParse) {
			logger.Fatal("failed to parse model response", zap.Error(err))
		}
		logger.Fatal("analyzing", zap.Error(err))
	}

	if err := analysis.ValidateResult(result); err != nil {
		logger.Fatal("result does not match the contract", zap.Error(err))
	}

	rendered, err := render(result, format)
	if err != nil {
		logger.Fatal("rendering result", zap.Error(err))
	}

	if err := writeOutput(flagString(cmd, "output"), rendered); err != nil {
		logger.Fatal("writing result", zap.Error(err))
	}

	logger.Info("analysis completed",
		zap.Int("score", result.Score),
		zap.Int("suggestions", len(result.Suggestions)),
	)
}

func flagString(cmd *cobra.Command, name string) string {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return value
}

func flagBool(cmd *cobra.Command, name string) bool {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return value
}

// resolveSource prefers the file flag, then the inline text and then the
// file from config or environment.
func resolveSource(name, file, text, configured string) source.Source {
	if strings.TrimSpace(file) == "" && strings.TrimSpace(text) == "" {
		file = configured
	}

	return source.Source{Name: name, File: file, Value: text}
}

func inputFields(src source.Source) []zap.Field {
	return logger.StringFields(
		logger.StringField{Key: "input", Value: src.Name},
		logger.StringField{Key: logger.FieldSource, Value: src.Kind()},
	)
}

func askMissing(inputs []source.Source) error {
	for i := range inputs {
		if inputs[i].Kind() != "none" {
			continue
		}

		prompt := promptui.Prompt{
			Label: fmt.Sprintf("Path to the %s file (- for stdin)", inputs[i].Name),
			Validate: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("path is required")
				}
				return nil
			},
		}

		path, err := prompt.Run()
		if err != nil {
			return err
		}
		inputs[i].File = path
	}

	return nil
}

func loadInputs(inputs []source.Source) ([]string, error) {
	if n := source.CountStdin(inputs...); n > 1 {
		return nil, fmt.Errorf("only one input can be read from stdin, got %d", n)
	}

	texts := make([]string, 0, len(inputs))
	for _, src := range inputs {
		text, err := source.Load(src)
		if err != nil {
			return nil, err
		}
		texts = append(texts, text)
	}

	return texts, nil
}

func render(result *analysis.Result, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case FormatText:
		var b strings.Builder
		writeReport(&b, result)
		return []byte(b.String()), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// writeReport prints result for humans, suggestions grouped by category.
func writeReport(w io.Writer, result *analysis.Result) {
	fmt.Fprintf(w, "Score: %d/100\n", result.Score)
	if result.Message != "" {
		fmt.Fprintf(w, "Message: %s\n", result.Message)
	}
	fmt.Fprintf(w, "Matched keywords: %s\n", listOrNone(result.MatchedKeywords))
	fmt.Fprintf(w, "Missing keywords: %s\n", listOrNone(result.MissingKeywords))

	if len(result.KeywordFrequency) > 0 {
		fmt.Fprintln(w, "\nKeyword frequency:")
		for _, row := range result.KeywordFrequency {
			fmt.Fprintf(w, "  %s: job %d, resume %d\n", row.Keyword, row.JobDescriptionCount, row.ResumeCount)
		}
	}

	if len(result.Suggestions) == 0 {
		return
	}

	fmt.Fprintln(w, "\nSuggestions:")
	for _, category := range analysis.Categories {
		header := false
		for _, s := range result.Suggestions {
			if s.Category != category {
				continue
			}
			if !header {
				fmt.Fprintf(w, "  %s\n", category)
				header = true
			}
			fmt.Fprintf(w, "    %s. %s\n", s.ID, s.Text)
		}
	}
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == source.StdinPath {
		_, err := os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

