package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spigell/resume-matcher/internal/analysis"
	"github.com/spigell/resume-matcher/internal/filtering"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type policyReport struct {
	Policy  analysis.Policy    `json:"policy"`
	Filters []filtering.Status `json:"filters"`
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Print the effective analysis policy and the suggestion filters",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		printPolicy(cmd)
	},
}

func init() {
	rootCmd.AddCommand(policyCmd)

	policyCmd.Flags().StringP("format", "f", FormatText, "output format: json or text")
}

func printPolicy(cmd *cobra.Command) {
	logger, _, analyzer := setup()

	report := policyReport{Policy: analyzer.Policy(), Filters: analyzer.Filters()}

	var out []byte
	switch format := flagString(cmd, "format"); format {
	case FormatJSON:
		pretty, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			logger.Fatal("rendering policy", zap.Error(err))
		}
		out = append(pretty, '\n')
	case FormatText:
		var b strings.Builder
		writePolicy(&b, report)
		out = []byte(b.String())
	default:
		logger.Fatal("unsupported output format", zap.String("format", format))
	}

	if err := writeOutput("", out); err != nil {
		logger.Fatal("writing policy", zap.Error(err))
	}
}

func writePolicy(w io.Writer, report policyReport) {
	p := report.Policy

	fmt.Fprintln(w, "Duplicates:")
	fmt.Fprintf(w, "  min-duplicate-length: %d\n", p.MinDuplicateLength)
	fmt.Fprintf(w, "  short-token-length: %d\n", p.ShortTokenLength)
	fmt.Fprintf(w, "  min-overlap-tokens: %d\n", p.MinOverlapTokens)
	fmt.Fprintf(w, "  overlap-threshold: %g\n", p.OverlapThreshold)

	fmt.Fprintln(w, "Summary detection:")
	fmt.Fprintf(w, "  summary-min-length: %d\n", p.SummaryMinLength)
	fmt.Fprintf(w, "  summary-long-resume-length: %d\n", p.SummaryLongResumeLength)
	fmt.Fprintf(w, "  summary-experience-offset: %d\n", p.SummaryExperienceOffset)

	fmt.Fprintln(w, "Rewriting:")
	fmt.Fprintf(w, "  min-keyword-length: %d\n", p.MinKeywordLength)
	fmt.Fprintf(w, "  min-quoted-bullet-length: %d\n", p.MinQuotedBulletLength)
	fmt.Fprintf(w, "  min-colon-bullet-length: %d\n", p.MinColonBulletLength)
	fmt.Fprintf(w, "  max-quoted-skill-length: %d\n", p.MaxQuotedSkillLength)
	fmt.Fprintf(w, "  instructional-prefixes: %s\n", listOrNone(p.InstructionalPrefixes))
	fmt.Fprintf(w, "  non-skill-phrases: %s\n", listOrNone(p.NonSkillPhrases))
	fmt.Fprintf(w, "  perfect-match-message: %s\n", p.PerfectMatchMessage)

	fmt.Fprintln(w, "Filters:")
	for _, status := range report.Filters {
		state := "enabled"
		if !status.Enabled {
			state = "disabled"
			if status.Reason != "" {
				state += " (" + status.Reason + ")"
			}
		}
		fmt.Fprintf(w, "  %s: %s\n", status.Name, state)

		for _, key := range status.DetailKeys() {
			fmt.Fprintf(w, "    %s: %s\n", key, status.Details[key])
		}
	}
}
