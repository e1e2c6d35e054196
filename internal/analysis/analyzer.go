// Package analysis turns a raw completion about a resume and a job description
// into a validated match result.
package analysis

import (
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/filtering"
	"github.com/spigell/resume-matcher/internal/jsonextract"
	"github.com/spigell/resume-matcher/internal/logger"
)

const previewLength = 200

// Analyzer runs the normalization pipeline. It is safe for concurrent use.
type Analyzer struct {
	rules  *rules
	logger *zap.Logger
}

// New validates policy and prepares its patterns.
func New(policy Policy, log *zap.Logger) (*Analyzer, error) {
	compiled, err := compile(policy)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		rules:  compiled,
		logger: logger.WithFields(log),
	}, nil
}

// Policy returns a copy of the policy the analyzer runs with.
func (a *Analyzer) Policy() Policy {
	p := a.rules.Policy
	p.InstructionalPrefixes = append([]string(nil), p.InstructionalPrefixes...)
	p.NonSkillPhrases = append([]string(nil), p.NonSkillPhrases...)
	p.DisabledFilters = append([]string(nil), p.DisabledFilters...)
	return p
}

// Filters describes the suggestion filters in the order they run.
func (a *Analyzer) Filters() []filtering.Status {
	s := newSanitizer(a.rules, newResumeIndex("", &a.rules.Policy), a.logger)
	return filtering.Describe(s.filters())
}

// Analyze extracts the model answer from raw and reconciles it with the
// resume. The only error it returns is a *jsonextract.ParseError.
func (a *Analyzer) Analyze(resumeText, jobDescription, raw string) (*Result, error) {
	log := a.logger.With(logger.InputFields(resumeText, jobDescription, raw)...)

	extracted, err := jsonextract.Object(raw)
	if err != nil {
		log.Warn("model response is not a JSON object",
			zap.String("response_preview", logger.Preview(raw, previewLength)),
			zap.Error(err),
		)
		return nil, err
	}
	log.Debug("model response extracted", zap.String("strategy", extracted.Strategy))

	object := extracted.Object
	resume := newResumeIndex(resumeText, &a.rules.Policy)

	suggestions := newSanitizer(a.rules, resume, log).Sanitize(decodeCandidates(object["suggestions"]))

	matched, missing := reconcileKeywords(
		decodeStrings(object["matchedKeywords"]),
		decodeStrings(object["missingKeywords"]),
		resume,
		a.rules.MinKeywordLength,
	)

	modelScore := clampScore(object["score"])
	result := reconcileScore(scoreInput{
		modelScore:       modelScore,
		message:          decodeMessage(object["message"]),
		matched:          matched,
		missing:          missing,
		keywordFrequency: decodeKeywordFrequency(object["keywordFrequency"]),
		suggestions:      suggestions,
	}, a.rules.PerfectMatchMessage)

	log.Debug("analysis completed",
		zap.Int("model_score", modelScore),
		zap.Int("score", result.Score),
		zap.Int("matched_keywords", len(result.MatchedKeywords)),
		zap.Int("missing_keywords", len(result.MissingKeywords)),
		zap.Int("keyword_frequency", len(result.KeywordFrequency)),
		zap.Int("suggestions", len(result.Suggestions)),
	)

	return result, nil
}
