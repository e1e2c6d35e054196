package analysis

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/filtering"
	"github.com/spigell/resume-matcher/internal/textnorm"
)

const disabledByConfig = "disabled by configuration"

// rewriteFunc turns the text of one suggestion into zero or more pasteable texts.
type rewriteFunc func(s *sanitizer, text string) []string

var rewriters = map[Category]rewriteFunc{
	CategorySkills:     (*sanitizer).rewriteSkill,
	CategoryExperience: (*sanitizer).rewriteBullet,
	CategorySummary:    (*sanitizer).rewriteBullet,
	CategoryEducation:  (*sanitizer).verbatim,
}

// sanitizer holds the state of a single Sanitize run.
type sanitizer struct {
	rules  *rules
	resume *resumeIndex
	logger *zap.Logger

	emittedSkills map[string]struct{}
}

func newSanitizer(r *rules, resume *resumeIndex, logger *zap.Logger) *sanitizer {
	return &sanitizer{
		rules:         r,
		resume:        resume,
		logger:        logger,
		emittedSkills: make(map[string]struct{}),
	}
}

// filters builds the ordered filter chain. The chain is rebuilt on every run
// since some predicates remember what they have seen.
func (s *sanitizer) filters() []filtering.Filter[candidate] {
	seenSkills := make(map[string]struct{})
	hasSummary := s.resume.HasSummary()

	steps := []filtering.Filter[candidate]{
		filtering.New(FilterShape, func(c candidate) bool {
			return c.wellFormed
		}, filtering.Required()),

		filtering.New(FilterCategory, func(c candidate) bool {
			return c.category.Valid()
		}, filtering.Required()),

		filtering.New(FilterResumeDuplicate, func(c candidate) bool {
			return !s.resume.IsDuplicate(c.text)
		},
			filtering.WithDetail("overlap-threshold", strconv.FormatFloat(s.rules.OverlapThreshold, 'f', -1, 64)),
			filtering.WithDetail("min-duplicate-length", strconv.Itoa(s.rules.MinDuplicateLength)),
		),

		filtering.New(FilterExistingSummary, func(c candidate) bool {
			return c.category != CategorySummary || !hasSummary
		}),

		filtering.New(FilterNonSkill, func(c candidate) bool {
			return c.category != CategorySkills || !s.rules.isNonSkill(c.text)
		}, filtering.WithDetail("phrases", strconv.Itoa(len(s.rules.nonSkill)))),

		filtering.New(FilterRepeatedSkill, func(c candidate) bool {
			if c.category != CategorySkills {
				return true
			}
			key := textnorm.Normalize(c.text)
			if _, seen := seenSkills[key]; seen {
				return false
			}
			seenSkills[key] = struct{}{}
			return true
		}, filtering.Required()),
	}

	for _, name := range s.rules.DisabledFilters {
		filtering.DisableByName(steps, name, disabledByConfig)
	}

	return steps
}

// Sanitize filters the model suggestions, rewrites instructional prose into
// pasteable text and numbers the survivors from 1.
func (s *sanitizer) Sanitize(candidates []candidate) []Suggestion {
	kept, _ := filtering.Run(s.logger, s.filters(), candidates)

	result := make([]Suggestion, 0, len(kept))
	for _, c := range kept {
		rewrite, ok := rewriters[c.category]
		if !ok {
			continue
		}
		for _, text := range rewrite(s, c.text) {
			result = append(result, Suggestion{
				ID:       strconv.Itoa(len(result) + 1),
				Category: c.category,
				Text:     text,
			})
		}
	}

	s.logger.Debug("suggestions sanitized",
		zap.Int("received", len(candidates)),
		zap.Int("filtered", len(kept)),
		zap.Int("emitted", len(result)),
	)

	return result
}

// rewriteSkill reduces a Skills suggestion to bare skill names. Instructional
// text such as "Add 'OAuth', 'OpenID Connect'" is split into its parts.
func (s *sanitizer) rewriteSkill(text string) []string {
	var names []string
	if s.rules.isInstructional(text) {
		for _, match := range s.rules.quotedSkill.FindAllStringSubmatch(text, -1) {
			names = append(names, strings.TrimSpace(match[1]))
		}
		if len(names) == 0 {
			if idx := strings.LastIndex(text, ":"); idx != -1 {
				for _, part := range strings.Split(text[idx+1:], ",") {
					names = append(names, stripQuotes(strings.TrimSpace(part)))
				}
			}
		}
	} else {
		names = append(names, strings.TrimSpace(stripQuotes(text)))
	}

	accepted := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if s.rules.enabled(FilterNonSkill) && s.rules.isNonSkill(name) {
			continue
		}
		if s.rules.enabled(FilterResumeDuplicate) && s.resume.IsDuplicate(name) {
			continue
		}
		key := textnorm.Normalize(name)
		if _, seen := s.emittedSkills[key]; seen {
			continue
		}
		s.emittedSkills[key] = struct{}{}
		accepted = append(accepted, name)
	}
	return accepted
}

// rewriteBullet extracts the bullet or summary the model wrapped in an
// instruction. Text without an instructional prefix is kept as is.
func (s *sanitizer) rewriteBullet(text string) []string {
	if !s.rules.isInstructional(text) {
		return []string{text}
	}

	if match := s.rules.quotedBullet.FindStringSubmatch(text); match != nil {
		return []string{strings.TrimSpace(match[1])}
	}

	if idx := strings.LastIndex(text, ":"); idx != -1 {
		after := stripQuotes(strings.TrimSpace(text[idx+1:]))
		if utf8.RuneCountInString(after) > s.rules.MinColonBulletLength {
			return []string{after}
		}
	}

	s.logger.Debug("dropping instructional suggestion without extractable content",
		zap.Int("text_length", utf8.RuneCountInString(text)),
	)
	return nil
}

func (s *sanitizer) verbatim(text string) []string {
	return []string{text}
}

// stripQuotes removes one quote character from each end of s, when present.
func stripQuotes(s string) string {
	if s != "" && isQuote(s[0]) {
		s = s[1:]
	}
	if s != "" && isQuote(s[len(s)-1]) {
		s = s[:len(s)-1]
	}
	return s
}

func isQuote(b byte) bool {
	return b == '"' || b == '\''
}
