package analysis

import (
	"strings"
	"unicode/utf8"

	"github.com/spigell/resume-matcher/internal/textnorm"
)

const (
	summaryMarker    = "summary"
	experienceMarker = "experience"
)

// resumeIndex answers the questions the pipeline asks about the resume.
type resumeIndex struct {
	raw        string
	normalized string
	policy     *Policy
}

func newResumeIndex(resume string, policy *Policy) *resumeIndex {
	return &resumeIndex{
		raw:        resume,
		normalized: textnorm.Normalize(resume),
		policy:     policy,
	}
}

// Contains reports whether the normalized resume contains the already
// normalized key.
func (r *resumeIndex) Contains(key string) bool {
	return strings.Contains(r.normalized, key)
}

// IsDuplicate reports whether text repeats content the resume already has,
// either verbatim or by sharing most of its longer words.
func (r *resumeIndex) IsDuplicate(text string) bool {
	candidate := textnorm.Normalize(text)
	if utf8.RuneCountInString(candidate) < r.policy.MinDuplicateLength {
		return false
	}
	if strings.Contains(r.normalized, candidate) {
		return true
	}

	var tokens []string
	for _, token := range strings.Fields(candidate) {
		if utf8.RuneCountInString(token) > r.policy.ShortTokenLength {
			tokens = append(tokens, token)
		}
	}
	if len(tokens) == 0 || len(tokens) < r.policy.MinOverlapTokens {
		return false
	}

	found := 0
	for _, token := range tokens {
		if strings.Contains(r.normalized, token) {
			found++
		}
	}

	return float64(found)/float64(len(tokens)) >= r.policy.OverlapThreshold
}

// HasSummary guesses whether the resume already opens with a summary or
// profile section.
func (r *resumeIndex) HasSummary() bool {
	if utf8.RuneCountInString(r.normalized) <= r.policy.SummaryMinLength {
		return false
	}
	if strings.Contains(r.normalized, summaryMarker) {
		return true
	}
	if utf8.RuneCountInString(strings.TrimSpace(r.raw)) <= r.policy.SummaryLongResumeLength {
		return false
	}

	idx := strings.Index(r.normalized, experienceMarker)
	if idx == -1 {
		return false
	}
	return utf8.RuneCountInString(r.normalized[:idx]) > r.policy.SummaryExperienceOffset
}

// IsDuplicateOfResume reports whether candidate repeats content of resume
// under the thresholds of policy.
func IsDuplicateOfResume(candidate, resume string, policy Policy) bool {
	return newResumeIndex(resume, &policy).IsDuplicate(candidate)
}
