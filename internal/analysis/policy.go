package analysis

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/spigell/resume-matcher/internal/textnorm"
)

// ErrInvalidPolicy is wrapped by every Policy validation error.
var ErrInvalidPolicy = errors.New("invalid analysis policy")

// Names of the suggestion filters. Only the ones listed in ToggleableFilters
// can be switched off through Policy.DisabledFilters.
const (
	FilterShape           = "shape"
	FilterCategory        = "category"
	FilterResumeDuplicate = "resume_duplicate"
	FilterExistingSummary = "existing_summary"
	FilterNonSkill        = "non_skill"
	// FilterRepeatedSkill drops Skills whose normalized text was already seen.
	FilterRepeatedSkill = "repeated_skill"
)

// ToggleableFilters can be listed in Policy.DisabledFilters.
var ToggleableFilters = []string{
	FilterResumeDuplicate,
	FilterExistingSummary,
	FilterNonSkill,
}

// regexp/syntax refuses repeat counts above this.
const maxRepeat = 1000

const defaultPerfectMatchMessage = "Congratulations! Your resume perfectly matches this job description. No additional changes are required."

// Policy holds the tunable thresholds of the pipeline.
type Policy struct {
	// MinDuplicateLength is the shortest normalized text (in runes) that is
	// checked against the resume at all.
	MinDuplicateLength int `mapstructure:"min-duplicate-length" json:"min-duplicate-length"`
	// Tokens of this many runes or fewer are ignored by the overlap check.
	ShortTokenLength int `mapstructure:"short-token-length" json:"short-token-length"`
	// MinOverlapTokens is the number of long tokens needed for the overlap check.
	MinOverlapTokens int     `mapstructure:"min-overlap-tokens" json:"min-overlap-tokens"`
	OverlapThreshold float64 `mapstructure:"overlap-threshold" json:"overlap-threshold"`

	SummaryMinLength        int `mapstructure:"summary-min-length" json:"summary-min-length"`
	SummaryLongResumeLength int `mapstructure:"summary-long-resume-length" json:"summary-long-resume-length"`
	SummaryExperienceOffset int `mapstructure:"summary-experience-offset" json:"summary-experience-offset"`

	// Missing keywords shorter than this are never moved to matched.
	MinKeywordLength int `mapstructure:"min-keyword-length" json:"min-keyword-length"`

	MinQuotedBulletLength int `mapstructure:"min-quoted-bullet-length" json:"min-quoted-bullet-length"`
	MinColonBulletLength  int `mapstructure:"min-colon-bullet-length" json:"min-colon-bullet-length"`
	MaxQuotedSkillLength  int `mapstructure:"max-quoted-skill-length" json:"max-quoted-skill-length"`

	InstructionalPrefixes []string `mapstructure:"instructional-prefixes" json:"instructional-prefixes"`
	NonSkillPhrases       []string `mapstructure:"non-skill-phrases" json:"non-skill-phrases"`

	PerfectMatchMessage string   `mapstructure:"perfect-match-message" json:"perfect-match-message"`
	DisabledFilters     []string `mapstructure:"disabled-filters" json:"disabled-filters"`
}

// DefaultPolicy returns the thresholds the pipeline was tuned with.
func DefaultPolicy() Policy {
	return Policy{
		MinDuplicateLength:      20,
		ShortTokenLength:        3,
		MinOverlapTokens:        5,
		OverlapThreshold:        0.65,
		SummaryMinLength:        200,
		SummaryLongResumeLength: 400,
		SummaryExperienceOffset: 150,
		MinKeywordLength:        3,
		MinQuotedBulletLength:   20,
		MinColonBulletLength:    20,
		MaxQuotedSkillLength:    60,
		InstructionalPrefixes: []string{
			"add",
			"consider",
			"include",
			"write",
			"you could",
			"you should",
			"you can",
			"this bullet",
		},
		NonSkillPhrases: []string{
			"root cause analysis",
			"system analysis",
			"functional design",
			"technical documentation",
		},
		PerfectMatchMessage: defaultPerfectMatchMessage,
	}
}

// Validate reports the first invalid field.
func (p Policy) Validate() error {
	nonNegative := []struct {
		name  string
		value int
	}{
		{"min-duplicate-length", p.MinDuplicateLength},
		{"short-token-length", p.ShortTokenLength},
		{"min-overlap-tokens", p.MinOverlapTokens},
		{"summary-min-length", p.SummaryMinLength},
		{"summary-long-resume-length", p.SummaryLongResumeLength},
		{"summary-experience-offset", p.SummaryExperienceOffset},
		{"min-keyword-length", p.MinKeywordLength},
		{"min-colon-bullet-length", p.MinColonBulletLength},
	}
	for _, field := range nonNegative {
		if field.value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidPolicy, field.name, field.value)
		}
	}

	if p.OverlapThreshold <= 0 || p.OverlapThreshold > 1 {
		return fmt.Errorf("%w: overlap-threshold must be in (0, 1], got %v", ErrInvalidPolicy, p.OverlapThreshold)
	}
	if p.MinQuotedBulletLength < 1 || p.MinQuotedBulletLength > maxRepeat {
		return fmt.Errorf("%w: min-quoted-bullet-length must be in [1, %d], got %d", ErrInvalidPolicy, maxRepeat, p.MinQuotedBulletLength)
	}
	if p.MaxQuotedSkillLength < 1 || p.MaxQuotedSkillLength > maxRepeat {
		return fmt.Errorf("%w: max-quoted-skill-length must be in [1, %d], got %d", ErrInvalidPolicy, maxRepeat, p.MaxQuotedSkillLength)
	}

	if len(p.InstructionalPrefixes) == 0 {
		return fmt.Errorf("%w: instructional-prefixes must not be empty", ErrInvalidPolicy)
	}
	for i, prefix := range p.InstructionalPrefixes {
		if strings.TrimSpace(prefix) == "" {
			return fmt.Errorf("%w: instructional-prefixes[%d] is blank", ErrInvalidPolicy, i)
		}
	}
	for i, phrase := range p.NonSkillPhrases {
		if textnorm.Normalize(phrase) == "" {
			return fmt.Errorf("%w: non-skill-phrases[%d] is blank", ErrInvalidPolicy, i)
		}
	}

	for _, name := range p.DisabledFilters {
		if !slices.Contains(ToggleableFilters, name) {
			return fmt.Errorf("%w: filter %q cannot be disabled (allowed: %s)",
				ErrInvalidPolicy, name, strings.Join(ToggleableFilters, ", "))
		}
	}

	return nil
}

// rules is a Policy with its patterns compiled.
type rules struct {
	Policy

	instructional *regexp.Regexp
	quotedSkill   *regexp.Regexp
	quotedBullet  *regexp.Regexp
	nonSkill      []string
	disabled      map[string]struct{}
}

func compile(p Policy) (*rules, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	alternatives := make([]string, 0, len(p.InstructionalPrefixes))
	for _, prefix := range p.InstructionalPrefixes {
		words := strings.Fields(prefix)
		for i := range words {
			words[i] = regexp.QuoteMeta(words[i])
		}
		alternatives = append(alternatives, strings.Join(words, " "))
	}

	instructional, err := regexp.Compile(`(?i)^(?:` + strings.Join(alternatives, "|") + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("%w: instructional-prefixes: %w", ErrInvalidPolicy, err)
	}

	quotedSkill := regexp.MustCompile(fmt.Sprintf(`['"]([^'"]{1,%d})['"]`, p.MaxQuotedSkillLength))
	quotedBullet := regexp.MustCompile(fmt.Sprintf(`['"]([^'"]{%d,})['"]`, p.MinQuotedBulletLength))

	nonSkill := make([]string, 0, len(p.NonSkillPhrases))
	for _, phrase := range p.NonSkillPhrases {
		nonSkill = append(nonSkill, textnorm.Normalize(phrase))
	}

	disabled := make(map[string]struct{}, len(p.DisabledFilters))
	for _, name := range p.DisabledFilters {
		disabled[name] = struct{}{}
	}

	p.InstructionalPrefixes = slices.Clone(p.InstructionalPrefixes)
	p.NonSkillPhrases = slices.Clone(p.NonSkillPhrases)
	p.DisabledFilters = slices.Clone(p.DisabledFilters)

	return &rules{
		Policy:        p,
		instructional: instructional,
		quotedSkill:   quotedSkill,
		quotedBullet:  quotedBullet,
		nonSkill:      nonSkill,
		disabled:      disabled,
	}, nil
}

// enabled reports whether the filter called name should run.
func (r *rules) enabled(name string) bool {
	_, off := r.disabled[name]
	return !off
}

// isInstructional reports whether text starts with an instructional phrase
// such as "Add" or "You should".
func (r *rules) isInstructional(text string) bool {
	return r.instructional.MatchString(strings.TrimSpace(text))
}

// isNonSkill reports whether text names a methodology rather than a skill.
func (r *rules) isNonSkill(text string) bool {
	normalized := textnorm.Normalize(text)
	for _, phrase := range r.nonSkill {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}
