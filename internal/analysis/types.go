package analysis

// Category is the resume section a suggestion targets.
type Category string

const (
	CategoryExperience Category = "Experience"
	CategorySkills     Category = "Skills"
	CategoryEducation  Category = "Education"
	CategorySummary    Category = "Summary"
)

// Categories lists every accepted suggestion category.
var Categories = []Category{
	CategoryExperience,
	CategorySkills,
	CategoryEducation,
	CategorySummary,
}

// Valid reports whether c is one of Categories. The comparison is case-sensitive.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Suggestion is a piece of text the user can paste into the resume.
type Suggestion struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Text     string   `json:"text"`
}

// KeywordCount reports how often a keyword occurs in each document.
type KeywordCount struct {
	Keyword             string `json:"keyword"`
	JobDescriptionCount int    `json:"jobDescriptionCount"`
	ResumeCount         int    `json:"resumeCount"`
}

// Result is the normalized analysis returned to callers.
type Result struct {
	Score            int            `json:"score"`
	Message          string         `json:"message,omitempty"`
	MatchedKeywords  []string       `json:"matchedKeywords"`
	MissingKeywords  []string       `json:"missingKeywords"`
	KeywordFrequency []KeywordCount `json:"keywordFrequency"`
	Suggestions      []Suggestion   `json:"suggestions"`
}

// PerfectMatch reports whether the result is a full match.
func (r *Result) PerfectMatch() bool {
	return r.Score == maxScore
}
