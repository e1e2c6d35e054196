package analysis

import (
	"unicode/utf8"

	"github.com/spigell/resume-matcher/internal/textnorm"
)

func keywordKey(keyword string) string {
	return textnorm.Normalize(stripQuotes(keyword))
}

// uniqueKeywords keeps the first keyword of every comparison key.
func uniqueKeywords(keywords []string) ([]string, map[string]struct{}) {
	seen := make(map[string]struct{}, len(keywords))
	result := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		key := keywordKey(keyword)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, keyword)
	}
	return result, seen
}

// reconcileKeywords moves keywords the model reported as missing into matched
// when the resume actually contains them. The returned lists never share a
// comparison key.
func reconcileKeywords(matched, missing []string, resume *resumeIndex, minLength int) ([]string, []string) {
	matched, matchedKeys := uniqueKeywords(matched)
	missing, _ = uniqueKeywords(missing)

	stillMissing := make([]string, 0, len(missing))
	for _, keyword := range missing {
		cleaned := stripQuotes(keyword)
		key := textnorm.Normalize(cleaned)

		if _, ok := matchedKeys[key]; ok {
			continue
		}
		if key == "" || utf8.RuneCountInString(key) < minLength {
			stillMissing = append(stillMissing, keyword)
			continue
		}
		if !resume.Contains(key) {
			stillMissing = append(stillMissing, keyword)
			continue
		}

		matched = append(matched, cleaned)
		matchedKeys[key] = struct{}{}
	}

	return matched, stillMissing
}
