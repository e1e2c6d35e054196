package analysis

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// The model response is decoded field by field from the generic object so
// that one malformed entry never discards its siblings.

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asNumber accepts JSON numbers only. Numbers outside the float64 range come
// back as ±Inf.
func asNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(val.String(), 64)
		if err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
				return f, true
			}
			return 0, false
		}
		return f, true
	case float64:
		return val, true
	case int:
		return float64(val), true
	default:
		return 0, false
	}
}

// decodeStrings keeps the string elements of an array, in order.
func decodeStrings(v any) []string {
	items, _ := v.([]any)
	result := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := asString(item); ok {
			result = append(result, s)
		}
	}
	return result
}

func decodeMessage(v any) string {
	s, _ := asString(v)
	return s
}

func decodeKeywordFrequency(v any) []KeywordCount {
	items, _ := v.([]any)
	result := make([]KeywordCount, 0, len(items))
	for _, item := range items {
		row, ok := item.(map[string]any)
		if !ok {
			continue
		}

		keyword, ok := asString(row["keyword"])
		if !ok || strings.TrimSpace(keyword) == "" {
			continue
		}
		jobCount, ok := asNumber(row["jobDescriptionCount"])
		if !ok || math.IsInf(jobCount, 0) {
			continue
		}
		resumeCount, ok := asNumber(row["resumeCount"])
		if !ok || math.IsInf(resumeCount, 0) {
			continue
		}

		result = append(result, KeywordCount{
			Keyword:             strings.TrimSpace(keyword),
			JobDescriptionCount: nonNegativeRound(jobCount),
			ResumeCount:         nonNegativeRound(resumeCount),
		})
	}
	return result
}

// candidate is a suggestion as the model sent it.
type candidate struct {
	id       string
	category Category
	text     string
	// wellFormed is false unless id, category and text were all strings.
	wellFormed bool
}

func decodeCandidates(v any) []candidate {
	items, _ := v.([]any)
	result := make([]candidate, 0, len(items))
	for _, item := range items {
		var c candidate
		if fields, ok := item.(map[string]any); ok {
			id, idOK := asString(fields["id"])
			category, categoryOK := asString(fields["category"])
			text, textOK := asString(fields["text"])
			c = candidate{
				id:         id,
				category:   Category(category),
				text:       text,
				wellFormed: idOK && categoryOK && textOK,
			}
		}
		result = append(result, c)
	}
	return result
}

// nonNegativeRound rounds f and clamps it to [0, math.MaxInt32].
func nonNegativeRound(f float64) int {
	return int(math.Min(math.MaxInt32, math.Max(0, math.Round(f))))
}
