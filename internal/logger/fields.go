package logger

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	// FieldResumeLength is the structured log field key for the resume length in runes.
	FieldResumeLength = "resume_length"
	// FieldJobLength is the structured log field key for the job description length in runes.
	FieldJobLength = "job_description_length"
	// FieldResponseLength is the structured log field key for the model response length in runes.
	FieldResponseLength = "response_length"
	// FieldSource is the structured log field key for where an input was read from.
	FieldSource = "source"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// If the logger is nil or no fields are supplied, the input logger is returned
// unchanged, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// InputFields describes the size of the three analysis inputs. The texts
// themselves are never logged.
func InputFields(resume, jobDescription, response string) []zap.Field {
	return []zap.Field{
		zap.Int(FieldResumeLength, utf8.RuneCountInString(resume)),
		zap.Int(FieldJobLength, utf8.RuneCountInString(jobDescription)),
		zap.Int(FieldResponseLength, utf8.RuneCountInString(response)),
	}
}

// Preview shortens the provided string to the specified limit, appending an ellipsis when truncated.
func Preview(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
