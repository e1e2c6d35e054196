// Package jsonextract recovers a JSON object from completion output that may be
// wrapped in markdown fences or commentary.
package jsonextract

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ErrParse is matched by every ParseError.
var ErrParse = errors.New("failed to parse model response")

// ParseError is returned when no strategy recovers a JSON object.
type ParseError struct {
	// Attempts holds the failure of each strategy that produced a candidate.
	Attempts []error
}

func (e *ParseError) Error() string {
	if len(e.Attempts) == 0 {
		return ErrParse.Error()
	}
	return fmt.Sprintf("%s: %s", ErrParse, errors.Join(e.Attempts...))
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *ParseError) Unwrap() []error { return e.Attempts }

// Strategy cuts a candidate JSON document out of raw model output.
// ok is false when the strategy does not apply to the text.
type Strategy struct {
	Name      string
	Candidate func(raw string) (candidate string, ok bool)
}

// Extracted is a recovered JSON object and the strategy that produced it.
type Extracted struct {
	Object   map[string]any
	Strategy string
}

var fencePattern = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)```")

// DefaultStrategies are tried in order until one yields an object.
var DefaultStrategies = []Strategy{
	{Name: "direct", Candidate: direct},
	{Name: "fenced", Candidate: fenced},
	{Name: "braces", Candidate: braces},
}

// Object runs DefaultStrategies against raw.
func Object(raw string) (*Extracted, error) {
	return ObjectWith(raw, DefaultStrategies)
}

// ObjectWith returns the object produced by the first successful strategy.
func ObjectWith(raw string, strategies []Strategy) (*Extracted, error) {
	var attempts []error
	for _, strategy := range strategies {
		candidate, ok := strategy.Candidate(raw)
		if !ok {
			continue
		}

		object, err := decodeObject(candidate)
		if err != nil {
			attempts = append(attempts, fmt.Errorf("%s: %w", strategy.Name, err))
			continue
		}

		return &Extracted{Object: object, Strategy: strategy.Name}, nil
	}

	return nil, &ParseError{Attempts: attempts}
}

func direct(raw string) (string, bool) {
	return strings.TrimSpace(raw), true
}

func fenced(raw string) (string, bool) {
	match := fencePattern.FindStringSubmatch(raw)
	if match == nil {
		return "", false
	}
	inner := strings.TrimSpace(match[1])
	return inner, inner != ""
}

func braces(raw string) (string, bool) {
	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first == -1 || last <= first {
		return "", false
	}
	return raw[first : last+1], true
}

// decodeObject keeps numbers as json.Number so that values outside the
// float64 range do not fail the whole document.
func decodeObject(candidate string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(candidate))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}

	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}

	object, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level value is %s, not an object", kind(value))
	}

	return object, nil
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "an array"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case json.Number:
		return "a number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
