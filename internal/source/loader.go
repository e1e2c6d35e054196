// Package source resolves the text inputs of a command from files, stdin or
// inline values.
package source

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// StdinPath makes Load read from Stdin instead of a file.
const StdinPath = "-"

// Stdin is read when a Source points at StdinPath.
var Stdin io.Reader = os.Stdin

// Source describes how to load a text input.
type Source struct {
	// Name is used in error messages to give more context about the input.
	Name string
	// Value is an inline value provided via configuration or flags.
	Value string
	// File points to a file containing the value, or StdinPath. When set it
	// takes precedence over Value.
	File string
}

// Kind reports where the value of src comes from: "stdin", "file", "inline"
// or "none".
func (src Source) Kind() string {
	switch file := strings.TrimSpace(src.File); {
	case file == StdinPath:
		return "stdin"
	case file != "":
		return "file"
	case src.Value != "":
		return "inline"
	default:
		return "none"
	}
}

// Load returns the resolved value from the provided source. When File is set
// it takes precedence over Value. The returned text is always trimmed. An
// error is returned when neither File nor Value contain any text.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "input"
	}

	file := strings.TrimSpace(src.File)
	switch file {
	case "":
	case StdinPath:
		data, err := io.ReadAll(Stdin)
		if err != nil {
			return "", fmt.Errorf("reading %s from stdin: %w", name, err)
		}
		if text := strings.TrimSpace(string(data)); text != "" {
			return text, nil
		}
		return "", fmt.Errorf("%s from stdin is empty", name)
	default:
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		if text := strings.TrimSpace(string(data)); text != "" {
			return text, nil
		}
		return "", fmt.Errorf("%s file %q is empty", name, file)
	}

	text := strings.TrimSpace(src.Value)
	if text == "" {
		return "", fmt.Errorf("%s is not configured", name)
	}

	return text, nil
}

// CountStdin returns how many of the sources read from stdin.
func CountStdin(sources ...Source) int {
	n := 0
	for _, src := range sources {
		if src.Kind() == "stdin" {
			n++
		}
	}
	return n
}
