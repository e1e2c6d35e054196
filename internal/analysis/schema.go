package analysis

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "embed"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidResult is wrapped by ValidateResult failures.
var ErrInvalidResult = errors.New("result violates the response contract")

//go:embed result.schema.json
var resultSchema string

var loadResultSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(resultSchema))
})

// ValidateResult checks result against the JSON schema of the response.
func ValidateResult(result *Result) error {
	if result == nil {
		return fmt.Errorf("%w: result is nil", ErrInvalidResult)
	}

	schema, err := loadResultSchema()
	if err != nil {
		return fmt.Errorf("load result schema: %w", err)
	}

	validation, err := schema.Validate(gojsonschema.NewGoLoader(result))
	if err != nil {
		return fmt.Errorf("validate result: %w", err)
	}
	if validation.Valid() {
		return nil
	}

	problems := make([]string, 0, len(validation.Errors()))
	for _, desc := range validation.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidResult, strings.Join(problems, "; "))
}
