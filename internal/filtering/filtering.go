package filtering

import (
	"sort"

	"go.uber.org/zap"
)

// Filter represents a single filtering step applied to a list of items.
type Filter[T any] interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	// Keep reports whether item survives the step.
	Keep(item T) bool
}

// Step describes the result of executing a filtering step.
type Step struct {
	Name    string
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

type predicateFilter[T any] struct {
	name     string
	keep     func(T) bool
	required bool
	disabled bool
	reason   string
	details  map[string]string
}

// Option customizes a filter built with New.
type Option func(*options)

type options struct {
	required bool
	details  map[string]string
}

// Required makes the filter ignore Disable calls.
func Required() Option {
	return func(o *options) { o.required = true }
}

// WithDetail adds a key/value pair reported by Describe.
func WithDetail(key, value string) Option {
	return func(o *options) {
		if o.details == nil {
			o.details = make(map[string]string)
		}
		o.details[key] = value
	}
}

// New creates a filter that keeps the items accepted by keep.
func New[T any](name string, keep func(T) bool, opts ...Option) Filter[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &predicateFilter[T]{
		name:     name,
		keep:     keep,
		required: o.required,
		details:  o.details,
	}
}

func (f *predicateFilter[T]) Name() string { return f.name }

func (f *predicateFilter[T]) Disable(reason string) {
	if f.required {
		return
	}
	f.disabled = true
	f.reason = reason
}

func (f *predicateFilter[T]) IsEnabled() bool { return !f.disabled }

func (f *predicateFilter[T]) Keep(item T) bool { return f.keep(item) }

func (f *predicateFilter[T]) Status() Status {
	status := Status{Name: f.name, Enabled: !f.disabled, Reason: f.reason}
	if len(f.details) > 0 {
		status.Details = make(map[string]string, len(f.details))
		for k, v := range f.details {
			status.Details[k] = v
		}
	}
	if f.required {
		if status.Details == nil {
			status.Details = make(map[string]string, 1)
		}
		status.Details["required"] = "true"
	}
	return status
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
// Unknown names are ignored.
func DisableByName[T any](steps []Filter[T], name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run applies the enabled filters in order and returns the surviving items
// together with per-step counts. The input slice is never modified.
func Run[T any](logger *zap.Logger, steps []Filter[T], items []T) ([]T, []Step) {
	if logger == nil {
		logger = zap.NewNop()
	}

	current := append(make([]T, 0, len(items)), items...)
	report := make([]Step, 0, len(steps))
	for _, step := range steps {
		if !step.IsEnabled() {
			logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next := make([]T, 0, len(current))
		for _, item := range current {
			if step.Keep(item) {
				next = append(next, item)
			}
		}

		info := Step{
			Name:    step.Name(),
			Initial: len(current),
			Dropped: len(current) - len(next),
			Left:    len(next),
		}
		logger.Debug("filter step",
			zap.String("name", info.Name),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		report = append(report, info)
		current = next
	}

	return current, report
}

// Describe returns status entries for the provided filters.
func Describe[T any](steps []Filter[T]) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// DetailKeys returns the sorted detail keys of a status, for stable output.
func (s Status) DetailKeys() []string {
	keys := make([]string, 0, len(s.Details))
	for k := range s.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
