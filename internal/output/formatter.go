package output

import (
	"io"

	"github.com/aryankumar/multikube/internal/executor"
)

// Format represents the output format type
type Format string

const (
	// FormatTable renders rows in a plain table (kubectl-style)
	FormatTable Format = "table"
	// FormatJSON renders rows as JSON
	FormatJSON Format = "json"
	// FormatYAML renders rows as YAML
	FormatYAML Format = "yaml"
)

// Formatter renders the aggregate fan-out results to a writer.
type Formatter interface {
	Render(w io.Writer, results []executor.Result) error
}

// Option is a functional option for configuring formatters
type Option func(*Options)

// Options holds configuration for formatters
type Options struct {
	// NoColor disables color output
	NoColor bool
}

// WithNoColor disables color output
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// NewFormatter creates a formatter for the specified format, defaulting to
// the table formatter.
func NewFormatter(format Format, opts ...Option) Formatter {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	switch format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		fallthrough
	default:
		return NewTableFormatter(options)
	}
}

// tableHeader is the fixed header every tabular rendering uses, regardless
// of which columns the pass-through command actually produced.
var tableHeader = []string{"CLUSTER", "NAME", "READY", "STATUS", "RESTARTS", "AGE"}

// Collect flattens the successful, non-empty results into a single row
// list, preserving aggregate order. The returned kind is taken from the
// successful outputs, empty ones included, so an all-empty aggregate still
// reports what kind of command ran; one invocation only ever produces one
// kind.
func Collect(results []executor.Result) (executor.Kind, [][]string) {
	kind := executor.KindTabular
	var rows [][]string
	for _, r := range results {
		if r.Error != nil || r.Output == nil {
			continue
		}
		kind = r.Output.Kind
		if r.Output.Empty() {
			continue
		}
		rows = append(rows, r.Output.Rows...)
	}
	return kind, rows
}
