package output

import (
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aryankumar/multikube/internal/executor"
)

// YAMLFormatter renders rows as YAML, mirroring the JSON structure.
type YAMLFormatter struct {
	options *Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(opts *Options) *YAMLFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &YAMLFormatter{
		options: opts,
	}
}

// Render encodes the aggregate results to w.
func (f *YAMLFormatter) Render(w io.Writer, results []executor.Result) error {
	kind, rows := Collect(results)

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if kind == executor.KindLogs {
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, strings.Join(row, " "))
		}
		return encoder.Encode(lines)
	}

	return encoder.Encode(rowObjects(rows))
}
