package output

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/aryankumar/multikube/internal/executor"
)

// JSONFormatter renders rows as JSON. Tabular rows become objects keyed by
// the lowercased fixed header; log output becomes an array of attributed
// lines. An empty aggregate encodes as an empty array.
type JSONFormatter struct {
	options *Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(opts *Options) *JSONFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &JSONFormatter{
		options: opts,
	}
}

// Render encodes the aggregate results to w.
func (f *JSONFormatter) Render(w io.Writer, results []executor.Result) error {
	kind, rows := Collect(results)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if kind == executor.KindLogs {
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, strings.Join(row, " "))
		}
		return encoder.Encode(lines)
	}

	return encoder.Encode(rowObjects(rows))
}

// rowObjects zips each row against the fixed header. Fields past the
// header are dropped; short rows simply omit the trailing keys.
func rowObjects(rows [][]string) []map[string]string {
	items := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		item := make(map[string]string, len(tableHeader))
		for i, h := range tableHeader {
			if i < len(row) {
				item[strings.ToLower(h)] = row[i]
			}
		}
		items = append(items, item)
	}
	return items
}
