package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/aryankumar/multikube/internal/executor"
)

// noDataMessage is printed when every cluster came back empty.
const noDataMessage = "No data returned from the kubectl command."

// TableFormatter renders rows as a plain table (kubectl-style). Log output
// bypasses the table and is emitted line by line.
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Render writes the aggregate results. Tabular rows go under the fixed
// CLUSTER/NAME/READY/STATUS/RESTARTS/AGE header; log lines are printed
// as-is in aggregate order. An empty tabular aggregate produces an
// informational message; an empty log stream prints nothing.
func (f *TableFormatter) Render(w io.Writer, results []executor.Result) error {
	kind, rows := Collect(results)
	if len(rows) == 0 {
		if kind != executor.KindLogs {
			fmt.Fprintln(w, noDataMessage)
		}
		return nil
	}

	if kind == executor.KindLogs {
		for _, row := range rows {
			fmt.Fprintln(w, strings.Join(row, " "))
		}
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)

	headers := tableHeader
	if !colors.Disabled {
		colored := make([]string, len(headers))
		for i, h := range headers {
			colored[i] = colors.Header(h)
		}
		headers = colored
	}
	table.SetHeader(headers)

	for _, row := range rows {
		if !colors.Disabled && len(row) > 0 {
			row = append([]string{colors.ClusterName(row[0])}, row[1:]...)
		}
		table.Append(row)
	}
	table.Render()

	return nil
}

// createTable creates a new table with kubectl-style configuration
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t") // Tab-separated like kubectl
	table.SetNoWhiteSpace(true)

	return table
}
