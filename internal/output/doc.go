// Package output renders aggregated fan-out results for the terminal.
//
// Three formatters share one interface. The table formatter is the
// default: tabular rows appear under the fixed CLUSTER, NAME, READY,
// STATUS, RESTARTS, AGE header in kubectl's borderless style, while log
// output skips the table entirely and is printed line by line in
// aggregate order. The JSON and YAML formatters emit the same rows as
// structured documents for scripting.
//
// An aggregate with no rows at all renders as an informational "no data"
// message (table) or an empty document (JSON/YAML).
//
// Colors are applied only when writing to a terminal, and can be forced
// off:
//
//	formatter := output.NewFormatter(output.FormatTable, output.WithNoColor(noColor))
//	if err := formatter.Render(os.Stdout, results); err != nil {
//	    return err
//	}
//
// Formatters never re-sort or deduplicate: rows appear in the order the
// clusters finished.
package output
