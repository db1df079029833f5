package executor

import (
	"strings"
	"time"
	"unicode"
)

// Kind classifies the shape of a command's output.
type Kind int

const (
	// KindTabular is whitespace-aligned output with a header line, such as
	// `kubectl get pods`.
	KindTabular Kind = iota

	// KindLogs is free-form line output, such as `kubectl logs`.
	KindLogs
)

// Output is the shaped result of one cluster's command invocation. For
// KindTabular each row starts with the cluster name followed by the
// column-split fields; for KindLogs each row is a single attributed line.
// Zero rows means the command produced nothing worth showing.
type Output struct {
	Kind Kind
	Rows [][]string
}

// Empty reports whether the output carries no rows.
func (o *Output) Empty() bool {
	return o == nil || len(o.Rows) == 0
}

// isLogsCommand reports whether the pass-through arguments invoke a log
// retrieval subcommand.
func isLogsCommand(args []string) bool {
	return len(args) > 0 && args[0] == "logs"
}

// ShapeLogs wraps every line of stdout as "[cluster][timestamp] line", one
// single-column row per line. Interior blank lines keep their place in the
// stream; wholly blank stdout shapes to no rows.
func ShapeLogs(cluster, stdout string, now time.Time) *Output {
	out := &Output{Kind: KindLogs}
	if strings.TrimSpace(stdout) == "" {
		return out
	}

	prefix := "[" + cluster + "][" + now.Format("2006-01-02 15:04:05") + "] "
	for _, line := range strings.Split(strings.TrimSuffix(stdout, "\n"), "\n") {
		out.Rows = append(out.Rows, []string{prefix + line})
	}
	return out
}

// ShapeTabular treats the first non-blank line of stdout as a header whose
// token count fixes the column split for every following line, and prefixes
// each resulting row with the cluster name. The header itself is consumed,
// not emitted. A line with extra tokens keeps the excess in its final
// field.
func ShapeTabular(cluster, stdout string) *Output {
	var lines []string
	for _, line := range strings.Split(stdout, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	out := &Output{Kind: KindTabular}
	if len(lines) == 0 {
		return out
	}

	columns := len(strings.Fields(lines[0]))
	for _, line := range lines[1:] {
		row := append([]string{cluster}, splitColumns(line, columns)...)
		out.Rows = append(out.Rows, row)
	}
	return out
}

// splitColumns splits s into at most n whitespace-delimited fields, keeping
// any remaining text in the final field.
func splitColumns(s string, n int) []string {
	if n <= 0 {
		return nil
	}

	fields := make([]string, 0, n)
	s = strings.TrimSpace(s)
	for len(fields) < n-1 {
		i := strings.IndexFunc(s, unicode.IsSpace)
		if i < 0 {
			break
		}
		fields = append(fields, s[:i])
		s = strings.TrimLeftFunc(s[i:], unicode.IsSpace)
	}
	if s != "" {
		fields = append(fields, s)
	}
	return fields
}
