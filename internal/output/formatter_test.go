package output

import (
	"errors"
	"reflect"
	"testing"

	"github.com/aryankumar/multikube/internal/executor"
)

func tabularResults() []executor.Result {
	return []executor.Result{
		{
			ClusterName: "prod-eks-1",
			Output: &executor.Output{Kind: executor.KindTabular, Rows: [][]string{
				{"prod-eks-1", "pod-1", "1/1", "Running", "0", "5d"},
				{"prod-eks-1", "pod-2", "0/1", "Pending", "2", "12h"},
			}},
		},
		{
			ClusterName: "dev-eks-1",
			Output: &executor.Output{Kind: executor.KindTabular, Rows: [][]string{
				{"dev-eks-1", "pod-9", "1/1", "Running", "1", "9d"},
			}},
		},
	}
}

func logsResults() []executor.Result {
	return []executor.Result{
		{ClusterName: "prod-eks-1", Output: &executor.Output{Kind: executor.KindLogs, Rows: [][]string{
			{"[prod-eks-1][2026-01-02 15:04:05] server started"},
			{"[prod-eks-1][2026-01-02 15:04:05] listening on :8080"},
		}}},
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		want   string
	}{
		{name: "table", format: FormatTable, want: "*output.TableFormatter"},
		{name: "json", format: FormatJSON, want: "*output.JSONFormatter"},
		{name: "yaml", format: FormatYAML, want: "*output.YAMLFormatter"},
		{name: "unknown defaults to table", format: Format("bogus"), want: "*output.TableFormatter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFormatter(tt.format, WithNoColor(true))
			if got := reflect.TypeOf(f).String(); got != tt.want {
				t.Errorf("NewFormatter(%q) = %s, want %s", tt.format, got, tt.want)
			}
		})
	}
}

func TestCollect(t *testing.T) {
	results := tabularResults()
	results = append(results,
		executor.Result{ClusterName: "broken", Error: errors.New("unreachable")},
		executor.Result{ClusterName: "quiet", Output: &executor.Output{Kind: executor.KindTabular}},
	)

	kind, rows := Collect(results)
	if kind != executor.KindTabular {
		t.Errorf("Collect() kind = %v, want KindTabular", kind)
	}
	if len(rows) != 3 {
		t.Fatalf("Collect() returned %d rows, want 3", len(rows))
	}
	// Aggregate order is preserved: prod rows first, then dev.
	if rows[0][1] != "pod-1" || rows[1][1] != "pod-2" || rows[2][1] != "pod-9" {
		t.Errorf("Collect() rows out of order: %v", rows)
	}
}

func TestCollectLogsKind(t *testing.T) {
	kind, rows := Collect(logsResults())
	if kind != executor.KindLogs {
		t.Errorf("Collect() kind = %v, want KindLogs", kind)
	}
	if len(rows) != 2 {
		t.Errorf("Collect() returned %d rows, want 2", len(rows))
	}
}

func TestCollectEmpty(t *testing.T) {
	_, rows := Collect(nil)
	if len(rows) != 0 {
		t.Errorf("Collect(nil) rows = %v, want none", rows)
	}
}

func TestCollectKindFromEmptyOutputs(t *testing.T) {
	results := []executor.Result{
		{ClusterName: "quiet", Output: &executor.Output{Kind: executor.KindLogs}},
	}

	kind, rows := Collect(results)
	if kind != executor.KindLogs {
		t.Errorf("Collect() kind = %v, want KindLogs carried by the empty output", kind)
	}
	if len(rows) != 0 {
		t.Errorf("Collect() rows = %v, want none", rows)
	}
}
