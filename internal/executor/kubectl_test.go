package executor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeStub writes an executable shell script standing in for kubectl. The
// script sees `--kubeconfig <path>` as its first two arguments, so "$2" is
// a per-test scratch location for tracking attempts.
func writeStub(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kubectl")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("failed to write kubectl stub: %v", err)
	}
	return path
}

func countAttempts(t *testing.T, kubeconfig string) int {
	t.Helper()
	data, err := os.ReadFile(kubeconfig + ".count")
	if os.IsNotExist(err) {
		return 0
	}
	if err != nil {
		t.Fatalf("failed to read attempt counter: %v", err)
	}
	return len(strings.Fields(string(data)))
}

func TestRunnerTabularOutput(t *testing.T) {
	stub := writeStub(t, `echo attempt >> "$2.count"
echo "NAME READY STATUS"
echo "pod-1 1/1 Running"`)
	kc := filepath.Join(t.TempDir(), "kc")
	runner := NewRunner(stub, time.Second, 3, 10*time.Millisecond, testLogger())

	out, err := runner.Run(context.Background(), "c1", kc, []string{"get", "pods"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Kind != KindTabular {
		t.Errorf("Kind = %v, want KindTabular", out.Kind)
	}
	if len(out.Rows) != 1 || strings.Join(out.Rows[0], " ") != "c1 pod-1 1/1 Running" {
		t.Errorf("Rows = %v", out.Rows)
	}
	if got := countAttempts(t, kc); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}

func TestRunnerLogsOutput(t *testing.T) {
	stub := writeStub(t, `echo "line one"
echo "line two"`)
	runner := NewRunner(stub, time.Second, 3, 10*time.Millisecond, testLogger())

	out, err := runner.Run(context.Background(), "c1", filepath.Join(t.TempDir(), "kc"), []string{"logs", "pod-1"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Kind != KindLogs {
		t.Errorf("Kind = %v, want KindLogs", out.Kind)
	}
	if len(out.Rows) != 2 {
		t.Fatalf("Rows = %v, want 2 attributed lines", out.Rows)
	}
	for i, suffix := range []string{"] line one", "] line two"} {
		if len(out.Rows[i]) != 1 {
			t.Fatalf("row %d = %v, want a single column", i, out.Rows[i])
		}
		line := out.Rows[i][0]
		if !strings.HasPrefix(line, "[c1][") || !strings.HasSuffix(line, suffix) {
			t.Errorf("row %d = %q, want [c1][timestamp]%s", i, line, suffix)
		}
	}
}

func TestRunnerEmptyOutput(t *testing.T) {
	stub := writeStub(t, `exit 0`)
	runner := NewRunner(stub, time.Second, 3, 10*time.Millisecond, testLogger())

	out, err := runner.Run(context.Background(), "c1", filepath.Join(t.TempDir(), "kc"), []string{"get", "pods"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !out.Empty() {
		t.Errorf("Rows = %v, want none", out.Rows)
	}
}

func TestRunnerNotFoundIsEmptyResult(t *testing.T) {
	stub := writeStub(t, `echo attempt >> "$2.count"
echo 'Error from server (NotFound): pods "web" not found' >&2
exit 1`)
	kc := filepath.Join(t.TempDir(), "kc")
	runner := NewRunner(stub, time.Second, 3, 10*time.Millisecond, testLogger())

	out, err := runner.Run(context.Background(), "c1", kc, []string{"get", "pods", "web"})
	if err != nil {
		t.Fatalf("Run() error = %v, want missing resources treated as empty", err)
	}
	if !out.Empty() {
		t.Errorf("Rows = %v, want none", out.Rows)
	}
	if got := countAttempts(t, kc); got != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on not found)", got)
	}
}

func TestRunnerRetriesUntilSuccess(t *testing.T) {
	stub := writeStub(t, `echo attempt >> "$2.count"
if [ "$(wc -l < "$2.count")" -ge 3 ]; then
  echo "NAME STATUS"
  echo "pod-1 Running"
else
  echo "connection refused" >&2
  exit 1
fi`)
	kc := filepath.Join(t.TempDir(), "kc")
	backoff := 50 * time.Millisecond
	runner := NewRunner(stub, time.Second, 3, backoff, testLogger())

	start := time.Now()
	out, err := runner.Run(context.Background(), "c1", kc, []string{"get", "pods"})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(out.Rows) != 1 {
		t.Errorf("Rows = %v, want the post-retry listing", out.Rows)
	}
	if got := countAttempts(t, kc); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
	// The two failures cost one backoff sleep each: backoff, then twice it.
	if min := 3 * backoff; elapsed < min {
		t.Errorf("elapsed = %v, want at least %v of backoff", elapsed, min)
	}
}

func TestRunnerRetryExhaustion(t *testing.T) {
	stub := writeStub(t, `echo attempt >> "$2.count"
echo "connection refused" >&2
exit 1`)
	kc := filepath.Join(t.TempDir(), "kc")
	backoff := 50 * time.Millisecond
	runner := NewRunner(stub, time.Second, 3, backoff, testLogger())

	start := time.Now()
	out, err := runner.Run(context.Background(), "c1", kc, []string{"get", "pods"})
	elapsed := time.Since(start)

	// Exhaustion is logged and absorbed, never surfaced as an error.
	if err != nil {
		t.Fatalf("Run() error = %v, want exhausted retries to yield an empty result", err)
	}
	if !out.Empty() {
		t.Errorf("Rows = %v, want none", out.Rows)
	}
	if got := countAttempts(t, kc); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
	// Two backoff sleeps: backoff, then twice that.
	if min := 3 * backoff; elapsed < min {
		t.Errorf("elapsed = %v, want at least %v of backoff", elapsed, min)
	}
}

func TestRunnerStartFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "kubectl")
	// A backoff this large would make any retry obvious in the elapsed time.
	runner := NewRunner(missing, time.Second, 3, 10*time.Second, testLogger())

	start := time.Now()
	out, err := runner.Run(context.Background(), "c1", filepath.Join(t.TempDir(), "kc"), []string{"get", "pods"})
	if err == nil {
		t.Fatalf("Run() = %v, want an error when kubectl cannot be started", out)
	}
	if !strings.Contains(err.Error(), "failed to run kubectl") {
		t.Errorf("error = %v, want the kubectl invocation context", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("elapsed = %v, want no retry of a start failure", elapsed)
	}
}

func TestRunnerTimeoutIsEmptyResult(t *testing.T) {
	stub := writeStub(t, `echo attempt >> "$2.count"
sleep 5`)
	kc := filepath.Join(t.TempDir(), "kc")
	runner := NewRunner(stub, 100*time.Millisecond, 3, 10*time.Millisecond, testLogger())

	start := time.Now()
	out, err := runner.Run(context.Background(), "c1", kc, []string{"get", "pods"})
	if err != nil {
		t.Fatalf("Run() error = %v, want timeout treated as empty", err)
	}
	if !out.Empty() {
		t.Errorf("Rows = %v, want none", out.Rows)
	}
	if got := countAttempts(t, kc); got != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on timeout)", got)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("elapsed = %v, want the stub killed at the deadline", elapsed)
	}
}

func TestRunnerCancellation(t *testing.T) {
	stub := writeStub(t, `sleep 5`)
	runner := NewRunner(stub, 10*time.Second, 3, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := runner.Run(ctx, "c1", filepath.Join(t.TempDir(), "kc"), []string{"get", "pods"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("elapsed = %v, want prompt abort on cancellation", elapsed)
	}
}

func TestRunnerPassesKubeconfigFlag(t *testing.T) {
	stub := writeStub(t, `echo "HEADER"
echo "$1 $2"`)
	kc := filepath.Join(t.TempDir(), "kc")
	runner := NewRunner(stub, time.Second, 1, 10*time.Millisecond, testLogger())

	out, err := runner.Run(context.Background(), "c1", kc, []string{"get", "pods"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(out.Rows) != 1 || len(out.Rows[0]) != 2 {
		t.Fatalf("Rows = %v", out.Rows)
	}
	if want := "--kubeconfig " + kc; out.Rows[0][1] != want {
		t.Errorf("kubectl argv = %q, want %q", out.Rows[0][1], want)
	}
}
