package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// Runner invokes kubectl against one cluster's kubeconfig and shapes the
// raw output into attributed rows. Transient failures are retried with
// exponential backoff; timeouts, missing resources, and exhausted retries
// are all absorbed as an empty output. Only a kubectl that cannot be
// started at all comes back as an error.
type Runner struct {
	bin     string
	timeout time.Duration
	retries int
	backoff time.Duration
	logger  *slog.Logger
}

// NewRunner returns a Runner for bin. timeout bounds each attempt, retries
// is the total attempt count (clamped to at least 1), and backoff is the
// delay before the first retry, doubling for each one after. A nil logger
// falls back to slog.Default().
func NewRunner(bin string, timeout time.Duration, retries int, backoff time.Duration, logger *slog.Logger) *Runner {
	if retries < 1 {
		retries = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		bin:     bin,
		timeout: timeout,
		retries: retries,
		backoff: backoff,
		logger:  logger,
	}
}

// Run executes `kubectl --kubeconfig <path> <args...>` for one cluster.
//
// Failure handling:
//   - a per-attempt timeout is logged and returns an empty output, no retry
//   - stderr mentioning a missing resource is logged at info level and
//     returns an empty output, no retry
//   - any other non-zero exit is retried with exponential backoff; once the
//     attempts are exhausted the failure is logged and the output is empty
//   - a kubectl that cannot be started at all is returned as an error
//   - cancellation of ctx aborts immediately
func (r *Runner) Run(ctx context.Context, clusterName, kubeconfigPath string, args []string) (*Output, error) {
	kind := KindTabular
	if isLogsCommand(args) {
		kind = KindLogs
	}

	var stdout string
	var empty bool

	b := retry.WithMaxRetries(uint64(r.retries-1), retry.NewExponential(r.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		out, errOut, err := r.invoke(ctx, kubeconfigPath, args)
		if err == nil {
			stdout = out
			return nil
		}

		if errors.Is(err, context.DeadlineExceeded) {
			r.logger.Error("kubectl timed out, skipping cluster", "cluster", clusterName, "timeout", r.timeout)
			empty = true
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// not an exit status: kubectl itself failed to start
			return err
		}
		if strings.Contains(strings.ToLower(errOut), "not found") {
			r.logger.Info("no matching resources on cluster", "cluster", clusterName)
			empty = true
			return nil
		}

		r.logger.Warn("kubectl attempt failed",
			"cluster", clusterName,
			"error", err,
			"stderr", strings.TrimSpace(errOut))
		return retry.RetryableError(fmt.Errorf("kubectl: %w: %s", err, strings.TrimSpace(errOut)))
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to run kubectl: %w", err)
		}
		r.logger.Error("kubectl failed on all attempts, skipping cluster",
			"cluster", clusterName,
			"attempts", r.retries,
			"error", err)
		return &Output{Kind: kind}, nil
	}

	if empty || strings.TrimSpace(stdout) == "" {
		return &Output{Kind: kind}, nil
	}
	if kind == KindLogs {
		return ShapeLogs(clusterName, stdout, time.Now()), nil
	}
	return ShapeTabular(clusterName, stdout), nil
}

// invoke runs one kubectl attempt under the per-attempt deadline. An
// attempt killed by its own deadline, rather than by the caller's context,
// reports context.DeadlineExceeded.
func (r *Runner) invoke(ctx context.Context, kubeconfigPath string, args []string) (string, string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmdArgs := append([]string{"--kubeconfig", kubeconfigPath}, args...)
	cmd := exec.CommandContext(attemptCtx, r.bin, cmdArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil && attemptCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		err = fmt.Errorf("command timed out after %s: %w", r.timeout, context.DeadlineExceeded)
	}
	return stdout.String(), stderr.String(), err
}
