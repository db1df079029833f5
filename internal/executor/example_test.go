package executor_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aryankumar/multikube/internal/executor"
)

// Example runs two clusters through a single-worker pool. With one worker,
// completion order matches submission order, so the output is stable.
func Example() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	pool := executor.NewPool(1, logger)
	for _, cluster := range []string{"prod-eks-1", "prod-eks-2"} {
		cluster := cluster
		pool.Submit(executor.Task{
			ClusterName: cluster,
			Execute: func(ctx context.Context) (*executor.Output, error) {
				return executor.ShapeTabular(cluster, "NAME READY\npod-1 1/1\n"), nil
			},
		})
	}

	for _, result := range pool.Execute(context.Background()) {
		if result.Error != nil {
			continue
		}
		for _, row := range result.Output.Rows {
			fmt.Println(strings.Join(row, " "))
		}
	}
	// Output:
	// prod-eks-1 pod-1 1/1
	// prod-eks-2 pod-1 1/1
}
