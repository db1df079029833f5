// Package executor fans a kubectl command out across many clusters at
// once.
//
// The package has two halves. Pool is a bounded worker pool: every target
// cluster is queued as a Task before the first worker starts, and results
// are gathered in completion order. Runner wraps a single kubectl
// invocation with the per-cluster kubeconfig, a per-attempt timeout,
// retry with exponential backoff, and shaping of the raw output into
// cluster-attributed rows.
//
// # Basic Usage
//
// Create a pool, submit one task per cluster, and execute them:
//
//	pool := executor.NewPool(runtime.GOMAXPROCS(0), logger)
//	runner := executor.NewRunner("kubectl", 20*time.Second, 3, 2*time.Second, logger)
//
//	for _, target := range targets {
//	    target := target
//	    pool.Submit(executor.Task{
//	        ClusterName: target.Cluster,
//	        Execute: func(ctx context.Context) (*executor.Output, error) {
//	            path, err := configs.Ensure(ctx, target)
//	            if err != nil {
//	                return nil, err
//	            }
//	            return runner.Run(ctx, target.Cluster, path, args)
//	        },
//	    })
//	}
//
//	results := pool.Execute(ctx)
//
// # Failure Semantics
//
// A failing, panicking, or timed-out task never disturbs its siblings:
//
//   - task errors and panics are captured in that task's Result
//   - a kubectl timeout or a "not found" response yields an empty Output
//     with no error
//   - other non-zero exits are retried; exhausted attempts are logged and
//     also yield an empty Output
//   - a kubectl that cannot be started at all is the task's error
//
// Callers filter with CountSuccessful, FilterSuccessful, FilterFailed and
// GetErrors.
//
// # Ordering
//
// Submission order is deterministic (the caller's loop order); completion
// order is not. Results arrive as tasks finish, so output order across
// clusters varies from run to run.
package executor
