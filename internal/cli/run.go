package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aryankumar/multikube/internal/awsutil"
	"github.com/aryankumar/multikube/internal/config"
	"github.com/aryankumar/multikube/internal/executor"
	"github.com/aryankumar/multikube/internal/inventory"
	"github.com/aryankumar/multikube/internal/kubeconfig"
	"github.com/aryankumar/multikube/internal/output"
	"github.com/aryankumar/multikube/internal/store"
	"github.com/aryankumar/multikube/internal/util"
	"k8s.io/apimachinery/pkg/util/duration"
)

// run dispatches the selected mode. Exactly one mode runs per invocation:
// --init, --store-clusters-contexts and --set-clusters-contexts are
// maintenance modes that exit after their side effect, a bare invocation
// picks the default context interactively, and anything else is a kubectl
// command fanned out across the active context's clusters.
func run(ctx context.Context, opts *rootOptions, args []string) error {
	cfg, err := config.NewManager(opts.configFile).Load()
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return err
	}

	logger := slog.Default()
	st := store.NewStore(cfg, store.SurveyPrompter{})

	switch {
	case opts.initialize:
		return runInit(ctx, cfg, st, logger)
	case opts.storePattern != "":
		return runStoreContext(st, logger, opts.storePattern)
	case opts.setContext != "":
		return runSetDefault(st, logger, opts.setContext)
	case len(args) == 0:
		return runSelectContext(st, logger)
	default:
		return runPassthrough(ctx, cfg, st, logger, opts, args)
	}
}

// runInit rebuilds the cluster inventory from scratch, forcing an AWS SSO
// login before the first scan so a cold machine ends up fully authenticated.
func runInit(ctx context.Context, cfg *config.Config, st *store.Store, logger *slog.Logger) error {
	profiles, err := awsutil.LoadProfiles()
	if err != nil {
		return err
	}
	logger.Info("initializing cluster inventory", "profiles", len(profiles))

	identity := awsutil.NewIdentity(awsutil.SSOLogin(cfg.AWSBin, logger), logger)
	scanner := inventory.NewScanner(identity, awsutil.NewEKSClient(), logger)
	cache := inventory.NewCache(cfg.CacheFile, cfg.CacheTTL)

	inv, err := rebuildInventory(ctx, st, cache, scanner, profiles, true)
	if err != nil {
		return err
	}

	logger.Info("cluster inventory initialized",
		"clusters", inv.Len(),
		"profiles", len(inv.Profiles()),
		"cache", cache.Path())
	return nil
}

// runStoreContext stores a new named context for the given cluster pattern
func runStoreContext(st *store.Store, logger *slog.Logger, pattern string) error {
	name, err := st.StoreContext(pattern)
	if err != nil {
		return err
	}
	logger.Info("cluster context stored", "name", name, "pattern", pattern)
	return nil
}

// runSetDefault makes an existing named context the default
func runSetDefault(st *store.Store, logger *slog.Logger, name string) error {
	if err := st.SetDefault(name); err != nil {
		return err
	}
	logger.Info("default cluster context set", "name", name)
	return nil
}

// runSelectContext interactively picks a stored context and makes it the
// default. This is the bare "multikube" invocation.
func runSelectContext(st *store.Store, logger *slog.Logger) error {
	chosen, err := st.SelectContext()
	if err != nil {
		return err
	}
	if err := st.SetDefault(chosen.Name); err != nil {
		return err
	}
	logger.Info("default cluster context set", "name", chosen.Name, "pattern", chosen.Pattern)
	return nil
}

// runPassthrough fans the kubectl command out across every cluster matching
// the default context and renders the merged results. Per-cluster failures
// are logged but never fail the run.
func runPassthrough(ctx context.Context, cfg *config.Config, st *store.Store, logger *slog.Logger, opts *rootOptions, args []string) error {
	active, found, err := st.Default()
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no default cluster context set, run multikube with no arguments to choose one")
	}

	profiles, err := awsutil.LoadProfiles()
	if err != nil {
		return err
	}

	identity := awsutil.NewIdentity(awsutil.SSOLogin(cfg.AWSBin, logger), logger)
	eks := awsutil.NewEKSClient()
	scanner := inventory.NewScanner(identity, eks, logger)
	cache := inventory.NewCache(cfg.CacheFile, cfg.CacheTTL)

	inv, err := loadInventory(ctx, st, cache, scanner, logger, profiles, opts.renewCache)
	if err != nil {
		return err
	}

	targets, err := inventory.Resolve(inv, active.Pattern)
	if err != nil {
		return err
	}
	logger.Debug("resolved cluster targets",
		"context", active.Name,
		"pattern", active.Pattern,
		"clusters", len(targets))

	generator := kubeconfig.NewEKSGenerator(eks, cfg.AWSBin)
	materializer := kubeconfig.NewMaterializer(cfg.KubeconfigDir, cfg.KubeconfigTTL, identity, generator, logger)
	runner := executor.NewRunner(cfg.KubectlBin, cfg.CommandTimeout, cfg.RetryCount, cfg.RetryBackoff, logger)

	pool := executor.NewPool(cfg.Workers, logger)
	for _, target := range targets {
		target := target
		task := executor.Task{
			ClusterName: target.Cluster,
			Execute: func(ctx context.Context) (*executor.Output, error) {
				path, err := materializer.Ensure(ctx, target)
				if err != nil {
					return nil, err
				}
				return runner.Run(ctx, target.Cluster, path, args)
			},
		}
		if err := pool.Submit(task); err != nil {
			return err
		}
	}

	results := pool.Execute(ctx)
	logFailures(logger, results)

	formatter := output.NewFormatter(output.Format(opts.outputFormat), output.WithNoColor(opts.noColor))
	return formatter.Render(os.Stdout, results)
}

// loadInventory returns the cached cluster inventory, rebuilding it when
// renewal was requested, the cache has expired, or the file is unreadable
func loadInventory(ctx context.Context, st *store.Store, cache *inventory.Cache, scanner *inventory.Scanner, logger *slog.Logger, profiles []string, renew bool) (*inventory.Inventory, error) {
	if !renew && cache.Fresh() {
		inv, err := cache.Load()
		if err == nil {
			if age, ok := cache.Age(); ok {
				logger.Debug("using cached cluster inventory",
					"age", duration.HumanDuration(age),
					"clusters", inv.Len())
			}
			return inv, nil
		}
		logger.Warn("cluster cache unreadable, rebuilding", "error", err)
	} else if renew {
		logger.Info("renewing cluster inventory")
	} else if age, ok := cache.Age(); ok {
		logger.Info("cluster cache expired, rebuilding", "age", duration.HumanDuration(age))
	}

	return rebuildInventory(ctx, st, cache, scanner, profiles, false)
}

// rebuildInventory scans every profile across the stored regions and
// persists the fresh inventory. On a first run the region list is prompted
// for and saved before scanning.
func rebuildInventory(ctx context.Context, st *store.Store, cache *inventory.Cache, scanner *inventory.Scanner, profiles []string, forceLogin bool) (*inventory.Inventory, error) {
	regions, err := st.Regions()
	if err != nil {
		return nil, err
	}

	inv, err := scanner.Scan(ctx, profiles, regions, forceLogin)
	if err != nil {
		return nil, err
	}

	if err := cache.Save(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// logFailures summarizes failed tasks in the log stream. The rendered
// output only carries successful clusters, and the runner logs kubectl
// failures as they happen, so what lands here is the rest: kubeconfig
// materialization errors and commands that never started.
func logFailures(logger *slog.Logger, results []executor.Result) {
	failed := executor.FilterFailed(results)
	if len(failed) == 0 {
		return
	}

	merr := &util.MultiError{}
	for _, r := range failed {
		merr.Add(util.WrapClusterError(r.ClusterName, r.Error))
	}

	logger.Warn("some clusters failed",
		"failed", len(failed),
		"total", len(results),
		"error", merr.ErrorOrNil())
}
