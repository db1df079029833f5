// Package cli implements the multikube command line interface. multikube
// deliberately has no subcommands: every positional argument belongs to
// kubectl, so the whole surface is flags on the root command.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/aryankumar/multikube/pkg/version"
	"github.com/spf13/cobra"
)

// rootOptions holds the parsed root command flags
type rootOptions struct {
	configFile   string
	initialize   bool
	storePattern string
	setContext   string
	renewCache   bool
	outputFormat string
	verbose      bool
	noColor      bool
}

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "multikube [flags] [kubectl command]",
		Short: "Run kubectl across every EKS cluster in a context",
		Long: `Multikube runs a single kubectl command against every EKS cluster whose
name matches the active cluster context, in parallel, and merges the
results into one view.

Clusters are discovered by scanning the AWS profiles in your AWS config
across a stored list of regions. A cluster context is a named name-prefix
pattern ("prod-" matches prod-eks-1, prod-eks-2, ...) selecting the
clusters a command fans out to.

Multikube flags must come before the kubectl command; everything from the
first positional argument on is passed to kubectl verbatim. Run multikube
with no arguments to pick the default context interactively.`,
		Example: `  # Run a kubectl command on every cluster in the default context
  multikube get pods -A

  # Choose the default context interactively
  multikube

  # Log in to AWS SSO and rebuild the cluster inventory
  multikube --init

  # Store a context matching all production clusters, then make it default
  multikube --store-clusters-contexts prod-
  multikube --set-clusters-contexts production

  # Force a fresh cluster scan before running
  multikube --renew-cache get nodes

  # Tail logs from one deployment on every matching cluster
  multikube logs deploy/api --tail=50`,
		Args:          cobra.ArbitraryArgs,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(opts.verbose, opts.noColor)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args)
		},
	}

	flags := rootCmd.Flags()
	// Flag parsing stops at the first positional argument so that kubectl
	// flags ("get pods -o wide") reach kubectl instead of multikube.
	flags.SetInterspersed(false)

	flags.StringVar(&opts.configFile, "config", "", "config file (default is $HOME/.multikube/config.yaml)")
	flags.BoolVar(&opts.initialize, "init", false, "log in to AWS SSO and rebuild the cluster inventory")
	flags.StringVar(&opts.storePattern, "store-clusters-contexts", "", "store a named cluster context for the given name pattern")
	flags.StringVar(&opts.setContext, "set-clusters-contexts", "", "set the default cluster context by name")
	flags.BoolVar(&opts.renewCache, "renew-cache", false, "rebuild the cluster inventory before running the command")
	flags.StringVarP(&opts.outputFormat, "output", "o", "table", "output format (table, json, yaml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output with debug logging")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	rootCmd.SetVersionTemplate(version.Get().String() + "\n")

	return rootCmd
}

// setupLogging configures structured logging with slog
func setupLogging(verbose, noColor bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if noColor {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}

	slog.SetDefault(slog.New(handler))

	if verbose {
		slog.Debug("verbose logging enabled")
	}
}
