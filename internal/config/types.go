package config

import "time"

// Config holds the resolved multikube settings. The Manager builds it once
// at startup and every component receives it explicitly; nothing reads
// environment variables past this point.
type Config struct {
	// Dir is the state directory holding all multikube files
	Dir string

	// CacheFile is the cluster inventory cache
	CacheFile string

	// KubeconfigDir holds the generated per-cluster kubeconfigs
	KubeconfigDir string

	// ContextsFile maps context names to cluster name patterns
	ContextsFile string

	// DefaultContextFile records the active context name
	DefaultContextFile string

	// RegionsFile lists the AWS regions to scan for EKS clusters
	RegionsFile string

	// CacheTTL is the maximum age of the inventory cache
	CacheTTL time.Duration

	// KubeconfigTTL is the maximum age of a generated kubeconfig
	KubeconfigTTL time.Duration

	// RetryCount is the total number of attempts per kubectl invocation
	RetryCount int

	// RetryBackoff is the base delay between kubectl attempts, doubled
	// after each failure
	RetryBackoff time.Duration

	// CommandTimeout bounds a single kubectl attempt
	CommandTimeout time.Duration

	// Workers is the number of clusters operated on concurrently
	Workers int

	// KubectlBin is the kubectl binary to invoke
	KubectlBin string

	// AWSBin is the aws CLI binary used for SSO login and token exec
	AWSBin string
}

// State file names under Dir
const (
	cacheFileName          = "cluster_cache.json"
	kubeconfigDirName      = "kubeconfigs"
	contextsFileName       = "contexts.json"
	defaultContextFileName = "default_context.json"
	regionsFileName        = "eks_regions.json"
)
