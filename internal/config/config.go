package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultDirName = ".multikube"

	// One year, in seconds. Cached inventory and generated kubeconfigs are
	// only invalidated explicitly (--renew-cache) in normal use.
	defaultTTLSeconds = 31536000
)

// Manager resolves multikube configuration from the optional config file
// and MULTIKUBE_* environment variables
type Manager struct {
	configPath string
	viper      *viper.Viper
}

// NewManager creates a new configuration manager. A non-empty configPath
// overrides the default ~/.multikube/config.yaml location.
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		viper:      viper.New(),
	}
}

// Load resolves the effective configuration. Precedence: environment
// variables, then the config file, then built-in defaults. TTL, backoff
// and timeout values are given in whole seconds.
func (m *Manager) Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		m.viper.AddConfigPath(filepath.Join(home, defaultDirName))
		m.viper.SetConfigName("config")
		m.viper.SetConfigType("yaml")
	}

	m.viper.SetEnvPrefix("MULTIKUBE")
	m.viper.AutomaticEnv()

	m.applyDefaults()

	// A missing config file is fine, defaults and environment cover everything
	if err := m.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Dir:            m.viper.GetString("dir"),
		CacheTTL:       time.Duration(m.viper.GetInt64("cache_ttl")) * time.Second,
		KubeconfigTTL:  time.Duration(m.viper.GetInt64("kubeconfig_ttl")) * time.Second,
		RetryCount:     m.viper.GetInt("retry_count"),
		RetryBackoff:   time.Duration(m.viper.GetInt64("retry_backoff")) * time.Second,
		CommandTimeout: time.Duration(m.viper.GetInt64("command_timeout")) * time.Second,
		Workers:        m.viper.GetInt("workers"),
		KubectlBin:     m.viper.GetString("kubectl"),
		AWSBin:         m.viper.GetString("aws"),
	}

	if cfg.Dir == "" {
		cfg.Dir = filepath.Join(home, defaultDirName)
	}
	cfg.CacheFile = filepath.Join(cfg.Dir, cacheFileName)
	cfg.KubeconfigDir = filepath.Join(cfg.Dir, kubeconfigDirName)
	cfg.ContextsFile = filepath.Join(cfg.Dir, contextsFileName)
	cfg.DefaultContextFile = filepath.Join(cfg.Dir, defaultContextFileName)
	cfg.RegionsFile = filepath.Join(cfg.Dir, regionsFileName)

	return cfg, nil
}

// applyDefaults registers built-in defaults for every setting
func (m *Manager) applyDefaults() {
	m.viper.SetDefault("dir", "")
	m.viper.SetDefault("cache_ttl", defaultTTLSeconds)
	m.viper.SetDefault("kubeconfig_ttl", defaultTTLSeconds)
	m.viper.SetDefault("retry_count", 3)
	m.viper.SetDefault("retry_backoff", 2)
	m.viper.SetDefault("command_timeout", 20)
	m.viper.SetDefault("workers", runtime.GOMAXPROCS(0))
	m.viper.SetDefault("kubectl", "kubectl")
	m.viper.SetDefault("aws", "aws")
}

// EnsureDirs creates the state directory tree. Generated kubeconfigs embed
// cluster CA data, so their directory is private to the user.
func (c *Config) EnsureDirs() error {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.MkdirAll(c.KubeconfigDir, 0700); err != nil {
		return fmt.Errorf("failed to create kubeconfig directory: %w", err)
	}
	return nil
}
