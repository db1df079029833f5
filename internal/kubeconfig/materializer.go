// Package kubeconfig lazily materializes per-cluster kubeconfig files and
// keeps them fresh within a configurable TTL.
package kubeconfig

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/singleflight"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/aryankumar/multikube/internal/inventory"
)

// AccountResolver yields the account id owning a profile's credentials,
// re-authenticating if the session has expired.
type AccountResolver interface {
	EnsureAccount(ctx context.Context, profile, region string, forceLogin bool) (string, error)
}

// Generator writes a fresh kubeconfig for one cluster to path.
type Generator interface {
	Generate(ctx context.Context, target inventory.Target, accountID, path string) error
}

// Materializer produces per-cluster kubeconfig files under a single
// directory, reusing a file until its age reaches the TTL. It is safe for
// concurrent use: simultaneous requests for the same cluster share one
// generation.
type Materializer struct {
	dir      string
	ttl      time.Duration
	accounts AccountResolver
	gen      Generator
	group    singleflight.Group
	logger   *slog.Logger
}

// NewMaterializer returns a Materializer writing under dir. A nil logger
// falls back to slog.Default().
func NewMaterializer(dir string, ttl time.Duration, accounts AccountResolver, gen Generator, logger *slog.Logger) *Materializer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Materializer{
		dir:      dir,
		ttl:      ttl,
		accounts: accounts,
		gen:      gen,
		logger:   logger,
	}
}

// Path returns the kubeconfig location for an account/cluster pair.
func (m *Materializer) Path(accountID, cluster string) string {
	return filepath.Join(m.dir, fmt.Sprintf("%s-%s.kubeconfig", accountID, cluster))
}

// Ensure returns the kubeconfig path for the target, generating the file
// when it is missing, stale, or unreadable. The account id lookup and the
// generation are each deduplicated across concurrent callers.
func (m *Materializer) Ensure(ctx context.Context, target inventory.Target) (string, error) {
	account, err, _ := m.group.Do("account:"+target.Profile, func() (interface{}, error) {
		return m.accounts.EnsureAccount(ctx, target.Profile, target.Region, false)
	})
	if err != nil {
		return "", fmt.Errorf("failed to resolve account for profile %q: %w", target.Profile, err)
	}
	accountID := account.(string)

	path := m.Path(accountID, target.Cluster)
	_, err, _ = m.group.Do("kubeconfig:"+path, func() (interface{}, error) {
		if m.usable(path) {
			return nil, nil
		}
		m.logger.Debug("generating kubeconfig", "cluster", target.Cluster, "path", path)
		if err := m.gen.Generate(ctx, target, accountID, path); err != nil {
			return nil, err
		}
		if _, err := clientcmd.LoadFromFile(path); err != nil {
			return nil, fmt.Errorf("generated kubeconfig is invalid: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to materialize kubeconfig for cluster %q: %w", target.Cluster, err)
	}
	return path, nil
}

// usable reports whether a kubeconfig already on disk can be reused: it
// must be younger than the TTL and still parse.
func (m *Materializer) usable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if time.Since(info.ModTime()) >= m.ttl {
		return false
	}
	if _, err := clientcmd.LoadFromFile(path); err != nil {
		m.logger.Warn("existing kubeconfig is unreadable, regenerating", "path", path, "error", err)
		return false
	}
	return true
}
