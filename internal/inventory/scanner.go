package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aryankumar/multikube/internal/util"
)

// AccountResolver resolves the account id owning a profile's credentials,
// re-authenticating once when the session has expired. forceLogin triggers
// an unconditional login before the lookup.
type AccountResolver interface {
	EnsureAccount(ctx context.Context, profile, region string, forceLogin bool) (string, error)
}

// ClusterLister enumerates the cluster names visible to a profile in one region
type ClusterLister interface {
	ListClusters(ctx context.Context, profile, region string) ([]string, error)
}

// Scanner rebuilds the inventory by walking every profile × region pair.
// A pair that fails to list clusters is logged and skipped; identity
// failures abort the scan, since nothing can succeed without credentials.
type Scanner struct {
	accounts AccountResolver
	lister   ClusterLister
	logger   *slog.Logger
}

// NewScanner creates a Scanner
func NewScanner(accounts AccountResolver, lister ClusterLister, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		accounts: accounts,
		lister:   lister,
		logger:   logger,
	}
}

// Scan discovers all clusters reachable through the given profiles and
// regions. forceLogin forces a fresh login before the first pair; later
// pairs re-authenticate only when their session has expired. The returned
// inventory records every profile, including those with no clusters.
func (s *Scanner) Scan(ctx context.Context, profiles, regions []string, forceLogin bool) (*Inventory, error) {
	inv := NewInventory()
	failures := &util.MultiError{}

	force := forceLogin
	for _, profile := range profiles {
		inv.EnsureProfile(profile)
		for _, region := range regions {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			accountID, err := s.accounts.EnsureAccount(ctx, profile, region, force)
			force = false
			if err != nil {
				return nil, fmt.Errorf("failed to resolve account for profile %q: %w", profile, err)
			}

			names, err := s.lister.ListClusters(ctx, profile, region)
			if err != nil {
				s.logger.Warn("failed to list clusters, skipping",
					"profile", profile,
					"region", region,
					"error", err)
				failures.Add(fmt.Errorf("profile %q region %q: %w", profile, region, err))
				continue
			}

			for _, name := range names {
				inv.Add(profile, ClusterRef{AccountID: accountID, Region: region, Name: name})
			}

			s.logger.Debug("scanned region",
				"profile", profile,
				"region", region,
				"clusters", len(names))
		}
	}

	if err := failures.ErrorOrNil(); err != nil {
		s.logger.Warn("inventory scan finished with failures",
			"failed_pairs", len(failures.Errors),
			"error", err)
	}

	return inv, nil
}
