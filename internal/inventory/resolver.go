package inventory

import (
	"fmt"
	"regexp"

	"github.com/aryankumar/multikube/internal/util"
)

// Target is one resolved unit of work: a cluster plus the credentials
// scope used to reach it
type Target struct {
	Cluster string
	Profile string
	Region  string
}

// Resolve filters the inventory down to the targets whose cluster name
// matches pattern. The pattern is a regular expression applied with prefix
// semantics: it must match at the start of the name, so "prod-" selects
// "prod-eks-1" but not "staging-prod-eks-1". An explicit leading ^ is
// redundant but harmless.
//
// Output order follows inventory iteration order (sorted profiles, then
// per-profile cluster order) and is identical across calls for an
// unmodified inventory.
func Resolve(inv *Inventory, pattern string) ([]Target, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		return nil, fmt.Errorf("invalid context pattern %q: %w", pattern, err)
	}

	var targets []Target
	for _, profile := range inv.Profiles() {
		for _, ref := range inv.Clusters(profile) {
			if re.MatchString(ref.Name) {
				targets = append(targets, Target{
					Cluster: ref.Name,
					Profile: profile,
					Region:  ref.Region,
				})
			}
		}
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("pattern %q: %w", pattern, util.ErrNoMatchingClusters)
	}
	return targets, nil
}
