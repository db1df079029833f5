// Package inventory maintains the profile → EKS cluster mapping that every
// multikube run resolves its targets from, along with its on-disk cache.
package inventory

import "sort"

// Inventory maps AWS profiles to the clusters discovered in their scope.
// Profiles iterate in sorted name order so that target resolution and
// output attribution stay reproducible for a given cache.
type Inventory struct {
	clusters map[string][]ClusterRef
}

// NewInventory returns an empty inventory
func NewInventory() *Inventory {
	return &Inventory{clusters: make(map[string][]ClusterRef)}
}

// EnsureProfile records a profile even when no clusters were found for it
func (inv *Inventory) EnsureProfile(profile string) {
	if _, ok := inv.clusters[profile]; !ok {
		inv.clusters[profile] = []ClusterRef{}
	}
}

// Add appends a cluster to a profile's list, preserving append order
func (inv *Inventory) Add(profile string, ref ClusterRef) {
	inv.clusters[profile] = append(inv.clusters[profile], ref)
}

// Profiles returns all recorded profile names in sorted order
func (inv *Inventory) Profiles() []string {
	names := make([]string, 0, len(inv.clusters))
	for name := range inv.clusters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clusters returns the clusters recorded for a profile in list order
func (inv *Inventory) Clusters(profile string) []ClusterRef {
	return inv.clusters[profile]
}

// Len returns the total number of clusters across all profiles
func (inv *Inventory) Len() int {
	n := 0
	for _, refs := range inv.clusters {
		n += len(refs)
	}
	return n
}

// Empty reports whether no clusters are recorded at all
func (inv *Inventory) Empty() bool {
	return inv.Len() == 0
}
