package inventory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache persists an Inventory as one compact JSON document of the form
// {"profile": ["accountID/region/name", ...], ...}. The file's modification
// time is the sole freshness signal; every save rewrites the whole document
// atomically, which also refreshes that signal.
type Cache struct {
	path string
	ttl  time.Duration
}

// NewCache creates a cache handle for path with the given TTL
func NewCache(path string, ttl time.Duration) *Cache {
	return &Cache{path: path, ttl: ttl}
}

// Path returns the cache file location
func (c *Cache) Path() string {
	return c.path
}

// Fresh reports whether a cache file exists and is younger than the TTL.
// An age exactly equal to the TTL counts as stale.
func (c *Cache) Fresh() bool {
	return c.FreshAt(time.Now())
}

// FreshAt is Fresh evaluated against an explicit clock reading
func (c *Cache) FreshAt(now time.Time) bool {
	info, err := os.Stat(c.path)
	if err != nil {
		return false
	}
	return now.Sub(info.ModTime()) < c.ttl
}

// Age returns the cache file's age, or false when no cache exists
func (c *Cache) Age() (time.Duration, bool) {
	info, err := os.Stat(c.path)
	if err != nil {
		return 0, false
	}
	return time.Since(info.ModTime()), true
}

// Load reads and parses the cache file. Callers are expected to have
// checked Fresh, or to be prepared to regenerate when this fails.
func (c *Cache) Load() (*Inventory, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cluster cache: %w", err)
	}

	raw := make(map[string][]string)
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse cluster cache: %w", err)
	}

	inv := NewInventory()
	for profile, entries := range raw {
		inv.EnsureProfile(profile)
		for _, entry := range entries {
			ref, err := ParseClusterRef(entry)
			if err != nil {
				return nil, fmt.Errorf("failed to parse cluster cache: %w", err)
			}
			inv.Add(profile, ref)
		}
	}
	return inv, nil
}

// Save atomically replaces the cache file with the full inventory. Every
// attempted profile is written, including those with no clusters, so that a
// later Load sees the same key set the scan produced.
func (c *Cache) Save(inv *Inventory) error {
	raw := make(map[string][]string, len(inv.clusters))
	for profile, refs := range inv.clusters {
		entries := make([]string, 0, len(refs))
		for _, ref := range refs {
			entries = append(entries, ref.String())
		}
		raw[profile] = entries
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to encode cluster cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cluster_cache-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cluster cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cluster cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace cluster cache: %w", err)
	}
	return nil
}
