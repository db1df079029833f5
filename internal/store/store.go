// Package store persists the user-declared pieces of multikube state: the
// region list scanned for clusters, the named cluster contexts, and the
// default-context pointer.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aryankumar/multikube/internal/config"
	"github.com/aryankumar/multikube/internal/util"
)

// Context is a named cluster-selection pattern
type Context struct {
	Name    string
	Pattern string
}

// Store reads and writes the region, context, and default-context files.
// Every file is a single JSON document rewritten wholesale on change.
type Store struct {
	cfg      *config.Config
	prompter Prompter
}

// NewStore creates a Store over the state files named in cfg
func NewStore(cfg *config.Config, prompter Prompter) *Store {
	return &Store{cfg: cfg, prompter: prompter}
}

type regionsDoc struct {
	Regions []string `json:"regions"`
}

type defaultDoc struct {
	DefaultContext string `json:"default_context"`
}

// Regions returns the configured EKS regions. On first run, when no region
// file exists or it is empty, the user is prompted for a comma-separated
// list which is persisted before returning.
func (s *Store) Regions() ([]string, error) {
	var doc regionsDoc
	if err := s.readJSON(s.cfg.RegionsFile, &doc); err != nil {
		return nil, fmt.Errorf("failed to read regions: %w", err)
	}
	if len(doc.Regions) > 0 {
		return doc.Regions, nil
	}

	answer, err := s.prompter.Input("EKS regions to scan (comma-separated):")
	if err != nil {
		return nil, fmt.Errorf("failed to prompt for regions: %w", err)
	}

	regions := splitList(answer)
	if len(regions) == 0 {
		return nil, fmt.Errorf("no regions provided")
	}

	if err := s.writeJSON(s.cfg.RegionsFile, regionsDoc{Regions: regions}); err != nil {
		return nil, fmt.Errorf("failed to store regions: %w", err)
	}
	return regions, nil
}

// StoreContext persists a new named context for pattern, prompting until
// the user supplies a non-empty name not already in use. It returns the
// chosen name.
func (s *Store) StoreContext(pattern string) (string, error) {
	contexts, err := s.readContexts()
	if err != nil {
		return "", err
	}

	message := "Name for this cluster context:"
	for {
		answer, err := s.prompter.Input(message)
		if err != nil {
			return "", fmt.Errorf("failed to prompt for context name: %w", err)
		}

		name := strings.TrimSpace(answer)
		if name == "" {
			message = "A name is required. Name for this cluster context:"
			continue
		}
		if _, taken := contexts[name]; taken {
			message = fmt.Sprintf("%q is already in use. Choose another name:", name)
			continue
		}

		contexts[name] = pattern
		if err := s.writeJSON(s.cfg.ContextsFile, contexts); err != nil {
			return "", fmt.Errorf("failed to store context: %w", err)
		}
		return name, nil
	}
}

// SetDefault marks the named context as the default for future runs
func (s *Store) SetDefault(name string) error {
	contexts, err := s.readContexts()
	if err != nil {
		return err
	}
	if len(contexts) == 0 {
		return util.ErrNoContexts
	}
	if _, ok := contexts[name]; !ok {
		return fmt.Errorf("context %q: %w", name, util.ErrContextNotFound)
	}

	if err := s.writeJSON(s.cfg.DefaultContextFile, defaultDoc{DefaultContext: name}); err != nil {
		return fmt.Errorf("failed to store default context: %w", err)
	}
	return nil
}

// Default returns the default context, or found=false when no default has
// been set, the store is empty, or the recorded name no longer exists.
func (s *Store) Default() (*Context, bool, error) {
	var doc defaultDoc
	if err := s.readJSON(s.cfg.DefaultContextFile, &doc); err != nil {
		return nil, false, fmt.Errorf("failed to read default context: %w", err)
	}
	if doc.DefaultContext == "" {
		return nil, false, nil
	}

	contexts, err := s.readContexts()
	if err != nil {
		return nil, false, err
	}
	pattern, ok := contexts[doc.DefaultContext]
	if !ok {
		return nil, false, nil
	}
	return &Context{Name: doc.DefaultContext, Pattern: pattern}, true, nil
}

// SelectContext interactively picks one of the stored contexts
func (s *Store) SelectContext() (*Context, error) {
	contexts, err := s.readContexts()
	if err != nil {
		return nil, err
	}
	if len(contexts) == 0 {
		return nil, util.ErrNoContexts
	}

	names := make([]string, 0, len(contexts))
	for name := range contexts {
		names = append(names, name)
	}
	sort.Strings(names)

	name, err := s.prompter.Select("Choose a cluster context:", names)
	if err != nil {
		return nil, fmt.Errorf("failed to select context: %w", err)
	}
	return &Context{Name: name, Pattern: contexts[name]}, nil
}

func (s *Store) readContexts() (map[string]string, error) {
	contexts := make(map[string]string)
	if err := s.readJSON(s.cfg.ContextsFile, &contexts); err != nil {
		return nil, fmt.Errorf("failed to read contexts: %w", err)
	}
	return contexts, nil
}

// readJSON fills v from path, leaving v untouched when the file is missing
func (s *Store) readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, v)
}

func (s *Store) writeJSON(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// splitList splits a comma-separated answer into trimmed, non-empty entries
func splitList(answer string) []string {
	var out []string
	for _, part := range strings.Split(answer, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
