// Package registry loads the build system's module metadata and answers
// module lookups for project generation. The metadata file is treated as a
// read-only snapshot; the registry never writes it.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/log"

	"github.com/TinkerBoard2-Android/tools-asuite/types"
)

// ModuleInfoFilename is the metadata file the build system emits under the
// product out directory.
const ModuleInfoFilename = "module-info.json"

// Registry manages the module metadata snapshot.
type Registry struct {
	config  Config
	modules map[string]*types.ModuleInfo
	byPath  map[string][]*types.ModuleInfo
	mu      sync.RWMutex
}

// Config contains registry configuration
type Config struct {
	Log            log.Logger
	ModuleInfoFile string
}

// NewRegistry creates a new registry instance and loads the metadata file.
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.ModuleInfoFile == "" {
		return nil, fmt.Errorf("module info file is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}

	r := &Registry{
		config: cfg,
	}

	if err := r.loadModules(cfg.ModuleInfoFile); err != nil {
		return nil, fmt.Errorf("failed to load module info: %w", err)
	}

	cfg.Log.Debug("Registry loaded", "len(modules)", len(r.modules))

	return r, nil
}

// loadModules parses the metadata file into the lookup maps.
func (r *Registry) loadModules(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	// module-info.json maps module name to its metadata record. The name
	// inside the record is authoritative when present.
	var raw map[string]*types.ModuleInfo
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	r.modules = make(map[string]*types.ModuleInfo, len(raw))
	r.byPath = make(map[string][]*types.ModuleInfo)
	for name, mod := range raw {
		if mod == nil {
			continue
		}
		if mod.Name == "" {
			mod.Name = name
		}
		r.modules[mod.Name] = mod
		if rel := mod.RelPath(); rel != "" {
			r.byPath[filepath.Clean(rel)] = append(r.byPath[filepath.Clean(rel)], mod)
		}
	}
	return nil
}

// Module returns the module with the given name. Lookups are case
// sensitive, matching the build system's naming.
func (r *Registry) Module(name string) (*types.ModuleInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mod, ok := r.modules[name]
	return mod, ok
}

// ModulesByPath returns the modules rooted at the given tree-relative path.
func (r *Registry) ModulesByPath(rel string) []*types.ModuleInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byPath[filepath.Clean(rel)]
}

// ResolveTarget maps a CLI target (module name or tree-relative path) to a
// module. Name lookup wins; a path lookup falls back to the first module
// rooted there.
func (r *Registry) ResolveTarget(target string) (*types.ModuleInfo, error) {
	if mod, ok := r.Module(target); ok {
		return mod, nil
	}
	rel := strings.TrimSuffix(target, string(filepath.Separator))
	if mods := r.ModulesByPath(rel); len(mods) > 0 {
		return mods[0], nil
	}
	return nil, fmt.Errorf("target %q matches no module name or path in %s", target, ModuleInfoFilename)
}

// Len returns the number of known modules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.modules)
}
