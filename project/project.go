// Package project builds the IDE project model for a resolved build module
// and serializes it to IntelliJ / Android Studio iml+.idea files or Eclipse
// .project/.classpath files.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/TinkerBoard2-Android/tools-asuite/registry"
	"github.com/TinkerBoard2-Android/tools-asuite/types"
)

// Project is the finalized model consumed by the file emitters.
type Project struct {
	// ModuleName is the build module the project is centred on.
	ModuleName string
	// AndroidRoot is the absolute path of the source tree root.
	AndroidRoot string
	// ModulePath is the absolute path of the module's directory.
	ModulePath string
	// SourceDirs maps tree-relative source directories to whether they
	// hold test sources.
	SourceDirs map[string]bool
	// JarDeps are tree-relative paths of prebuilt jar dependencies.
	JarDeps []string
	// DepModules are the names of the modules pulled in via --depth.
	DepModules []string
}

// Builder assembles a Project from registry metadata.
type Builder struct {
	registry *registry.Registry
	root     string
	depth    int
	logger   log.Logger
}

// NewBuilder creates a project builder over the module registry. depth
// bounds how many levels of module dependencies contribute sources.
func NewBuilder(reg *registry.Registry, androidRoot string, depth int, logger log.Logger) *Builder {
	return &Builder{
		registry: reg,
		root:     androidRoot,
		depth:    depth,
		logger:   logger,
	}
}

// Build resolves target into a Project, walking dependencies breadth-first
// down to the configured depth. Dependency cycles in the build graph are
// tolerated; each module contributes its sources once.
func (b *Builder) Build(target string) (*Project, error) {
	mod, err := b.registry.ResolveTarget(target)
	if err != nil {
		return nil, err
	}
	if mod.RelPath() == "" {
		return nil, fmt.Errorf("module %q has no path in the build metadata", mod.Name)
	}

	p := &Project{
		ModuleName:  mod.Name,
		AndroidRoot: b.root,
		ModulePath:  mod.AbsPath(b.root),
		SourceDirs:  make(map[string]bool),
	}

	seen := map[string]bool{mod.Name: true}
	frontier := []*types.ModuleInfo{mod}
	for level := 0; level <= b.depth && len(frontier) > 0; level++ {
		var next []*types.ModuleInfo
		for _, m := range frontier {
			b.collectModule(p, m, level > 0)
			for _, depName := range m.Dependencies {
				if seen[depName] {
					continue
				}
				seen[depName] = true
				dep, ok := b.registry.Module(depName)
				if !ok {
					b.logger.Debug("Dependency not in module info, skipping", "module", depName)
					continue
				}
				next = append(next, dep)
			}
		}
		frontier = next
	}

	sort.Strings(p.JarDeps)
	sort.Strings(p.DepModules)
	return p, nil
}

// collectModule folds one module's sources and jars into the project.
func (b *Builder) collectModule(p *Project, mod *types.ModuleInfo, isDep bool) {
	if isDep {
		p.DepModules = append(p.DepModules, mod.Name)
	}
	for _, src := range mod.Srcs {
		if filepath.Ext(src) == ".jar" {
			p.JarDeps = append(p.JarDeps, src)
			continue
		}
		dir := src
		if info, err := os.Stat(filepath.Join(b.root, src)); err == nil && !info.IsDir() {
			dir = filepath.Dir(src)
		}
		isTest := isTestPath(dir)
		// A directory once marked as production source stays that way.
		if prev, ok := p.SourceDirs[dir]; ok && !prev {
			continue
		}
		p.SourceDirs[dir] = isTest
	}
	if isDep {
		return
	}
	// The target module's own directory is always a content root, even
	// when the metadata lists no sources for it.
	if rel := mod.RelPath(); rel != "" {
		if _, ok := p.SourceDirs[rel]; !ok && len(mod.Srcs) == 0 {
			p.SourceDirs[rel] = false
		}
	}
}

// SourceList returns the tree-relative source directories with same-root
// descendants trimmed, sorted for deterministic output.
func (p *Project) SourceList() []string {
	dirs := make([]string, 0, len(p.SourceDirs))
	for dir := range p.SourceDirs {
		dirs = append(dirs, dir)
	}
	return TrimSameRootSource(dirs)
}

// ContentURLs returns the IDE content roots for the project's sources.
func (p *Project) ContentURLs() []string {
	return CollectContentURLs(p.SourceList())
}

// isTestPath mirrors the build convention of keeping test sources under
// "tests" or "javatests" directories.
func isTestPath(dir string) bool {
	for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
		if part == "tests" || part == "javatests" || part == "test" {
			return true
		}
	}
	return false
}
