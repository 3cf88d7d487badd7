package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TinkerBoard2-Android/tools-asuite/registry"
)

// newTestTree lays out a minimal source tree plus module-info.json and
// returns the tree root and a loaded registry.
func newTestTree(t *testing.T) (string, *registry.Registry) {
	t.Helper()
	root := t.TempDir()

	moduleInfo := map[string]map[string]interface{}{
		"Settings": {
			"module_name":  "Settings",
			"path":         []string{"packages/apps/Settings"},
			"srcs":         []string{"packages/apps/Settings/src"},
			"dependencies": []string{"SettingsLib", "guava"},
			"class":        []string{"APPS"},
		},
		"SettingsLib": {
			"path":         []string{"frameworks/base/packages/SettingsLib"},
			"srcs":         []string{"frameworks/base/packages/SettingsLib/src"},
			"dependencies": []string{"framework"},
		},
		"framework": {
			"path": []string{"frameworks/base"},
			"srcs": []string{"frameworks/base/core/java"},
		},
		"guava": {
			"path": []string{"external/guava"},
			"srcs": []string{"out/soong/guava/guava.jar"},
		},
	}
	for _, dir := range []string{
		"packages/apps/Settings/src",
		"frameworks/base/packages/SettingsLib/src",
		"frameworks/base/core/java",
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0755))
	}

	data, err := json.Marshal(moduleInfo)
	require.NoError(t, err)
	infoPath := filepath.Join(root, registry.ModuleInfoFilename)
	require.NoError(t, os.WriteFile(infoPath, data, 0644))

	reg, err := registry.NewRegistry(registry.Config{ModuleInfoFile: infoPath})
	require.NoError(t, err)
	return root, reg
}

func TestBuilderDepthZero(t *testing.T) {
	root, reg := newTestTree(t)

	p, err := NewBuilder(reg, root, 0, log.Root()).Build("Settings")
	require.NoError(t, err)

	assert.Equal(t, "Settings", p.ModuleName)
	assert.Equal(t, filepath.Join(root, "packages/apps/Settings"), p.ModulePath)
	assert.Equal(t, []string{"packages/apps/Settings/src"}, p.SourceList())
	assert.Empty(t, p.JarDeps)
	assert.Empty(t, p.DepModules)
}

func TestBuilderWithDepth(t *testing.T) {
	root, reg := newTestTree(t)

	p, err := NewBuilder(reg, root, 2, log.Root()).Build("Settings")
	require.NoError(t, err)

	assert.Equal(t, []string{"SettingsLib", "framework", "guava"}, p.DepModules)
	assert.Equal(t, []string{"out/soong/guava/guava.jar"}, p.JarDeps)
	assert.Contains(t, p.SourceList(), "frameworks/base/packages/SettingsLib/src")
	assert.Contains(t, p.SourceList(), "frameworks/base/core/java")
}

func TestBuilderResolvesByPath(t *testing.T) {
	root, reg := newTestTree(t)

	p, err := NewBuilder(reg, root, 0, log.Root()).Build("packages/apps/Settings")
	require.NoError(t, err)
	assert.Equal(t, "Settings", p.ModuleName)
}

func TestBuilderUnknownTarget(t *testing.T) {
	root, reg := newTestTree(t)

	_, err := NewBuilder(reg, root, 0, log.Root()).Build("NoSuchModule")
	require.Error(t, err)
}

func TestGenerateIML(t *testing.T) {
	root, reg := newTestTree(t)

	// An AndroidManifest.xml makes the module an Android-facet project.
	manifest := filepath.Join(root, "packages/apps/Settings/AndroidManifest.xml")
	require.NoError(t, os.WriteFile(manifest, []byte("<manifest/>"), 0644))

	p, err := NewBuilder(reg, root, 2, log.Root()).Build("Settings")
	require.NoError(t, err)

	imlPath, depsPath, err := GenerateIML(p)
	require.NoError(t, err)

	iml, err := os.ReadFile(imlPath)
	require.NoError(t, err)
	content := string(iml)
	assert.Contains(t, content, `<facet type="android" name="Android">`)
	assert.Contains(t, content, `sourceFolder url="file://`+root+`/packages/apps/Settings/src" isTestSource="false"`)
	assert.Contains(t, content, `module-name="dependencies"`)

	deps, err := os.ReadFile(depsPath)
	require.NoError(t, err)
	assert.Contains(t, string(deps), `jar://`+root+`/out/soong/guava/guava.jar!/`)
}

func TestGenerateIMLWithoutFacet(t *testing.T) {
	root, reg := newTestTree(t)

	p, err := NewBuilder(reg, root, 0, log.Root()).Build("SettingsLib")
	require.NoError(t, err)

	imlPath, _, err := GenerateIML(p)
	require.NoError(t, err)

	iml, err := os.ReadFile(imlPath)
	require.NoError(t, err)
	assert.NotContains(t, string(iml), "FacetManager")
}

func TestGenerateIdeaDir(t *testing.T) {
	root, reg := newTestTree(t)

	p, err := NewBuilder(reg, root, 0, log.Root()).Build("Settings")
	require.NoError(t, err)

	imlPath, depsPath, err := GenerateIML(p)
	require.NoError(t, err)
	require.NoError(t, GenerateIdeaDir(p, imlPath, depsPath))

	ideaDir := filepath.Join(p.ModulePath, ".idea")

	modules, err := os.ReadFile(filepath.Join(ideaDir, "modules.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(modules), imlPath)
	assert.Contains(t, string(modules), depsPath)

	vcs, err := os.ReadFile(filepath.Join(ideaDir, "vcs.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(vcs), `vcs="Git"`)

	name, err := os.ReadFile(filepath.Join(ideaDir, ".name"))
	require.NoError(t, err)
	assert.Equal(t, "Settings", string(name))

	misc, err := os.ReadFile(filepath.Join(ideaDir, "misc.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(misc), `project-jdk-name="JDK18"`)
}

func TestGenerateEclipse(t *testing.T) {
	root, reg := newTestTree(t)

	p, err := NewBuilder(reg, root, 2, log.Root()).Build("Settings")
	require.NoError(t, err)
	require.NoError(t, GenerateEclipse(p))

	proj, err := os.ReadFile(filepath.Join(p.ModulePath, ".project"))
	require.NoError(t, err)
	assert.Contains(t, string(proj), "<name>Settings</name>")
	assert.Contains(t, string(proj), "org.eclipse.jdt.core.javanature")

	classpath, err := os.ReadFile(filepath.Join(p.ModulePath, ".classpath"))
	require.NoError(t, err)
	assert.Contains(t, string(classpath), `kind="src" path="`+root+`/packages/apps/Settings/src"`)
	assert.Contains(t, string(classpath), `kind="output" path="bin"`)
}

func TestGenerateEclipseIncludesJars(t *testing.T) {
	root, reg := newTestTree(t)

	p, err := NewBuilder(reg, root, 2, log.Root()).Build("Settings")
	require.NoError(t, err)
	require.NoError(t, GenerateEclipse(p))

	classpath, err := os.ReadFile(filepath.Join(p.ModulePath, ".classpath"))
	require.NoError(t, err)
	assert.Contains(t, string(classpath), `kind="lib" path="`+root+`/out/soong/guava/guava.jar"`)
}
