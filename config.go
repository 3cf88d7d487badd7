// Package asuite ties the asuite tool packages together: configuration,
// typed errors, IDE discovery and the aidegen generation pipeline.
package asuite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/TinkerBoard2-Android/tools-asuite/flags"
)

const (
	// preferencesDirName is created under the user config dir.
	preferencesDirName  = "asuite"
	preferencesFilename = "asuite.yaml"

	envAndroidBuildTop   = "ANDROID_BUILD_TOP"
	envAndroidProductOut = "ANDROID_PRODUCT_OUT"

	moduleInfoFilename = "module-info.json"
)

// Preferences are the persisted user defaults, loaded from and saved to
// ~/.config/asuite/asuite.yaml.
type Preferences struct {
	DefaultIDE     string `yaml:"default_ide,omitempty"`
	IDEPath        string `yaml:"ide_path,omitempty"`
	JDKPath        string `yaml:"jdk_path,omitempty"`
	AndroidSDKPath string `yaml:"android_sdk_path,omitempty"`
}

// Config holds the aidegen invocation configuration.
type Config struct {
	Targets        []string
	AndroidRoot    string // Absolute path of the source tree root
	ModuleInfoFile string // Path to module-info.json
	Depth          int    // Levels of module dependencies contributing sources
	IDE            IDEType
	IDEPath        string // Explicit IDE executable, empty means discover
	NoLaunch       bool
	SkipBuild      bool // Reuse the existing metadata snapshot
	AndroidTree    bool // Whole-tree project instead of per-module
	Preferences    Preferences
	Log            log.Logger
}

// NewConfig builds the aidegen Config from the CLI context, the environment
// and the saved preferences.
func NewConfig(ctx *cli.Context, logger log.Logger) (*Config, error) {
	if err := flags.CheckAidegen(ctx); err != nil {
		return nil, err
	}

	targets := ctx.Args().Slice()
	if len(targets) == 0 && !ctx.Bool(flags.AndroidTree.Name) {
		// No explicit target means "the module at the current directory".
		targets = []string{"."}
	}

	root, err := androidRoot()
	if err != nil {
		return nil, err
	}

	prefsPath, err := PreferencesPath()
	if err != nil {
		return nil, err
	}
	if ctx.Bool(flags.ConfigReset.Name) {
		if err := ResetPreferences(prefsPath); err != nil {
			return nil, err
		}
	}
	prefs, err := LoadPreferences(prefsPath)
	if err != nil {
		return nil, err
	}

	ideFlag := ctx.String(flags.IDE.Name)
	if !ctx.IsSet(flags.IDE.Name) && prefs.DefaultIDE != "" {
		ideFlag = prefs.DefaultIDE
	}
	ide, err := ParseIDEType(ideFlag)
	if err != nil {
		return nil, err
	}

	idePath := ctx.String(flags.IDEPath.Name)
	if idePath == "" {
		idePath = prefs.IDEPath
	}

	moduleInfoFile := ctx.String(flags.ModuleInfo.Name)
	if moduleInfoFile == "" {
		moduleInfoFile = defaultModuleInfoFile(root)
	}

	return &Config{
		Targets:        targets,
		AndroidRoot:    root,
		ModuleInfoFile: moduleInfoFile,
		Depth:          ctx.Int(flags.Depth.Name),
		IDE:            ide,
		IDEPath:        idePath,
		NoLaunch:       ctx.Bool(flags.NoLaunch.Name),
		SkipBuild:      ctx.Bool(flags.SkipBuild.Name),
		AndroidTree:    ctx.Bool(flags.AndroidTree.Name),
		Preferences:    prefs,
		Log:            logger,
	}, nil
}

// androidRoot resolves the source tree root: the build environment wins,
// then the working directory.
func androidRoot() (string, error) {
	if top := os.Getenv(envAndroidBuildTop); top != "" {
		return filepath.Abs(top)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return cwd, nil
}

// defaultModuleInfoFile prefers the lunch'd product out dir.
func defaultModuleInfoFile(root string) string {
	if out := os.Getenv(envAndroidProductOut); out != "" {
		return filepath.Join(out, moduleInfoFilename)
	}
	return filepath.Join(root, "out", moduleInfoFilename)
}

// PreferencesPath returns the location of the saved preferences file.
func PreferencesPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, preferencesDirName, preferencesFilename), nil
}

// LoadPreferences reads the preferences file; a missing file yields zero
// preferences rather than an error.
func LoadPreferences(path string) (Preferences, error) {
	var prefs Preferences
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, fmt.Errorf("failed to read preferences: %w", err)
	}
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return prefs, fmt.Errorf("failed to parse preferences %s: %w", path, err)
	}
	return prefs, nil
}

// SavePreferences persists prefs, creating the config directory if needed.
func SavePreferences(path string, prefs Preferences) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create preferences dir: %w", err)
	}
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ResetPreferences removes the saved preferences file if present.
func ResetPreferences(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to reset preferences: %w", err)
	}
	return nil
}
