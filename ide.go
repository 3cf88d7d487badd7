package asuite

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"

	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/mod/semver"
)

// IDEType selects which IDE the project files target.
type IDEType int

const (
	IDEIntelliJ IDEType = iota
	IDEAndroidStudio
	IDEEclipse
)

// ParseIDEType maps the CLI letter to an IDEType.
func ParseIDEType(flag string) (IDEType, error) {
	switch flag {
	case "j":
		return IDEIntelliJ, nil
	case "s":
		return IDEAndroidStudio, nil
	case "e":
		return IDEEclipse, nil
	default:
		return 0, fmt.Errorf("unknown IDE type %q (j: IntelliJ, s: Android Studio, e: Eclipse)", flag)
	}
}

func (t IDEType) String() string {
	switch t {
	case IDEIntelliJ:
		return "IntelliJ"
	case IDEAndroidStudio:
		return "Android Studio"
	case IDEEclipse:
		return "Eclipse"
	default:
		return "unknown"
	}
}

// Install-path globs scanned per IDE, in priority order.
var ideSearchGlobs = map[IDEType][]string{
	IDEIntelliJ: {
		"/opt/intellij-*/bin/idea.sh",
		"/usr/local/intellij-*/bin/idea.sh",
		"/snap/intellij-idea-*/current/bin/idea.sh",
	},
	IDEAndroidStudio: {
		"/opt/android-studio-*/bin/studio.sh",
		"/opt/android-studio/bin/studio.sh",
	},
	IDEEclipse: {
		"/opt/eclipse*/eclipse",
		"/usr/bin/eclipse",
	},
}

var ideVersionRE = regexp.MustCompile(`(\d+(?:\.\d+)*)`)

// FindIDE locates the IDE executable. An explicit path wins; otherwise the
// install globs are scanned and the newest versioned install is picked.
func FindIDE(ide IDEType, explicitPath string, logger log.Logger) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("IDE executable %s not found: %w", explicitPath, err)
		}
		return explicitPath, nil
	}

	var candidates []string
	for _, glob := range ideSearchGlobs[ide] {
		matches, err := filepath.Glob(glob)
		if err != nil {
			continue
		}
		candidates = append(candidates, matches...)
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no %s installation found; add it to a known install path or pass --ide-path", ide)
	}

	best := candidates[0]
	for _, candidate := range candidates[1:] {
		if compareIDEVersions(candidate, best) > 0 {
			best = candidate
		}
	}
	logger.Debug("Selected IDE executable", "ide", ide.String(), "path", best)
	return best, nil
}

// compareIDEVersions orders install paths by the version embedded in the
// path (e.g. intellij-ce-2024.1), newest first being the greater value.
func compareIDEVersions(a, b string) int {
	return semver.Compare(pathVersion(a), pathVersion(b))
}

func pathVersion(path string) string {
	m := ideVersionRE.FindString(path)
	if m == "" {
		return "v0"
	}
	return "v" + m
}

// LaunchIDE starts the IDE detached on the project directory so aidegen
// can exit while the IDE keeps running.
func LaunchIDE(idePath, projectDir string, logger log.Logger) error {
	cmd := exec.Command(idePath, projectDir)
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", idePath, err)
	}
	logger.Info("IDE launched", "path", idePath, "project", projectDir, "pid", cmd.Process.Pid)
	// Detach; the IDE outlives this process.
	return cmd.Process.Release()
}
