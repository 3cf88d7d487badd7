// Package sdk locates the Android SDK and keeps the IDE's jdk.table.xml in
// sync with it so "Attach debugger to Android process" works out of the box.
package sdk

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

// Letter-coded platform directories and the API level each maps to.
// Codes beyond the highest known letter clamp to the highest known level.
var apiVersionMapping = map[string]int{
	"Q": 29,
	"P": 28,
	"O": 27,
	"N": 25,
	"M": 23,
}

const (
	maxKnownAPICode  = "Q"
	maxKnownAPILevel = 29
	platformsDirName = "platforms"
)

var apiLevelRE = regexp.MustCompile(`^android-([0-9]+|[A-Z])$`)

// AndroidSDK answers questions about an SDK installation directory.
type AndroidSDK struct {
	// PlatformMapping maps each platform directory name under platforms/
	// (e.g. "android-29") to its numeric API level.
	PlatformMapping map[string]int
}

// NewAndroidSDK scans sdkPath and returns the SDK description, or ok=false
// when the path does not look like an Android SDK installation.
func NewAndroidSDK(sdkPath string) (*AndroidSDK, bool) {
	mapping := platformMapping(sdkPath)
	if len(mapping) == 0 {
		return nil, false
	}
	return &AndroidSDK{PlatformMapping: mapping}, true
}

// IsAndroidSDKPath reports whether path holds at least one parseable
// platform directory.
func IsAndroidSDKPath(path string) bool {
	return len(platformMapping(path)) > 0
}

// MaxAPILevel returns the highest API level installed, or 0 when none.
func (s *AndroidSDK) MaxAPILevel() int {
	max := 0
	for _, level := range s.PlatformMapping {
		if level > max {
			max = level
		}
	}
	return max
}

// MaxPlatform returns the platform directory name carrying the highest API
// level, or an empty string when none is installed.
func (s *AndroidSDK) MaxPlatform() string {
	name, max := "", 0
	for platform, level := range s.PlatformMapping {
		if level > max {
			name, max = platform, level
		}
	}
	return name
}

// ParseAPILevel converts a platform directory name such as "android-29" or
// "android-Q" to its numeric API level. Letter codes newer than the known
// mapping clamp to the highest known level. Returns 0 when name is not a
// platform directory.
func ParseAPILevel(name string) int {
	m := apiLevelRE.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	code := m[1]
	if level, err := strconv.Atoi(code); err == nil {
		return level
	}
	if level, ok := apiVersionMapping[code]; ok {
		return level
	}
	if code > maxKnownAPICode {
		return maxKnownAPILevel
	}
	return 0
}

func platformMapping(sdkPath string) map[string]int {
	entries, err := os.ReadDir(filepath.Join(sdkPath, platformsDirName))
	if err != nil {
		return nil
	}
	mapping := make(map[string]int)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if level := ParseAPILevel(entry.Name()); level > 0 {
			mapping[entry.Name()] = level
		}
	}
	return mapping
}
