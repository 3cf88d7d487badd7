package sdk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSDKDir(t *testing.T, platforms ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, p := range platforms {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "platforms", p), 0755))
	}
	return root
}

func TestParseAPILevel(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"android-29", 29},
		{"android-23", 23},
		{"android-Q", 29},
		{"android-P", 28},
		{"android-O", 27},
		{"android-N", 25},
		{"android-M", 23},
		// Letter codes newer than the known mapping clamp to its max.
		{"android-R", 29},
		{"android-Z", 29},
		// Older unmapped letters and non-platform names parse to 0.
		{"android-A", 0},
		{"android-", 0},
		{"platform-tools", 0},
		{"android-29-extra", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAPILevel(tt.name))
		})
	}
}

func TestNewAndroidSDK(t *testing.T) {
	root := newSDKDir(t, "android-28", "android-29", "android-Q")

	sdk, ok := NewAndroidSDK(root)
	require.True(t, ok)
	assert.Equal(t, map[string]int{
		"android-28": 28,
		"android-29": 29,
		"android-Q":  29,
	}, sdk.PlatformMapping)
	assert.Equal(t, 29, sdk.MaxAPILevel())
	assert.Contains(t, []string{"android-29", "android-Q"}, sdk.MaxPlatform())
}

func TestNewAndroidSDKInvalidPath(t *testing.T) {
	_, ok := NewAndroidSDK(t.TempDir()) // no platforms dir
	assert.False(t, ok)

	root := newSDKDir(t) // empty platforms dir
	_, ok = NewAndroidSDK(root)
	assert.False(t, ok)

	assert.False(t, IsAndroidSDKPath("/nonexistent"))
	assert.True(t, IsAndroidSDKPath(newSDKDir(t, "android-30")))
}
