package asuite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferencesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "asuite.yaml")

	prefs := Preferences{
		DefaultIDE:     "s",
		IDEPath:        "/opt/android-studio/bin/studio.sh",
		JDKPath:        "/opt/jdk8",
		AndroidSDKPath: "/home/user/Android/Sdk",
	}
	require.NoError(t, SavePreferences(path, prefs))

	loaded, err := LoadPreferences(path)
	require.NoError(t, err)
	assert.Equal(t, prefs, loaded)
}

func TestLoadPreferencesMissingFile(t *testing.T) {
	prefs, err := LoadPreferences(filepath.Join(t.TempDir(), "asuite.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Preferences{}, prefs)
}

func TestLoadPreferencesMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "asuite.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_ide: [unclosed"), 0644))

	_, err := LoadPreferences(path)
	require.Error(t, err)
}

func TestResetPreferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "asuite.yaml")
	require.NoError(t, SavePreferences(path, Preferences{DefaultIDE: "e"}))

	require.NoError(t, ResetPreferences(path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Resetting again is not an error.
	require.NoError(t, ResetPreferences(path))
}
