package asuite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDEType(t *testing.T) {
	tests := []struct {
		flag    string
		want    IDEType
		wantErr bool
	}{
		{flag: "j", want: IDEIntelliJ},
		{flag: "s", want: IDEAndroidStudio},
		{flag: "e", want: IDEEclipse},
		{flag: "x", wantErr: true},
		{flag: "", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseIDEType(tc.flag)
		if tc.wantErr {
			assert.Error(t, err, "flag %q", tc.flag)
			continue
		}
		require.NoError(t, err, "flag %q", tc.flag)
		assert.Equal(t, tc.want, got)
	}
}

func TestPathVersion(t *testing.T) {
	assert.Equal(t, "v2024.1", pathVersion("/opt/intellij-ce-2024.1/bin/idea.sh"))
	assert.Equal(t, "v2022.3.2", pathVersion("/opt/intellij-ce-2022.3.2/bin/idea.sh"))
	assert.Equal(t, "v0", pathVersion("/usr/bin/eclipse"))
}

func TestCompareIDEVersions(t *testing.T) {
	newer := "/opt/intellij-ce-2024.1/bin/idea.sh"
	older := "/opt/intellij-ce-2022.3/bin/idea.sh"
	assert.Positive(t, compareIDEVersions(newer, older))
	assert.Negative(t, compareIDEVersions(older, newer))
	assert.Zero(t, compareIDEVersions(newer, newer))
}

func TestFindIDEExplicitPath(t *testing.T) {
	idePath := filepath.Join(t.TempDir(), "idea.sh")
	require.NoError(t, os.WriteFile(idePath, []byte("#!/bin/sh\n"), 0755))

	found, err := FindIDE(IDEIntelliJ, idePath, log.New())
	require.NoError(t, err)
	assert.Equal(t, idePath, found)
}

func TestFindIDEExplicitPathMissing(t *testing.T) {
	_, err := FindIDE(IDEIntelliJ, filepath.Join(t.TempDir(), "nope"), log.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
