package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetYamlFileName(t *testing.T) {
	tempDir := t.TempDir()

	// Create eldev.yaml.
	fileName := filepath.Join(tempDir, "eldev.yaml")
	f, err := os.Create(fileName)
	require.NoError(t, err)
	f.Close()

	fileNameFound, err := GetYamlFileName(fileName, true)
	assert.NoError(t, err)
	assert.Equal(t, fileName, fileNameFound)

	fileNameFound, err = GetYamlFileName(filepath.Join(tempDir, "eldev.yml"), true)
	assert.NoError(t, err)
	assert.Equal(t, fileName, fileNameFound)

	fileNameFound, err = GetYamlFileName(filepath.Join(tempDir, "eldev"), true)
	assert.NoError(t, err)
	assert.Equal(t, fileName, fileNameFound)

	// Create eldev.yml, so both files exist.
	f, err = os.Create(filepath.Join(tempDir, "eldev.yml"))
	require.NoError(t, err)
	f.Close()

	_, err = GetYamlFileName(fileName, true)
	assert.ErrorContains(t, err, "more than one YAML files are found")

	fileNameFound, err = GetYamlFileName(filepath.Join(tempDir, "missing.yaml"), true)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, "", fileNameFound)

	fileNameFound, err = GetYamlFileName(filepath.Join(tempDir, "missing.yaml"), false)
	assert.NoError(t, err)
	assert.Equal(t, "", fileNameFound)

	_, err = GetYamlFileName(filepath.Join(tempDir, "eldev.txt"), true)
	assert.EqualError(t, err, "provided file '"+filepath.Join(tempDir, "eldev.txt")+
		"' has no .yaml/.yml extension")
}

func TestIsSubPath(t *testing.T) {
	testCases := []struct {
		base     string
		path     string
		expected bool
	}{
		{"/project", "/project/out", true},
		{"/project", "/project/a/b", true},
		{"/project", "/project", false},
		{"/project", "/", false},
		{"/project", "/other", false},
		{"/project", "/project-out", false},
		{"/project", "/project/..out", true},
	}

	for _, tc := range testCases {
		t.Run(tc.base+"->"+tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsSubPath(tc.base, tc.path))
		})
	}
}

func TestRemoveAll(t *testing.T) {
	tempDir := t.TempDir()
	outDir := filepath.Join(tempDir, "out")
	require.NoError(t, os.MkdirAll(filepath.Join(outDir, "assets"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "assets", "main.js"), []byte("x"),
		0644))

	require.NoError(t, RemoveAll(outDir))
	assert.NoDirExists(t, outDir)

	// Removing a missing directory is not an error.
	require.NoError(t, RemoveAll(outDir))
}

func TestAskConfirm(t *testing.T) {
	confirmed, err := AskConfirm(strings.NewReader("maybe\nyes\n"), "Remove?")
	require.NoError(t, err)
	assert.True(t, confirmed)

	confirmed, err = AskConfirm(strings.NewReader("N\n"), "Remove?")
	require.NoError(t, err)
	assert.False(t, confirmed)

	_, err = AskConfirm(strings.NewReader(""), "Remove?")
	assert.Error(t, err)
}

func TestParseYAML(t *testing.T) {
	tempDir := t.TempDir()
	cfgPath := filepath.Join(tempDir, "eldev.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("eldev:\n  electron:\n    verbose: true\n"),
		0644))

	raw, err := ParseYAML(cfgPath)
	require.NoError(t, err)
	require.Contains(t, raw, "eldev")

	require.NoError(t, os.WriteFile(cfgPath, []byte("eldev: [\n"), 0644))
	_, err = ParseYAML(cfgPath)
	assert.ErrorContains(t, err, "failed to parse YAML")

	_, err = ParseYAML(filepath.Join(tempDir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read")
}
