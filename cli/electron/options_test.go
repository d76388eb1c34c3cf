package electron

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/eldev/eldev/cli/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEnvironment(t *testing.T) {
	testCases := map[string]string{
		"":            "development",
		"dev":         "development",
		"prod":        "production",
		"development": "development",
		"production":  "production",
		"test":        "test",
		"staging":     "staging",
	}
	for environment, expected := range testCases {
		t.Run(environment, func(t *testing.T) {
			assert.Equal(t, expected, NormalizeEnvironment(environment))
		})
	}
}

func TestOptionsResolve(t *testing.T) {
	projectDir := t.TempDir()

	opts, err := Options{}.Resolve(projectDir)
	require.NoError(t, err)
	assert.Equal(t, Options{
		Environment: "development",
		OutputPath:  filepath.Join(projectDir, "electron-livereload"),
	}, opts)

	opts, err = Options{Environment: "prod", OutputPath: "out", Verbose: true}.Resolve(projectDir)
	require.NoError(t, err)
	assert.Equal(t, Options{
		Environment: "production",
		OutputPath:  filepath.Join(projectDir, "out"),
		Verbose:     true,
	}, opts)

	outsideDir := filepath.Join(t.TempDir(), "out")
	opts, err = Options{OutputPath: outsideDir}.Resolve(projectDir)
	require.NoError(t, err)
	assert.Equal(t, outsideDir, opts.OutputPath)

	opts, err = Options{OutputPath: "dist/../out/"}.Resolve(projectDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(projectDir, "out"), opts.OutputPath)
}

func TestOptionsResolveUnsafeOutputPath(t *testing.T) {
	projectDir := t.TempDir()

	for _, outputPath := range []string{".", "..", "./", "sub/..", "../..", "/"} {
		t.Run(outputPath, func(t *testing.T) {
			_, err := Options{OutputPath: outputPath}.Resolve(projectDir)
			require.Error(t, err)
			var argErr *util.ArgError
			assert.True(t, errors.As(err, &argErr))
			assert.ErrorContains(t, err, "must not contain the project directory")
		})
	}
}
