package actions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOutput(t *testing.T) (*Output, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "output")
	t.Setenv(OutputEnvVarName, path)
	return NewOutput(), path
}

func TestSetAppendsKeyValueLines(t *testing.T) {
	output, path := newTestOutput(t)

	require.NoError(t, output.Set("NEEDS_BUILD", "true"))
	require.NoError(t, output.Set("LATEST_VERSION", "v2.8.4"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "NEEDS_BUILD=true\nLATEST_VERSION=v2.8.4\n", string(content))
}

func TestSetWrapsMultiLineValuesInHeredoc(t *testing.T) {
	output, path := newTestOutput(t)

	value := "line one\nline two"
	require.NoError(t, output.Set("SUMMARY", value))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
	require.Len(t, lines, 4)

	name, delimiter, found := strings.Cut(lines[0], "<<")
	require.True(t, found)
	assert.Equal(t, "SUMMARY", name)
	assert.True(t, strings.HasPrefix(delimiter, "ghadelimiter_"))
	assert.Equal(t, "line one", lines[1])
	assert.Equal(t, "line two", lines[2])
	assert.Equal(t, delimiter, lines[3])
	assert.NotContains(t, value, delimiter)
}

func TestSetGeneratesFreshDelimiters(t *testing.T) {
	output, path := newTestOutput(t)

	require.NoError(t, output.Set("FIRST", "a\nb"))
	require.NoError(t, output.Set("SECOND", "c\nd"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var delimiters []string
	for _, line := range strings.Split(string(content), "\n") {
		if _, delimiter, found := strings.Cut(line, "<<"); found {
			delimiters = append(delimiters, delimiter)
		}
	}
	require.Len(t, delimiters, 2)
	assert.NotEqual(t, delimiters[0], delimiters[1])
}

func TestSetWithoutOutputFileWarnsAndContinues(t *testing.T) {
	t.Setenv(OutputEnvVarName, "")
	output := NewOutput()
	require.NoError(t, output.Set("NEEDS_BUILD", "false"))
}
