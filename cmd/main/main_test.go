package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "categories.json")
	require.NoError(t, os.WriteFile(catalogPath,
		[]byte(`{"data":[{"name":"家電・スマホ・カメラ","id":"7","child":[{"name":"家電","id":"72"}]}]}`), 0o644))

	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath,
		[]byte("catalog:\n  path: "+catalogPath+"\n  format: json\nlog:\n  level: error\n"), 0o644))
	return configPath
}

func TestCategoriesResolvesNames(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", writeConfig(t), "categories", "electronics", "Hats"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "electronics\t72\n")
	assert.Contains(t, out.String(), "Hats\t-\n")
}

func TestCategoriesListsCatalog(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", writeConfig(t), "categories"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "72\t家電\n")
	assert.Contains(t, out.String(), "2 categories\n")
}

func TestREPLExitsCleanly(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(bytes.NewBufferString("EXIT\n"))
	cmd.SetArgs([]string{"--config", writeConfig(t)})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Goodbye!")
}
