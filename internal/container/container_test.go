package container

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mercari/shopper/internal/config"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureLogging(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)
	defer log.SetFormatter(&log.TextFormatter{})

	require.NoError(t, ConfigureLogging(config.LogConfig{Level: "debug", Format: "json"}))
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)

	assert.Error(t, ConfigureLogging(config.LogConfig{Level: "loud", Format: "text"}))
}

func TestLoadCatalogMissingFileIsEmpty(t *testing.T) {
	c := LoadCatalog(config.CatalogConfig{Path: filepath.Join(t.TempDir(), "nope.json"), Format: "json"})

	require.NotNil(t, c)
	assert.Equal(t, 0, c.Len())
	_, ok := c.Lookup("家電")
	assert.False(t, ok)
}

func TestNewWithoutStoresRunsREPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"data":[{"name":"家電","id":"72"}]}`), 0o644))

	cfg := config.Defaults()
	cfg.Catalog.Path = path

	app, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	id, ok := app.Catalog.Lookup("家電")
	require.True(t, ok)
	assert.Equal(t, "72", id)

	ids, warnings := app.Matcher.MatchCategories([]string{"electronics"})
	assert.Equal(t, []string{"72"}, ids)
	assert.Empty(t, warnings)

	var out bytes.Buffer
	require.NoError(t, app.Run(context.Background(), strings.NewReader("exit\n"), &out))
	assert.Contains(t, out.String(), "Goodbye!")
}
