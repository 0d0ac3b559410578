package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("missing file is initialized with defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "config.json")

		config, err := Parse(path)
		require.NoError(t, err)
		assert.Equal(t, defaultConfig.MasterAPIURL, config.MasterAPIURL)
		assert.Equal(t, defaultConfig.RequestTimeout, config.RequestTimeout)
		assert.Equal(t, defaultConfig.ThinkingDelayMs, config.ThinkingDelayMs)

		// The file was written so it can be edited later.
		_, err = os.Stat(path)
		require.NoError(t, err)
	})

	t.Run("partial file is backfilled from defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		content, err := json.Marshal(map[string]any{
			"master_api_url":  "http://localhost:8000",
			"request_timeout": 5,
		})
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, content, 0644))

		config, err := Parse(path)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8000", config.MasterAPIURL)
		assert.Equal(t, 5, config.RequestTimeout)
		assert.Equal(t, defaultConfig.ExtractionAPIURL, config.ExtractionAPIURL)
		assert.Equal(t, defaultConfig.ThinkingDelayMs, config.ThinkingDelayMs)
		require.NotNil(t, config.Storage)
		assert.NotEmpty(t, config.Storage.DatabasePath)
	})

	t.Run("tilde paths are expanded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		content, err := json.Marshal(map[string]any{
			"storage": map[string]any{
				"database_path":      "~/vx-test/vx.db",
				"download_directory": "~/vx-test/downloads",
			},
		})
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, content, 0644))

		config, err := Parse(path)
		require.NoError(t, err)
		home, err := os.UserHomeDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "vx-test", "vx.db"), config.Storage.DatabasePath)
		assert.Equal(t, filepath.Join(home, "vx-test", "downloads"), config.Storage.DownloadDirectory)
	})

	t.Run("malformed file errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
		_, err := Parse(path)
		assert.Error(t, err)
	})
}
