package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/pkg/errors"

	"github.com/verdictx/vx/internal/file"
)

var defaultConfig = Config{
	MasterAPIURL:     "https://squirarchical-isabel-designed.ngrok-free.dev",
	ExtractionAPIURL: "https://crampingly-untrying-trinh.ngrok-free.dev",
	RequestTimeout:   60,
	ThinkingDelayMs:  2000,

	Storage: &StorageConfig{
		DatabasePath:      "~/.config/vx/vx.db",
		DownloadDirectory: "~/Downloads",
	},
}

// Config holds configuration for the vx tool.
type Config struct {
	// Base URL of the prediction/QA backend.
	MasterAPIURL string `json:"master_api_url"`
	// Base URL of the extraction & drafting backend.
	ExtractionAPIURL string `json:"extraction_api_url"`
	// Per-request timeout, in seconds.
	RequestTimeout int `json:"request_timeout"`
	// Simulated latency of the feature-selection prompt, in milliseconds.
	ThinkingDelayMs int `json:"thinking_delay_ms"`

	Storage *StorageConfig `json:"storage"`
}

// StorageConfig holds configuration for local persistence.
type StorageConfig struct {
	// Path of the SQLite database holding users, chats and session state.
	DatabasePath string `json:"database_path"`
	// Directory extracted documents are saved to.
	DownloadDirectory string `json:"download_directory"`
}

// Parse a configuration file.
func Parse(path string) (*Config, error) {
	path, err := file.ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}

	if err := initializeIfNotPresent(path); err != nil {
		return nil, errors.Wrap(err, "initializing configuration")
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	config := &Config{}
	if err = json.Unmarshal(bytes, config); err != nil {
		return nil, errors.Wrap(err, "unmarshaling into config")
	}

	// Fill any field the file leaves unset from the defaults.
	if err := mergo.Merge(config, defaultConfig); err != nil {
		return nil, errors.Wrap(err, "merging defaults")
	}

	expandedDatabasePath, err := file.ExpandPath(config.Storage.DatabasePath)
	if err != nil {
		return nil, errors.Wrap(err, "expanding database path")
	}
	config.Storage.DatabasePath = expandedDatabasePath

	expandedDownloadDirectory, err := file.ExpandPath(config.Storage.DownloadDirectory)
	if err != nil {
		return nil, errors.Wrap(err, "expanding download directory")
	}
	config.Storage.DownloadDirectory = expandedDownloadDirectory
	return config, nil
}

// save a configuration file.
func (c *Config) save(path string) error {
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	err = os.WriteFile(path, bytes, 0644)
	if err != nil {
		return errors.Wrap(err, "writing file")
	}

	return nil
}

// initializeIfNotPresent initializes a config if it does not exist.
func initializeIfNotPresent(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	// Create the directories.
	dir, _ := filepath.Split(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating folders")
	}

	if err := defaultConfig.save(path); err != nil {
		return errors.Wrap(err, "saving default config")
	}
	return nil
}
