package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/helfem/hipgen/errors"
	"github.com/helfem/hipgen/logger"
)

// createBackup creates rotating backups (.back1, .back2, .back3) before modifying config
func createBackup(configPath string) error {
	// Check if file exists before backing up
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil // No file to backup
	}

	// Rotate backups: .back3 -> delete, .back2 -> .back3, .back1 -> .back2, current -> .back1
	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	// Delete oldest backup if exists
	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		// Deletion failures don't block the save
		logger.Warnw("Failed to delete old config backup", "path", back3, "error", err)
	}

	// Rotate .back2 to .back3
	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}

	// Rotate .back1 to .back2
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	// Copy current to .back1
	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}

	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}

	return nil
}

// LocalConfigPath returns the path to the CLI-managed override file in
// ~/.hipgen/hipgen_local.toml. Values written here sit above the user
// config and below the project config.
func LocalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".hipgen", "hipgen_local.toml")
}

// loadOrInitializeLocalConfig loads the override file, or starts an empty
// one if it doesn't exist
func loadOrInitializeLocalConfig() (map[string]interface{}, string, error) {
	configPath := LocalConfigPath()
	if configPath == "" {
		return nil, "", errors.New("could not determine home directory")
	}

	// Ensure ~/.hipgen directory exists
	hipgenDir := filepath.Dir(configPath)
	if err := os.MkdirAll(hipgenDir, DefaultDirPermissions); err != nil {
		return nil, "", errors.Wrap(err, "failed to create .hipgen directory")
	}

	var config map[string]interface{}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, "", errors.Wrap(err, "failed to parse local config")
		}
	} else {
		config = make(map[string]interface{})
	}

	return config, configPath, nil
}

// saveLocalConfig writes the override config with backup rotation
func saveLocalConfig(config map[string]interface{}, configPath string) error {
	if err := createBackup(configPath); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	// Mark this as our own write to prevent reload loops
	globalWatcherMu.Lock()
	if globalWatcher != nil {
		globalWatcher.MarkOwnWrite()
	}
	globalWatcherMu.Unlock()

	if err := os.WriteFile(configPath, data, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to write local config")
	}

	return nil
}

// SetValue writes one dotted key into the local override config, creating
// intermediate sections as needed
func SetValue(key string, value interface{}) error {
	if key == "" {
		return errors.New("config key cannot be empty")
	}

	config, configPath, err := loadOrInitializeLocalConfig()
	if err != nil {
		return errors.Wrap(err, "failed to load local config")
	}

	applyValue(config, key, value)

	return saveLocalConfig(config, configPath)
}

// applyValue sets a dotted key inside a nested section map
func applyValue(config map[string]interface{}, key string, value interface{}) {
	parts := strings.Split(key, ".")
	section := config
	for _, part := range parts[:len(parts)-1] {
		child, ok := section[part].(map[string]interface{})
		if !ok {
			child = make(map[string]interface{})
			section[part] = child
		}
		section = child
	}
	section[parts[len(parts)-1]] = value
}

// WriteDefaultConfig writes a starter hipgen.toml at path, backing up any
// existing file first
func WriteDefaultConfig(path string) error {
	if err := createBackup(path); err != nil {
		return errors.Wrap(err, "failed to back up existing config")
	}

	targets := make([]map[string]interface{}, 0, len(DefaultTargets()))
	for _, t := range DefaultTargets() {
		targets = append(targets, map[string]interface{}{
			"language": t.Language,
			"output":   t.Output,
		})
	}

	starter := map[string]interface{}{
		"generator": map[string]interface{}{
			"max_order":   DefaultMaxOrder,
			"table_depth": DefaultTableDepth,
			"output_dir":  "generated",
		},
		"log": map[string]interface{}{
			"json": false,
		},
		"targets": targets,
	}

	data, err := toml.Marshal(starter)
	if err != nil {
		return errors.Wrap(err, "failed to marshal starter config")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
			return errors.Wrap(err, "failed to create config directory")
		}
	}

	if err := os.WriteFile(path, data, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to write starter config")
	}

	return nil
}
