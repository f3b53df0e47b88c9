package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateBackupRotation(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "hipgen_local.toml")

	versions := []string{"v1", "v2", "v3", "v4"}
	for _, content := range versions {
		if err := os.WriteFile(configPath, []byte(content), DefaultFilePermissions); err != nil {
			t.Fatalf("writing config: %v", err)
		}
		if err := createBackup(configPath); err != nil {
			t.Fatalf("createBackup() failed: %v", err)
		}
	}

	// Four rotations keep the three most recent copies; v1 falls off
	expected := map[string]string{
		".back1": "v4",
		".back2": "v3",
		".back3": "v2",
	}
	for suffix, want := range expected {
		data, err := os.ReadFile(configPath + suffix)
		if err != nil {
			t.Fatalf("reading %s: %v", suffix, err)
		}
		if string(data) != want {
			t.Errorf("%s = %q, want %q", suffix, data, want)
		}
	}
}

func TestCreateBackupMissingFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "hipgen_local.toml")

	if err := createBackup(configPath); err != nil {
		t.Fatalf("createBackup() on missing file failed: %v", err)
	}

	if _, err := os.Stat(configPath + ".back1"); !os.IsNotExist(err) {
		t.Error("expected no backup for missing config")
	}
}

func TestApplyValue(t *testing.T) {
	t.Run("top-level key", func(t *testing.T) {
		config := map[string]interface{}{}
		applyValue(config, "verbose", true)
		if config["verbose"] != true {
			t.Errorf("expected verbose=true, got %v", config["verbose"])
		}
	})

	t.Run("creates nested section", func(t *testing.T) {
		config := map[string]interface{}{}
		applyValue(config, "generator.max_order", 12)

		section, ok := config["generator"].(map[string]interface{})
		if !ok {
			t.Fatalf("expected generator section, got %T", config["generator"])
		}
		if section["max_order"] != 12 {
			t.Errorf("expected max_order=12, got %v", section["max_order"])
		}
	})

	t.Run("preserves sibling keys", func(t *testing.T) {
		config := map[string]interface{}{
			"generator": map[string]interface{}{"output_dir": "out"},
		}
		applyValue(config, "generator.max_order", 12)

		section := config["generator"].(map[string]interface{})
		if section["output_dir"] != "out" {
			t.Errorf("expected sibling output_dir preserved, got %v", section["output_dir"])
		}
		if section["max_order"] != 12 {
			t.Errorf("expected max_order=12, got %v", section["max_order"])
		}
	})

	t.Run("replaces scalar intermediate", func(t *testing.T) {
		config := map[string]interface{}{"generator": "oops"}
		applyValue(config, "generator.max_order", 12)

		section, ok := config["generator"].(map[string]interface{})
		if !ok {
			t.Fatalf("expected scalar replaced by section, got %T", config["generator"])
		}
		if section["max_order"] != 12 {
			t.Errorf("expected max_order=12, got %v", section["max_order"])
		}
	})
}

func TestSetValue(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := SetValue("generator.max_order", 12); err != nil {
		t.Fatalf("SetValue() failed: %v", err)
	}
	if err := SetValue("log.json", true); err != nil {
		t.Fatalf("SetValue() failed: %v", err)
	}

	cfg, err := LoadFromFile(LocalConfigPath())
	if err != nil {
		t.Fatalf("loading local config back: %v", err)
	}
	if cfg.Generator.MaxOrder != 12 {
		t.Errorf("expected max_order=12 round-tripped, got %d", cfg.Generator.MaxOrder)
	}
	if !cfg.Log.JSON {
		t.Error("expected log.json=true round-tripped")
	}

	// Second save rotated the first write into a backup
	if _, err := os.Stat(LocalConfigPath() + ".back1"); err != nil {
		t.Errorf("expected .back1 after second save: %v", err)
	}
}

func TestSetValueEmptyKey(t *testing.T) {
	if err := SetValue("", 1); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proj", "hipgen.toml")

	if err := WriteDefaultConfig(path); err != nil {
		t.Fatalf("WriteDefaultConfig() failed: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("loading starter config: %v", err)
	}

	if cfg.Generator.MaxOrder != DefaultMaxOrder {
		t.Errorf("starter max_order = %d, want %d", cfg.Generator.MaxOrder, DefaultMaxOrder)
	}
	if cfg.Generator.TableDepth != DefaultTableDepth {
		t.Errorf("starter table_depth = %d, want %d", cfg.Generator.TableDepth, DefaultTableDepth)
	}
	if cfg.Generator.OutputDir != "generated" {
		t.Errorf("starter output_dir = %q, want 'generated'", cfg.Generator.OutputDir)
	}

	if len(cfg.Targets) != 3 {
		t.Fatalf("starter targets = %d, want 3", len(cfg.Targets))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("starter config should validate: %v", err)
	}
}

func TestWriteDefaultConfigBacksUpExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hipgen.toml")

	if err := os.WriteFile(path, []byte("# hand-edited\n"), DefaultFilePermissions); err != nil {
		t.Fatalf("writing existing config: %v", err)
	}

	if err := WriteDefaultConfig(path); err != nil {
		t.Fatalf("WriteDefaultConfig() failed: %v", err)
	}

	data, err := os.ReadFile(path + ".back1")
	if err != nil {
		t.Fatalf("reading backup: %v", err)
	}
	if string(data) != "# hand-edited\n" {
		t.Errorf("backup content = %q, want original", data)
	}
}
