package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewConfigWatcher(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "hipgen.toml")
	if err := os.WriteFile(configPath, []byte(""), DefaultFilePermissions); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cw, err := NewConfigWatcher(configPath)
	if err != nil {
		t.Fatalf("NewConfigWatcher() failed: %v", err)
	}
	defer cw.Stop()

	if cw.configPath != configPath {
		t.Errorf("configPath = %q, want %q", cw.configPath, configPath)
	}
	if cw.debouncePeriod == 0 {
		t.Error("expected non-zero debounce period")
	}
}

func TestNewConfigWatcherMissingFile(t *testing.T) {
	_, err := NewConfigWatcher(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error watching missing file")
	}
}

func TestOnReload(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "hipgen.toml")
	os.WriteFile(configPath, []byte(""), DefaultFilePermissions)

	cw, err := NewConfigWatcher(configPath)
	if err != nil {
		t.Fatalf("NewConfigWatcher() failed: %v", err)
	}
	defer cw.Stop()

	cw.OnReload(func(*Config) error { return nil })
	cw.OnReload(func(*Config) error { return nil })

	cw.mu.RLock()
	defer cw.mu.RUnlock()
	if len(cw.callbacks) != 2 {
		t.Errorf("expected 2 callbacks, got %d", len(cw.callbacks))
	}
}

func TestMarkOwnWrite(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "hipgen.toml")
	os.WriteFile(configPath, []byte(""), DefaultFilePermissions)

	cw, err := NewConfigWatcher(configPath)
	if err != nil {
		t.Fatalf("NewConfigWatcher() failed: %v", err)
	}
	defer cw.Stop()

	if cw.checkOwnWrite() {
		t.Error("flag should start cleared")
	}

	cw.MarkOwnWrite()
	if !cw.checkOwnWrite() {
		t.Error("expected flag set after MarkOwnWrite")
	}

	// Check consumes the flag
	if cw.checkOwnWrite() {
		t.Error("expected flag cleared after check")
	}
}

func TestIsBackupFile(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"hipgen.toml.back1", true},
		{"hipgen.toml.back2", true},
		{"hipgen.toml.back3", true},
		{"/home/user/.hipgen/hipgen_local.toml.back1", true},
		{"hipgen.toml", false},
		{"hipgen.toml.back4", false},
		{"backup.toml", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := isBackupFile(tt.path); got != tt.expected {
				t.Errorf("isBackupFile(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestGlobalWatcher(t *testing.T) {
	defer SetGlobalWatcher(nil)

	if GetGlobalWatcher() != nil {
		t.Error("expected no global watcher initially")
	}

	configPath := filepath.Join(t.TempDir(), "hipgen.toml")
	os.WriteFile(configPath, []byte(""), DefaultFilePermissions)

	cw, err := NewConfigWatcher(configPath)
	if err != nil {
		t.Fatalf("NewConfigWatcher() failed: %v", err)
	}
	defer cw.Stop()

	SetGlobalWatcher(cw)
	if GetGlobalWatcher() != cw {
		t.Error("expected global watcher set")
	}
}
