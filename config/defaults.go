package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Generation range defaults
	v.SetDefault("generator.max_order", DefaultMaxOrder)
	v.SetDefault("generator.table_depth", DefaultTableDepth)
	v.SetDefault("generator.output_dir", "generated")

	// Log defaults
	v.SetDefault("log.json", false)
}

// BindEnvOverrides explicitly binds frequently overridden settings to
// environment variables
func BindEnvOverrides(v *viper.Viper) {
	v.BindEnv("generator.output_dir", "HIPGEN_OUTPUT_DIR")
	v.BindEnv("generator.max_order", "HIPGEN_MAX_ORDER")
	v.BindEnv("generator.table_depth", "HIPGEN_TABLE_DEPTH")
	v.BindEnv("log.json", "HIPGEN_LOG_JSON")
}

// DefaultTargets returns the outputs rendered when the config names none:
// the armadillo C++ unit, the Go bindings, and the formula document.
func DefaultTargets() []TargetConfig {
	return []TargetConfig{
		{Language: "cpp", Output: "HIPBasis_dnf.cpp"},
		{Language: "go", Output: "hip/dnf.go"},
		{Language: "markdown", Output: "docs/derivatives.md"},
	}
}

// GetTargets returns the configured targets, falling back to the default
// set when the config file names none
func (c *Config) GetTargets() []TargetConfig {
	if len(c.Targets) == 0 {
		return DefaultTargets()
	}
	return c.Targets
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{MaxOrder: %d, TableDepth: %d, OutputDir: %s, Targets: %d}",
		c.Generator.MaxOrder, c.Generator.TableDepth, c.Generator.OutputDir, len(c.GetTargets()))
}
