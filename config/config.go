package config

import "path/filepath"

// Config represents the hipgen generator configuration
type Config struct {
	Generator GeneratorConfig `mapstructure:"generator"`
	Log       LogConfig       `mapstructure:"log"`
	Targets   []TargetConfig  `mapstructure:"targets"`
}

// GeneratorConfig controls the derivative table and the dispatch range
type GeneratorConfig struct {
	// MaxOrder is the number of dispatch arms. Orders 0 through
	// MaxOrder-1 get closed-form code, everything above fails at
	// runtime in the generated dispatch.
	MaxOrder int `mapstructure:"max_order"`

	// TableDepth is the highest order the derivative term table is
	// expanded to. Order k needs table levels k and k-1, so this must
	// be at least MaxOrder-1. The default keeps one level above the
	// highest dispatched order, so raising max_order by one is a
	// config-only change.
	TableDepth int `mapstructure:"table_depth"`

	// OutputDir anchors relative target output paths.
	OutputDir string `mapstructure:"output_dir"`
}

// LogConfig configures log output
type LogConfig struct {
	JSON bool `mapstructure:"json"` // Structured JSON logs instead of console output
}

// TargetConfig is one rendered output file
type TargetConfig struct {
	Language string `mapstructure:"language"` // cpp, go, markdown
	Output   string `mapstructure:"output"`   // relative to generator.output_dir unless absolute

	// C++ naming (empty fields use the renderer defaults). Function also
	// names the Go dispatch.
	Namespace string `mapstructure:"namespace"`
	Class     string `mapstructure:"class"`
	Function  string `mapstructure:"function"`
	Primitive string `mapstructure:"primitive"`

	// Go naming
	Package   string `mapstructure:"package"`
	Interface string `mapstructure:"interface"`

	// Markdown framing
	Title string `mapstructure:"title"`

	// FormatCmd is run on the written file after generation, with the
	// file path appended as the last argument (e.g. "clang-format -i").
	FormatCmd string `mapstructure:"format_cmd"`
}

// OutputPath resolves the target's output location against dir.
func (t TargetConfig) OutputPath(dir string) string {
	if filepath.IsAbs(t.Output) {
		return t.Output
	}
	return filepath.Join(dir, t.Output)
}

// Generation range constants
const (
	DefaultMaxOrder   = 10 // dispatch arms for orders 0..9
	DefaultTableDepth = 10 // one level above the highest dispatched order
)

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
