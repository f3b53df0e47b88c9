package config

import "github.com/helfem/hipgen/errors"

// knownLanguages are the renderers the generate pipeline can dispatch to.
var knownLanguages = map[string]bool{
	"cpp":      true,
	"go":       true,
	"markdown": true,
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Generator.MaxOrder < 1 {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"generator.max_order must be >= 1, got %d", c.Generator.MaxOrder)
	}
	if c.Generator.TableDepth < 0 {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"generator.table_depth must be >= 0, got %d", c.Generator.TableDepth)
	}

	// Order k needs table levels k and k-1, so the table must reach at
	// least MaxOrder-1. Equal is the serving minimum; the default keeps
	// one level of headroom above it.
	if c.Generator.TableDepth < c.Generator.MaxOrder-1 {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"generator.table_depth %d cannot serve dispatch range %d (needs >= %d)",
			c.Generator.TableDepth, c.Generator.MaxOrder, c.Generator.MaxOrder-1)
	}

	for i, target := range c.GetTargets() {
		if !knownLanguages[target.Language] {
			return errors.Wrapf(errors.ErrUnknownLanguage,
				"targets[%d].language %q is not supported (cpp, go, markdown)", i, target.Language)
		}
		if target.Output == "" {
			return errors.Wrapf(errors.ErrInvalidConfig,
				"targets[%d].output cannot be empty", i)
		}
	}

	return nil
}
