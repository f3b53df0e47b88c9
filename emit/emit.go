package emit

import (
	"os"
	"path/filepath"

	"github.com/helfem/hipgen/errors"
)

// HeaderLines returns the banner every generated file starts with.
// Generators prefix each line with their own comment syntax.
func HeaderLines(model *Model) []string {
	return []string{
		"Code generated by hipgen. DO NOT EDIT.",
		"Regenerate with: hipgen generate",
		"Generator version: " + model.Version,
	}
}

// Output is one rendered file together with its destination path.
type Output struct {
	Language string
	Path     string
	Content  string
}

// Render runs a generator over the model and pairs the result with the
// destination path it should be written to.
func Render(g Generator, model *Model, path string) (*Output, error) {
	content, err := g.GenerateFile(model)
	if err != nil {
		return nil, errors.Wrapf(err, "rendering %s output", g.Language())
	}
	return &Output{
		Language: g.Language(),
		Path:     path,
		Content:  content,
	}, nil
}

// Write persists the rendered file, creating parent directories as needed.
func (o *Output) Write() error {
	if err := os.MkdirAll(filepath.Dir(o.Path), 0o755); err != nil {
		return errors.Wrapf(err, "creating output directory for %s", o.Path)
	}
	if err := os.WriteFile(o.Path, []byte(o.Content), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", o.Path)
	}
	return nil
}
