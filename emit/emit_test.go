package emit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	content string
	err     error
}

func (s *stubGenerator) GenerateFile(*Model) (string, error) { return s.content, s.err }
func (s *stubGenerator) FileExtension() string               { return "txt" }
func (s *stubGenerator) Language() string                    { return "stub" }

func TestHeaderLines(t *testing.T) {
	model := &Model{Version: "1.2.3"}

	lines := HeaderLines(model)
	require.Len(t, lines, 3)
	assert.Equal(t, "Code generated by hipgen. DO NOT EDIT.", lines[0])
	assert.Equal(t, "Regenerate with: hipgen generate", lines[1])
	assert.Equal(t, "Generator version: 1.2.3", lines[2])
}

func TestRender(t *testing.T) {
	gen := &stubGenerator{content: "hello\n"}

	out, err := Render(gen, &Model{}, "/tmp/out.txt")
	require.NoError(t, err)
	assert.Equal(t, "stub", out.Language)
	assert.Equal(t, "/tmp/out.txt", out.Path)
	assert.Equal(t, "hello\n", out.Content)
}

func TestRenderPropagatesErrors(t *testing.T) {
	gen := &stubGenerator{err: os.ErrClosed}

	_, err := Render(gen, &Model{}, "/tmp/out.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rendering stub output")
}

func TestOutputWrite(t *testing.T) {
	dir := t.TempDir()
	out := &Output{
		Language: "stub",
		Path:     filepath.Join(dir, "nested", "out.txt"),
		Content:  "generated\n",
	}

	require.NoError(t, out.Write())

	data, err := os.ReadFile(out.Path)
	require.NoError(t, err)
	assert.Equal(t, "generated\n", string(data))
}
