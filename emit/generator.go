// Package emit turns assembled derivative formulas into source code for
// multiple target languages.
//
// # Architecture
//
// The package uses a two-layer design:
//  1. Language-agnostic assembly (expand, formula) produces a generic Model
//  2. Language-specific generators (cpp/, golang/, markdown/) format the Model
//
// This separation allows adding new target languages without touching the
// symbolic layer, and lets the symbolic layer be tested numerically without
// any text formatting in the way.
//
// # Design Decisions
//
// - Generators implement a common interface for extensibility
// - Deterministic output (insertion-ordered term sets, fixed case order)
//   enables CI validation via git diff
// - Header metadata lines that change between builds are filtered out by
//   the check comparison, so a rebuilt binary does not flag stale output
//
// # Implementing a New Generator
//
// To add support for a new language (e.g., Fortran):
//
//  1. Create package: emit/fortran/generator.go
//  2. Implement the Generator interface (see below)
//  3. Register the language in newGenerator() in cmd/hipgen/commands/generate.go
//  4. Add tests rendering a small model and checking the dispatch arms
//
// Example:
//
//	type FortranGenerator struct{}
//
//	func (g *FortranGenerator) Language() string { return "fortran" }
//	func (g *FortranGenerator) FileExtension() string { return "f90" }
//	func (g *FortranGenerator) GenerateFile(model *emit.Model) (string, error) {
//	    // Render the dispatch arms as a select case block
//	}
package emit

// Generator defines the interface for language-specific dispatch renderers.
// Each target language (C++, Go, Markdown) implements this interface.
type Generator interface {
	// GenerateFile renders the complete output file for the model
	GenerateFile(model *Model) (string, error)

	// FileExtension returns the file extension for this language (e.g., "cpp", "go")
	FileExtension() string

	// Language returns the language name (e.g., "cpp", "go", "markdown")
	Language() string
}
