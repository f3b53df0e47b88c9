// Package markdown renders the assembled derivative formulas as a
// reference document. Unlike the code generators it prints the formula
// trees directly, so the document shows exactly what the dispatch arms
// compute.
package markdown

import (
	"fmt"
	"strings"

	"github.com/helfem/hipgen/emit"
	"github.com/helfem/hipgen/errors"
	"github.com/helfem/hipgen/formula"
)

// Options controls the document framing.
type Options struct {
	// Title is the top-level heading.
	Title string
}

// DefaultOptions returns the shipped document title.
func DefaultOptions() Options {
	return Options{
		Title: "Hermite basis derivative formulas",
	}
}

// Generator renders Markdown output.
type Generator struct {
	opts Options
}

// NewGenerator creates a Markdown generator. Empty option fields fall
// back to the defaults.
func NewGenerator(opts Options) *Generator {
	if opts.Title == "" {
		opts.Title = DefaultOptions().Title
	}
	return &Generator{opts: opts}
}

// Language returns the language name
func (g *Generator) Language() string {
	return "markdown"
}

// FileExtension returns the file extension for Markdown files
func (g *Generator) FileExtension() string {
	return "md"
}

// GenerateFile renders the document: notation, dispatch coverage, and
// one section per order with its squared-factor expansions and the two
// column formulas.
func (g *Generator) GenerateFile(model *emit.Model) (string, error) {
	if len(model.Cases) == 0 {
		return "", errors.AssertionFailedf("model has no dispatch arms")
	}

	var sb strings.Builder

	for _, line := range emit.HeaderLines(model) {
		sb.WriteString("<!-- " + line + " -->\n")
	}
	sb.WriteString("\n# " + g.opts.Title + "\n\n")

	vf := formula.ValueFactor()
	sf := formula.SlopeFactor()
	sb.WriteString("Each node contributes two basis functions built from its Lagrange\nfactor `l(x)`:\n\n")
	fmt.Fprintf(&sb, "- value function: `(%s) * l(x)^2`\n", vf.Value.String())
	fmt.Fprintf(&sb, "- slope function: `(%s) * l(x)^2`, scaled by `L`\n\n", sf.Value.String())
	sb.WriteString("`x0` is the node position, `s` the factor's derivative at its own node,\nand `L` the element length scale. `g(k)` denotes the k-th derivative of\n`l(x)`.\n\n")
	fmt.Fprintf(&sb, "The dispatch covers derivative orders 0 through %d; higher orders fail\nat runtime. The derivative table behind it reaches order %d.\n",
		model.DispatchLimit-1, model.TableDepth)

	for _, c := range model.Cases {
		writeSection(&sb, c)
	}

	return sb.String(), nil
}

func writeSection(sb *strings.Builder, c *formula.Case) {
	fmt.Fprintf(sb, "\n## Order %d\n\n", c.Order)

	sb.WriteString("| Level | Expansion |\n|-------|-----------|\n")
	if c.Prev != nil {
		fmt.Fprintf(sb, "| `d^%d[g^2]` | `%s` |\n", c.Order-1, c.Prev.String())
	}
	fmt.Fprintf(sb, "| `d^%d[g^2]` | `%s` |\n", c.Order, c.Cur.String())

	fmt.Fprintf(sb, "\nValue column: `%s`\n", c.Value.String())
	fmt.Fprintf(sb, "\nSlope column: `%s`\n", c.Slope.String())
}
