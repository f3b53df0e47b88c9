// Package golang renders the derivative dispatch as a Go source file
// built on gonum dense matrices. Output is passed through goimports, so
// the rendered text is canonical gofmt.
package golang

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/helfem/hipgen/emit"
	"github.com/helfem/hipgen/errors"
	"github.com/helfem/hipgen/expand"
	"github.com/helfem/hipgen/formula"
)

// Options controls the Go names the rendered dispatch is embedded under.
type Options struct {
	// Package names the generated package.
	Package string

	// Function is the exported dispatch function name.
	Function string

	// Interface names the consumer-supplied basis data source.
	Interface string
}

// DefaultOptions returns the names used by the shipped Go bindings.
func DefaultOptions() Options {
	return Options{
		Package:   "hip",
		Function:  "EvalPrimDnf",
		Interface: "Basis",
	}
}

// Generator renders Go output.
type Generator struct {
	opts Options
}

// NewGenerator creates a Go generator. Empty option fields fall back to
// the defaults.
func NewGenerator(opts Options) *Generator {
	def := DefaultOptions()
	if opts.Package == "" {
		opts.Package = def.Package
	}
	if opts.Function == "" {
		opts.Function = def.Function
	}
	if opts.Interface == "" {
		opts.Interface = def.Interface
	}
	return &Generator{opts: opts}
}

// Language returns the language name
func (g *Generator) Language() string {
	return "go"
}

// FileExtension returns the file extension for Go files
func (g *Generator) FileExtension() string {
	return "go"
}

// GenerateFile renders the dispatch and runs it through goimports, so a
// malformed rendering fails generation instead of landing on disk.
func (g *Generator) GenerateFile(model *emit.Model) (string, error) {
	if len(model.Cases) == 0 {
		return "", errors.AssertionFailedf("model has no dispatch arms")
	}

	var sb strings.Builder

	for _, line := range emit.HeaderLines(model) {
		sb.WriteString("// " + line + "\n")
	}
	sb.WriteString("\npackage " + g.opts.Package + "\n\n")

	sb.WriteString("import (\n\t\"fmt\"\n\n\t\"gonum.org/v1/gonum/mat\"\n)\n\n")

	g.writeInterface(&sb)
	g.writeDispatch(&sb, model)

	formatted, err := imports.Process(g.opts.Package+".go", []byte(sb.String()), nil)
	if err != nil {
		return "", errors.Wrap(err, "formatting generated go source")
	}
	return string(formatted), nil
}

func (g *Generator) writeInterface(sb *strings.Builder) {
	sb.WriteString("// " + g.opts.Interface + " supplies the node data and single-factor derivatives the\n")
	sb.WriteString("// dispatch below consumes.\n")
	sb.WriteString("type " + g.opts.Interface + " interface {\n")
	sb.WriteString("\t// Nodes returns the node positions.\n")
	sb.WriteString("\tNodes() []float64\n\n")
	sb.WriteString("\t// NodeSlopes returns the per-node slope of the single factor at its\n")
	sb.WriteString("\t// own node.\n")
	sb.WriteString("\tNodeSlopes() []float64\n\n")
	sb.WriteString("\t// EvalPrimDnf returns the order-th derivative of the single factor,\n")
	sb.WriteString("\t// one row per point in x and one column per node.\n")
	sb.WriteString("\tEvalPrimDnf(x []float64, order int) *mat.Dense\n")
	sb.WriteString("}\n\n")
}

func (g *Generator) writeDispatch(sb *strings.Builder, model *emit.Model) {
	sb.WriteString("// " + g.opts.Function + " evaluates the n-th derivative of every basis function at\n")
	sb.WriteString("// every point in x. Rows follow x; node k owns column 2k (value\n")
	sb.WriteString("// function) and column 2k+1 (slope function, scaled by elementLength).\n")
	fmt.Fprintf(sb, "func %s(b %s, x []float64, n int, elementLength float64) (*mat.Dense, error) {\n",
		g.opts.Function, g.opts.Interface)
	sb.WriteString("\tswitch n {\n")

	for _, c := range model.Cases {
		g.writeCase(sb, c)
	}

	sb.WriteString("\tdefault:\n")
	sb.WriteString("\t\treturn nil, fmt.Errorf(\"%dth derivatives not implemented\", n)\n")
	sb.WriteString("\t}\n}\n")
}

func (g *Generator) writeCase(sb *strings.Builder, c *formula.Case) {
	fmt.Fprintf(sb, "\tcase %d:\n", c.Order)
	sb.WriteString("\t\tx0 := b.Nodes()\n")
	sb.WriteString("\t\tlipxi := b.NodeSlopes()\n")
	sb.WriteString("\t\tdnf := mat.NewDense(len(x), 2*len(x0), nil)\n")
	for _, k := range c.Prims {
		fmt.Fprintf(sb, "\t\t%slip := b.EvalPrimDnf(x, %d)\n", fname(k), k)
	}

	sb.WriteString("\t\tfor ix := range x {\n")
	sb.WriteString("\t\t\tfor fi := range x0 {\n")

	sb.WriteString("\t\t\t\tf1 := 1.0 - 2.0*(x[ix]-x0[fi])*lipxi[fi]\n")
	if c.Order > 0 {
		sb.WriteString("\t\t\t\tdf1 := -2.0 * lipxi[fi]\n")
	}
	sb.WriteString("\t\t\t\tf3 := x[ix] - x0[fi]\n")
	if c.Order > 0 {
		sb.WriteString("\t\t\t\tdf3 := 1.0\n")
	}

	if c.Order > 0 {
		sb.WriteString("\t\t\t\t" + termSum(fname(c.Order-1)+"2", c.Prev.Set) + "\n")
	}
	sb.WriteString("\t\t\t\t" + termSum(fname(c.Order)+"2", c.Cur.Set) + "\n")

	if c.Order == 0 {
		sb.WriteString("\t\t\t\tdnf.Set(ix, 2*fi, f1*f2)\n")
		sb.WriteString("\t\t\t\tdnf.Set(ix, 2*fi+1, f3*f2*elementLength)\n")
	} else {
		prev := fname(c.Order-1) + "2"
		cur := fname(c.Order) + "2"
		fmt.Fprintf(sb, "\t\t\t\tdnf.Set(ix, 2*fi, %d*df1*%s+f1*%s)\n", c.Order, prev, cur)
		fmt.Fprintf(sb, "\t\t\t\tdnf.Set(ix, 2*fi+1, (%d*df3*%s+f3*%s)*elementLength)\n", c.Order, prev, cur)
	}

	sb.WriteString("\t\t\t}\n\t\t}\n")
	sb.WriteString("\t\treturn dnf, nil\n")
}

// termSum renders one derivative level of the squared factor. The two
// shapes keep the text gofmt-stable: a lone product prints with spaced
// operators, a sum of products prints tight products joined by spaced
// plus signs.
func termSum(label string, set *expand.TermSet) string {
	terms := set.Terms()
	if len(terms) == 1 {
		return label + " := " + strings.Join(productFactors(terms[0]), " * ")
	}
	products := make([]string, len(terms))
	for i, e := range terms {
		products[i] = strings.Join(productFactors(e), "*")
	}
	return label + " := " + strings.Join(products, " + ")
}

func productFactors(e expand.Entry) []string {
	var factors []string
	if e.Coeff != 1 {
		factors = append(factors, strconv.Itoa(e.Coeff))
	}
	return append(factors, primAt(e.Term.I), primAt(e.Term.J))
}

func primAt(order int) string {
	return fname(order) + "lip.At(ix, fi)"
}

// fname names the order-k single-factor derivative: f, df, d2f, d3f, ...
func fname(order int) string {
	switch order {
	case 0:
		return "f"
	case 1:
		return "df"
	default:
		return fmt.Sprintf("d%df", order)
	}
}
