// Package cpp renders the derivative dispatch as an armadillo-based C++
// member function. The output layout matches the handwritten file it
// replaces line for line, so regeneration produces clean diffs against
// history.
package cpp

import (
	"fmt"
	"strings"

	"github.com/helfem/hipgen/emit"
	"github.com/helfem/hipgen/errors"
	"github.com/helfem/hipgen/expand"
	"github.com/helfem/hipgen/formula"
)

// Options controls the C++ names the rendered function is embedded under.
type Options struct {
	// Namespace wraps the function, "::"-separated.
	Namespace string

	// Class owns the member function and names the included header.
	Class string

	// Function is the member function name.
	Function string

	// Primitive is the qualified call that fills one single-factor
	// derivative matrix per order.
	Primitive string
}

// DefaultOptions returns the names used by the helfem source tree.
func DefaultOptions() Options {
	return Options{
		Namespace: "helfem::polynomial_basis",
		Class:     "HIPBasis",
		Function:  "eval_prim_dnf",
		Primitive: "LIPBasis::eval_prim_dnf",
	}
}

// Generator renders C++ output.
type Generator struct {
	opts Options
}

// NewGenerator creates a C++ generator. Empty option fields fall back to
// the defaults.
func NewGenerator(opts Options) *Generator {
	def := DefaultOptions()
	if opts.Namespace == "" {
		opts.Namespace = def.Namespace
	}
	if opts.Class == "" {
		opts.Class = def.Class
	}
	if opts.Function == "" {
		opts.Function = def.Function
	}
	if opts.Primitive == "" {
		opts.Primitive = def.Primitive
	}
	return &Generator{opts: opts}
}

// Language returns the language name
func (g *Generator) Language() string {
	return "cpp"
}

// FileExtension returns the file extension for C++ files
func (g *Generator) FileExtension() string {
	return "cpp"
}

// GenerateFile renders the complete translation unit: banner, includes,
// namespace wrapping, and one switch arm per dispatched order plus the
// runtime error arm.
func (g *Generator) GenerateFile(model *emit.Model) (string, error) {
	if len(model.Cases) == 0 {
		return "", errors.AssertionFailedf("model has no dispatch arms")
	}

	var sb strings.Builder

	for _, line := range emit.HeaderLines(model) {
		sb.WriteString("// " + line + "\n")
	}
	fmt.Fprintf(&sb, "#include %q\n", g.opts.Class+".h")
	sb.WriteString("#include <cfloat>\n\n")

	parts := strings.Split(g.opts.Namespace, "::")
	for i, ns := range parts {
		sb.WriteString(strings.Repeat("  ", i))
		sb.WriteString("namespace " + ns + " {\n")
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb,
		"void %s::%s(const arma::vec & x, arma::mat & dnf, int n, double element_length) const {\n",
		g.opts.Class, g.opts.Function)
	sb.WriteString("switch(n) {\n")

	for _, c := range model.Cases {
		g.writeCase(&sb, c)
	}

	sb.WriteString("default:\n")
	sb.WriteString("std::ostringstream oss;\n")
	sb.WriteString("oss << n << \"th derivatives not implemented!\\n\";\n")
	sb.WriteString("throw std::logic_error(oss.str());\n")
	sb.WriteString("}\n}\n")

	for range parts {
		sb.WriteString("}\n")
	}
	sb.WriteString("\n")

	return sb.String(), nil
}

// writeCase renders one switch arm. The body fills the output matrix
// point by point: the two affine correction factors, the needed squared
// factor derivative levels, and the product-rule combination into the
// value and slope columns.
func (g *Generator) writeCase(sb *strings.Builder, c *formula.Case) {
	fmt.Fprintf(sb, "case(%d):\n{\n", c.Order)
	sb.WriteString("// Allocate memory\ndnf.zeros(x.n_elem, 2*x0.n_elem);\n\n")

	sb.WriteString("// Evaluate LIP basis data\ndouble dummy_length=1.0;\n")
	for _, k := range c.Prims {
		fmt.Fprintf(sb, "arma::mat %slip;\n", fname(k))
		fmt.Fprintf(sb, "%s(x, %slip, %d, dummy_length);\n", g.opts.Primitive, fname(k), k)
	}

	sb.WriteString("// Loop over points\nfor(size_t ix=0; ix<x.n_elem; ix++) {\n")
	sb.WriteString("// Loop over polynomials\nfor(size_t fi=0; fi<x0.n_elem; fi++) {\n")
	sb.WriteString("/* First function is [1 - 2(x-xi)*lipxi(fi)] [l_i(x)]^2 = f1 * f2.\n")
	sb.WriteString("   Second function is (x-xi) * [l_i(x)]^2 = f3 * f2\n*/\n")

	sb.WriteString("double f1 = 1.0 - 2.0*(x(ix)-x0(fi))*lipxi(fi);\n")
	if c.Order > 0 {
		sb.WriteString("double df1 = -2.0*lipxi(fi);\n")
	}
	sb.WriteString("\n")

	sb.WriteString("double f3 = x(ix)-x0(fi);\n")
	if c.Order > 0 {
		sb.WriteString("double df3 = 1;\n")
	}
	sb.WriteString("\n")

	if c.Order > 0 {
		writeTermSum(sb, fname(c.Order-1)+"2", c.Prev.Set)
	}
	writeTermSum(sb, fname(c.Order)+"2", c.Cur.Set)

	if c.Order == 0 {
		sb.WriteString("dnf(ix,2*fi) = f1*f2;\n")
		sb.WriteString("dnf(ix,2*fi+1) = f3*f2*element_length;\n")
	} else {
		prev := fname(c.Order-1) + "2"
		cur := fname(c.Order) + "2"
		fmt.Fprintf(sb, "dnf(ix,2*fi) = %d*df1*%s + f1*%s;\n", c.Order, prev, cur)
		fmt.Fprintf(sb, "dnf(ix,2*fi+1) = (%d*df3*%s + f3*%s)*element_length;\n", c.Order, prev, cur)
	}

	sb.WriteString("}\n}\n")
	sb.WriteString("}\nbreak;\n")
}

// writeTermSum renders one derivative level of the squared factor as a
// coefficient-weighted sum of primitive products, one product per line
// with the closing semicolon on its own line.
func writeTermSum(sb *strings.Builder, label string, set *expand.TermSet) {
	fmt.Fprintf(sb, "double %s = ", label)
	for _, e := range set.Terms() {
		if e.Coeff != 1 {
			fmt.Fprintf(sb, "%+d *", e.Coeff)
		}
		fmt.Fprintf(sb, "%slip(ix,fi)*%slip(ix,fi)\n", fname(e.Term.I), fname(e.Term.J))
	}
	sb.WriteString(";\n")
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
