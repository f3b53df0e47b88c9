package golang

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helfem/hipgen/emit"
	"github.com/helfem/hipgen/expand"
)

func expandSet(t *testing.T, order int) *expand.TermSet {
	t.Helper()
	table, err := expand.Build(order)
	require.NoError(t, err)
	set, err := table.At(order)
	require.NoError(t, err)
	return set
}

func buildModel(t *testing.T, maxOrder, tableDepth int) *emit.Model {
	t.Helper()
	model, err := emit.BuildModel(maxOrder, tableDepth)
	require.NoError(t, err)
	model.Version = "1.0.0-test"
	return model
}

// goldenTwoArms pins the rendered file for a two-arm dispatch. The text
// is canonical gofmt; goimports runs inside GenerateFile, so any drift
// between the renderer and gofmt shows up here.
const goldenTwoArms = `// Code generated by hipgen. DO NOT EDIT.
// Regenerate with: hipgen generate
// Generator version: 1.0.0-test

package hip

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Basis supplies the node data and single-factor derivatives the
// dispatch below consumes.
type Basis interface {
	// Nodes returns the node positions.
	Nodes() []float64

	// NodeSlopes returns the per-node slope of the single factor at its
	// own node.
	NodeSlopes() []float64

	// EvalPrimDnf returns the order-th derivative of the single factor,
	// one row per point in x and one column per node.
	EvalPrimDnf(x []float64, order int) *mat.Dense
}

// EvalPrimDnf evaluates the n-th derivative of every basis function at
// every point in x. Rows follow x; node k owns column 2k (value
// function) and column 2k+1 (slope function, scaled by elementLength).
func EvalPrimDnf(b Basis, x []float64, n int, elementLength float64) (*mat.Dense, error) {
	switch n {
	case 0:
		x0 := b.Nodes()
		lipxi := b.NodeSlopes()
		dnf := mat.NewDense(len(x), 2*len(x0), nil)
		flip := b.EvalPrimDnf(x, 0)
		for ix := range x {
			for fi := range x0 {
				f1 := 1.0 - 2.0*(x[ix]-x0[fi])*lipxi[fi]
				f3 := x[ix] - x0[fi]
				f2 := flip.At(ix, fi) * flip.At(ix, fi)
				dnf.Set(ix, 2*fi, f1*f2)
				dnf.Set(ix, 2*fi+1, f3*f2*elementLength)
			}
		}
		return dnf, nil
	case 1:
		x0 := b.Nodes()
		lipxi := b.NodeSlopes()
		dnf := mat.NewDense(len(x), 2*len(x0), nil)
		flip := b.EvalPrimDnf(x, 0)
		dflip := b.EvalPrimDnf(x, 1)
		for ix := range x {
			for fi := range x0 {
				f1 := 1.0 - 2.0*(x[ix]-x0[fi])*lipxi[fi]
				df1 := -2.0 * lipxi[fi]
				f3 := x[ix] - x0[fi]
				df3 := 1.0
				f2 := flip.At(ix, fi) * flip.At(ix, fi)
				df2 := 2 * dflip.At(ix, fi) * flip.At(ix, fi)
				dnf.Set(ix, 2*fi, 1*df1*f2+f1*df2)
				dnf.Set(ix, 2*fi+1, (1*df3*f2+f3*df2)*elementLength)
			}
		}
		return dnf, nil
	default:
		return nil, fmt.Errorf("%dth derivatives not implemented", n)
	}
}
`

func TestGenerateFileComplete(t *testing.T) {
	model := buildModel(t, 2, 2)
	gen := NewGenerator(Options{})

	out, err := gen.GenerateFile(model)
	require.NoError(t, err)
	assert.Equal(t, goldenTwoArms, out)
}

func TestGenerateFileParses(t *testing.T) {
	model := buildModel(t, 10, 10)
	gen := NewGenerator(Options{})

	out, err := gen.GenerateFile(model)
	require.NoError(t, err)

	fset := token.NewFileSet()
	_, err = parser.ParseFile(fset, "hip.go", out, parser.AllErrors)
	require.NoError(t, err)
}

func TestGenerateFileHigherOrderTermSums(t *testing.T) {
	model := buildModel(t, 10, 10)
	gen := NewGenerator(Options{})

	out, err := gen.GenerateFile(model)
	require.NoError(t, err)

	assert.Contains(t, out,
		"d2f2 := 2*d2flip.At(ix, fi)*flip.At(ix, fi) + 2*dflip.At(ix, fi)*dflip.At(ix, fi)")
	assert.Contains(t, out,
		"d4f2 := 2*d4flip.At(ix, fi)*flip.At(ix, fi) + 8*d3flip.At(ix, fi)*dflip.At(ix, fi) + 6*d2flip.At(ix, fi)*d2flip.At(ix, fi)")
	assert.Contains(t, out, "dnf.Set(ix, 2*fi, 4*df1*d3f2+f1*d4f2)")
	assert.Contains(t, out, "dnf.Set(ix, 2*fi+1, (4*df3*d3f2+f3*d4f2)*elementLength)")
}

func TestGenerateFileDispatchArms(t *testing.T) {
	model := buildModel(t, 10, 10)
	gen := NewGenerator(Options{})

	out, err := gen.GenerateFile(model)
	require.NoError(t, err)

	assert.Equal(t, 10, strings.Count(out, "\tcase "))
	assert.Contains(t, out, "case 9:")
	assert.NotContains(t, out, "case 10:")
	assert.Contains(t, out, `return nil, fmt.Errorf("%dth derivatives not implemented", n)`)
}

func TestGenerateFileCustomOptions(t *testing.T) {
	model := buildModel(t, 2, 2)
	gen := NewGenerator(Options{
		Package:   "basis",
		Function:  "EvalDnf",
		Interface: "Source",
	})

	out, err := gen.GenerateFile(model)
	require.NoError(t, err)

	assert.Contains(t, out, "package basis\n")
	assert.Contains(t, out, "type Source interface {")
	assert.Contains(t, out, "func EvalDnf(b Source, x []float64, n int, elementLength float64) (*mat.Dense, error) {")
	assert.NotContains(t, out, "package hip")
}

func TestGenerateFileEmptyModel(t *testing.T) {
	gen := NewGenerator(Options{})

	_, err := gen.GenerateFile(&emit.Model{Version: "dev"})
	require.Error(t, err)
}

func TestGeneratorMetadata(t *testing.T) {
	gen := NewGenerator(Options{})
	assert.Equal(t, "go", gen.Language())
	assert.Equal(t, "go", gen.FileExtension())
}

func TestTermSumShapes(t *testing.T) {
	single := expandSet(t, 1)
	assert.Equal(t, "df2 := 2 * dflip.At(ix, fi) * flip.At(ix, fi)", termSum("df2", single))

	double := expandSet(t, 3)
	assert.Equal(t,
		"d3f2 := 2*d3flip.At(ix, fi)*flip.At(ix, fi) + 6*d2flip.At(ix, fi)*dflip.At(ix, fi)",
		termSum("d3f2", double))
}
