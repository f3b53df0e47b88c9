package cpp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helfem/hipgen/emit"
)

func buildModel(t *testing.T, maxOrder, tableDepth int) *emit.Model {
	t.Helper()
	model, err := emit.BuildModel(maxOrder, tableDepth)
	require.NoError(t, err)
	model.Version = "1.0.0-test"
	return model
}

// goldenTwoArms is the complete expected output for a two-arm dispatch.
// The layout is load-bearing: downstream C++ lives in version control and
// regeneration must produce clean diffs.
const goldenTwoArms = `// Code generated by hipgen. DO NOT EDIT.
// Regenerate with: hipgen generate
// Generator version: 1.0.0-test
#include "HIPBasis.h"
#include <cfloat>

namespace helfem {
  namespace polynomial_basis {

void HIPBasis::eval_prim_dnf(const arma::vec & x, arma::mat & dnf, int n, double element_length) const {
switch(n) {
case(0):
{
// Allocate memory
dnf.zeros(x.n_elem, 2*x0.n_elem);

// Evaluate LIP basis data
double dummy_length=1.0;
arma::mat flip;
LIPBasis::eval_prim_dnf(x, flip, 0, dummy_length);
// Loop over points
for(size_t ix=0; ix<x.n_elem; ix++) {
// Loop over polynomials
for(size_t fi=0; fi<x0.n_elem; fi++) {
/* First function is [1 - 2(x-xi)*lipxi(fi)] [l_i(x)]^2 = f1 * f2.
   Second function is (x-xi) * [l_i(x)]^2 = f3 * f2
*/
double f1 = 1.0 - 2.0*(x(ix)-x0(fi))*lipxi(fi);

double f3 = x(ix)-x0(fi);

double f2 = flip(ix,fi)*flip(ix,fi)
;
dnf(ix,2*fi) = f1*f2;
dnf(ix,2*fi+1) = f3*f2*element_length;
}
}
}
break;
case(1):
{
// Allocate memory
dnf.zeros(x.n_elem, 2*x0.n_elem);

// Evaluate LIP basis data
double dummy_length=1.0;
arma::mat flip;
LIPBasis::eval_prim_dnf(x, flip, 0, dummy_length);
arma::mat dflip;
LIPBasis::eval_prim_dnf(x, dflip, 1, dummy_length);
// Loop over points
for(size_t ix=0; ix<x.n_elem; ix++) {
// Loop over polynomials
for(size_t fi=0; fi<x0.n_elem; fi++) {
/* First function is [1 - 2(x-xi)*lipxi(fi)] [l_i(x)]^2 = f1 * f2.
   Second function is (x-xi) * [l_i(x)]^2 = f3 * f2
*/
double f1 = 1.0 - 2.0*(x(ix)-x0(fi))*lipxi(fi);
double df1 = -2.0*lipxi(fi);

double f3 = x(ix)-x0(fi);
double df3 = 1;

double f2 = flip(ix,fi)*flip(ix,fi)
;
double df2 = +2 *dflip(ix,fi)*flip(ix,fi)
;
dnf(ix,2*fi) = 1*df1*f2 + f1*df2;
dnf(ix,2*fi+1) = (1*df3*f2 + f3*df2)*element_length;
}
}
}
break;
default:
std::ostringstream oss;
oss << n << "th derivatives not implemented!\n";
throw std::logic_error(oss.str());
}
}
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

func TestGenerateFileHigherOrderTermSums(t *testing.T) {
	model := buildModel(t, 10, 10)
	gen := NewGenerator(Options{})

	out, err := gen.GenerateFile(model)
	require.NoError(t, err)

	// Order 3: both derivative levels of the squared factor, one
	// primitive product per line, highest-order product first.
	assert.Contains(t, out, `double d2f2 = +2 *d2flip(ix,fi)*flip(ix,fi)
+2 *dflip(ix,fi)*dflip(ix,fi)
;
double d3f2 = +2 *d3flip(ix,fi)*flip(ix,fi)
+6 *d2flip(ix,fi)*dflip(ix,fi)
;
dnf(ix,2*fi) = 3*df1*d2f2 + f1*d3f2;
dnf(ix,2*fi+1) = (3*df3*d2f2 + f3*d3f2)*element_length;`)

	// Order 4 picks up the diagonal term with its halved coefficient.
	assert.Contains(t, out, `double d4f2 = +2 *d4flip(ix,fi)*flip(ix,fi)
+8 *d3flip(ix,fi)*dflip(ix,fi)
+6 *d2flip(ix,fi)*d2flip(ix,fi)
;`)
}

func TestGenerateFileDispatchArms(t *testing.T) {
	model := buildModel(t, 10, 10)
	gen := NewGenerator(Options{})

	out, err := gen.GenerateFile(model)
	require.NoError(t, err)

	assert.Equal(t, 10, strings.Count(out, "case("))
	assert.Contains(t, out, "case(9):")
	assert.NotContains(t, out, "case(10):")

	// Orders beyond the dispatch range fail loudly at runtime.
	assert.Contains(t, out, "default:")
	assert.Contains(t, out, `oss << n << "th derivatives not implemented!\n";`)
	assert.Contains(t, out, "throw std::logic_error(oss.str());")
}

func TestGenerateFilePrimitiveCalls(t *testing.T) {
	model := buildModel(t, 10, 10)
	gen := NewGenerator(Options{})

	out, err := gen.GenerateFile(model)
	require.NoError(t, err)

	// The order-9 arm needs all primitive levels up to 9.
	assert.Contains(t, out, "arma::mat d9flip;")
	assert.Contains(t, out, "LIPBasis::eval_prim_dnf(x, d9flip, 9, dummy_length);")
}

func TestGenerateFileCustomOptions(t *testing.T) {
	model := buildModel(t, 2, 2)
	gen := NewGenerator(Options{
		Namespace: "a::b::c",
		Class:     "Foo",
		Function:  "eval",
		Primitive: "Bar::eval",
	})

	out, err := gen.GenerateFile(model)
	require.NoError(t, err)

	assert.Contains(t, out, `#include "Foo.h"`)
	assert.Contains(t, out, "namespace a {\n  namespace b {\n    namespace c {\n")
	assert.Contains(t, out, "void Foo::eval(const arma::vec & x, arma::mat & dnf, int n, double element_length) const {")
	assert.Contains(t, out, "Bar::eval(x, flip, 0, dummy_length);")
	assert.NotContains(t, out, "HIPBasis")

	// One closer per namespace part plus switch and function.
	assert.True(t, strings.HasSuffix(out, "}\n}\n}\n}\n}\n\n"))
}

func TestGenerateFilePartialOptionsFallBack(t *testing.T) {
	model := buildModel(t, 2, 2)
	gen := NewGenerator(Options{Class: "MyBasis"})

	out, err := gen.GenerateFile(model)
	require.NoError(t, err)

	assert.Contains(t, out, `#include "MyBasis.h"`)
	assert.Contains(t, out, "void MyBasis::eval_prim_dnf(")
	assert.Contains(t, out, "namespace helfem {")
}

func TestGenerateFileEmptyModel(t *testing.T) {
	gen := NewGenerator(Options{})

	_, err := gen.GenerateFile(&emit.Model{Version: "dev"})
	require.Error(t, err)
}

func TestGeneratorMetadata(t *testing.T) {
	gen := NewGenerator(Options{})
	assert.Equal(t, "cpp", gen.Language())
	assert.Equal(t, "cpp", gen.FileExtension())
}

func TestFname(t *testing.T) {
	assert.Equal(t, "f", fname(0))
	assert.Equal(t, "df", fname(1))
	assert.Equal(t, "d2f", fname(2))
	assert.Equal(t, "d10f", fname(10))
}
