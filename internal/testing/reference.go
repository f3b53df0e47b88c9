// Package testing provides reference evaluations of the assembled
// derivative formulas. The generated code is trusted because its output
// matches these direct numeric interpretations, which share no rendering
// code with the emitters.
package testing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/helfem/hipgen/emit"
	"github.com/helfem/hipgen/errors"
	"github.com/helfem/hipgen/expand"
	"github.com/helfem/hipgen/formula"
)

// PrimFunc evaluates the order-th derivative of the single interpolation
// factor for basis node fi at coordinate x.
type PrimFunc func(x float64, fi, order int) float64

// LinearPrim returns the derivatives of the linear factor g(x) = x - root.
// Every node shares the same factor, which keeps hand-computed truth
// values simple in tests.
func LinearPrim(root float64) PrimFunc {
	return func(x float64, fi, order int) float64 {
		switch order {
		case 0:
			return x - root
		case 1:
			return 1
		default:
			return 0
		}
	}
}

// EvalModel runs the assembled dispatch numerically: the same matrix the
// generated code fills, computed by walking the formula trees instead.
// Rows are sample points, columns alternate value and slope per node.
func EvalModel(model *emit.Model, x, nodes, slopes []float64, n int, elementLength float64, prim PrimFunc) (*mat.Dense, error) {
	for _, c := range model.Cases {
		if c.Order == n {
			return evalCase(c, x, nodes, slopes, elementLength, prim), nil
		}
	}
	return nil, errors.NewUnsupportedOrder(n)
}

func evalCase(c *formula.Case, x, nodes, slopes []float64, elementLength float64, prim PrimFunc) *mat.Dense {
	dnf := mat.NewDense(len(x), 2*len(nodes), nil)
	for ix := range x {
		for fi := range nodes {
			env := &formula.Env{
				X:      x[ix],
				Node:   nodes[fi],
				Slope:  slopes[fi],
				Length: elementLength,
				Prim: func(order int) float64 {
					return prim(x[ix], fi, order)
				},
			}
			dnf.Set(ix, 2*fi, c.Value.Eval(env))
			dnf.Set(ix, 2*fi+1, c.Slope.Eval(env))
		}
	}
	return dnf
}

// SquaredFactorDeriv computes d^n[g^2] directly from the general Leibniz
// rule, sum over k of C(n,k) g^(k) g^(n-k). The derivative table arrives
// at the same quantity by incremental product-rule steps, so agreement
// between the two checks the table construction end to end.
func SquaredFactorDeriv(prim func(order int) float64, n int) float64 {
	total := 0.0
	for k := 0; k <= n; k++ {
		total += float64(expand.Binomial(n, k)) * prim(k) * prim(n-k)
	}
	return total
}
