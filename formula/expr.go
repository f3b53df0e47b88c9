// Package formula assembles the per-order derivative expressions of the
// Hermite interpolating basis functions as abstract expression trees.
//
// Each basis function is an affine correction factor h times the shared
// squared factor g^2. Because h is affine, the Leibniz rule between h
// and g^2 truncates after two terms:
//
//	d^n/dx^n [h * g^2] = h * d^n[g^2] + n * h' * d^(n-1)[g^2]
//
// so assembling order n consumes exactly two levels of the derivative
// table built by package expand. The trees stay independent of any
// target language; rendering them as source text is the emitters' job,
// and Eval gives a direct numeric interpretation for testing.
package formula

import (
	"strconv"
	"strings"

	"github.com/helfem/hipgen/expand"
)

// Env supplies the numeric leaves of a formula during evaluation:
// one sample coordinate against one basis node. Prim must return the
// order-th derivative of the single interpolation factor at that pair
// for every order appearing in the tree.
type Env struct {
	X      float64                 // sample coordinate
	Node   float64                 // node position x0
	Slope  float64                 // node-local slope parameter
	Length float64                 // element length scale
	Prim   func(order int) float64 // single-factor derivative evaluations
}

// Expr is one node of a formula tree.
type Expr interface {
	// Eval computes the node's numeric value in env.
	Eval(env *Env) float64
	String() string
}

// X is the sample coordinate leaf.
type X struct{}

func (X) Eval(env *Env) float64 { return env.X }
func (X) String() string        { return "x" }

// NodePosition is the basis-node coordinate leaf x0.
type NodePosition struct{}

func (NodePosition) Eval(env *Env) float64 { return env.Node }
func (NodePosition) String() string        { return "x0" }

// NodeSlope is the node-local slope parameter leaf.
type NodeSlope struct{}

func (NodeSlope) Eval(env *Env) float64 { return env.Slope }
func (NodeSlope) String() string        { return "s" }

// Length is the element length scale leaf.
type Length struct{}

func (Length) Eval(env *Env) float64 { return env.Length }
func (Length) String() string        { return "L" }

// Int is an integer literal.
type Int int

func (i Int) Eval(*Env) float64 { return float64(i) }
func (i Int) String() string    { return strconv.Itoa(int(i)) }

// Prim is the order-th derivative of the single interpolation factor,
// evaluated through the environment's primitive.
type Prim int

func (p Prim) Eval(env *Env) float64 { return env.Prim(int(p)) }
func (p Prim) String() string        { return "g(" + strconv.Itoa(int(p)) + ")" }

// Expansion is one derivative level of the squared factor: the sum of
// coefficient-weighted primitive products held by its TermSet.
type Expansion struct {
	Set *expand.TermSet
}

func (e Expansion) Eval(env *Env) float64 {
	total := 0.0
	for _, t := range e.Set.Terms() {
		total += float64(t.Coeff) * env.Prim(t.Term.I) * env.Prim(t.Term.J)
	}
	return total
}

func (e Expansion) String() string { return e.Set.String() }

// Add is a sum of terms.
type Add struct {
	Terms []Expr
}

// AddOf builds a sum node.
func AddOf(terms ...Expr) Expr {
	if len(terms) == 1 {
		return terms[0]
	}
	return Add{Terms: terms}
}

func (a Add) Eval(env *Env) float64 {
	total := 0.0
	for _, t := range a.Terms {
		total += t.Eval(env)
	}
	return total
}

func (a Add) String() string {
	parts := make([]string, len(a.Terms))
	for i, t := range a.Terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " + ")
}

// Sub is a difference of two expressions.
type Sub struct {
	A, B Expr
}

// SubOf builds a difference node.
func SubOf(a, b Expr) Expr { return Sub{A: a, B: b} }

func (s Sub) Eval(env *Env) float64 { return s.A.Eval(env) - s.B.Eval(env) }

func (s Sub) String() string {
	return s.A.String() + " - " + parenthesizeAddend(s.B)
}

// Mul is a product of factors.
type Mul struct {
	Factors []Expr
}

// MulOf builds a product node, dropping unit factors.
func MulOf(factors ...Expr) Expr {
	kept := make([]Expr, 0, len(factors))
	for _, f := range factors {
		if n, ok := f.(Int); ok && n == 1 {
			continue
		}
		kept = append(kept, f)
	}
	if len(kept) == 0 {
		return Int(1)
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return Mul{Factors: kept}
}

func (m Mul) Eval(env *Env) float64 {
	total := 1.0
	for _, f := range m.Factors {
		total *= f.Eval(env)
	}
	return total
}

func (m Mul) String() string {
	parts := make([]string, len(m.Factors))
	for i, f := range m.Factors {
		parts[i] = parenthesize(f)
	}
	return strings.Join(parts, "*")
}

// parenthesize wraps compound factors so products read unambiguously.
// Nested products stay grouped too, keeping signed factors legible.
func parenthesize(e Expr) string {
	switch e.(type) {
	case Add, Sub, Mul, Expansion:
		return "(" + e.String() + ")"
	}
	return e.String()
}

// parenthesizeAddend wraps sums subtracted from another expression. A
// product after a minus needs no parens.
func parenthesizeAddend(e Expr) string {
	switch e.(type) {
	case Add, Sub, Expansion:
		return "(" + e.String() + ")"
	}
	return e.String()
}
