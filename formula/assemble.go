package formula

import (
	"github.com/helfem/hipgen/errors"
	"github.com/helfem/hipgen/expand"
)

// CorrectionFactor is one of the two affine factors multiplying the
// squared interpolation factor. Affine means every derivative above the
// first vanishes, so the factor is fully described by its value and its
// first derivative.
type CorrectionFactor struct {
	Name  string
	Value Expr
	Deriv Expr
}

// ValueFactor is the correction factor of the value-type basis
// function, 1 - 2(x - x0)s in the reference coordinate.
func ValueFactor() CorrectionFactor {
	return CorrectionFactor{
		Name:  "value",
		Value: SubOf(Int(1), MulOf(Int(2), SubOf(X{}, NodePosition{}), NodeSlope{})),
		Deriv: MulOf(Int(-2), NodeSlope{}),
	}
}

// SlopeFactor is the correction factor of the slope-type basis
// function, x - x0. Its output column carries the element length scale
// because the factor is defined in the normalized coordinate.
func SlopeFactor() CorrectionFactor {
	return CorrectionFactor{
		Name:  "slope",
		Value: SubOf(X{}, NodePosition{}),
		Deriv: Int(1),
	}
}

// Case is the assembled computation for one derivative order: the
// primitive levels it must evaluate, the one or two squared-factor
// expansions in play, both correction factors, and the finished
// formula trees for the two output columns.
type Case struct {
	Order int

	// Prims lists the single-factor derivative levels the case
	// evaluates, always 0 through Order.
	Prims []int

	// Cur is the order-Order expansion of the squared factor; Prev is
	// one level down, nil at order 0.
	Cur  Expansion
	Prev *Expansion

	ValueFactor CorrectionFactor
	SlopeFactor CorrectionFactor

	// Value is the unscaled value-type column; Slope is the slope-type
	// column including the element length scale.
	Value Expr
	Slope Expr
}

// Assemble combines the two relevant derivative-table levels with the
// correction factors into the output-column formulas for one order.
func Assemble(order int, table *expand.Table) (*Case, error) {
	if order < 0 {
		return nil, errors.AssertionFailedf("derivative order %d is negative", order)
	}

	cur, err := table.At(order)
	if err != nil {
		// AssembleRange validates coverage up front, so a miss here is a
		// generator bug rather than a configuration problem
		return nil, errors.NewAssertionErrorWithWrappedErrf(err, "assembling order %d", order)
	}

	vf := ValueFactor()
	sf := SlopeFactor()

	c := &Case{
		Order:       order,
		Prims:       make([]int, 0, order+1),
		Cur:         Expansion{Set: cur},
		ValueFactor: vf,
		SlopeFactor: sf,
	}
	for level := 0; level <= order; level++ {
		c.Prims = append(c.Prims, level)
	}

	if order == 0 {
		// No derivative falls on the correction factor at order 0
		c.Value = MulOf(vf.Value, c.Cur)
		c.Slope = MulOf(sf.Value, c.Cur, Length{})
		return c, nil
	}

	prev, err := table.At(order - 1)
	if err != nil {
		return nil, errors.NewAssertionErrorWithWrappedErrf(err, "assembling order %d", order)
	}
	c.Prev = &Expansion{Set: prev}

	// Truncated Leibniz rule: n*h'*d^(n-1)[g^2] + h*d^n[g^2]
	c.Value = AddOf(
		MulOf(Int(order), vf.Deriv, *c.Prev),
		MulOf(vf.Value, c.Cur),
	)
	c.Slope = MulOf(
		AddOf(
			MulOf(Int(order), sf.Deriv, *c.Prev),
			MulOf(sf.Value, c.Cur),
		),
		Length{},
	)
	return c, nil
}

// AssembleRange assembles the dispatch arms for every order below
// limit. The table must reach at least limit-1; a deeper table is
// legal headroom and its extra levels simply go unused.
func AssembleRange(limit int, table *expand.Table) ([]*Case, error) {
	if limit < 1 {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "dispatch range %d must cover at least order 0", limit)
	}
	if table.Depth() < limit-1 {
		return nil, errors.Wrapf(errors.ErrInvalidConfig,
			"derivative table depth %d cannot serve dispatch range %d", table.Depth(), limit)
	}

	cases := make([]*Case, 0, limit)
	for order := 0; order < limit; order++ {
		c, err := Assemble(order, table)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, nil
}
