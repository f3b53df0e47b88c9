package expand

import (
	"github.com/helfem/hipgen/errors"
)

// Table is the derivative table: one TermSet per order from 0 through
// Depth. Built once, then read by every assembly step.
type Table struct {
	sets []*TermSet
}

// Build expands the derivative table through the given depth by
// repeated product-rule differentiation of the squared factor.
func Build(depth int) (*Table, error) {
	if depth < 0 {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "table depth %d is negative", depth)
	}

	sets := make([]*TermSet, depth+1)

	base := NewTermSet(0)
	if err := base.Add(0, 0, 1); err != nil {
		return nil, err
	}
	sets[0] = base

	for n := 1; n <= depth; n++ {
		next := NewTermSet(n)
		for _, e := range sets[n-1].Terms() {
			// Product rule: each term branches into two successors,
			// one per factor differentiated, both keeping the coefficient
			if err := next.Add(e.Term.I+1, e.Term.J, e.Coeff); err != nil {
				return nil, err
			}
			if err := next.Add(e.Term.I, e.Term.J+1, e.Coeff); err != nil {
				return nil, err
			}
		}
		sets[n] = next
	}

	return &Table{sets: sets}, nil
}

// Depth returns the highest order the table covers.
func (t *Table) Depth() int {
	return len(t.sets) - 1
}

// At returns the TermSet for order n.
func (t *Table) At(n int) (*TermSet, error) {
	if n < 0 || n >= len(t.sets) {
		return nil, errors.Newf("derivative table of depth %d does not cover order %d", t.Depth(), n)
	}
	return t.sets[n], nil
}

// Sets returns every TermSet in order, 0 through Depth.
func (t *Table) Sets() []*TermSet {
	out := make([]*TermSet, len(t.sets))
	copy(out, t.sets)
	return out
}
