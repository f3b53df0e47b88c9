// Package expand builds the canonical term expansion of the n-th
// derivative of a squared interpolation factor.
//
// Writing g for the single factor, the n-th derivative of g^2 is a sum
// of products of lower derivatives of g:
//
//	d^n/dx^n [g^2] = sum over i+j = n, i >= j of c(i,j) * g^(i) * g^(j)
//
// The expansion comes from repeated application of the product rule,
// starting from the order-0 set {(0,0): 1}. Differentiating a term
// (i,j) branches it into (i+1,j) and (i,j+1), each keeping the parent
// coefficient. Both factors are the same g, so (i,j) and (j,i) are the
// same quantity and merge under the canonical ordering i >= j. Every
// differentiation step exactly doubles the total coefficient mass, so
// the order-n set always sums to 2^n.
package expand

import (
	"fmt"
	"strings"

	"github.com/helfem/hipgen/errors"
)

// Term is a canonical derivative pair (I, J) with I >= J, standing for
// the product of the I-th and J-th derivatives of the single factor.
type Term struct {
	I int
	J int
}

// Canonical orders a derivative pair so the higher order comes first.
func Canonical(a, b int) Term {
	if a < b {
		a, b = b, a
	}
	return Term{I: a, J: b}
}

// Order returns the total derivative order I+J carried by the term.
func (t Term) Order() int { return t.I + t.J }

func (t Term) String() string {
	return fmt.Sprintf("(%d,%d)", t.I, t.J)
}

// Entry is one term of a TermSet together with its coefficient.
type Entry struct {
	Term  Term
	Coeff int
}

// TermSet holds the canonical expansion of one derivative order of the
// squared factor. Entries keep insertion order, which the product-rule
// recurrence makes descending in I, so downstream rendering is
// deterministic. Capacity is fixed at construction: order n admits
// exactly floor(n/2)+1 canonical pairs.
type TermSet struct {
	order   int
	entries []Entry
}

// NewTermSet returns an empty set for the given derivative order.
func NewTermSet(order int) *TermSet {
	return &TermSet{
		order:   order,
		entries: make([]Entry, 0, order/2+1),
	}
}

// Order returns the derivative order this set expands.
func (s *TermSet) Order() int { return s.order }

// Capacity returns the number of canonical pairs the order admits.
func (s *TermSet) Capacity() int { return s.order/2 + 1 }

// Len returns the number of distinct terms added so far.
func (s *TermSet) Len() int { return len(s.entries) }

// Add merges coeff into the entry for the canonical form of (a, b),
// appending a new entry on first sight. The pair must carry this set's
// order and the coefficient must be positive.
func (s *TermSet) Add(a, b, coeff int) error {
	t := Canonical(a, b)
	if t.J < 0 {
		return errors.AssertionFailedf("negative derivative order in term %s", t)
	}
	if t.Order() != s.order {
		return errors.AssertionFailedf("term %s does not belong to order %d", t, s.order)
	}
	if coeff <= 0 {
		return errors.AssertionFailedf("coefficient %d for term %s is not positive", coeff, t)
	}

	for i := range s.entries {
		if s.entries[i].Term == t {
			s.entries[i].Coeff += coeff
			return nil
		}
	}

	if len(s.entries) >= s.Capacity() {
		return errors.AssertionFailedf("term %s exceeds the %d-pair capacity of order %d", t, s.Capacity(), s.order)
	}
	s.entries = append(s.entries, Entry{Term: t, Coeff: coeff})
	return nil
}

// Get returns the coefficient stored for t.
func (s *TermSet) Get(t Term) (int, bool) {
	for _, e := range s.entries {
		if e.Term == t {
			return e.Coeff, true
		}
	}
	return 0, false
}

// Coefficient returns the coefficient for the canonical form of (a, b),
// or zero when the pair is absent.
func (s *TermSet) Coefficient(a, b int) int {
	c, _ := s.Get(Canonical(a, b))
	return c
}

// Terms returns a copy of the entries in insertion order.
func (s *TermSet) Terms() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Mass returns the sum of all coefficients, 2^order for a fully built set.
func (s *TermSet) Mass() int {
	total := 0
	for _, e := range s.entries {
		total += e.Coeff
	}
	return total
}

// String renders the expansion in mathematical form, for example
// "2*g(3)*g(0) + 6*g(2)*g(1)" for order 3.
func (s *TermSet) String() string {
	if len(s.entries) == 0 {
		return "0"
	}

	var b strings.Builder
	for i, e := range s.entries {
		if i > 0 {
			b.WriteString(" + ")
		}
		if e.Coeff != 1 {
			fmt.Fprintf(&b, "%d*", e.Coeff)
		}
		fmt.Fprintf(&b, "g(%d)*g(%d)", e.Term.I, e.Term.J)
	}
	return b.String()
}
