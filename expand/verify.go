package expand

import (
	"github.com/helfem/hipgen/errors"
)

// Binomial returns the binomial coefficient C(n, k), zero outside the
// valid range.
func Binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	// Each step holds an exact binomial coefficient, so the integer
	// division never truncates
	result := 1
	for i := 0; i < k; i++ {
		result = result * (n - i) / (i + 1)
	}
	return result
}

// Verify cross-checks every table level against the general Leibniz
// rule, which gives the expansion coefficients in closed form: pair
// (i, j) with i > j carries 2*C(n, i), the diagonal pair at even orders
// carries C(n, n/2). The table arrives at the same numbers by repeated
// product-rule steps, so agreement checks the construction end to end.
func (t *Table) Verify() error {
	for _, s := range t.sets {
		n := s.Order()

		if s.Len() != s.Capacity() {
			return errors.AssertionFailedf(
				"table level %d holds %d pairs, expected %d", n, s.Len(), s.Capacity())
		}
		if s.Mass() != 1<<n {
			return errors.AssertionFailedf(
				"table level %d has coefficient mass %d, expected %d", n, s.Mass(), 1<<n)
		}

		for _, e := range s.Terms() {
			want := Binomial(n, e.Term.I)
			if e.Term.I != e.Term.J {
				want *= 2
			}
			if e.Coeff != want {
				return errors.AssertionFailedf(
					"table level %d term %s carries coefficient %d, closed form gives %d",
					n, e.Term, e.Coeff, want)
			}
		}
	}
	return nil
}
