package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/helfem/hipgen/errors"
)

func TestCanonical(t *testing.T) {
	assert.Equal(t, Term{I: 3, J: 1}, Canonical(1, 3))
	assert.Equal(t, Term{I: 3, J: 1}, Canonical(3, 1))
	assert.Equal(t, Term{I: 2, J: 2}, Canonical(2, 2))
	assert.Equal(t, Term{I: 0, J: 0}, Canonical(0, 0))
}

func TestBaseCase(t *testing.T) {
	table, err := Build(0)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Depth())

	set, err := table.At(0)
	require.NoError(t, err)

	// d^0/dx^0 [g^2] = g*g, one term with unit coefficient
	assert.Equal(t, []Entry{{Term: Term{I: 0, J: 0}, Coeff: 1}}, set.Terms())
	assert.Equal(t, 1, set.Mass())
}

func TestFirstDerivative(t *testing.T) {
	table, err := Build(1)
	require.NoError(t, err)

	set, err := table.At(1)
	require.NoError(t, err)

	// d/dx [g^2] = 2*g'*g, both product-rule branches merge into (1,0)
	assert.Equal(t, []Entry{{Term: Term{I: 1, J: 0}, Coeff: 2}}, set.Terms())
}

func TestCoefficientMass(t *testing.T) {
	table, err := Build(10)
	require.NoError(t, err)

	// Every differentiation step doubles the total coefficient mass
	for n := 0; n <= 10; n++ {
		set, err := table.At(n)
		require.NoError(t, err)
		assert.Equal(t, 1<<n, set.Mass(), "order %d", n)
	}
}

func TestCanonicalKeys(t *testing.T) {
	table, err := Build(10)
	require.NoError(t, err)

	for n := 0; n <= 10; n++ {
		set, err := table.At(n)
		require.NoError(t, err)

		for _, e := range set.Terms() {
			assert.GreaterOrEqual(t, e.Term.I, e.Term.J, "order %d term %s", n, e.Term)
			assert.GreaterOrEqual(t, e.Term.J, 0, "order %d term %s", n, e.Term)
			assert.Equal(t, n, e.Term.Order(), "order %d term %s", n, e.Term)
			assert.Positive(t, e.Coeff, "order %d term %s", n, e.Term)
		}
	}
}

func TestBinomialCoefficients(t *testing.T) {
	table, err := Build(10)
	require.NoError(t, err)

	// The expansion of d^n [g^2] is the Leibniz sum with symmetric pairs
	// merged: coefficient 2*C(n,i) for i > j, C(n,n/2) for the self-paired
	// term of even orders. Check against independently computed binomials.
	for n := 0; n <= 10; n++ {
		set, err := table.At(n)
		require.NoError(t, err)

		for _, e := range set.Terms() {
			expected := combin.Binomial(n, e.Term.I)
			if e.Term.I != e.Term.J {
				expected *= 2
			}
			assert.Equal(t, expected, e.Coeff, "order %d term %s", n, e.Term)
		}
	}
}

func TestTermCount(t *testing.T) {
	table, err := Build(10)
	require.NoError(t, err)

	// Order n admits exactly floor(n/2)+1 canonical pairs, all realized
	for n := 0; n <= 10; n++ {
		set, err := table.At(n)
		require.NoError(t, err)
		assert.Equal(t, n/2+1, set.Len(), "order %d", n)
		assert.Equal(t, set.Capacity(), set.Len(), "order %d", n)
	}
}

func TestInsertionOrder(t *testing.T) {
	table, err := Build(10)
	require.NoError(t, err)

	// The recurrence inserts terms by descending first component, which
	// rendering relies on for stable output
	for n := 0; n <= 10; n++ {
		set, err := table.At(n)
		require.NoError(t, err)

		terms := set.Terms()
		assert.Equal(t, Term{I: n, J: 0}, terms[0].Term, "order %d", n)
		for i := 1; i < len(terms); i++ {
			assert.Equal(t, terms[i-1].Term.I-1, terms[i].Term.I, "order %d position %d", n, i)
			assert.Equal(t, terms[i-1].Term.J+1, terms[i].Term.J, "order %d position %d", n, i)
		}
	}
}

func TestDeterminism(t *testing.T) {
	a, err := Build(10)
	require.NoError(t, err)
	b, err := Build(10)
	require.NoError(t, err)

	for n := 0; n <= 10; n++ {
		setA, err := a.At(n)
		require.NoError(t, err)
		setB, err := b.At(n)
		require.NoError(t, err)
		assert.Equal(t, setA.Terms(), setB.Terms(), "order %d", n)
	}
}

func TestBuildNegativeDepth(t *testing.T) {
	_, err := Build(-1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestTableAtOutOfRange(t *testing.T) {
	table, err := Build(3)
	require.NoError(t, err)

	_, err = table.At(4)
	assert.Error(t, err)
	_, err = table.At(-1)
	assert.Error(t, err)
}

func TestAddRejectsForeignOrder(t *testing.T) {
	set := NewTermSet(3)
	err := set.Add(1, 1, 2)
	assert.Error(t, err)
}

func TestAddRejectsNonPositiveCoefficient(t *testing.T) {
	set := NewTermSet(2)
	assert.Error(t, set.Add(2, 0, 0))
	assert.Error(t, set.Add(2, 0, -4))
}

func TestAddMergesSymmetricPairs(t *testing.T) {
	set := NewTermSet(4)
	require.NoError(t, set.Add(3, 1, 2))
	require.NoError(t, set.Add(1, 3, 5))

	coeff, ok := set.Get(Term{I: 3, J: 1})
	assert.True(t, ok)
	assert.Equal(t, 7, coeff)
	assert.Equal(t, 1, set.Len())
}

func TestCoefficientLookup(t *testing.T) {
	table, err := Build(4)
	require.NoError(t, err)

	set, err := table.At(4)
	require.NoError(t, err)

	assert.Equal(t, 2, set.Coefficient(4, 0))
	assert.Equal(t, 8, set.Coefficient(1, 3)) // canonicalized lookup
	assert.Equal(t, 6, set.Coefficient(2, 2))
	assert.Equal(t, 0, set.Coefficient(5, 0))
}

func TestTermSetString(t *testing.T) {
	table, err := Build(3)
	require.NoError(t, err)

	set, err := table.At(3)
	require.NoError(t, err)
	assert.Equal(t, "2*g(3)*g(0) + 6*g(2)*g(1)", set.String())

	base, err := table.At(0)
	require.NoError(t, err)
	assert.Equal(t, "g(0)*g(0)", base.String())
}
