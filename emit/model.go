package emit

import (
	"github.com/helfem/hipgen/errors"
	"github.com/helfem/hipgen/expand"
	"github.com/helfem/hipgen/formula"
	"github.com/helfem/hipgen/version"
)

// Model is the language-agnostic input every generator renders from. It
// carries one assembled Case per dispatch arm plus the configuration the
// arms were derived under.
type Model struct {
	// Cases holds the assembled formulas, index k handling derivative
	// order k. len(Cases) == DispatchLimit.
	Cases []*formula.Case

	// DispatchLimit is the number of dispatch arms. Orders at or above
	// the limit fall through to the runtime error arm.
	DispatchLimit int

	// TableDepth is the highest derivative order the term table was
	// expanded to. Kept one above the highest dispatched order so the
	// table has verified headroom for extending the dispatch.
	TableDepth int

	// Version identifies the generator build that produced the model.
	Version string
}

// BuildModel expands the derivative term table to tableDepth and assembles
// dispatch arms for orders 0 through maxOrder-1.
func BuildModel(maxOrder, tableDepth int) (*Model, error) {
	table, err := expand.Build(tableDepth)
	if err != nil {
		return nil, errors.Wrap(err, "building derivative table")
	}

	cases, err := formula.AssembleRange(maxOrder, table)
	if err != nil {
		return nil, errors.Wrap(err, "assembling dispatch arms")
	}

	return &Model{
		Cases:         cases,
		DispatchLimit: maxOrder,
		TableDepth:    table.Depth(),
		Version:       version.Version,
	}, nil
}
