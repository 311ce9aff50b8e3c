package labeling

import (
	"runtime"
	"strings"

	cerrors "github.com/matzehuels/csmtree/pkg/errors"
)

// Objective selects the optimization direction of the search.
type Objective int

const (
	// Minimize keeps the labelings with the smallest curve area: the
	// defender's choice, where every budget buys as little as possible.
	Minimize Objective = iota
	// Maximize keeps the labelings with the largest curve area.
	Maximize
)

func (o Objective) String() string {
	if o == Maximize {
		return "maximize"
	}
	return "minimize"
}

// better reports whether area a beats area b under o.
func (o Objective) better(a, b int) bool {
	if o == Maximize {
		return a > b
	}
	return a < b
}

// ParseObjective parses "min"/"minimize" or "max"/"maximize".
func ParseObjective(s string) (Objective, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "min", "minimize":
		return Minimize, nil
	case "max", "maximize":
		return Maximize, nil
	}
	return Minimize, cerrors.New(cerrors.ErrCodeInvalidInput, "unknown objective %q (want minimize or maximize)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (o Objective) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Objective) UnmarshalText(b []byte) error {
	v, err := ParseObjective(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Default limits.
const (
	DefaultMaxCandidates = 1_000_000
	DefaultMaxSubtrees   = 1 << 20
)

// Options configures [Best]. The zero value is valid and uses the defaults.
type Options struct {
	// Objective is the optimization direction. Default: Minimize.
	Objective Objective

	// MaxCandidates rejects searches with more candidate labelings
	// (distinct cost orderings × distinct prize orderings).
	// Zero means DefaultMaxCandidates; negative disables the ceiling.
	MaxCandidates int

	// MaxSubtrees rejects trees with more root-containing subtrees.
	// Zero means DefaultMaxSubtrees; negative disables the ceiling.
	MaxSubtrees int

	// Workers is the number of goroutines scoring candidates.
	// Zero means runtime.GOMAXPROCS(0).
	Workers int

	// DedupBeforeScoring skips candidates whose canonical form was already
	// generated, so each isomorphism class is scored once. The reported
	// classes are the same either way; only Result.Evaluated changes.
	DedupBeforeScoring bool

	// Progress, if set, is called from worker goroutines with the number of
	// candidates scored so far and the total candidate count. It must be
	// safe for concurrent use.
	Progress func(done, total uint64)
}

func (o Options) withDefaults() Options {
	if o.MaxCandidates == 0 {
		o.MaxCandidates = DefaultMaxCandidates
	}
	if o.MaxSubtrees == 0 {
		o.MaxSubtrees = DefaultMaxSubtrees
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return o
}
