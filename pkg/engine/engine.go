// Package engine runs solver backends over milp models.
//
// Status codes follow the OR-tools linear solver enumeration so results
// can be passed through verbatim.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/milp"
)

// ErrEngineUnavailable is returned when a requested backend cannot be
// instantiated.
var ErrEngineUnavailable = errors.New("solver engine not available")

// Status is the outcome of a solve.
type Status int

const (
	Optimal      Status = 0
	Feasible     Status = 1
	Infeasible   Status = 2
	Unbounded    Status = 3
	Abnormal     Status = 4
	ModelInvalid Status = 5
	NotSolved    Status = 6
)

var statusNames = map[Status]string{
	Optimal:      "OPTIMAL",
	Feasible:     "FEASIBLE",
	Infeasible:   "INFEASIBLE",
	Unbounded:    "UNBOUNDED",
	Abnormal:     "ABNORMAL",
	ModelInvalid: "MODEL_INVALID",
	NotSolved:    "NOT_SOLVED",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("STATUS(%d)", int(s))
}

// HasSolution reports whether the status carries a usable assignment.
func (s Status) HasSolution() bool {
	return s == Optimal || s == Feasible
}

// Solution is the engine's answer for one model.
type Solution struct {
	Status    Status
	Objective float64
	// Values is indexed by milp.Var. It is nil unless Status.HasSolution().
	Values []float64
	Nodes  int
	Engine string
}

// Value returns the assigned value of v, or 0 without a solution.
func (s *Solution) Value(v milp.Var) float64 {
	if s == nil || int(v) >= len(s.Values) {
		return 0
	}
	return s.Values[v]
}

// Engine solves a model. Implementations are not safe for concurrent use
// of a single instance; create one per solve.
type Engine interface {
	Name() string
	Solve(ctx context.Context, m *milp.Model) (*Solution, error)
}

// Options configure engine construction.
type Options struct {
	// NodeLimit caps branch-and-bound nodes per independent block.
	NodeLimit int
	// Tolerance is the integrality and feasibility tolerance.
	Tolerance float64
	// TimeLimit bounds a solve. Zero means no limit.
	TimeLimit time.Duration
	// CBCPath overrides the cbc executable looked up on PATH.
	CBCPath string
	// WorkDir holds temporary model files; defaults to the system temp dir.
	WorkDir string
}

const (
	DefaultEngine    = "bnb"
	DefaultNodeLimit = 50000
	DefaultTolerance = 1e-6
)

func (o Options) withDefaults() Options {
	if o.NodeLimit <= 0 {
		o.NodeLimit = DefaultNodeLimit
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	return o
}

type factory func(Options) (Engine, error)

var registry = map[string]factory{
	"bnb": func(o Options) (Engine, error) { return NewBranchAndBound(o), nil },
	"cbc": func(o Options) (Engine, error) { return NewCBC(o) },
}

// New instantiates the named engine. An empty name selects the default.
func New(name string, opts Options) (Engine, error) {
	if name == "" {
		name = DefaultEngine
	}
	f, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown engine %q (available: %s)",
			ErrEngineUnavailable, name, strings.Join(Available(), ", "))
	}
	return f(opts.withDefaults())
}

// Available lists the registered engine names.
func Available() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
