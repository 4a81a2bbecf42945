package engine

import (
	"context"
	"math"

	"github.com/go-logr/logr"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/milp"
)

// BranchAndBound is a pure-Go MILP engine. It splits the model into
// independent blocks and runs a depth-first branch-and-bound on each,
// solving LP relaxations with a dense two-phase simplex. Branching is deterministic:
// the most fractional integer variable (lowest index on ties), nearer
// rounding explored first.
type BranchAndBound struct {
	opts Options
}

// NewBranchAndBound creates the built-in engine.
func NewBranchAndBound(opts Options) *BranchAndBound {
	return &BranchAndBound{opts: opts.withDefaults()}
}

func (e *BranchAndBound) Name() string { return "bnb" }

// Solve optimises m. Context cancellation and the time limit stop the
// search like the node limit does, also in the middle of a relaxation:
// the best incumbent so far is returned as Feasible, or NotSolved when
// there is none.
func (e *BranchAndBound) Solve(ctx context.Context, m *milp.Model) (*Solution, error) {
	log := logr.FromContextOrDiscard(ctx).WithName("bnb")
	if e.opts.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.TimeLimit)
		defer cancel()
	}

	blocks, ok := splitBlocks(m, e.opts.Tolerance)
	if !ok {
		return &Solution{Status: Infeasible, Engine: e.Name()}, nil
	}
	log.V(1).Info("model split", "variables", m.NumVars(), "rows", m.NumConstraints(), "blocks", len(blocks))

	values := make([]float64, m.NumVars())
	status := Optimal
	nodes := 0
	for _, b := range blocks {
		s := &search{block: b, tol: e.opts.Tolerance, limit: e.opts.NodeLimit, best: math.Inf(1)}
		st := s.run(ctx)
		nodes += s.nodes
		if s.err != nil {
			log.V(1).Info("relaxation failed", "error", s.err.Error())
		}
		status = worse(status, st)
		if !st.HasSolution() {
			continue
		}
		for i, v := range b.vars {
			values[v] = s.incumbent[i]
		}
	}

	sol := &Solution{Status: status, Nodes: nodes, Engine: e.Name()}
	if status.HasSolution() {
		sol.Values = values
		sol.Objective = m.Objective().Eval(values)
	}
	log.V(1).Info("search finished", "status", status.String(), "nodes", nodes, "objective", sol.Objective)
	return sol, nil
}

// statusRank orders statuses from best to worst when combining blocks.
var statusRank = map[Status]int{
	Optimal:      0,
	Feasible:     1,
	NotSolved:    2,
	Abnormal:     3,
	Unbounded:    4,
	Infeasible:   5,
	ModelInvalid: 6,
}

func worse(a, b Status) Status {
	if statusRank[b] > statusRank[a] {
		return b
	}
	return a
}

// node is a subproblem: the block under tightened bounds.
type node struct {
	lo, hi []float64
	bound  float64 // relaxation value of the parent
}

// search holds the branch-and-bound state of one block.
type search struct {
	block *block
	tol   float64
	limit int

	nodes     int
	best      float64
	incumbent []float64
	err       error
}

func (s *search) run(ctx context.Context) Status {
	b := s.block
	root := node{
		lo:    append([]float64(nil), b.lower...),
		hi:    append([]float64(nil), b.upper...),
		bound: math.Inf(-1),
	}
	stack := []node{root}
	stopped := false

search:
	for len(stack) > 0 {
		if s.nodes >= s.limit || ctx.Err() != nil {
			stopped = true
			break
		}
		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.prune(nd.bound) {
			continue
		}

		res := b.relax(ctx, nd.lo, nd.hi, s.tol)
		s.nodes++
		switch res.status {
		case relaxStopped:
			stopped = true
			break search
		case relaxInfeasible:
			continue
		case relaxUnbounded:
			return Unbounded
		case relaxFailed:
			s.err = res.err
			if s.nodes == 1 {
				return Abnormal
			}
			continue
		}
		if s.prune(res.obj) {
			continue
		}

		j := b.mostFractional(res.x, s.tol)
		if j < 0 {
			s.record(res.x)
			continue
		}

		v := res.x[j]
		down := node{lo: nd.lo, hi: clone(nd.hi), bound: res.obj}
		down.hi[j] = math.Floor(v)
		up := node{lo: clone(nd.lo), hi: nd.hi, bound: res.obj}
		up.lo[j] = math.Ceil(v)

		// LIFO: the child pushed last is explored first.
		if v-math.Floor(v) >= 0.5 {
			stack = append(stack, down, up)
		} else {
			stack = append(stack, up, down)
		}
	}

	switch {
	case s.incumbent != nil && !stopped:
		return Optimal
	case s.incumbent != nil:
		return Feasible
	case stopped:
		return NotSolved
	default:
		return Infeasible
	}
}

// prune reports whether a node with the given bound cannot improve on the
// incumbent.
func (s *search) prune(bound float64) bool {
	if s.incumbent == nil {
		return false
	}
	gap := 1e-9 * math.Max(1, math.Abs(s.best))
	return bound >= s.best-gap
}

func (s *search) record(x []float64) {
	sol := clone(x)
	for i, isInt := range s.block.integer {
		if isInt {
			sol[i] = math.Round(sol[i])
		}
	}
	obj := s.block.objective(sol)
	if s.incumbent == nil || obj < s.best {
		s.best = obj
		s.incumbent = sol
	}
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}
