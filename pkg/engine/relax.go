package engine

import (
	"context"
	"math"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/milp"
)

type relaxStatus int

const (
	relaxOptimal relaxStatus = iota
	relaxInfeasible
	relaxUnbounded
	relaxFailed
	relaxStopped
)

// relaxation is the LP optimum of a block under node bounds.
type relaxation struct {
	status relaxStatus
	obj    float64
	x      []float64
	err    error
}

// relax solves the continuous relaxation of b with variable bounds lo/hi.
//
// Fixed variables are substituted out and free ones shifted to x' = x-lo.
// Rows keep their relation; finite upper bounds become x' ≤ hi-lo rows.
// A free column that appears in no row is settled at whichever bound its
// cost prefers.
func (b *block) relax(ctx context.Context, lo, hi []float64, tol float64) relaxation {
	n := len(b.vars)
	x := make([]float64, n)
	copy(x, lo)

	col := make([]int, n)
	used := make([]bool, n)
	for i := 0; i < n; i++ {
		col[i] = -1
	}
	for _, r := range b.rows {
		for _, i := range r.idx {
			if hi[i]-lo[i] > tol {
				used[i] = true
			}
		}
	}

	var cost []float64
	var free []int
	for i := 0; i < n; i++ {
		if hi[i]-lo[i] <= tol {
			continue
		}
		if !used[i] {
			switch {
			case b.c[i] >= 0:
			case math.IsInf(hi[i], 1):
				return relaxation{status: relaxUnbounded}
			default:
				x[i] = hi[i]
			}
			continue
		}
		col[i] = len(cost)
		cost = append(cost, b.c[i])
		free = append(free, i)
	}

	var rows []lpRow
	for _, r := range b.rows {
		rhs := r.rhs
		coef := make(map[int]float64)
		for k, i := range r.idx {
			if col[i] >= 0 {
				rhs -= r.coef[k] * lo[i]
				coef[col[i]] += r.coef[k]
			} else {
				rhs -= r.coef[k] * x[i]
			}
		}
		for c, v := range coef {
			if v == 0 {
				delete(coef, c)
			}
		}
		if len(coef) == 0 {
			if !rowHolds(0, r.rel, rhs, tol) {
				return relaxation{status: relaxInfeasible}
			}
			continue
		}
		rows = append(rows, lpRow{coef: coef, rel: r.rel, rhs: rhs})
	}
	for c, i := range free {
		if !math.IsInf(hi[i], 1) {
			rows = append(rows, lpRow{coef: map[int]float64{c: 1}, rel: milp.LessEq, rhs: hi[i] - lo[i]})
		}
	}

	if len(cost) == 0 {
		return relaxation{status: relaxOptimal, obj: b.objective(x), x: x}
	}

	st, opt, err := newTableau(cost, rows).solve(ctx)
	if st != relaxOptimal {
		return relaxation{status: st, err: err}
	}
	for c, i := range free {
		x[i] = math.Min(math.Max(lo[i]+opt[c], lo[i]), hi[i])
	}
	return relaxation{status: relaxOptimal, obj: b.objective(x), x: x}
}

func rowHolds(lhs float64, rel milp.Relation, rhs, tol float64) bool {
	switch rel {
	case milp.LessEq:
		return lhs <= rhs+tol
	case milp.GreaterEq:
		return lhs >= rhs-tol
	default:
		return math.Abs(lhs-rhs) <= tol
	}
}
