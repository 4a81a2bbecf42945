package engine

import (
	"context"
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/milp"
)

var errPivotLimit = errors.New("simplex pivot limit reached")

const (
	pivotTol    = 1e-9
	costTol     = 1e-9
	phaseOneTol = 1e-6

	// blandAfter is the run of degenerate pivots after which entering
	// columns are chosen by Bland's rule for the rest of the phase.
	blandAfter = 50
	// pollEvery is how often, in pivots, the context is checked.
	pollEvery = 16
)

// lpRow is a constraint over shifted structural columns.
type lpRow struct {
	coef map[int]float64
	rel  milp.Relation
	rhs  float64
}

// tableau is a dense two-phase simplex tableau for
//
//	min cᵀx s.t. rows, x ≥ 0.
//
// Columns are laid out as structural, then one slack or surplus per
// inequality, then one artificial per ≥ or = row. Row m holds the reduced
// costs of the objective, row m+1 those of the phase one objective; the
// last column is the right-hand side.
type tableau struct {
	t          *mat.Dense
	m, n       int
	structural int
	artStart   int
	basis      []int
	maxPivots  int
	pivots     int
}

func newTableau(cost []float64, rows []lpRow) *tableau {
	ns, m := len(cost), len(rows)
	slacks, arts := 0, 0
	rels := make([]milp.Relation, m)
	for r, row := range rows {
		rel := row.rel
		if row.rhs < 0 {
			rel = flipped(rel)
		}
		rels[r] = rel
		if rel != milp.Equal {
			slacks++
		}
		if rel != milp.LessEq {
			arts++
		}
	}

	n := ns + slacks + arts
	tb := &tableau{
		t:          mat.NewDense(m+2, n+1, nil),
		m:          m,
		n:          n,
		structural: ns,
		artStart:   ns + slacks,
		basis:      make([]int, m),
		maxPivots:  50*(m+n) + 1000,
	}

	s, a := ns, tb.artStart
	phase1 := tb.t.RawRowView(m + 1)
	for r, row := range rows {
		sign := 1.0
		if row.rhs < 0 {
			sign = -1
		}
		line := tb.t.RawRowView(r)
		for c, v := range row.coef {
			line[c] = sign * v
		}
		line[n] = sign * row.rhs

		switch rels[r] {
		case milp.LessEq:
			line[s] = 1
			tb.basis[r] = s
			s++
		case milp.GreaterEq:
			line[s] = -1
			s++
			line[a] = 1
			tb.basis[r] = a
			a++
		default:
			line[a] = 1
			tb.basis[r] = a
			a++
		}
		if tb.basis[r] >= tb.artStart {
			phase1[tb.basis[r]] = 1
			floats.AddScaled(phase1, -1, line)
		}
	}
	copy(tb.t.RawRowView(m), cost)
	return tb
}

func flipped(rel milp.Relation) milp.Relation {
	switch rel {
	case milp.LessEq:
		return milp.GreaterEq
	case milp.GreaterEq:
		return milp.LessEq
	default:
		return rel
	}
}

// solve runs both phases and returns the structural solution.
func (tb *tableau) solve(ctx context.Context) (relaxStatus, []float64, error) {
	if tb.artStart < tb.n {
		st, err := tb.optimize(ctx, tb.m+1)
		if st != relaxOptimal {
			if st == relaxUnbounded {
				// Phase one is bounded below by zero.
				st, err = relaxFailed, errors.New("simplex phase one reported unbounded")
			}
			return st, nil, err
		}
		if -tb.t.At(tb.m+1, tb.n) > phaseOneTol {
			return relaxInfeasible, nil, nil
		}
		tb.evictArtificials()
	}

	st, err := tb.optimize(ctx, tb.m)
	if st != relaxOptimal {
		return st, nil, err
	}
	x := make([]float64, tb.structural)
	for r, j := range tb.basis {
		if j < tb.structural {
			x[j] = math.Max(0, tb.t.At(r, tb.n))
		}
	}
	return relaxOptimal, x, nil
}

// optimize pivots until the objective in row obj has no negative reduced
// cost among non-artificial columns.
func (tb *tableau) optimize(ctx context.Context, obj int) (relaxStatus, error) {
	bland := false
	degenerate := 0
	for iter := 0; ; iter++ {
		if iter%pollEvery == 0 && ctx.Err() != nil {
			return relaxStopped, ctx.Err()
		}
		if tb.pivots >= tb.maxPivots {
			return relaxFailed, errPivotLimit
		}

		q := tb.entering(tb.t.RawRowView(obj), bland)
		if q < 0 {
			return relaxOptimal, nil
		}
		p, ratio := tb.leaving(q)
		if p < 0 {
			return relaxUnbounded, nil
		}
		if ratio <= pivotTol {
			degenerate++
			if degenerate >= blandAfter {
				bland = true
			}
		} else {
			degenerate = 0
		}
		tb.pivot(p, q)
	}
}

// entering picks the most negative reduced cost, or the lowest-index
// negative one under Bland's rule. Artificial columns never enter.
func (tb *tableau) entering(cost []float64, bland bool) int {
	q, best := -1, -costTol
	for j := 0; j < tb.artStart; j++ {
		if cost[j] >= best {
			continue
		}
		if bland {
			return j
		}
		q, best = j, cost[j]
	}
	return q
}

// leaving runs the ratio test on column q. Ties go to the row whose basic
// column has the lowest index.
func (tb *tableau) leaving(q int) (int, float64) {
	p, ratio := -1, math.Inf(1)
	for i := 0; i < tb.m; i++ {
		line := tb.t.RawRowView(i)
		a := line[q]
		if a <= pivotTol {
			continue
		}
		r := math.Max(0, line[tb.n]) / a
		switch {
		case p < 0, r < ratio-pivotTol:
			p, ratio = i, r
		case r <= ratio+pivotTol && tb.basis[i] < tb.basis[p]:
			p, ratio = i, math.Min(r, ratio)
		}
	}
	return p, ratio
}

func (tb *tableau) pivot(p, q int) {
	row := tb.t.RawRowView(p)
	floats.Scale(1/row[q], row)
	row[q] = 1
	for i := 0; i < tb.m+2; i++ {
		if i == p {
			continue
		}
		line := tb.t.RawRowView(i)
		if f := line[q]; f != 0 {
			floats.AddScaled(line, -f, row)
			line[q] = 0
		}
	}
	tb.basis[p] = q
	tb.pivots++
}

// evictArtificials pivots zero-valued artificials out of the basis after
// phase one. A row with no usable column is redundant and keeps its
// artificial at zero.
func (tb *tableau) evictArtificials() {
	for r, j := range tb.basis {
		if j < tb.artStart {
			continue
		}
		line := tb.t.RawRowView(r)
		q, best := -1, pivotTol
		for c := 0; c < tb.artStart; c++ {
			if v := math.Abs(line[c]); v > best {
				q, best = c, v
			}
		}
		if q >= 0 {
			tb.pivot(r, q)
		}
	}
}
