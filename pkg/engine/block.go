package engine

import (
	"math"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/milp"
)

// row is a constraint restricted to one block, over local variable indices.
type row struct {
	idx  []int
	coef []float64
	rel  milp.Relation
	rhs  float64
}

// block is an independent part of a model: no row links its variables to
// variables of another block, so it can be optimised on its own.
type block struct {
	vars    []milp.Var // local index -> model variable
	c       []float64  // minimisation objective over local variables
	lower   []float64
	upper   []float64
	integer []bool
	rows    []row
}

// splitBlocks partitions the model into independent blocks by connecting
// variables that share a row. Rows without variables are checked here and
// reported through ok=false when violated.
func splitBlocks(m *milp.Model, tol float64) (blocks []*block, ok bool) {
	n := m.NumVars()
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		if ra < rb {
			parent[rb] = ra
		} else {
			parent[ra] = rb
		}
	}

	cons := m.Constraints()
	for _, c := range cons {
		if len(c.Terms) == 0 {
			if !c.Satisfied(nil, tol) {
				return nil, false
			}
			continue
		}
		first := int(c.Terms[0].Var)
		for _, t := range c.Terms[1:] {
			union(first, int(t.Var))
		}
	}

	cost := m.ObjectiveCoefficients()
	if m.Sense() == milp.Maximize {
		for i := range cost {
			cost[i] = -cost[i]
		}
	}

	byRoot := make(map[int]*block)
	local := make([]int, n)
	defs := m.Vars()
	for i := 0; i < n; i++ {
		r := find(i)
		b, seen := byRoot[r]
		if !seen {
			b = &block{}
			byRoot[r] = b
			blocks = append(blocks, b)
		}
		local[i] = len(b.vars)
		b.vars = append(b.vars, milp.Var(i))
		b.c = append(b.c, cost[i])
		b.lower = append(b.lower, defs[i].Lower)
		b.upper = append(b.upper, defs[i].Upper)
		b.integer = append(b.integer, defs[i].Integer)
	}

	for _, c := range cons {
		if len(c.Terms) == 0 {
			continue
		}
		b := byRoot[find(int(c.Terms[0].Var))]
		r := row{
			idx:  make([]int, len(c.Terms)),
			coef: make([]float64, len(c.Terms)),
			rel:  c.Rel,
			rhs:  c.RHS,
		}
		for i, t := range c.Terms {
			r.idx[i] = local[t.Var]
			r.coef[i] = t.Coef
		}
		b.rows = append(b.rows, r)
	}
	return blocks, true
}

// objective evaluates the block's minimisation objective.
func (b *block) objective(x []float64) float64 {
	sum := 0.0
	for i, c := range b.c {
		sum += c * x[i]
	}
	return sum
}

// mostFractional returns the integer variable farthest from integrality,
// lowest index first on ties, or -1 when x is integral within tol.
func (b *block) mostFractional(x []float64, tol float64) int {
	best, bestDist := -1, tol
	for i, isInt := range b.integer {
		if !isInt {
			continue
		}
		frac := x[i] - math.Floor(x[i])
		dist := math.Min(frac, 1-frac)
		if dist > bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}
