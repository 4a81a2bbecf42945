package milp

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompactMergesAndDropsZeros(t *testing.T) {
	e := Sum(Var(2), Var(0), Var(2))
	e.Add(Var(1), 3).Add(Var(1), -3).AddConstant(4)

	got := e.Compact()
	assert.Equal(t, []Term{{Var: 2, Coef: 2}, {Var: 0, Coef: 1}}, got.Terms)
	assert.Equal(t, 4.0, got.Constant)
}

func TestAddMovesConstantToRHS(t *testing.T) {
	m := NewModel("t")
	a := m.NewBool("a")
	b := m.NewBool("b")

	var lhs Expr
	lhs.Add(a, 1).Add(b, 1).AddConstant(-1)
	c := m.Add("row", lhs, LessEq, 0)

	assert.Equal(t, 1.0, c.RHS)
	assert.Len(t, m.Constraints(), 1)
}

func TestAddCompare(t *testing.T) {
	m := NewModel("t")
	s := m.NewBool("s")
	y := m.NewBool("y")
	x := m.NewBool("x")

	var rhs Expr
	rhs.Add(y, 1).Add(x, -1)
	c := m.AddCompare("def", Sum(s), Equal, rhs)

	assert.Equal(t, []Term{{s, 1}, {y, -1}, {x, 1}}, c.Terms)
	assert.Equal(t, 0.0, c.RHS)
}

func TestAndLowerBound(t *testing.T) {
	m := NewModel("t")
	z := m.NewBool("z")
	a := m.NewBool("a")
	b := m.NewBool("b")
	c := m.NewBool("c")

	row := m.AndLowerBound("and", z, Sum(a), Sum(b), Sum(c))
	assert.Equal(t, GreaterEq, row.Rel)
	assert.Equal(t, -2.0, row.RHS)

	// all three true forces the indicator up
	assert.False(t, row.Satisfied([]float64{0, 1, 1, 1}, 1e-9))
	assert.True(t, row.Satisfied([]float64{1, 1, 1, 1}, 1e-9))
	// any false term leaves it free
	assert.True(t, row.Satisfied([]float64{0, 1, 0, 1}, 1e-9))
}

func TestFeasible(t *testing.T) {
	m := NewModel("t")
	a := m.NewBool("a")
	b := m.NewBool("b")
	m.Add("cover", Sum(a, b), GreaterEq, 1)

	require.NoError(t, m.Feasible([]float64{1, 0}, 1e-9))
	assert.ErrorContains(t, m.Feasible([]float64{0, 0}, 1e-9), "cover")
	assert.ErrorContains(t, m.Feasible([]float64{0.5, 0.5}, 1e-9), "not integral")
	assert.ErrorContains(t, m.Feasible([]float64{2, 0}, 1e-9), "outside")
	assert.Error(t, m.Feasible([]float64{1}, 1e-9))
}

func TestObjectiveAccumulates(t *testing.T) {
	m := NewModel("t")
	a := m.NewBool("a")
	b := m.NewBool("b")
	m.AddObjective(a, 5)
	m.AddObjective(b, 2)
	m.AddObjective(a, 1)

	assert.Equal(t, []Term{{a, 6}, {b, 2}}, m.Objective().Terms)
	assert.Equal(t, []float64{6, 2}, m.ObjectiveCoefficients())
	assert.Equal(t, 8.0, m.Objective().Eval([]float64{1, 1}))
}

func sampleModel() *Model {
	m := NewModel("sample")
	y := m.NewBool("y[0,0,0]")
	s := m.NewBool("s[0,0,1]")
	q := m.NewVar("q", 0, 10, true)
	m.AddObjective(y, 1500000)
	m.AddObjective(s, 30000.5)
	m.AddObjective(q, -1)
	m.Add("demand[0,0]", Sum(y, s), GreaterEq, 1)
	var e Expr
	e.Add(s, 1).Add(y, -1)
	m.Add("operate[0,0,1]", e, Equal, 0)
	return m
}

func TestWriteLP(t *testing.T) {
	out := sampleModel().LPString(LPOptions{})

	assert.True(t, strings.HasPrefix(out, "\\Problem name: sample\nMinimize\n"))
	assert.Contains(t, out, " obj: 1500000 y[0,0,0] + 30000.5 s[0,0,1] - 1 q\n")
	assert.Contains(t, out, "Subject To\n demand[0,0]: 1 y[0,0,0] + 1 s[0,0,1] >= 1\n")
	assert.Contains(t, out, " operate[0,0,1]: 1 s[0,0,1] - 1 y[0,0,0] = 0\n")
	assert.Contains(t, out, "Bounds\n 0 <= y[0,0,0] <= 1\n 0 <= s[0,0,1] <= 1\n 0 <= q <= 10\n")
	assert.Contains(t, out, "Binaries\n y[0,0,0] s[0,0,1]\nGenerals\n q\nEnd\n")
}

func TestWriteLPStrict(t *testing.T) {
	out := sampleModel().LPString(LPOptions{Strict: true})

	assert.NotContains(t, out, "[")
	assert.Contains(t, out, " demand_0_0: 1 y_0_0_0 + 1 s_0_0_1 >= 1\n")
}

func TestWriteLPWrapsLongRows(t *testing.T) {
	m := NewModel("wide")
	var e Expr
	for i := 0; i < 100; i++ {
		e.Add(m.NewBool("var_with_a_long_name"), 1)
	}
	m.Add("wide", e, LessEq, 1)

	for _, line := range strings.Split(m.LPString(LPOptions{}), "\n") {
		assert.LessOrEqual(t, len(line), lpLineWidth+16)
	}
}

func TestBoundLine(t *testing.T) {
	inf := math.Inf(1)
	assert.Equal(t, "x free", boundLine("x", VarDef{Lower: -inf, Upper: inf}))
	assert.Equal(t, "x >= 2", boundLine("x", VarDef{Lower: 2, Upper: inf}))
	assert.Equal(t, "-inf <= x <= 3", boundLine("x", VarDef{Lower: -inf, Upper: 3}))
}
