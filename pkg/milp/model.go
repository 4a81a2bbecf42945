package milp

import (
	"fmt"
	"math"
)

// Sense is the optimisation direction.
type Sense int

const (
	Minimize Sense = iota
	Maximize
)

func (s Sense) String() string {
	if s == Maximize {
		return "Maximize"
	}
	return "Minimize"
}

// Relation is the comparison of a constraint row.
type Relation int

const (
	LessEq Relation = iota
	GreaterEq
	Equal
)

func (r Relation) String() string {
	switch r {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	default:
		return "="
	}
}

// VarDef describes a variable.
type VarDef struct {
	Name    string
	Lower   float64
	Upper   float64
	Integer bool
}

// Binary reports whether the variable is an integer in [0,1].
func (d VarDef) Binary() bool {
	return d.Integer && d.Lower == 0 && d.Upper == 1
}

// Constraint is a row Σ coef·var (rel) RHS.
type Constraint struct {
	Name  string
	Terms []Term
	Rel   Relation
	RHS   float64
}

// Activity returns the left-hand side evaluated at values.
func (c Constraint) Activity(values []float64) float64 {
	sum := 0.0
	for _, t := range c.Terms {
		sum += t.Coef * values[t.Var]
	}
	return sum
}

// Satisfied reports whether values meet the row within tol.
func (c Constraint) Satisfied(values []float64, tol float64) bool {
	lhs := c.Activity(values)
	switch c.Rel {
	case LessEq:
		return lhs <= c.RHS+tol
	case GreaterEq:
		return lhs >= c.RHS-tol
	default:
		return math.Abs(lhs-c.RHS) <= tol
	}
}

// Model is a mixed-integer linear program.
type Model struct {
	Name string

	vars      []VarDef
	cons      []Constraint
	sense     Sense
	objective Expr
}

// NewModel creates an empty minimisation model.
func NewModel(name string) *Model {
	return &Model{Name: name}
}

// NewVar adds a variable with the given bounds.
func (m *Model) NewVar(name string, lower, upper float64, integer bool) Var {
	m.vars = append(m.vars, VarDef{Name: name, Lower: lower, Upper: upper, Integer: integer})
	return Var(len(m.vars) - 1)
}

// NewBool adds a binary variable.
func (m *Model) NewBool(name string) Var {
	return m.NewVar(name, 0, 1, true)
}

// NumVars returns the number of variables.
func (m *Model) NumVars() int { return len(m.vars) }

// NumConstraints returns the number of rows.
func (m *Model) NumConstraints() int { return len(m.cons) }

// VarDef returns the definition of v.
func (m *Model) VarDef(v Var) VarDef { return m.vars[v] }

// Vars returns all variable definitions, indexed by Var.
func (m *Model) Vars() []VarDef { return m.vars }

// Constraints returns all rows in insertion order.
func (m *Model) Constraints() []Constraint { return m.cons }

// Add appends the row lhs (rel) rhs. Constants on the left are moved to
// the right-hand side.
func (m *Model) Add(name string, lhs Expr, rel Relation, rhs float64) Constraint {
	e := lhs.Compact()
	m.cons = append(m.cons, Constraint{
		Name:  name,
		Terms: e.Terms,
		Rel:   rel,
		RHS:   rhs - e.Constant,
	})
	return m.cons[len(m.cons)-1]
}

// AddCompare appends the row lhs (rel) rhs where both sides are expressions.
func (m *Model) AddCompare(name string, lhs Expr, rel Relation, rhs Expr) Constraint {
	var e Expr
	e.AddExpr(lhs, 1)
	e.AddExpr(rhs, -1)
	return m.Add(name, e, rel, 0)
}

// SetSense sets the optimisation direction.
func (m *Model) SetSense(s Sense) { m.sense = s }

// Sense returns the optimisation direction.
func (m *Model) Sense() Sense { return m.sense }

// AddObjective accumulates coef·v into the objective.
func (m *Model) AddObjective(v Var, coef float64) {
	m.objective.Add(v, coef)
}

// Objective returns the summed objective.
func (m *Model) Objective() Expr { return m.objective.Compact() }

// ObjectiveCoefficients returns the objective as a dense vector indexed by Var.
func (m *Model) ObjectiveCoefficients() []float64 {
	c := make([]float64, len(m.vars))
	for _, t := range m.objective.Terms {
		c[t.Var] += t.Coef
	}
	return c
}

// Feasible checks bounds, integrality and every row at values.
func (m *Model) Feasible(values []float64, tol float64) error {
	if len(values) != len(m.vars) {
		return fmt.Errorf("got %d values for %d variables", len(values), len(m.vars))
	}
	for i, d := range m.vars {
		v := values[i]
		if v < d.Lower-tol || v > d.Upper+tol {
			return fmt.Errorf("%s = %g outside [%g, %g]", d.Name, v, d.Lower, d.Upper)
		}
		if d.Integer && math.Abs(v-math.Round(v)) > tol {
			return fmt.Errorf("%s = %g is not integral", d.Name, v)
		}
	}
	for _, c := range m.cons {
		if !c.Satisfied(values, tol) {
			return fmt.Errorf("row %s violated: %g %s %g", c.Name, c.Activity(values), c.Rel, c.RHS)
		}
	}
	return nil
}

// AndLowerBound adds indicator ≥ Σ terms − (k−1), the linear lower bound
// of the logical AND of k boolean terms. Nothing forces the indicator down
// to zero; it is left to a positive objective weight.
func (m *Model) AndLowerBound(name string, indicator Var, terms ...Expr) Constraint {
	var e Expr
	e.Add(indicator, 1)
	for _, t := range terms {
		e.AddExpr(t, -1)
	}
	return m.Add(name, e, GreaterEq, -float64(len(terms)-1))
}
