package milp

// Var is a handle to a model variable.
type Var int

// Term is one weighted variable in a linear expression.
type Term struct {
	Var  Var
	Coef float64
}

// Expr is a linear expression Σ coef·var + constant.
type Expr struct {
	Terms    []Term
	Constant float64
}

// Sum returns the unit-weighted sum of vars.
func Sum(vars ...Var) Expr {
	e := Expr{Terms: make([]Term, 0, len(vars))}
	for _, v := range vars {
		e.Terms = append(e.Terms, Term{Var: v, Coef: 1})
	}
	return e
}

// Add appends coef·v.
func (e *Expr) Add(v Var, coef float64) *Expr {
	e.Terms = append(e.Terms, Term{Var: v, Coef: coef})
	return e
}

// AddExpr appends scale·o.
func (e *Expr) AddExpr(o Expr, scale float64) *Expr {
	for _, t := range o.Terms {
		e.Terms = append(e.Terms, Term{Var: t.Var, Coef: scale * t.Coef})
	}
	e.Constant += scale * o.Constant
	return e
}

// AddConstant adds c to the constant part.
func (e *Expr) AddConstant(c float64) *Expr {
	e.Constant += c
	return e
}

// Compact merges repeated variables and drops zero coefficients. Terms
// keep the order of first appearance so output stays deterministic.
func (e Expr) Compact() Expr {
	pos := make(map[Var]int, len(e.Terms))
	out := make([]Term, 0, len(e.Terms))
	for _, t := range e.Terms {
		if i, ok := pos[t.Var]; ok {
			out[i].Coef += t.Coef
			continue
		}
		pos[t.Var] = len(out)
		out = append(out, t)
	}
	kept := out[:0]
	for _, t := range out {
		if t.Coef != 0 {
			kept = append(kept, t)
		}
	}
	return Expr{Terms: kept, Constant: e.Constant}
}

// Eval evaluates the expression at values, indexed by Var.
func (e Expr) Eval(values []float64) float64 {
	sum := e.Constant
	for _, t := range e.Terms {
		sum += t.Coef * values[t.Var]
	}
	return sum
}
