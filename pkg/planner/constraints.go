package planner

import (
	"fmt"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/milp"
)

// addConstraints adds every constraint family to m. Rows are added fuel
// by fuel so the model stays separable per fuel.
func addConstraints(m *milp.Model, idx *Index, v *Variables, s settings) error {
	for f := range idx.Fuels {
		if err := addDemand(m, idx, v, f); err != nil {
			return err
		}
		addOperate(m, idx, v, f)
		addLifetimeBounds(m, idx, v, f, s.closeBound)
		addSingleOption(m, idx, v, f)
		addTransitions(m, idx, v, f)
		if err := addShutdown(m, idx, v, f); err != nil {
			return err
		}
		if f == idx.Boundary {
			addBoundary(m, idx, v, f)
		}
		if idx.multi {
			addSequence(m, idx, v, f)
		}
	}
	return nil
}

// addDemand requires Σ capacity·(Open+Operate) ≥ demand per period.
func addDemand(m *milp.Model, idx *Index, v *Variables, f int) error {
	for t := 0; t < idx.NumPeriods(); t++ {
		d, err := idx.Demand(f, t)
		if err != nil {
			return err
		}
		var e milp.Expr
		for i := 0; i < idx.Slots; i++ {
			for k, c := range idx.Options[f] {
				e.AddExpr(v.active(Key{f, i, k, t}), c)
			}
		}
		m.Add(fmt.Sprintf("demand[%d,%d]", f, t), e, milp.GreaterEq, d)
	}
	return nil
}

// addOperate pins Operate(t) = Σ_{t'<t} Open(t') − Σ_{t'≤t} Close(t') for
// t ≥ 1. Operate at t = 0 stays free.
func addOperate(m *milp.Model, idx *Index, v *Variables, f int) {
	for i := 0; i < idx.Slots; i++ {
		for t := 1; t < idx.NumPeriods(); t++ {
			for k := 0; k < idx.NumOptions(f); k++ {
				var e milp.Expr
				e.Add(v.Operate[Key{f, i, k, t}], 1)
				for tp := 0; tp < t; tp++ {
					e.Add(v.Open[Key{f, i, k, tp}], -1)
				}
				for tp := 0; tp <= t; tp++ {
					e.Add(v.Close[Key{f, i, k, tp}], 1)
				}
				m.Add(idx.name("operate", f, i, k, t), e, milp.Equal, 0)
			}
		}
	}
}

// addLifetimeBounds caps openings per fuel at one per slot in aggregate,
// and closings likewise when closeBound is set.
func addLifetimeBounds(m *milp.Model, idx *Index, v *Variables, f int, closeBound bool) {
	var opens, closes milp.Expr
	for i := 0; i < idx.Slots; i++ {
		for k := 0; k < idx.NumOptions(f); k++ {
			for t := 0; t < idx.NumPeriods(); t++ {
				key := Key{f, i, k, t}
				opens.Add(v.Open[key], 1)
				closes.Add(v.Close[key], 1)
			}
		}
	}
	limit := float64(idx.Slots)
	m.Add(fmt.Sprintf("open_limit[%d]", f), opens, milp.LessEq, limit)
	if closeBound {
		m.Add(fmt.Sprintf("close_limit[%d]", f), closes, milp.LessEq, limit)
	}
}

// addSingleOption allows at most one operated option per slot and period.
func addSingleOption(m *milp.Model, idx *Index, v *Variables, f int) {
	for i := 0; i < idx.Slots; i++ {
		for t := 0; t < idx.NumPeriods(); t++ {
			var e milp.Expr
			for k := 0; k < idx.NumOptions(f); k++ {
				e.Add(v.Operate[Key{f, i, k, t}], 1)
			}
			m.Add(idx.name("single_option", f, i, t), e, milp.LessEq, 1)
		}
	}
}

// addTransitions bounds z(k→k2,t) from below by the AND of option k being
// active at t−1 and option k2 operating at t.
func addTransitions(m *milp.Model, idx *Index, v *Variables, f int) {
	for i := 0; i < idx.Slots; i++ {
		for t := 1; t < idx.NumPeriods(); t++ {
			for k := 0; k < idx.NumOptions(f); k++ {
				for k2 := 0; k2 < idx.NumOptions(f); k2++ {
					if k == k2 {
						continue
					}
					z := v.Transition[PairKey{f, i, k, k2, t}]
					m.AndLowerBound(idx.name("transition", f, i, k, k2, t), z,
						v.active(Key{f, i, k, t - 1}),
						milp.Sum(v.Operate[Key{f, i, k2, t}]))
				}
			}
		}
	}
}

// addShutdown forces the fuel out of service in the period of its last
// positive-to-zero demand drop. Earlier drops are not enforced.
func addShutdown(m *milp.Model, idx *Index, v *Variables, f int) error {
	t, err := idx.lastDrop(f)
	if err != nil || t < 0 {
		return err
	}
	var e milp.Expr
	for i := 0; i < idx.Slots; i++ {
		for k := 0; k < idx.NumOptions(f); k++ {
			e.AddExpr(v.active(Key{f, i, k, t}), 1)
		}
	}
	m.Add(fmt.Sprintf("shutdown[%d,%d]", f, t), e, milp.Equal, 0)
	return nil
}

// addBoundary puts the initial fuel in service at t = 0. In the multi-slot
// variant the opened tanks neither operate nor close in that period.
func addBoundary(m *milp.Model, idx *Index, v *Variables, f int) {
	var opens, operates, closes milp.Expr
	for i := 0; i < idx.Slots; i++ {
		for k := 0; k < idx.NumOptions(f); k++ {
			key := Key{f, i, k, 0}
			opens.Add(v.Open[key], 1)
			operates.Add(v.Operate[key], 1)
			closes.Add(v.Close[key], 1)
		}
	}
	m.Add(fmt.Sprintf("initial_open[%d]", f), opens, milp.GreaterEq, 1)
	if idx.multi {
		m.Add(fmt.Sprintf("initial_no_operate[%d]", f), operates, milp.Equal, 0)
		m.Add(fmt.Sprintf("initial_no_close[%d]", f), closes, milp.Equal, 0)
	}
}

// addSequence makes slots fill in order: slot i must be active before
// slot i+1 may open.
func addSequence(m *milp.Model, idx *Index, v *Variables, f int) {
	for t := 0; t < idx.NumPeriods(); t++ {
		for i := 0; i+1 < idx.Slots; i++ {
			var lower, next milp.Expr
			for k := 0; k < idx.NumOptions(f); k++ {
				lower.AddExpr(v.active(Key{f, i, k, t}), 1)
				next.Add(v.Open[Key{f, i + 1, k, t}], 1)
			}
			m.AddCompare(fmt.Sprintf("sequence[%d,%d,%d]", f, i, t), lower, milp.GreaterEq, next)
		}
	}
}
