package planner

import (
	"math"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/cost"
	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/engine"
)

// assertThreshold is the value above which a boolean counts as set.
const assertThreshold = 0.5

// extract turns an engine solution into a sparse plan, its cost breakdown
// and the asserted transitions. Without a usable solution the result has
// empty maps and carries only the status.
func extract(b *Build, sol *engine.Solution) *Result {
	res := emptyResult(sol.Status)
	res.Engine = sol.Engine
	if !sol.Status.HasSolution() {
		return res
	}
	obj := sol.Objective
	res.Objective = &obj

	idx, v := b.Index, b.Vars
	for f, fuel := range idx.Fuels {
		tbl := idx.Costs[f]
		for t, year := range idx.Periods {
			yk := year.String()
			for i := 0; i < idx.Slots; i++ {
				slot := idx.SlotKey(i)
				for k := 0; k < idx.NumOptions(f); k++ {
					key := Key{f, i, k, t}
					y := sol.Value(v.Open[key])
					s := sol.Value(v.Operate[key])
					x := sol.Value(v.Close[key])
					opened, operating, closed := y > assertThreshold, s > assertThreshold, x > assertThreshold
					if !opened && !operating && !closed {
						continue
					}
					capKey := idx.CapacityKey(f, k)
					res.Solution.set(fuel, yk, slot, capKey, Flags{
						Opened:    flag(y),
						Operating: flag(s),
						Closed:    flag(x),
					})

					if f == idx.Boundary && t == 0 {
						if opened {
							res.Costs.set(fuel, yk, slot, capKey, Flags{Operating: money(tbl.Maintenance(k))})
						}
						continue
					}
					res.Costs.set(fuel, yk, slot, capKey, Flags{
						Opened:    money(float64(flag(y)) * tbl.Dynamic(k, t)),
						Operating: money(float64(flag(s)) * tbl.Maintenance(k)),
						Closed:    money(float64(flag(x)) * tbl.Decommission(k)),
					})
				}
				extractTransitions(res, b, sol, f, i, t)
			}
		}
	}
	return res
}

func extractTransitions(res *Result, b *Build, sol *engine.Solution, f, i, t int) {
	idx, tbl := b.Index, b.Index.Costs[f]
	for k := 0; k < idx.NumOptions(f); k++ {
		for k2 := 0; k2 < idx.NumOptions(f); k2++ {
			if k == k2 {
				continue
			}
			z := sol.Value(b.Vars.Transition[PairKey{f, i, k, k2, t}])
			if z <= assertThreshold {
				continue
			}
			if res.Transitions == nil {
				res.Transitions = Transitions{}
			}
			change := idx.CapacityKey(f, k) + "->" + idx.CapacityKey(f, k2)
			res.Transitions.set(idx.Fuels[f], idx.Periods[t].String(), idx.SlotKey(i), change, TransitionCost{
				Kind: cost.Kind(k, k2),
				Cost: money(tbl.Transition(k, k2, t)),
			})
		}
	}
}

func flag(v float64) int64 { return int64(math.Round(v)) }

func money(v float64) int64 { return int64(math.Round(v)) }
