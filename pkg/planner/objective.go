package planner

import "github.com/KaiSMsa/Nord-H2UB-dss/pkg/milp"

// addObjective weights every variable with its cost. The initial fuel at
// t = 0 is pre-existing: Open is charged maintenance only and Operate is
// free. Close is charged in every period.
func addObjective(m *milp.Model, idx *Index, v *Variables) {
	m.SetSense(milp.Minimize)
	for f := range idx.Fuels {
		tbl := idx.Costs[f]
		for i := 0; i < idx.Slots; i++ {
			for k := 0; k < idx.NumOptions(f); k++ {
				for t := 0; t < idx.NumPeriods(); t++ {
					key := Key{f, i, k, t}
					if f == idx.Boundary && t == 0 {
						m.AddObjective(v.Open[key], tbl.Maintenance(k))
					} else {
						m.AddObjective(v.Open[key], tbl.Dynamic(k, t))
						m.AddObjective(v.Operate[key], tbl.Maintenance(k))
					}
					m.AddObjective(v.Close[key], tbl.Decommission(k))
				}
			}
			for k := 0; k < idx.NumOptions(f); k++ {
				for k2 := 0; k2 < idx.NumOptions(f); k2++ {
					if k == k2 {
						continue
					}
					for t := 0; t < idx.NumPeriods(); t++ {
						m.AddObjective(v.Transition[PairKey{f, i, k, k2, t}], tbl.Transition(k, k2, t))
					}
				}
			}
		}
	}
}
