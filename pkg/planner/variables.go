package planner

import (
	"strconv"
	"strings"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/milp"
)

// Variables maps composite keys to model variables.
type Variables struct {
	Open       map[Key]milp.Var
	Operate    map[Key]milp.Var
	Close      map[Key]milp.Var
	Transition map[PairKey]milp.Var
}

// newVariables creates every decision variable of the model in a fixed
// order: per fuel and slot, the lifecycle flags of each option over all
// periods. The single-slot variant follows each option with its outgoing
// transition indicators; the multi-slot variant adds all indicators of a
// slot after its options.
func newVariables(m *milp.Model, idx *Index) *Variables {
	v := &Variables{
		Open:       make(map[Key]milp.Var),
		Operate:    make(map[Key]milp.Var),
		Close:      make(map[Key]milp.Var),
		Transition: make(map[PairKey]milp.Var),
	}
	for f := range idx.Fuels {
		for i := 0; i < idx.Slots; i++ {
			for k := 0; k < idx.NumOptions(f); k++ {
				for t := 0; t < idx.NumPeriods(); t++ {
					key := Key{Fuel: f, Slot: i, Option: k, Period: t}
					v.Open[key] = m.NewBool(idx.name("y", f, i, k, t))
					v.Operate[key] = m.NewBool(idx.name("s", f, i, k, t))
					v.Close[key] = m.NewBool(idx.name("x", f, i, k, t))
				}
				if !idx.multi {
					v.addTransitions(m, idx, f, i, k)
				}
			}
			if idx.multi {
				for k := 0; k < idx.NumOptions(f); k++ {
					v.addTransitions(m, idx, f, i, k)
				}
			}
		}
	}
	return v
}

// addTransitions creates z(k→k2,t) for every other option k2 and period t.
func (v *Variables) addTransitions(m *milp.Model, idx *Index, f, i, k int) {
	for k2 := 0; k2 < idx.NumOptions(f); k2++ {
		if k == k2 {
			continue
		}
		for t := 0; t < idx.NumPeriods(); t++ {
			key := PairKey{Fuel: f, Slot: i, From: k, To: k2, Period: t}
			v.Transition[key] = m.NewBool(idx.name("z", f, i, k, k2, t))
		}
	}
}

// active returns Open + Operate of key.
func (v *Variables) active(key Key) milp.Expr {
	return milp.Sum(v.Open[key], v.Operate[key])
}

// name renders prefix[f,k,...] for the single-slot variant and
// prefix[f,i,k,...] for the multi-slot variant, where i is the slot.
func (idx *Index) name(prefix string, f, slot int, rest ...int) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte('[')
	b.WriteString(strconv.Itoa(f))
	if idx.multi {
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(slot))
	}
	for _, r := range rest {
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(r))
	}
	b.WriteByte(']')
	return b.String()
}
