package cost

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/spec"
)

// Options selects variant-specific cost behaviour.
type Options struct {
	// NormalizeTransitionRate divides the change rate by 100 on the target
	// side of the transition cost. When false the raw rate is compounded,
	// which is the single-tank planning behaviour.
	NormalizeTransitionRate bool
}

// RoundThousand rounds an amount to the nearest thousand, ties to even.
func RoundThousand(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).RoundBank(RoundingPlaces).Float64()
	return f
}

// Escalation returns the compound growth factor (1+rate)^t for a period index.
func Escalation(rate float64, t int) float64 {
	return math.Pow(1+rate, float64(t))
}

// Dynamic is the acquisition cost of an option at period index t.
// Escalation compounds per period index, not per calendar gap.
func Dynamic(base, changeRatePct float64, t int) float64 {
	return RoundThousand(base * Escalation(changeRatePct/PercentDivisor, t))
}

// Maintenance is the per-period operating cost of an option.
func Maintenance(base, maintenancePct float64) float64 {
	return RoundThousand(base * maintenancePct / PercentDivisor)
}

// Decommission is the one-off closing cost of an option.
func Decommission(base, decommissionPct float64) float64 {
	return RoundThousand(base * decommissionPct / PercentDivisor)
}

// Transition is the cost of switching a tank from one option (whose
// dynamic cost at t is fromDynamic) to an option with base cost toBase.
func Transition(fromDynamic, toBase, toRate float64, t int) float64 {
	return math.Abs(TransitionFactor * (fromDynamic - toBase*Escalation(toRate, t)))
}

// Kind labels a transition between option indices.
func Kind(from, to int) TransitionKind {
	if from < to {
		return Extension
	}
	return Reduction
}

// Table holds every cost figure of one fuel, computed once per solve.
type Table struct {
	Fuel         string
	dynamic      [][]float64 // [option][period]
	maintenance  []float64
	decommission []float64
	transition   [][][]float64 // [from][to][period]
}

// NewTable builds the cost table of a fuel over periods periods.
func NewTable(fuel string, p spec.CostProfile, periods int, opts Options) *Table {
	n := len(p.Costs)
	tbl := &Table{
		Fuel:         fuel,
		dynamic:      make([][]float64, n),
		maintenance:  make([]float64, n),
		decommission: make([]float64, n),
		transition:   make([][][]float64, n),
	}

	for k, base := range p.Costs {
		tbl.dynamic[k] = make([]float64, periods)
		for t := 0; t < periods; t++ {
			tbl.dynamic[k][t] = Dynamic(base, p.ChangeRate, t)
		}
		tbl.maintenance[k] = Maintenance(base, p.MaintenanceCost)
		tbl.decommission[k] = Decommission(base, p.DecommissioningCost)
	}

	toRate := p.ChangeRate
	if opts.NormalizeTransitionRate {
		toRate = p.ChangeRate / PercentDivisor
	}
	for k := range p.Costs {
		tbl.transition[k] = make([][]float64, n)
		for k2, toBase := range p.Costs {
			if k == k2 {
				continue
			}
			row := make([]float64, periods)
			for t := 0; t < periods; t++ {
				row[t] = Transition(tbl.dynamic[k][t], toBase, toRate, t)
			}
			tbl.transition[k][k2] = row
		}
	}
	return tbl
}

// Options returns the number of capacity options covered by the table.
func (tbl *Table) Options() int { return len(tbl.maintenance) }

// Dynamic returns the acquisition cost of option k at period t.
func (tbl *Table) Dynamic(k, t int) float64 { return tbl.dynamic[k][t] }

// Maintenance returns the per-period operating cost of option k.
func (tbl *Table) Maintenance(k int) float64 { return tbl.maintenance[k] }

// Decommission returns the closing cost of option k.
func (tbl *Table) Decommission(k int) float64 { return tbl.decommission[k] }

// Transition returns the cost of switching from option k to k2 at period t.
// It is zero when k == k2.
func (tbl *Table) Transition(k, k2, t int) float64 {
	if k == k2 {
		return 0
	}
	return tbl.transition[k][k2][t]
}
