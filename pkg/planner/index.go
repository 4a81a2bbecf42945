package planner

import (
	"fmt"
	"strconv"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/cost"
	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/spec"
)

// Key addresses one lifecycle flag: fuel, slot, capacity option and
// period, all zero-based. The single-slot variant uses slot 0.
type Key struct {
	Fuel, Slot, Option, Period int
}

// PairKey addresses one transition indicator from option From to option To.
type PairKey struct {
	Fuel, Slot, From, To, Period int
}

// Index holds the zero-based dimensions of a planning run and the per-fuel
// cost tables derived from the input.
type Index struct {
	input    *spec.Input
	Periods  []spec.Year
	Fuels    []string
	Options  [][]float64 // capacity values per fuel
	Slots    int
	Boundary int // fuel index of the initial fuel
	Costs    []*cost.Table
	multi    bool
}

// BuildIndex derives indices and cost tables. It does not check the input
// for completeness; a missing demand entry surfaces later as
// ErrMissingDemand.
func BuildIndex(in *spec.Input, opts Options) (*Index, error) {
	s, err := opts.resolve()
	if err != nil {
		return nil, err
	}
	return buildIndex(in, s)
}

func buildIndex(in *spec.Input, s settings) (*Index, error) {
	if len(in.Fuels) == 0 {
		return nil, fmt.Errorf("%w: no fuels", ErrMalformedInput)
	}
	idx := &Index{
		input:   in,
		Periods: in.T,
		Fuels:   in.Fuels,
		Options: make([][]float64, len(in.Fuels)),
		Slots:   s.slots,
		Costs:   make([]*cost.Table, len(in.Fuels)),
		multi:   s.multi(),
	}

	idx.Boundary = 0
	if s.initialFuel != "" {
		idx.Boundary = in.FuelIndex(s.initialFuel)
		if idx.Boundary < 0 {
			return nil, fmt.Errorf("%w: initial fuel %q", ErrUnknownFuel, s.initialFuel)
		}
	}

	copts := cost.Options{NormalizeTransitionRate: s.normalize}
	for f, fuel := range in.Fuels {
		caps, ok := in.Capacities[fuel]
		if !ok {
			return nil, fmt.Errorf("%w: no capacities for fuel %q", ErrMalformedInput, fuel)
		}
		profile, ok := in.Costs[fuel]
		if !ok {
			return nil, fmt.Errorf("%w: no cost profile for fuel %q", ErrMalformedInput, fuel)
		}
		if len(profile.Costs) < len(caps) {
			return nil, fmt.Errorf("%w: fuel %q has %d base costs for %d options",
				ErrMalformedInput, fuel, len(profile.Costs), len(caps))
		}
		idx.Options[f] = caps
		idx.Costs[f] = cost.NewTable(fuel, profile, len(in.T), copts)
	}
	return idx, nil
}

// Multi reports whether the index describes the multi-slot variant.
func (idx *Index) Multi() bool { return idx.multi }

// NumPeriods returns the length of the horizon.
func (idx *Index) NumPeriods() int { return len(idx.Periods) }

// NumOptions returns the number of capacity options of fuel f.
func (idx *Index) NumOptions(f int) int { return len(idx.Options[f]) }

// Demand returns the demand of fuel f in period t.
func (idx *Index) Demand(f, t int) (float64, error) {
	d, ok := idx.input.DemandFor(idx.Fuels[f], idx.Periods[t])
	if !ok {
		return 0, fmt.Errorf("%w: fuel %q, year %s", ErrMissingDemand, idx.Fuels[f], idx.Periods[t])
	}
	return d, nil
}

// CapacityKey renders the capacity of option k of fuel f as an output key.
func (idx *Index) CapacityKey(f, k int) string {
	return strconv.FormatFloat(idx.Options[f][k], 'f', -1, 64)
}

// SlotKey returns the output key of slot i: empty for the single-slot
// variant, Tank_1, Tank_2, ... otherwise.
func (idx *Index) SlotKey(i int) string {
	if !idx.multi {
		return ""
	}
	return "Tank_" + strconv.Itoa(i+1)
}

// lastDrop returns the last period whose demand is zero after a positive
// demand in the previous period, or -1.
func (idx *Index) lastDrop(f int) (int, error) {
	last := -1
	for t := 1; t < idx.NumPeriods(); t++ {
		prev, err := idx.Demand(f, t-1)
		if err != nil {
			return -1, err
		}
		cur, err := idx.Demand(f, t)
		if err != nil {
			return -1, err
		}
		if prev > 0 && cur == 0 {
			last = t
		}
	}
	return last, nil
}
