package planner

import (
	"encoding/json"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/cost"
	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/engine"
	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/validation"
)

// Flags are the asserted lifecycle flags of one option, or their costs
// in the cost breakdown.
type Flags struct {
	Opened    int64 `json:"opened"`
	Operating int64 `json:"operating"`
	Closed    int64 `json:"closed"`
}

// Capacities maps a capacity key to its flags.
type Capacities map[string]Flags

// Slotted maps a slot key to per-slot entries. A single-slot plan has one
// entry under the empty key and marshals as that entry alone.
type Slotted[V any] map[string]V

func (s Slotted[V]) MarshalJSON() ([]byte, error) {
	if v, ok := s[""]; ok && len(s) == 1 {
		return json.Marshal(v)
	}
	return json.Marshal(map[string]V(s))
}

// Plan is fuel → year → [slot →] capacity → flags.
type Plan map[string]map[string]Slotted[Capacities]

func (p Plan) set(fuel, year, slot, capacity string, fl Flags) {
	years, ok := p[fuel]
	if !ok {
		years = make(map[string]Slotted[Capacities])
		p[fuel] = years
	}
	slots, ok := years[year]
	if !ok {
		slots = make(Slotted[Capacities])
		years[year] = slots
	}
	caps, ok := slots[slot]
	if !ok {
		caps = make(Capacities)
		slots[slot] = caps
	}
	caps[capacity] = fl
}

// Get returns the entry at the given keys. Use an empty slot for the
// single-slot variant.
func (p Plan) Get(fuel, year, slot, capacity string) (Flags, bool) {
	fl, ok := p[fuel][year][slot][capacity]
	return fl, ok
}

// TransitionCost is the price of one asserted option change.
type TransitionCost struct {
	Kind cost.TransitionKind `json:"kind"`
	Cost int64               `json:"cost"`
}

// Transitions is fuel → year → [slot →] "from->to" → cost.
type Transitions map[string]map[string]Slotted[map[string]TransitionCost]

func (tr Transitions) set(fuel, year, slot, change string, tc TransitionCost) {
	years, ok := tr[fuel]
	if !ok {
		years = make(map[string]Slotted[map[string]TransitionCost])
		tr[fuel] = years
	}
	slots, ok := years[year]
	if !ok {
		slots = make(Slotted[map[string]TransitionCost])
		years[year] = slots
	}
	changes, ok := slots[slot]
	if !ok {
		changes = make(map[string]TransitionCost)
		slots[slot] = changes
	}
	changes[change] = tc
}

// Result is the outcome of a planning run. Solution and Costs are empty,
// never nil, when the engine found no solution.
type Result struct {
	Status      engine.Status       `json:"status"`
	StatusName  string              `json:"statusName"`
	Objective   *float64            `json:"objective,omitempty"`
	Solution    Plan                `json:"solution"`
	Costs       Plan                `json:"costs"`
	Transitions Transitions         `json:"transitions,omitempty"`
	Engine      string              `json:"engine,omitempty"`
	Warnings    []validation.Result `json:"warnings,omitempty"`
}

func emptyResult(status engine.Status) *Result {
	return &Result{
		Status:     status,
		StatusName: status.String(),
		Solution:   Plan{},
		Costs:      Plan{},
	}
}
