// Package planner builds the fuel-storage capacity planning model, solves
// it with a pluggable engine and extracts a sparse plan with its cost
// breakdown.
//
// Every (fuel, slot, option, period) carries three boolean lifecycle
// flags: Open (y), Operate (s) and Close (x). Transition indicators (z)
// price a change of the operated option between consecutive periods.
// The single-slot variant plans one tank per fuel; the multi-slot variant
// plans an ordered set of tank slots per fuel that fill contiguously.
package planner
