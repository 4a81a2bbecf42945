package validation

import (
	"fmt"
	"math"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/spec"
)

// Options carries the planner settings the input is checked against.
type Options struct {
	// InitialFuel names the boundary fuel. Empty selects the first fuel.
	InitialFuel string
	// Slots is the number of tank slots per fuel, 1 for the single-slot
	// variant.
	Slots int
}

// ValidateInput checks a planning input for structural completeness
// before any model is built. Errors make the input unusable.
func ValidateInput(in *spec.Input, opts Options) *Report {
	r := NewReport()

	validatePeriods(in, r)
	validateFuels(in, r)
	validateSlots(opts, r)
	validateInitialFuel(in, opts, r)

	for _, fuel := range uniqueFuels(in) {
		validateCapacities(in, fuel, r)
		validateCosts(in, fuel, r)
		validateDemand(in, fuel, r)
	}
	return r
}

func validatePeriods(in *spec.Input, r *Report) {
	if len(in.T) == 0 {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "at least one planning period is required",
			Path:     "T",
			Expected: "non-empty list of years",
		})
		return
	}
	seen := make(map[spec.Year]int, len(in.T))
	for i, y := range in.T {
		if y == "" {
			r.AddError(Result{
				Level:   LevelSchema,
				Message: fmt.Sprintf("period %d has an empty year", i),
				Path:    fmt.Sprintf("T[%d]", i),
			})
			continue
		}
		if j, dup := seen[y]; dup {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("year %s is listed twice (positions %d and %d)", y, j, i),
				Path:        fmt.Sprintf("T[%d]", i),
				ActualValue: y.String(),
			})
			continue
		}
		seen[y] = i
	}
}

func validateFuels(in *spec.Input, r *Report) {
	if len(in.Fuels) == 0 {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "at least one fuel is required",
			Path:     "Fuels",
			Expected: "non-empty list of fuel names",
		})
		return
	}
	seen := make(map[string]bool, len(in.Fuels))
	for i, f := range in.Fuels {
		if seen[f] {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("fuel %q is listed twice", f),
				Path:        fmt.Sprintf("Fuels[%d]", i),
				ActualValue: f,
			})
		}
		seen[f] = true
	}
}

func validateSlots(opts Options, r *Report) {
	if opts.Slots < 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "the number of tank slots must be at least 1",
			Path:        "slots",
			ActualValue: opts.Slots,
			Expected:    ">= 1",
		})
	}
}

func validateInitialFuel(in *spec.Input, opts Options, r *Report) {
	if opts.InitialFuel == "" || len(in.Fuels) == 0 {
		return
	}
	if in.FuelIndex(opts.InitialFuel) < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("initial fuel %q is not one of the planned fuels", opts.InitialFuel),
			Path:        "initial_fuel",
			ActualValue: opts.InitialFuel,
			Suggestions: []string{fmt.Sprintf("Use one of: %v", in.Fuels)},
		})
	}
}

func validateCapacities(in *spec.Input, fuel string, r *Report) {
	path := "Capacities." + fuel
	caps, ok := in.Capacities[fuel]
	if !ok || len(caps) == 0 {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  fmt.Sprintf("fuel %q has no capacity options", fuel),
			Path:     path,
			Expected: "at least one capacity value",
		})
		return
	}
	seen := make(map[float64]bool, len(caps))
	for k, c := range caps {
		if c <= 0 || math.IsNaN(c) || math.IsInf(c, 0) {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("capacity option %d of %q must be a positive number", k, fuel),
				Path:        fmt.Sprintf("%s[%d]", path, k),
				ActualValue: c,
				Expected:    "> 0",
			})
			continue
		}
		if seen[c] {
			r.AddWarning(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("capacity %g of %q is listed more than once; plan entries for it will overwrite each other", c, fuel),
				Path:        fmt.Sprintf("%s[%d]", path, k),
				ActualValue: c,
			})
		}
		seen[c] = true
	}
}

func validateCosts(in *spec.Input, fuel string, r *Report) {
	path := "Costs." + fuel
	p, ok := in.Costs[fuel]
	if !ok {
		r.AddError(Result{
			Level:   LevelSchema,
			Message: fmt.Sprintf("fuel %q has no cost profile", fuel),
			Path:    path,
		})
		return
	}
	if caps, ok := in.Capacities[fuel]; ok && len(p.Costs) != len(caps) {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("fuel %q lists %d base costs for %d capacity options", fuel, len(p.Costs), len(caps)),
			Path:        path + ".costs",
			ActualValue: len(p.Costs),
			Expected:    fmt.Sprintf("%d", len(caps)),
		})
	}
	for k, c := range p.Costs {
		if c < 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("base cost %d of %q must not be negative", k, fuel),
				Path:        fmt.Sprintf("%s.costs[%d]", path, k),
				ActualValue: c,
				Expected:    ">= 0",
			})
		}
	}
	rates := []struct {
		name  string
		value float64
	}{
		{"maintenanceCost", p.MaintenanceCost},
		{"decommissioningCost", p.DecommissioningCost},
	}
	for _, rate := range rates {
		if rate.value < 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s of %q must not be negative", rate.name, fuel),
				Path:        path + "." + rate.name,
				ActualValue: rate.value,
				Expected:    ">= 0 (percent of base cost)",
			})
		}
	}
	if p.ChangeRate <= -100 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("changeRate of %q would make escalated costs non-positive", fuel),
			Path:        path + ".changeRate",
			ActualValue: p.ChangeRate,
			Expected:    "> -100",
		})
	}
}

func validateDemand(in *spec.Input, fuel string, r *Report) {
	path := "Demand." + fuel
	series, ok := in.Demand[fuel]
	if !ok {
		r.AddError(Result{
			Level:   LevelSchema,
			Message: fmt.Sprintf("fuel %q has no demand series", fuel),
			Path:    path,
		})
		return
	}
	for _, y := range in.T {
		d, ok := series[y]
		switch {
		case !ok:
			r.AddError(Result{
				Level:   LevelSchema,
				Message: fmt.Sprintf("fuel %q has no demand for year %s", fuel, y),
				Path:    fmt.Sprintf("%s.%s", path, y),
			})
		case d < 0 || math.IsNaN(d):
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("demand of %q in %s must not be negative", fuel, y),
				Path:        fmt.Sprintf("%s.%s", path, y),
				ActualValue: d,
				Expected:    ">= 0",
			})
		}
	}
}

// uniqueFuels returns the listed fuels once each, in input order.
func uniqueFuels(in *spec.Input) []string {
	seen := make(map[string]bool, len(in.Fuels))
	out := make([]string, 0, len(in.Fuels))
	for _, f := range in.Fuels {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
