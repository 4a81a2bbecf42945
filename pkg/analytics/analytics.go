// Package analytics derives demand figures from a planning input: peaks,
// the tanks needed to cover them and the demand drops that force a fuel
// out of service.
package analytics

import (
	"fmt"
	"math"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/spec"
	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/validation"
)

// Resolve analyses every fuel of in for a plan with the given number of
// tank slots. The report carries model-level warnings: demand no slot
// arrangement can reach, and repeated demand drops of which only the last
// is enforced. Fuels with incomplete data are skipped; schema validation
// reports those.
func Resolve(in *spec.Input, slots int) (*Profile, *validation.Report) {
	report := validation.NewReport()
	p := &Profile{Slots: slots, Fuels: make([]FuelProfile, 0, len(in.Fuels))}

	for _, fuel := range in.Fuels {
		fp, ok := resolveFuel(in, fuel)
		if !ok {
			continue
		}
		checkReach(in, fp, slots, report)
		checkDrops(fp, report)
		p.Fuels = append(p.Fuels, fp)
	}
	return p, report
}

func resolveFuel(in *spec.Input, fuel string) (FuelProfile, bool) {
	fp := FuelProfile{Fuel: fuel, ShutdownPeriod: -1}
	if _, ok := in.Demand[fuel]; !ok {
		return fp, false
	}

	prev := 0.0
	for t, y := range in.T {
		d, ok := in.DemandFor(fuel, y)
		if !ok {
			return fp, false
		}
		fp.TotalDemand += d
		if d > fp.PeakDemand {
			fp.PeakDemand, fp.PeakYear = d, y.String()
		}
		if d > 0 && fp.FirstDemandYear == "" {
			fp.FirstDemandYear = y.String()
		}
		if t > 0 && prev > 0 && d == 0 {
			fp.DropYears = append(fp.DropYears, y.String())
			fp.ShutdownYear, fp.ShutdownPeriod = y.String(), t
		}
		prev = d
	}

	for _, c := range in.Capacities[fuel] {
		fp.LargestOption = math.Max(fp.LargestOption, c)
	}
	if fp.LargestOption > 0 {
		fp.TanksAtPeak = int(math.Ceil(fp.PeakDemand / fp.LargestOption))
	}
	return fp, true
}

// checkReach warns when a period asks for more than every slot running
// the largest option could deliver.
func checkReach(in *spec.Input, fp FuelProfile, slots int, r *validation.Report) {
	if fp.LargestOption <= 0 || slots < 1 {
		return
	}
	limit := fp.LargestOption * float64(slots)
	for _, y := range in.T {
		d, _ := in.DemandFor(fp.Fuel, y)
		if d <= limit {
			continue
		}
		r.AddWarning(validation.Result{
			Level:       validation.LevelModel,
			Message:     fmt.Sprintf("demand of %q in %s exceeds the largest reachable capacity %g; the plan will be infeasible", fp.Fuel, y, limit),
			Path:        fmt.Sprintf("Demand.%s.%s", fp.Fuel, y),
			ActualValue: d,
			Expected:    fmt.Sprintf("<= %g", limit),
			Suggestions: []string{"Add a larger capacity option", "Raise the number of tank slots"},
		})
	}
}

// checkDrops reports the forced shutdown and flags fuels whose demand
// drops to zero more than once.
func checkDrops(fp FuelProfile, r *validation.Report) {
	if fp.ShutdownYear == "" {
		return
	}
	r.AddInfo(validation.Result{
		Level:   validation.LevelModel,
		Message: fmt.Sprintf("fuel %q is forced out of service in %s", fp.Fuel, fp.ShutdownYear),
		Path:    fmt.Sprintf("Demand.%s.%s", fp.Fuel, fp.ShutdownYear),
	})
	if len(fp.DropYears) > 1 {
		r.AddWarning(validation.Result{
			Level:       validation.LevelModel,
			Message:     fmt.Sprintf("demand of %q drops to zero %d times; only the drop in %s forces a shutdown", fp.Fuel, len(fp.DropYears), fp.ShutdownYear),
			Path:        "Demand." + fp.Fuel,
			ActualValue: fp.DropYears,
		})
	}
}
