package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/analytics"
	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/planner"
	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/spec"
	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/validation"
)

func printValidationReport(w io.Writer, r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			printResult(w, e)
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "WARNINGS (%d):\n", len(r.Warnings))
		for _, e := range r.Warnings {
			printResult(w, e)
		}
		fmt.Fprintln(w)
	}

	if len(r.Info) > 0 {
		fmt.Fprintf(w, "INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Fprintf(w, "  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Fprintln(w)
	}

	if r.Valid {
		fmt.Fprintf(w, "Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Fprintf(w, "Result: INVALID (%s)\n", r.Summary)
	}
}

func printDemandProfile(w io.Writer, p *analytics.Profile) {
	fmt.Fprintf(w, "=== Demand Profile (%d slot(s) per fuel) ===\n\n", p.Slots)
	fmt.Fprintf(w, "  %-10s %12s %6s %12s %8s %s\n", "Fuel", "Peak", "Year", "Largest", "Tanks", "Shutdown")
	fmt.Fprintf(w, "  %-10s %12s %6s %12s %8s %s\n", "----", "----", "----", "-------", "-----", "--------")
	for _, f := range p.Fuels {
		shutdown := "-"
		if f.ShutdownYear != "" {
			shutdown = f.ShutdownYear
		}
		fmt.Fprintf(w, "  %-10s %12s %6s %12s %8d %s\n",
			f.Fuel, strconv.FormatFloat(f.PeakDemand, 'f', -1, 64), f.PeakYear,
			strconv.FormatFloat(f.LargestOption, 'f', -1, 64), f.TanksAtPeak, shutdown)
	}
	fmt.Fprintln(w)
}

func printResult(w io.Writer, e validation.Result) {
	fmt.Fprintf(w, "  [%s] %s\n", e.Level, e.Message)
	if e.Path != "" {
		if e.ActualValue != nil {
			fmt.Fprintf(w, "    -> %s = %v\n", e.Path, e.ActualValue)
		} else {
			fmt.Fprintf(w, "    -> %s\n", e.Path)
		}
	}
	if e.Expected != "" {
		fmt.Fprintf(w, "    expected: %s\n", e.Expected)
	}
	for _, s := range e.Suggestions {
		fmt.Fprintf(w, "    * %s\n", s)
	}
}

// printCostTables prints, per fuel, the period-invariant costs and the
// escalated acquisition cost of every option.
func printCostTables(w io.Writer, in *spec.Input, idx *planner.Index) {
	for f, fuel := range idx.Fuels {
		p := in.Costs[fuel]
		fmt.Fprintf(w, "%s (change rate %g%%, maintenance %g%%, decommissioning %g%%)\n",
			fuel, p.ChangeRate, p.MaintenanceCost, p.DecommissioningCost)

		fmt.Fprintf(w, "%-10s %10s %10s", "Capacity", "Maint.", "Decom.")
		for _, y := range idx.Periods {
			fmt.Fprintf(w, " %10s", y)
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%-10s %10s %10s", strings.Repeat("-", 10), strings.Repeat("-", 10), strings.Repeat("-", 10))
		for range idx.Periods {
			fmt.Fprintf(w, " %10s", strings.Repeat("-", 10))
		}
		fmt.Fprintln(w)

		tbl := idx.Costs[f]
		for k := 0; k < idx.NumOptions(f); k++ {
			fmt.Fprintf(w, "%-10s %10s %10s", idx.CapacityKey(f, k),
				formatMoney(tbl.Maintenance(k)), formatMoney(tbl.Decommission(k)))
			for t := range idx.Periods {
				fmt.Fprintf(w, " %10s", formatMoney(tbl.Dynamic(k, t)))
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}
}

// printPlan prints the asserted plan entries in input order with their
// costs.
func printPlan(w io.Writer, in *spec.Input, res *planner.Result) {
	fmt.Fprintf(w, "Status: %s (%d)\n", res.StatusName, res.Status)
	if res.Objective == nil {
		fmt.Fprintln(w, "No plan available.")
		return
	}
	fmt.Fprintf(w, "Total cost: %s\n\n", formatMoney(*res.Objective))

	fmt.Fprintf(w, "%-18s %-6s %-8s %10s %5s %8s %6s %12s\n",
		"Fuel", "Year", "Tank", "Capacity", "Open", "Operate", "Close", "Cost")
	fmt.Fprintf(w, "%-18s %-6s %-8s %10s %5s %8s %6s %12s\n",
		strings.Repeat("-", 18), "------", "--------", "----------", "-----", "--------", "------", "------------")

	total := int64(0)
	for _, fuel := range in.Fuels {
		for _, year := range in.T {
			slots := res.Solution[fuel][year.String()]
			for _, slot := range sortedSlots(slots) {
				caps := slots[slot]
				for _, capKey := range sortedCapacities(caps) {
					fl := caps[capKey]
					c, _ := res.Costs.Get(fuel, year.String(), slot, capKey)
					sum := c.Opened + c.Operating + c.Closed
					total += sum
					tank := slot
					if tank == "" {
						tank = "-"
					}
					fmt.Fprintf(w, "%-18s %-6s %-8s %10s %5s %8s %6s %12s\n",
						fuel, year, tank, capKey, mark(fl.Opened), mark(fl.Operating), mark(fl.Closed),
						formatMoney(float64(sum)))
				}
			}
		}
	}
	fmt.Fprintf(w, "\nLifecycle costs: %s\n", formatMoney(float64(total)))

	var changes int
	for _, years := range res.Transitions {
		for _, slots := range years {
			for _, byChange := range slots {
				changes += len(byChange)
			}
		}
	}
	if changes > 0 {
		fmt.Fprintf(w, "Capacity changes: %d\n", changes)
	}
}

func mark(v int64) string {
	if v > 0 {
		return "x"
	}
	return ""
}

// sortedSlots orders slot keys by tank number.
func sortedSlots(slots planner.Slotted[planner.Capacities]) []string {
	keys := make([]string, 0, len(slots))
	for k := range slots {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

func sortedCapacities(caps planner.Capacities) []string {
	keys := make([]string, 0, len(caps))
	for k := range caps {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.ParseFloat(keys[i], 64)
		b, _ := strconv.ParseFloat(keys[j], 64)
		return a < b
	})
	return keys
}

func formatMoney(v float64) string {
	if v >= 1_000_000_000 {
		return fmt.Sprintf("%.2fB", v/1_000_000_000)
	}
	if v >= 1_000_000 {
		return fmt.Sprintf("%.2fM", v/1_000_000)
	}
	if v >= 1_000 {
		return fmt.Sprintf("%.0fK", v/1_000)
	}
	return fmt.Sprintf("%.0f", v)
}
