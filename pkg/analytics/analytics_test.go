package analytics

import (
	"testing"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/spec"
	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/validation"
)

func testInput() *spec.Input {
	return &spec.Input{
		T:     []spec.Year{"2025", "2030", "2035", "2040"},
		Fuels: []string{"MGO", "LNG"},
		Capacities: map[string][]float64{
			"MGO": {3000, 7000},
			"LNG": {3000},
		},
		Demand: map[string]map[spec.Year]float64{
			"MGO": {"2025": 6000, "2030": 3000, "2035": 0, "2040": 0},
			"LNG": {"2025": 0, "2030": 2000, "2035": 5000, "2040": 3000},
		},
	}
}

func TestResolveProfile(t *testing.T) {
	p, r := Resolve(testInput(), 1)
	if len(p.Fuels) != 2 {
		t.Fatalf("expected 2 fuel profiles, got %d", len(p.Fuels))
	}

	mgo := p.Fuels[0]
	if mgo.PeakDemand != 6000 || mgo.PeakYear != "2025" {
		t.Errorf("MGO peak = %v in %s, want 6000 in 2025", mgo.PeakDemand, mgo.PeakYear)
	}
	if mgo.TotalDemand != 9000 {
		t.Errorf("MGO total = %v, want 9000", mgo.TotalDemand)
	}
	if mgo.TanksAtPeak != 1 {
		t.Errorf("MGO tanks at peak = %d, want 1", mgo.TanksAtPeak)
	}
	if mgo.ShutdownYear != "2035" || mgo.ShutdownPeriod != 2 {
		t.Errorf("MGO shutdown = %s (%d), want 2035 (2)", mgo.ShutdownYear, mgo.ShutdownPeriod)
	}

	lng := p.Fuels[1]
	if lng.FirstDemandYear != "2030" {
		t.Errorf("LNG first demand = %s, want 2030", lng.FirstDemandYear)
	}
	if lng.TanksAtPeak != 2 {
		t.Errorf("LNG tanks at peak = %d, want 2", lng.TanksAtPeak)
	}
	if lng.ShutdownPeriod != -1 {
		t.Errorf("LNG should have no shutdown, got period %d", lng.ShutdownPeriod)
	}

	assertHasWarning(t, r, "Demand.LNG.2035")
	assertHasInfo(t, r, "Demand.MGO.2035")
	if !r.Valid {
		t.Error("analytics should only warn")
	}
}

func TestResolveMoreSlotsReachDemand(t *testing.T) {
	_, r := Resolve(testInput(), 2)
	if len(r.Warnings) != 0 {
		t.Errorf("expected no warnings with two slots, got %v", r.Warnings)
	}
}

func TestResolveOscillatingDemand(t *testing.T) {
	in := testInput()
	in.Demand["MGO"] = map[spec.Year]float64{"2025": 10, "2030": 0, "2035": 10, "2040": 0}

	p, r := Resolve(in, 1)
	mgo := p.Fuels[0]
	if len(mgo.DropYears) != 2 {
		t.Fatalf("expected 2 drops, got %v", mgo.DropYears)
	}
	if mgo.ShutdownPeriod != 3 {
		t.Errorf("shutdown period = %d, want 3 (last drop)", mgo.ShutdownPeriod)
	}
	assertHasWarning(t, r, "Demand.MGO")
	assertHasInfo(t, r, "Demand.MGO.2040")
}

func TestResolveSkipsIncompleteFuels(t *testing.T) {
	in := testInput()
	delete(in.Demand["LNG"], "2040")
	delete(in.Demand, "MGO")

	p, _ := Resolve(in, 1)
	if len(p.Fuels) != 0 {
		t.Errorf("expected incomplete fuels to be skipped, got %v", p.Fuels)
	}
}

func assertHasWarning(t *testing.T, r *validation.Report, path string) {
	t.Helper()
	for _, w := range r.Warnings {
		if w.Path == path {
			return
		}
	}
	t.Errorf("expected warning with path %q, got warnings: %v", path, r.Warnings)
}

func assertHasInfo(t *testing.T, r *validation.Report, path string) {
	t.Helper()
	for _, i := range r.Info {
		if i.Path == path {
			return
		}
	}
	t.Errorf("expected info with path %q, got info: %v", path, r.Info)
}
