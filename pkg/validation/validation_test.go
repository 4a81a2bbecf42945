package validation

import (
	"strings"
	"testing"

	"github.com/go-logr/logr/funcr"
)

func TestReportSeverities(t *testing.T) {
	r := NewReport()
	if !r.Valid || r.Summary != "0 errors, 0 warnings, 0 info" {
		t.Fatalf("new report = valid %v, summary %q", r.Valid, r.Summary)
	}

	r.AddInfo(Result{Level: LevelModel, Message: "fuel \"MGO\" is forced out of service in 2035", Path: "Demand.MGO.2035"})
	r.AddWarning(Result{Level: LevelSchema, Message: "capacity 3000 of \"MGO\" is listed more than once", Path: "Capacities.MGO[1]"})
	if !r.Valid {
		t.Error("warnings and info should not invalidate the report")
	}

	r.AddError(Result{Level: LevelSchema, Message: "fuel \"LNG\" has no demand series", Path: "Demand.LNG"})
	if r.Valid {
		t.Error("an error should invalidate the report")
	}
	if r.Summary != "1 errors, 1 warnings, 1 info" {
		t.Errorf("unexpected summary: %s", r.Summary)
	}

	want := map[string]Severity{
		"Demand.MGO.2035":   SeverityInfo,
		"Capacities.MGO[1]": SeverityWarning,
		"Demand.LNG":        SeverityError,
	}
	for path, sev := range want {
		got, ok := r.Find(path)
		if !ok {
			t.Errorf("no finding at %s", path)
			continue
		}
		if got.Severity != sev {
			t.Errorf("%s severity = %s, want %s", path, got.Severity, sev)
		}
	}
}

func TestMergeDemandFindings(t *testing.T) {
	in := validInput()
	in.Capacities["MGO"] = []float64{3000, 3000}
	schema := ValidateInput(in, singleSlot())
	if !schema.Valid {
		t.Fatalf("duplicate capacity should only warn, got %v", schema.Errors)
	}

	demand := NewReport()
	demand.AddWarning(Result{Level: LevelModel, Message: "demand exceeds the largest reachable capacity", Path: "Demand.LNG.2035"})
	demand.AddInfo(Result{Level: LevelModel, Message: "forced out of service", Path: "Demand.MGO.2035"})
	schema.Merge(demand)

	if !schema.Valid {
		t.Error("merging model-level warnings should keep the report valid")
	}
	if schema.Summary != "0 errors, 2 warnings, 1 info" {
		t.Errorf("unexpected summary: %s", schema.Summary)
	}
	if w, ok := schema.Find("Demand.LNG.2035"); !ok || w.Level != LevelModel {
		t.Errorf("Find(Demand.LNG.2035) = %+v, %v", w, ok)
	}
}

func TestMergeKeepsSchemaErrors(t *testing.T) {
	in := validInput()
	delete(in.Demand, "LNG")
	schema := ValidateInput(in, singleSlot())
	schema.Merge(NewReport())

	if schema.Valid {
		t.Fatal("a missing demand series should keep the merged report invalid")
	}
	if err := schema.Err(); err == nil || !strings.HasPrefix(err.Error(), "Demand.LNG: ") {
		t.Errorf("Err() = %v, want the Demand.LNG finding", err)
	}
}

func TestErr(t *testing.T) {
	r := NewReport()
	if r.Err() != nil {
		t.Fatal("valid report should have no error")
	}
	r.AddError(Result{Level: LevelSchema, Message: "no fuels", Path: "Fuels"})
	if got := r.Err().Error(); got != "Fuels: no fuels" {
		t.Errorf("Err() = %q", got)
	}
	r.AddError(Result{Level: LevelSchema, Message: "no periods", Path: "T"})
	if got := r.Err().Error(); got != "Fuels: no fuels (and 1 more errors)" {
		t.Errorf("Err() = %q", got)
	}
}

func TestFind(t *testing.T) {
	r := NewReport()
	r.AddWarning(Result{Level: LevelModel, Message: "too much", Path: "Demand.LNG.2035"})
	r.AddInfo(Result{Level: LevelModel, Message: "shutdown", Path: "Demand.MGO.2035"})

	got, ok := r.Find("Demand.MGO.2035")
	if !ok || got.Severity != SeverityInfo {
		t.Errorf("Find(Demand.MGO.2035) = %+v, %v; want info finding", got, ok)
	}
	if _, ok := r.Find("Demand.MGO"); ok {
		t.Error("Find should not match a path prefix")
	}
}

func TestLog(t *testing.T) {
	r := NewReport()
	r.AddWarning(Result{Level: LevelModel, Message: "too much", Path: "Demand.LNG.2035"})
	r.AddInfo(Result{Level: LevelModel, Message: "shutdown", Path: "Demand.MGO.2035"})

	var lines []string
	log := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{})
	r.Log(log)

	if len(lines) != 1 {
		t.Fatalf("expected only the warning at default verbosity, got %v", lines)
	}
	if !strings.Contains(lines[0], "Demand.LNG.2035") {
		t.Errorf("warning line missing path: %s", lines[0])
	}
}
