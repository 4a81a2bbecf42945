package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/planner"
)

const portYAML = "../../examples/port/input.yaml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := &app{log: logr.Discard(), flush: func() {}}
	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	a.flush()
	return out.String(), err
}

func TestSolveCommandJSON(t *testing.T) {
	out, err := execute(t, "solve", portYAML)
	require.NoError(t, err)

	var res struct {
		Status   int                       `json:"status"`
		Solution map[string]map[string]any `json:"solution"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 0, res.Status)
	assert.Contains(t, res.Solution, "MGO")
	assert.Contains(t, res.Solution["MGO"], "2025")
}

func TestSolveCommandSummaryAndLP(t *testing.T) {
	lp := filepath.Join(t.TempDir(), "model.lp")
	out, err := execute(t, "solve", portYAML, "--summary", "--lp", lp)
	require.NoError(t, err)
	assert.Contains(t, out, "Status: OPTIMAL (0)")
	assert.Contains(t, out, "Total cost:")

	data, err := os.ReadFile(lp)
	require.NoError(t, err)
	assert.Contains(t, string(data), "y[0,1,0]")
}

func TestSolveCommandOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	_, err := execute(t, "solve", "../../examples/port", "-o", path, "--variant", "multi", "--slots", "2")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Tank_1")
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", portYAML)
	require.NoError(t, err)
	assert.Contains(t, out, "Result: VALID")
	assert.Contains(t, out, "=== Demand Profile (1 slot(s) per fuel) ===")

	out, err = execute(t, "validate", portYAML, "--initial-fuel", "Methanol")
	require.Error(t, err)
	assert.Contains(t, out, "Result: INVALID")
	assert.Contains(t, out, "initial_fuel")
}

func TestCostCommand(t *testing.T) {
	out, err := execute(t, "cost", portYAML)
	require.NoError(t, err)
	assert.Contains(t, out, "MGO (change rate 2%, maintenance 2%, decommissioning 10%)")
	// 1.5M base, 2% escalation per period.
	assert.Contains(t, out, "1.50M")
	assert.Contains(t, out, "1.53M")
}

func TestExportAndRewrite(t *testing.T) {
	dir := t.TempDir()
	lp := filepath.Join(dir, "model.lp")
	strict := filepath.Join(dir, "strict.lp")

	_, err := execute(t, "export", portYAML, "-o", lp)
	require.NoError(t, err)
	_, err = execute(t, "rewrite-lp", lp, strict)
	require.NoError(t, err)

	data, err := os.ReadFile(strict)
	require.NoError(t, err)
	assert.Contains(t, string(data), "y_0_0_0")
	assert.NotContains(t, string(data), "y[0,0,0]")

	out, err := execute(t, "export", portYAML, "--dialect", "strict")
	require.NoError(t, err)
	assert.Contains(t, out, "s_1_0_2")

	_, err = execute(t, "export", portYAML, "--dialect", "mps")
	assert.ErrorContains(t, err, "unknown dialect")
}

func TestLoadInput(t *testing.T) {
	in, err := loadInput("-", strings.NewReader(`{"T":[2025],"Fuels":["MGO"]}`))
	require.NoError(t, err)
	assert.Equal(t, "2025", in.T[0].String())

	_, err = loadInput(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.ErrorContains(t, err, "loading input")
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{950, "950"},
		{30000, "30K"},
		{1530000, "1.53M"},
		{2_500_000_000, "2.50B"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(tt.in))
	}
}

func TestSortedSlots(t *testing.T) {
	slots := planner.Slotted[planner.Capacities]{"Tank_10": nil, "Tank_2": nil, "Tank_1": nil}
	assert.Equal(t, []string{"Tank_1", "Tank_2", "Tank_10"}, sortedSlots(slots))
}
