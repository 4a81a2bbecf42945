package cost

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/spec"
)

func defaultProfile() spec.CostProfile {
	return spec.CostProfile{
		MaintenanceCost:     2,
		DecommissioningCost: 10,
		Costs:               []float64{1500000, 3000000},
		ChangeRate:          2,
	}
}

func TestRoundThousand(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{12345, 12000},
		{12500, 12000}, // ties go to even
		{13500, 14000},
		{12501, 13000},
		{499, 0},
		{-1600, -2000},
		{0, 0},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, RoundThousand(tt.in), "RoundThousand(%v)", tt.in)
	}
}

func TestDynamicRoundsAtPeriodZero(t *testing.T) {
	assert.Equal(t, 12000.0, Dynamic(12345, 10, 0))
}

func TestDynamicCompoundsPerPeriodIndex(t *testing.T) {
	// 1.5M * 1.02^2 = 1,560,600 -> 1,561,000
	assert.Equal(t, 1561000.0, Dynamic(1500000, 2, 2))
	// negative change rates shrink the price
	assert.Equal(t, 3880000.0, Dynamic(4000000, -3, 1))
}

func TestMaintenanceAndDecommission(t *testing.T) {
	assert.Equal(t, 30000.0, Maintenance(1500000, 2))
	assert.Equal(t, 150000.0, Decommission(1500000, 10))
	// 12345 * 2.5% = 308.6 -> 0
	assert.Equal(t, 0.0, Maintenance(12345, 2.5))
}

func TestTransitionRawRate(t *testing.T) {
	tbl := NewTable("MGO", defaultProfile(), 3, Options{})

	// t=0: |1.2 * (1.5M - 3M * 3^0)| = 1.8M
	assert.InDelta(t, 1800000, tbl.Transition(0, 1, 0), 1e-6)
	// t=1: raw rate compounds (1+2)^1 on the target side.
	want := math.Abs(1.2 * (1530000 - 3000000*3))
	assert.InDelta(t, want, tbl.Transition(0, 1, 1), 1e-6)
	// reduction uses the same formula with roles swapped
	want = math.Abs(1.2 * (3060000 - 1500000*3))
	assert.InDelta(t, want, tbl.Transition(1, 0, 1), 1e-6)
	assert.Zero(t, tbl.Transition(1, 1, 1))
}

func TestTransitionNormalizedRate(t *testing.T) {
	tbl := NewTable("MGO", defaultProfile(), 2, Options{NormalizeTransitionRate: true})

	want := math.Abs(1.2 * (1530000 - 3000000*1.02))
	assert.InDelta(t, want, tbl.Transition(0, 1, 1), 1e-6)
}

func TestTable(t *testing.T) {
	tbl := NewTable("MGO", defaultProfile(), 3, Options{})

	require.Equal(t, 2, tbl.Options())
	assert.Equal(t, []float64{1500000, 1530000, 1561000},
		[]float64{tbl.Dynamic(0, 0), tbl.Dynamic(0, 1), tbl.Dynamic(0, 2)})
	assert.Equal(t, 60000.0, tbl.Maintenance(1))
	assert.Equal(t, 300000.0, tbl.Decommission(1))
}

func TestKind(t *testing.T) {
	assert.Equal(t, Extension, Kind(0, 1))
	assert.Equal(t, Reduction, Kind(2, 1))
}
