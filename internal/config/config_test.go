package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/planner"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "single", cfg.Variant)
	assert.Equal(t, "bnb", cfg.Engine)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "auto", cfg.CloseBound)

	opts, err := cfg.PlannerOptions()
	require.NoError(t, err)
	assert.Equal(t, planner.SingleSlot, opts.Variant)
	assert.Nil(t, opts.LifetimeCloseBound)
	assert.Nil(t, opts.NormalizeTransitionRate)
}

func TestFileEnvAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tankplanner.yaml")
	require.NoError(t, os.WriteFile(file, []byte(
		"variant: multi\nslots: 4\nengine: cbc\ntime_limit: 30s\nlog_level: debug\n"), 0o644))

	t.Setenv("TANKPLANNER_SLOTS", "6")
	t.Setenv("TANKPLANNER_INITIAL_FUEL", "LNG")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("engine", "bnb", "")
	fs.String("close-bound", "auto", "")
	fs.String("unrelated", "", "")
	require.NoError(t, fs.Parse([]string{"--engine", "bnb", "--close-bound", "on"}))

	v := New()
	require.NoError(t, BindFlags(v, fs))
	cfg, err := Load(v, file)
	require.NoError(t, err)

	assert.Equal(t, "multi", cfg.Variant)   // file
	assert.Equal(t, 6, cfg.Slots)           // env over file
	assert.Equal(t, "LNG", cfg.InitialFuel) // env
	assert.Equal(t, "bnb", cfg.Engine)      // flag over file
	assert.Equal(t, 30*time.Second, cfg.TimeLimit)
	assert.Equal(t, "debug", cfg.LogLevel)

	opts, err := cfg.PlannerOptions()
	require.NoError(t, err)
	assert.Equal(t, planner.MultiSlot, opts.Variant)
	assert.Equal(t, 6, opts.Slots)
	require.NotNil(t, opts.LifetimeCloseBound)
	assert.True(t, *opts.LifetimeCloseBound)
	assert.Equal(t, 30*time.Second, opts.EngineOptions.TimeLimit)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "reading config file")
}

func TestPlannerOptionsRejectsBadValues(t *testing.T) {
	cfg := &Config{Variant: "triple"}
	_, err := cfg.PlannerOptions()
	assert.Error(t, err)

	cfg = &Config{Variant: "single", NormalizeRate: "sometimes"}
	_, err = cfg.PlannerOptions()
	assert.ErrorContains(t, err, "normalize_rate")
}
