package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/analytics"
	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/engine"
	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/milp"
	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/spec"
	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/validation"
)

// Build is an assembled planning model with the handles needed to read
// a solution back.
type Build struct {
	Model  *milp.Model
	Index  *Index
	Vars   *Variables
	Report *validation.Report
}

// Validate runs the explicit validation pass for the given options.
func Validate(in *spec.Input, opts Options) *validation.Report {
	s, err := opts.resolve()
	if err != nil {
		r := validation.NewReport()
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     err.Error(),
			Path:        "variant",
			ActualValue: string(opts.Variant),
			Expected:    fmt.Sprintf("%q or %q", SingleSlot, MultiSlot),
		})
		return r
	}
	return validate(in, s)
}

// validate runs the schema checks and, on a structurally sound input,
// the demand analysis that adds model-level warnings.
func validate(in *spec.Input, s settings) *validation.Report {
	report := validation.ValidateInput(in, validation.Options{
		InitialFuel: s.initialFuel,
		Slots:       s.slots,
	})
	if !report.Valid {
		return report
	}
	_, demand := analytics.Resolve(in, s.slots)
	report.Merge(demand)
	return report
}

// BuildModel validates the input and assembles the model without solving
// it.
func BuildModel(in *spec.Input, opts Options) (*Build, error) {
	s, err := opts.resolve()
	if err != nil {
		return nil, err
	}
	report := validate(in, s)
	if !report.Valid {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, report.Err())
	}
	b, err := build(in, s)
	if err != nil {
		return nil, err
	}
	b.Report = report
	return b, nil
}

func build(in *spec.Input, s settings) (*Build, error) {
	idx, err := buildIndex(in, s)
	if err != nil {
		return nil, err
	}
	m := milp.NewModel(modelName(s))
	v := newVariables(m, idx)
	addObjective(m, idx, v)
	if err := addConstraints(m, idx, v, s); err != nil {
		return nil, fmt.Errorf("building constraints: %w", err)
	}
	return &Build{Model: m, Index: idx, Vars: v}, nil
}

func modelName(s settings) string {
	if s.multi() {
		return "tank_plan_multi"
	}
	return "tank_plan"
}

// Solve validates the input, builds the model, solves it with the
// configured engine and extracts the plan. An engine that cannot be
// created fails the call before any variable exists. A solve that ends
// without a solution is a normal result with empty plan maps.
func Solve(ctx context.Context, in *spec.Input, opts Options) (*Result, error) {
	log := logr.FromContextOrDiscard(ctx).WithName("planner")

	s, err := opts.resolve()
	if err != nil {
		return nil, err
	}
	report := validate(in, s)
	if !report.Valid {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, report.Err())
	}
	report.Log(log)

	eng, err := engine.New(opts.Engine, opts.EngineOptions)
	if err != nil {
		return nil, err
	}

	b, err := build(in, s)
	if err != nil {
		return nil, err
	}
	log.V(1).Info("model built",
		"variant", s.variant,
		"variables", b.Model.NumVars(),
		"constraints", b.Model.NumConstraints(),
		"engine", eng.Name())

	start := time.Now()
	sol, err := eng.Solve(ctx, b.Model)
	if err != nil {
		return nil, fmt.Errorf("solving model: %w", err)
	}
	log.Info("model solved",
		"status", sol.Status.String(),
		"objective", sol.Objective,
		"nodes", sol.Nodes,
		"elapsed", time.Since(start).String())

	res := extract(b, sol)
	if len(report.Warnings) > 0 {
		res.Warnings = report.Warnings
	}
	return res, nil
}

// Profile resolves the demand analysis for the slot count opts select.
func Profile(in *spec.Input, opts Options) (*analytics.Profile, error) {
	s, err := opts.resolve()
	if err != nil {
		return nil, err
	}
	p, _ := analytics.Resolve(in, s.slots)
	return p, nil
}
