package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/milp"
	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/planner"
	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/spec"
)

// solveOutput selects where and how a solve result is written.
type solveOutput struct {
	path    string
	lpFile  string
	summary bool
}

// loadInput reads a planning input from a file, a project directory, or
// stdin when path is "-".
func loadInput(path string, stdin io.Reader) (*spec.Input, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return spec.ParseJSON(data)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("loading input: %w", err)
	}
	if info.IsDir() {
		return spec.LoadProject(path)
	}
	return spec.Load(path)
}

// loadAndValidate loads the input, resolves planner options and runs the
// validation pass.
func (a *app) loadAndValidate(w io.Writer, path string) (*spec.Input, planner.Options, error) {
	in, err := loadInput(path, os.Stdin)
	if err != nil {
		return nil, planner.Options{}, err
	}
	opts, err := a.cfg.PlannerOptions()
	if err != nil {
		return nil, planner.Options{}, err
	}
	report := planner.Validate(in, opts)
	if !report.Valid {
		printValidationReport(w, report)
		return nil, opts, fmt.Errorf("input has validation errors")
	}
	return in, opts, nil
}

func (a *app) runValidate(w io.Writer, path string) error {
	in, err := loadInput(path, os.Stdin)
	if err != nil {
		return err
	}
	opts, err := a.cfg.PlannerOptions()
	if err != nil {
		return err
	}
	report := planner.Validate(in, opts)
	if report.Valid {
		profile, err := planner.Profile(in, opts)
		if err != nil {
			return err
		}
		printDemandProfile(w, profile)
	}
	printValidationReport(w, report)
	if !report.Valid {
		return fmt.Errorf("input has validation errors")
	}
	return nil
}

func (a *app) runCost(w io.Writer, path string) error {
	in, opts, err := a.loadAndValidate(w, path)
	if err != nil {
		return err
	}
	idx, err := planner.BuildIndex(in, opts)
	if err != nil {
		return err
	}
	printCostTables(w, in, idx)
	return nil
}

func (a *app) runSolve(ctx context.Context, w io.Writer, path string, out solveOutput) error {
	in, opts, err := a.loadAndValidate(w, path)
	if err != nil {
		return err
	}

	if out.lpFile != "" {
		b, err := planner.BuildModel(in, opts)
		if err != nil {
			return err
		}
		if err := writeLPFile(out.lpFile, b.Model, milp.LPOptions{}); err != nil {
			return err
		}
		a.log.Info("model written", "file", out.lpFile)
	}

	res, err := planner.Solve(ctx, in, opts)
	if err != nil {
		return fmt.Errorf("solving: %w", err)
	}
	if !res.Status.HasSolution() {
		a.log.Info("no solution found", "status", res.StatusName)
	}

	if out.summary {
		printPlan(w, in, res)
		return nil
	}
	if out.path == "" {
		return encodeJSON(w, res)
	}
	f, err := os.Create(out.path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := encodeJSON(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (a *app) runExport(w io.Writer, path, output, dialect string) error {
	var opts milp.LPOptions
	switch dialect {
	case "", "cplex":
	case "strict":
		opts.Strict = true
	default:
		return fmt.Errorf("unknown dialect %q (want cplex or strict)", dialect)
	}

	in, popts, err := a.loadAndValidate(w, path)
	if err != nil {
		return err
	}
	b, err := planner.BuildModel(in, popts)
	if err != nil {
		return err
	}
	if output == "" {
		return b.Model.WriteLP(w, opts)
	}
	if err := writeLPFile(output, b.Model, opts); err != nil {
		return err
	}
	a.log.Info("model written", "file", output,
		"variables", b.Model.NumVars(), "constraints", b.Model.NumConstraints())
	return nil
}

func runRewrite(stdin io.Reader, stdout io.Writer, inPath, outPath string) error {
	r := stdin
	if inPath != "-" {
		f, err := os.Open(inPath)
		if err != nil {
			return fmt.Errorf("opening LP file: %w", err)
		}
		defer f.Close()
		r = f
	}
	if outPath == "-" {
		return milp.RewriteStream(r, stdout)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating LP file: %w", err)
	}
	if err := milp.RewriteStream(r, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeLPFile(path string, m *milp.Model, opts milp.LPOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating LP file: %w", err)
	}
	err = m.WriteLP(f, opts)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing LP file: %w", err)
	}
	return nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return nil
}
