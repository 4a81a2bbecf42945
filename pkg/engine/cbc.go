package engine

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/milp"
)

// CBC solves models with the COIN-OR cbc executable. The model is written
// in the strict LP dialect, since cbc rejects bracketed names.
type CBC struct {
	path string
	opts Options
}

// NewCBC locates the cbc executable. A missing binary is reported as
// ErrEngineUnavailable.
func NewCBC(opts Options) (*CBC, error) {
	bin := opts.CBCPath
	if bin == "" {
		bin = "cbc"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEngineUnavailable, bin, err)
	}
	return &CBC{path: path, opts: opts.withDefaults()}, nil
}

func (e *CBC) Name() string { return "cbc" }

// Solve writes m to a temporary directory, runs cbc on it and reads back
// the solution file.
func (e *CBC) Solve(ctx context.Context, m *milp.Model) (*Solution, error) {
	log := logr.FromContextOrDiscard(ctx).WithName("cbc")

	dir, err := os.MkdirTemp(e.opts.WorkDir, "tankplanner-cbc-")
	if err != nil {
		return nil, fmt.Errorf("creating work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	modelPath := filepath.Join(dir, "model.lp")
	solPath := filepath.Join(dir, "solution.txt")
	f, err := os.Create(modelPath)
	if err != nil {
		return nil, fmt.Errorf("creating model file: %w", err)
	}
	if err := m.WriteLP(f, milp.LPOptions{Strict: true}); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing model file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("writing model file: %w", err)
	}

	args := cbcArgs(modelPath, solPath, e.opts.TimeLimit)

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, e.path, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	log.V(1).Info("running cbc", "path", e.path, "args", args)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return &Solution{Status: NotSolved, Engine: e.Name()}, nil
		}
		return nil, fmt.Errorf("running cbc: %w: %s", err, strings.TrimSpace(out.String()))
	}

	sf, err := os.Open(solPath)
	if err != nil {
		return nil, fmt.Errorf("reading cbc solution: %w", err)
	}
	defer sf.Close()

	sol, err := ParseCBCSolution(sf, m)
	if err != nil {
		return nil, err
	}
	sol.Engine = e.Name()
	return sol, nil
}

// cbcArgs builds the cbc command line. Sub-second limits keep their
// fraction.
func cbcArgs(modelPath, solPath string, limit time.Duration) []string {
	args := []string{modelPath}
	if limit > 0 {
		args = append(args, "sec", strconv.FormatFloat(limit.Seconds(), 'f', -1, 64))
	}
	return append(args, "solve", "solu", solPath)
}

// ParseCBCSolution reads a cbc solution file. The first line carries the
// status and objective; each following line is "index name value dual",
// optionally prefixed with "**" for infeasible entries. Only nonzero
// values are listed.
func ParseCBCSolution(r io.Reader, m *milp.Model) (*Solution, error) {
	byName := make(map[string]milp.Var, m.NumVars())
	for i, d := range m.Vars() {
		byName[milp.DialectName(d.Name)] = milp.Var(i)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("reading cbc solution: %w", err)
		}
		return nil, fmt.Errorf("empty cbc solution file")
	}
	header := strings.TrimSpace(sc.Text())
	sol := &Solution{Status: cbcStatus(header)}
	if !sol.Status.HasSolution() {
		return sol, nil
	}

	values := make([]float64, m.NumVars())
	for sc.Scan() {
		fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(sc.Text()), "**"))
		if len(fields) < 3 {
			continue
		}
		v, ok := byName[fields[1]]
		if !ok {
			return nil, fmt.Errorf("cbc solution names unknown variable %q", fields[1])
		}
		val, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("cbc solution value for %s: %w", fields[1], err)
		}
		values[v] = val
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading cbc solution: %w", err)
	}
	sol.Values = values
	sol.Objective = m.Objective().Eval(values)
	return sol, nil
}

func cbcStatus(header string) Status {
	h := strings.ToLower(header)
	switch {
	case strings.HasPrefix(h, "optimal"):
		return Optimal
	case strings.HasPrefix(h, "infeasible"), strings.HasPrefix(h, "integer infeasible"):
		return Infeasible
	case strings.HasPrefix(h, "unbounded"):
		return Unbounded
	case strings.HasPrefix(h, "stopped"):
		if strings.Contains(h, "objective value") && !strings.Contains(h, "no integer") {
			return Feasible
		}
		return NotSolved
	default:
		return Abnormal
	}
}
