package validation

import (
	"fmt"

	"github.com/go-logr/logr"
)

// Level indicates which validation stage produced the result.
type Level string

const (
	LevelSchema Level = "schema"
	LevelModel  Level = "model"
)

// Severity indicates how critical a validation result is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Result is a single validation finding.
type Result struct {
	Level       Level    `json:"level"`
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	Path        string   `json:"path"`
	ActualValue any      `json:"actual_value,omitempty"`
	Expected    string   `json:"expected,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Report is the complete validation output.
type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []Result `json:"errors"`
	Warnings []Result `json:"warnings"`
	Info     []Result `json:"info"`
	Summary  string   `json:"summary"`
}

// NewReport creates an empty valid report.
func NewReport() *Report {
	r := &Report{
		Valid:    true,
		Errors:   []Result{},
		Warnings: []Result{},
		Info:     []Result{},
	}
	r.updateSummary()
	return r
}

// AddError adds an error result and marks the report invalid.
func (r *Report) AddError(result Result) {
	result.Severity = SeverityError
	r.Errors = append(r.Errors, result)
	r.Valid = false
	r.updateSummary()
}

// AddWarning adds a warning result.
func (r *Report) AddWarning(result Result) {
	result.Severity = SeverityWarning
	r.Warnings = append(r.Warnings, result)
	r.updateSummary()
}

// AddInfo adds an informational result.
func (r *Report) AddInfo(result Result) {
	result.Severity = SeverityInfo
	r.Info = append(r.Info, result)
	r.updateSummary()
}

// Merge combines another report into this one.
func (r *Report) Merge(other *Report) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Info = append(r.Info, other.Info...)
	if !other.Valid {
		r.Valid = false
	}
	r.updateSummary()
}

// Err returns nil for a valid report, otherwise an error naming the first
// failure and the count of the rest.
func (r *Report) Err() error {
	if r.Valid || len(r.Errors) == 0 {
		return nil
	}
	first := r.Errors[0]
	if len(r.Errors) == 1 {
		return fmt.Errorf("%s: %s", first.Path, first.Message)
	}
	return fmt.Errorf("%s: %s (and %d more errors)", first.Path, first.Message, len(r.Errors)-1)
}

// Find returns the first finding of any severity recorded at path.
func (r *Report) Find(path string) (Result, bool) {
	for _, set := range [][]Result{r.Errors, r.Warnings, r.Info} {
		for _, res := range set {
			if res.Path == path {
				return res, true
			}
		}
	}
	return Result{}, false
}

// Log writes the warnings and info findings to log. Info findings are
// verbose.
func (r *Report) Log(log logr.Logger) {
	for _, w := range r.Warnings {
		log.Info("input warning", "level", w.Level, "path", w.Path, "message", w.Message)
	}
	for _, i := range r.Info {
		log.V(1).Info("input note", "level", i.Level, "path", i.Path, "message", i.Message)
	}
}

func (r *Report) updateSummary() {
	r.Summary = fmt.Sprintf("%d errors, %d warnings, %d info",
		len(r.Errors), len(r.Warnings), len(r.Info))
}
