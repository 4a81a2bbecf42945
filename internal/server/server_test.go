package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/planner"
)

const smallInput = `{
  "T": ["2025", "2030"],
  "Fuels": ["MGO"],
  "Capacities": {"MGO": [3000, 7000]},
  "Costs": {"MGO": {"maintenanceCost": 2, "decommissioningCost": 10, "costs": [1500000, 3000000], "changeRate": 2}},
  "Demand": {"MGO": {"2025": 3000, "2030": 6000}}
}`

func newTestServer() *Server {
	return New(":0", planner.Options{}, logr.Discard())
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSolve(t *testing.T) {
	h := newTestServer().Handler()
	for _, route := range []string{"/api/solve", "/submit"} {
		rec := do(t, h, http.MethodPost, route, smallInput)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

		var res struct {
			Status     int                        `json:"status"`
			StatusName string                     `json:"statusName"`
			Objective  *float64                   `json:"objective"`
			Solution   map[string]json.RawMessage `json:"solution"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, 0, res.Status)
		assert.Equal(t, "OPTIMAL", res.StatusName)
		assert.NotNil(t, res.Objective)
		assert.Contains(t, res.Solution, "MGO")
	}
}

func TestSolveMultiSlotQuery(t *testing.T) {
	h := newTestServer().Handler()
	rec := do(t, h, http.MethodPost, "/api/solve?variant=multi&slots=2", smallInput)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"Tank_1"`)
}

func TestSolveErrors(t *testing.T) {
	h := newTestServer().Handler()
	tests := []struct {
		name   string
		target string
		body   string
		code   int
	}{
		{"bad json", "/api/solve", `{"T": [`, http.StatusBadRequest},
		{"missing demand", "/api/solve", strings.Replace(smallInput, `"2030": 6000`, `"2040": 6000`, 1), http.StatusBadRequest},
		{"unknown engine", "/api/solve?engine=gurobi", smallInput, http.StatusServiceUnavailable},
		{"bad variant", "/api/solve?variant=triple", smallInput, http.StatusBadRequest},
		{"bad slots", "/api/solve?variant=multi&slots=many", smallInput, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.code, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestSolveMethodNotAllowed(t *testing.T) {
	rec := do(t, newTestServer().Handler(), http.MethodGet, "/api/solve", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestValidate(t *testing.T) {
	h := newTestServer().Handler()
	body := strings.Replace(smallInput, `"2030": 6000`, `"2030": 60000`, 1)
	rec := do(t, h, http.MethodPost, "/api/validate", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		Valid    bool `json:"valid"`
		Warnings []struct {
			Path string `json:"path"`
		} `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.True(t, report.Valid)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "Demand.MGO.2030", report.Warnings[0].Path)
}

func TestProfile(t *testing.T) {
	h := newTestServer().Handler()
	rec := do(t, h, http.MethodPost, "/api/profile?slots=2&variant=multi", smallInput)
	require.Equal(t, http.StatusOK, rec.Code)

	var p struct {
		Slots int `json:"slots"`
		Fuels []struct {
			Fuel        string  `json:"fuel"`
			PeakDemand  float64 `json:"peak_demand"`
			PeakYear    string  `json:"peak_year"`
			TanksAtPeak int     `json:"tanks_at_peak"`
		} `json:"fuels"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, 2, p.Slots)
	require.Len(t, p.Fuels, 1)
	assert.Equal(t, "MGO", p.Fuels[0].Fuel)
	assert.Equal(t, 6000.0, p.Fuels[0].PeakDemand)
	assert.Equal(t, "2030", p.Fuels[0].PeakYear)
	assert.Equal(t, 1, p.Fuels[0].TanksAtPeak)

	rec = do(t, h, http.MethodPost, "/api/profile", `{"T": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestModelExport(t *testing.T) {
	h := newTestServer().Handler()

	rec := do(t, h, http.MethodPost, "/api/model", smallInput)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "y[0,0,0]")
	assert.Contains(t, rec.Body.String(), "Subject To")

	rec = do(t, h, http.MethodPost, "/api/model?dialect=strict", smallInput)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "y_0_0_0")
	assert.NotContains(t, rec.Body.String(), "y[0,0,0]")
}

func TestHealthAndRequestID(t *testing.T) {
	h := newTestServer().Handler()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	assert.JSONEq(t, `{"status":"ok","engines":["bnb","cbc"]}`, rec.Body.String())
}

func TestMetrics(t *testing.T) {
	h := newTestServer().Handler()
	do(t, h, http.MethodPost, "/api/solve", smallInput)
	do(t, h, http.MethodPost, "/api/solve?engine=gurobi", smallInput)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	text, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(text), `tankplanner_solves_total{status="OPTIMAL"} 1`)
	assert.Contains(t, string(text), `tankplanner_solves_total{status="error"} 1`)
	assert.Contains(t, string(text), `tankplanner_solve_duration_seconds_count{variant="single"} 2`)
}
