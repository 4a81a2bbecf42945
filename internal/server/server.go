// Package server exposes the planner over HTTP. Every request runs its own
// build-and-solve pipeline.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/engine"
	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/milp"
	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/planner"
	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/spec"
)

// MaxBodyBytes caps the size of a planning input.
const MaxBodyBytes = 4 << 20

const shutdownTimeout = 10 * time.Second

// Server is the planning API server.
type Server struct {
	addr     string
	opts     planner.Options
	log      logr.Logger
	registry *prometheus.Registry
	metrics  *metrics
}

// New creates a server listening on addr that plans with opts unless a
// request overrides them.
func New(addr string, opts planner.Options, log logr.Logger) *Server {
	reg := prometheus.NewRegistry()
	return &Server{
		addr:     addr,
		opts:     opts,
		log:      log.WithName("server"),
		registry: reg,
		metrics:  newMetrics(reg),
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/solve", s.handleSolve)
	mux.HandleFunc("POST /submit", s.handleSolve)
	mux.HandleFunc("POST /api/validate", s.handleValidate)
	mux.HandleFunc("POST /api/model", s.handleModel)
	mux.HandleFunc("POST /api/profile", s.handleProfile)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return s.withRequestID(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", "addr", s.addr, "engine", s.opts.Engine, "variant", s.opts.Variant)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		log := s.log.WithValues("request_id", id, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(logr.NewContext(r.Context(), log)))
	})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	in, opts, ok := s.readRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	res, err := planner.Solve(r.Context(), in, opts)
	s.metrics.observe(opts.Variant, res, err, time.Since(start))
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	in, opts, ok := s.readRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, planner.Validate(in, opts))
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	in, opts, ok := s.readRequest(w, r)
	if !ok {
		return
	}
	if report := planner.Validate(in, opts); !report.Valid {
		writeJSON(w, http.StatusBadRequest, report)
		return
	}
	p, err := planner.Profile(in, opts)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	in, opts, ok := s.readRequest(w, r)
	if !ok {
		return
	}
	b, err := planner.BuildModel(in, opts)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	lpOpts := milp.LPOptions{Strict: r.URL.Query().Get("dialect") == "strict"}
	if err := b.Model.WriteLP(w, lpOpts); err != nil {
		logr.FromContextOrDiscard(r.Context()).Error(err, "writing model")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"engines": engine.Available(),
	})
}

// readRequest decodes the planning input and applies query overrides
// (variant, slots, engine, initial_fuel) to the server defaults.
func (s *Server) readRequest(w http.ResponseWriter, r *http.Request) (*spec.Input, planner.Options, bool) {
	opts := s.opts
	q := r.URL.Query()
	if v := q.Get("variant"); v != "" {
		variant, err := planner.ParseVariant(v)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, err)
			return nil, opts, false
		}
		opts.Variant = variant
	}
	if v := q.Get("slots"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("slots: %w", err))
			return nil, opts, false
		}
		opts.Slots = n
	}
	if v := q.Get("engine"); v != "" {
		opts.Engine = v
	}
	if v := q.Get("initial_fuel"); v != "" {
		opts.InitialFuel = v
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		s.writeError(w, r, http.StatusRequestEntityTooLarge, fmt.Errorf("reading body: %w", err))
		return nil, opts, false
	}
	in, err := spec.ParseJSON(data)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return nil, opts, false
	}
	return in, opts, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, planner.ErrMalformedInput),
		errors.Is(err, planner.ErrMissingDemand),
		errors.Is(err, planner.ErrUnknownFuel):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrEngineUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, code int, err error) {
	logr.FromContextOrDiscard(r.Context()).Info("request failed", "code", code, "error", err.Error())
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
