// Package allocation exposes the allocation service over HTTP.
package allocation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/kilianp07/fleetalloc/auth"
	"github.com/kilianp07/fleetalloc/config"
	coreallocation "github.com/kilianp07/fleetalloc/core/allocation"
	"github.com/kilianp07/fleetalloc/core/events"
	"github.com/kilianp07/fleetalloc/core/normalize"
	"github.com/kilianp07/fleetalloc/core/runlog"
	"github.com/kilianp07/fleetalloc/infra/logger"
	"github.com/kilianp07/fleetalloc/internal/eventbus"
	"github.com/kilianp07/fleetalloc/pkg/export"
)

// Service is the subset of app.Service used by the handlers.
type Service interface {
	Allocate(ctx context.Context, sc normalize.Scenario) (coreallocation.Report, error)
	Runs(ctx context.Context, q runlog.Query) ([]runlog.Record, error)
	Bus() *eventbus.Bus[events.AllocationEvent]
}

type handler struct {
	svc     Service
	log     logger.Logger
	maxBody int64
	timeout time.Duration
	metrics http.Handler
}

// NewHandler returns the API mux:
//
//	POST /api/allocate   scenario document in, report out (?format=csv for rows)
//	GET  /api/runs       run history filtered by vehicle_id, start and end
//	GET  /api/events     websocket stream of allocation events
//	GET  /metrics        Prometheus exposition
//	GET  /healthz        liveness
//
// The /api routes share a token bucket when cfg.RateLimit is positive and
// require cfg.Auth's bearer token when one is set.
func NewHandler(svc Service, cfg config.HTTPConfig, log logger.Logger) http.Handler {
	if log == nil {
		log = logger.NopLogger{}
	}
	cfg.SetDefaults()
	h := &handler{
		svc:     svc,
		log:     log,
		maxBody: cfg.MaxBodyBytes,
		timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		metrics: promhttp.Handler(),
	}

	api := http.NewServeMux()
	api.HandleFunc("POST /api/allocate", h.allocate)
	api.HandleFunc("GET /api/runs", h.runs)
	api.HandleFunc("GET /api/events", h.events)

	var guarded http.Handler = auth.Middleware(cfg.Auth, api)
	if cfg.RateLimit > 0 {
		guarded = RateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst), guarded)
	}
	mux := http.NewServeMux()
	mux.Handle("/api/", guarded)
	mux.Handle("GET /metrics", h.metrics)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return Recovery(log, Logging(log, mux))
}

// RateLimit rejects requests with 429 once the limiter is exhausted.
func RateLimit(l *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) allocate(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, h.maxBody)
	sc, err := normalize.LoadScenario(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "scenario too large")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	rep, err := h.svc.Allocate(ctx, sc)
	if err != nil {
		if rep.RunID == "" {
			status := http.StatusInternalServerError
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				status = http.StatusServiceUnavailable
			}
			writeError(w, status, err.Error())
			return
		}
		// The report is valid, only persisting it failed.
		h.log.Warnf("run %s not persisted: %v", rep.RunID, err)
		w.Header().Set("X-Runlog-Error", err.Error())
	}
	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		if err := export.WriteCSV(w, rep.Rows); err != nil {
			h.log.Errorf("write csv: %v", err)
		}
		return
	}
	h.writeJSON(w, http.StatusOK, rep)
}

func (h *handler) runs(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	records, err := h.svc.Runs(ctx, q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []runlog.Record{}
	}
	h.writeJSON(w, http.StatusOK, records)
}

func parseQuery(r *http.Request) (runlog.Query, error) {
	v := r.URL.Query()
	q := runlog.Query{VehicleID: v.Get("vehicle_id")}
	if s := v.Get("start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return q, fmt.Errorf("invalid start: %w", err)
		}
		q.Start = t
	}
	if s := v.Get("end"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return q, fmt.Errorf("invalid end: %w", err)
		}
		q.End = t
	}
	return q, nil
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg})
}

// writeJSON encodes v before the header is written. An encoding failure is
// logged and answered with a 500.
func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		h.log.Errorf("encode response: %v", err)
		writeError(w, http.StatusInternalServerError, "encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.log.Warnf("write response: %v", err)
	}
}
