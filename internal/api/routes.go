package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/reelsmith/reelsmith/internal/job"
	"github.com/reelsmith/reelsmith/internal/store"
)

// HealthResponse is the /healthz body.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

// JobsResponse wraps the ledger listing.
type JobsResponse struct {
	Jobs []store.Record `json:"jobs"`
}

// Version is stamped at build time via -ldflags.
var Version = "dev"

// NewRouter wires the routes. Rendering is synchronous: POST /v1/jobs
// blocks until the video is uploaded or the job fails.
func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Log))
	r.Use(LoggingMiddleware(cfg.Log))

	r.Get("/healthz", healthHandler(cfg))
	r.Post("/v1/jobs", createJobHandler(cfg))
	r.Get("/v1/jobs", listJobsHandler(cfg))
	r.Get("/v1/jobs/{id}", getJobHandler(cfg))

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: Version,
			UptimeS: int64(time.Since(cfg.StartTime).Seconds()),
		})
	}
}

func createJobHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req job.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		res, jerr := cfg.Runner.Run(r.Context(), &req)
		if jerr != nil {
			status, code := failureStatus(jerr.Kind)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(ErrorResponse{
				Error:   jerr.Error(),
				Code:    code,
				Details: jerr.Details,
			})
			return
		}

		WriteJSON(w, http.StatusCreated, res)
	}
}

// failureStatus maps the job failure taxonomy onto HTTP. Caller-input
// defects are 4xx; everything that happened mid-processing is 5xx.
func failureStatus(kind job.Kind) (int, string) {
	switch kind {
	case job.KindConfig:
		return http.StatusBadRequest, "BAD_REQUEST"
	case job.KindCompile:
		return http.StatusUnprocessableEntity, "COMPILE_FAILED"
	case job.KindFetch:
		return http.StatusBadGateway, "FETCH_FAILED"
	case job.KindTimeout:
		return http.StatusGatewayTimeout, "ENGINE_TIMEOUT"
	case job.KindUpload:
		return http.StatusBadGateway, "UPLOAD_FAILED"
	default:
		return http.StatusInternalServerError, "ENGINE_FAILED"
	}
}

func listJobsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				WriteError(w, http.StatusBadRequest, "limit must be a positive integer", "BAD_REQUEST")
				return
			}
			limit = n
		}

		recs, err := cfg.Ledger.List(r.Context(), limit)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list jobs", "INTERNAL_ERROR")
			return
		}
		if recs == nil {
			recs = []store.Record{}
		}
		WriteJSON(w, http.StatusOK, JobsResponse{Jobs: recs})
	}
}

func getJobHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		rec, err := cfg.Ledger.Get(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "job not found", "NOT_FOUND")
			return
		}
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to load job", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, rec)
	}
}
