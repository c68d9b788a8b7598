// Package server exposes a storage.Provider through the calendar REST API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/julianstephens/blockout/internal/calendar"
	"github.com/julianstephens/blockout/internal/constants"
	"github.com/julianstephens/blockout/internal/logger"
	"github.com/julianstephens/blockout/internal/models"
)

// Store is the subset of storage.Provider the API needs.
type Store interface {
	FetchUnavailableDates(ctx context.Context, productID string) ([]models.Day, error)
	PersistUnavailableDates(ctx context.Context, productID string, dates []models.Day, reason string) error
}

type Server struct {
	store Store
	mux   *http.ServeMux
}

func New(store Store) *Server {
	s := &Server{store: store, mux: http.NewServeMux()}

	prefix := constants.APIPrefix + "/products/{id}"
	s.mux.HandleFunc("GET "+prefix+"/unavailable-dates/{$}", s.handleListDates)
	s.mux.HandleFunc("POST "+prefix+"/unavailable-dates/{$}", s.handlePersistDates)
	s.mux.HandleFunc("GET "+prefix+"/unavailable-ranges/{$}", s.handleListRanges)
	return s
}

func (s *Server) Handler() http.Handler {
	return logRequests(s.mux)
}

// Serve runs the API on ln until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func productID(r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	return id, id != ""
}

func (s *Server) handleListDates(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	days, err := s.store.FetchUnavailableDates(r.Context(), id)
	if err != nil {
		logger.Error("Failed to fetch unavailable dates", "product", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load dates")
		return
	}

	out := make([]models.UnavailableDate, len(days))
	for i, d := range days {
		out[i] = models.UnavailableDate{Date: d}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePersistDates(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxRequestBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req models.PersistRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if dec.More() {
		writeError(w, http.StatusBadRequest, "invalid request body: trailing data")
		return
	}
	if req.Dates == nil {
		writeError(w, http.StatusBadRequest, "invalid request body: dates is required")
		return
	}

	unique := models.NewDaySet(req.Dates...).Sorted()
	if err := s.store.PersistUnavailableDates(r.Context(), id, unique, req.Reason); err != nil {
		logger.Error("Failed to persist unavailable dates", "product", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save dates")
		return
	}

	logger.Info("Unavailable dates replaced", "product", id, "days", len(unique), "reason", req.Reason)
	writeJSON(w, http.StatusOK, models.PersistResponse{Saved: len(unique)})
}

func (s *Server) handleListRanges(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	days, err := s.store.FetchUnavailableDates(r.Context(), id)
	if err != nil {
		logger.Error("Failed to fetch unavailable dates", "product", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load dates")
		return
	}

	writeJSON(w, http.StatusOK, calendar.Views(days))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
