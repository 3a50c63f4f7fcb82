package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/smartflow-ai/smartflow/internal/api"
	"github.com/smartflow-ai/smartflow/internal/roi"
	"github.com/smartflow-ai/smartflow/internal/store"

	"go.uber.org/zap"
)

func errorBody(err error) api.ErrorBody {
	if ve, ok := roi.AsValidation(err); ok {
		return api.ErrorBody{Code: string(ve.Code), Message: ve.Message(), Field: ve.Field}
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return api.ErrorBody{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, store.ErrAmbiguous):
		return api.ErrorBody{Code: "AMBIGUOUS", Message: err.Error()}
	}
	return api.ErrorBody{Code: "INTERNAL", Message: "internal error"}
}

func statusFor(err error) int {
	if _, ok := roi.AsValidation(err); ok {
		return http.StatusUnprocessableEntity
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrAmbiguous):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if ve, ok := roi.AsValidation(err); ok {
		s.countValidationFailure(ve.Code)
		s.log.Debug("validation failed", zap.Error(err))
	} else if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	s.writeJSON(w, status, errorBody(err))
}

// writeJSON encodes v before committing status, so an unencodable value
// becomes a 500 instead of a 200 with an empty body.
func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.log.Error("encoding response", zap.Error(err))
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(api.ErrorBody{Code: "INTERNAL", Message: "internal error"})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log.Debug("writing response", zap.Error(err))
	}
}

// decode reads a JSON body into v, answering 400 itself on failure.
func (s *Service) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, api.ErrorBody{Code: "BAD_REQUEST", Message: "malformed JSON body: " + err.Error()})
		return false
	}
	return true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		took := time.Since(start)

		s.mu.Lock()
		s.requests++
		s.mu.Unlock()
		s.metrics.observeRequest(r.Method, routeOf(r), rec.status, took.Seconds())

		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", took),
		)
	})
}

// routeOf returns the matched mux pattern without its method, keeping metric
// label cardinality bounded.
func routeOf(r *http.Request) string {
	p := r.Pattern
	if i := strings.IndexByte(p, ' '); i >= 0 {
		p = p[i+1:]
	}
	if p == "" {
		return "unmatched"
	}
	return p
}
