package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"go.uber.org/zap"

	"itoffers/common/cache"
	"itoffers/services/dashboard/internal/errors"
)

// computeFunc builds a response body for r. It must depend only on the
// request path and query, since its result is cached under them.
type computeFunc func(r *http.Request) (any, error)

type errorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type,omitempty"`
}

func cacheKey(r *http.Request) string {
	return "api:" + r.URL.Path + "?" + r.URL.Query().Encode()
}

// cached serves the stored payload when there is one, otherwise computes,
// stores and serves it. Cache failures only cost a recomputation.
func (s *Server) cached(compute computeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := cacheKey(r)

		if s.cache != nil {
			body, err := s.cache.Get(r.Context(), key)
			if err == nil {
				w.Header().Set("X-Cache", "HIT")
				writeBody(w, http.StatusOK, body)
				return
			}
			if !stderrors.Is(err, cache.ErrNotFound) {
				s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
			}
		}

		value, err := compute(r)
		if err != nil {
			s.writeError(w, err)
			return
		}

		body, err := json.Marshal(value)
		if err != nil {
			s.writeError(w, errors.Internal("encode response", err))
			return
		}

		if s.cache != nil {
			if err := s.cache.Set(r.Context(), key, body, s.opts.CacheTTL); err != nil {
				s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		w.Header().Set("X-Cache", "MISS")
		writeBody(w, http.StatusOK, body)
	}
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	resp := errorResponse{Error: err.Error()}

	var domainErr *errors.DomainError
	if stderrors.As(err, &domainErr) {
		resp.Type = string(domainErr.Type)
		switch domainErr.Type {
		case errors.ErrTypeInvalidInput:
			status = http.StatusBadRequest
		case errors.ErrTypeNotFound:
			status = http.StatusNotFound
		case errors.ErrTypeUnavailable:
			status = http.StatusServiceUnavailable
		}
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, resp)
}
