package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/agbru/lfsrscan/internal/errors"
	"github.com/agbru/lfsrscan/internal/logging"
	"github.com/agbru/lfsrscan/internal/service"
	"github.com/agbru/lfsrscan/pkg/models"
)

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

// handleExplore serves GET /explore?polynomial=<bits>.
func (s *Server) handleExplore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	q := r.URL.Query()
	if !q.Has("polynomial") {
		status, msg := errorStatus(apperrors.NewValidationError("polynomial", "parameter is required", nil))
		s.writeErrorResponse(w, status, msg)
		return
	}
	polynomial := q.Get("polynomial")

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	report, err := s.service.Explore(ctx, polynomial)
	if err != nil {
		status, msg := errorStatus(err)
		if status >= http.StatusInternalServerError && !apperrors.IsContextError(err) {
			s.logger.Error("exploration failed", err,
				logging.String("polynomial", polynomial),
				logging.String("request_id", RequestIDFromContext(r.Context())))
		}
		s.writeErrorResponse(w, status, msg)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, report)
}

// errorStatus maps a service error to an HTTP status and client message.
func errorStatus(err error) (int, string) {
	var invalid apperrors.ValidationError
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest, fmt.Sprintf("Invalid '%s' parameter: %s", invalid.Field, invalid.Message)
	case errors.Is(err, service.ErrTooWide):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrInvalidConfiguration):
		return http.StatusBadRequest, fmt.Sprintf("Invalid 'polynomial' parameter: %v", err)
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Exploration timed out"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "Exploration canceled"
	default:
		return http.StatusInternalServerError, "Exploration failed"
	}
}

// writeJSONResponse writes data as JSON with the given status code.
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("Error encoding JSON response: %v", err)
	}
}

// writeErrorResponse writes a models.ErrorResponse.
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	s.writeJSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
