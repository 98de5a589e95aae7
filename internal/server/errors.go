package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jonathan/skillbridge/internal/pipeline"
	"github.com/jonathan/skillbridge/internal/pipeline/steps"
	"github.com/jonathan/skillbridge/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrSessionNotFound indicates the session expired or never existed.
type ErrSessionNotFound struct {
	ID string
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("session not found: %s", e.ID)
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	status, _ := classify(err)
	return status
}

// classify maps err to a status code and the error code of the response.
func classify(err error) (int, string) {
	var (
		validation *ErrValidation
		notFound   *ErrSessionNotFound
		dependency *steps.DependencyError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, "invalid_request"
	case errors.As(err, &notFound):
		return http.StatusNotFound, "not_found"
	case errors.As(err, &dependency):
		return http.StatusConflict, "step_order"
	case errors.Is(err, pipeline.ErrSuperseded):
		return http.StatusConflict, "superseded"
	}

	kind, ok := types.KindOf(err)
	if !ok {
		return http.StatusInternalServerError, "internal"
	}
	switch kind {
	case types.KindInput:
		return http.StatusUnprocessableEntity, string(kind)
	case types.KindUpstream:
		return http.StatusBadGateway, string(kind)
	case types.KindTransient:
		return http.StatusServiceUnavailable, string(kind)
	}
	return http.StatusInternalServerError, "internal"
}

// errorBody builds the response body of err.
func errorBody(err error) (int, ErrorResponse) {
	status, code := classify(err)
	body := ErrorResponse{Error: code, Detail: err.Error()}
	switch status {
	case http.StatusBadRequest, http.StatusNotFound, http.StatusConflict:
		body.Message = err.Error()
	default:
		body.Message = types.UserMessage(err)
	}
	return status, body
}

// errorResponse writes err as a JSON error response.
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errorBody(err)
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, "request failed",
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.Any("error", err))
	s.jsonResponse(w, status, body)
}
