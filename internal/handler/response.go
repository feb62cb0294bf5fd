package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pranchal07/heal/internal/model"
	"github.com/pranchal07/heal/internal/service"
	"github.com/pranchal07/heal/internal/validation"
)

const (
	msgValidationFailed = "Validation failed"
	msgNotFound         = "Submission not found"
	msgRouteNotFound    = "Route not found"
	msgStorageFailure   = "Internal server error. Please try again later."
	msgInternalError    = "Internal server error"
	msgInvalidBody      = "Invalid request body"
)

// envelope is the JSON shape of every API response.
type envelope struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message,omitempty"`
	Data       any                    `json:"data,omitempty"`
	Errors     []validation.Violation `json:"errors,omitempty"`
	Pagination *model.Pagination      `json:"pagination,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

var invalidIDViolation = validation.Violation{
	Field:   "id",
	Rule:    validation.RuleInvalidFormat,
	Message: "ID must be a positive integer",
}

// writeServiceError maps a service error onto its HTTP response.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		slog.WarnContext(r.Context(), "validation failed", "path", r.URL.Path, "violations", len(verr.Violations))
		writeJSON(w, http.StatusBadRequest, envelope{
			Success: false,
			Message: msgValidationFailed,
			Errors:  verr.Violations,
		})
	case errors.Is(err, service.ErrInvalidID):
		writeJSON(w, http.StatusBadRequest, envelope{
			Success: false,
			Message: msgValidationFailed,
			Errors:  []validation.Violation{invalidIDViolation},
		})
	case errors.Is(err, service.ErrNotFound):
		writeFailure(w, http.StatusNotFound, msgNotFound)
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeFailure(w, http.StatusInternalServerError, msgStorageFailure)
	}
}
