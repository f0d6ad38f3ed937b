package httpapi

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/julianstephens/loomra/internal/errors"
	"github.com/julianstephens/loomra/internal/logger"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: apiError{Code: code, Message: message}})
}

// writeServiceError maps the sentinel errors to status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrHabitNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case apperrors.Is(err, apperrors.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "INVALID_DATE", err.Error())
	default:
		logger.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
