package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/garnizeh/devconnect/internal/apperr"
	"github.com/garnizeh/devconnect/internal/validate"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

// writeMsg writes the {"msg": ...} shape the original API used for single
// error messages.
func writeMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, map[string]string{"msg": msg}, status)
}

// writeViolations writes the validation-failure shape: an ordered errors
// array with one entry per violated rule.
func writeViolations(w http.ResponseWriter, violations []validate.Violation) {
	writeJSON(w, map[string]any{"errors": violations}, http.StatusBadRequest)
}

// writeErrorList writes a single message in the errors-array shape used by
// registration and login failures.
func writeErrorList(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, map[string]any{"errors": []map[string]string{{"msg": msg}}}, status)
}

// writeError maps the failure taxonomy to HTTP. Ownership failures keep the
// original's 401 answer. Storage and unexpected failures are logged and
// surfaced as an opaque server error.
func writeError(w http.ResponseWriter, err error) {
	msg := "Server Error"
	var ae *apperr.Error
	if errors.As(err, &ae) {
		msg = ae.Msg
	}

	switch apperr.KindOf(err) {
	case apperr.Unauthenticated:
		writeMsg(w, http.StatusUnauthorized, msg)
	case apperr.Forbidden:
		writeMsg(w, http.StatusUnauthorized, msg)
	case apperr.NotFound:
		writeMsg(w, http.StatusNotFound, msg)
	case apperr.Conflict:
		writeMsg(w, http.StatusBadRequest, msg)
	case apperr.Validation:
		writeMsg(w, http.StatusBadRequest, msg)
	default:
		logger.Error("request failed", slog.Any("err", err))
		writeMsg(w, http.StatusInternalServerError, "Server Error")
	}
}
