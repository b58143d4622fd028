// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// envelope is the JSON error body every handler returns on failure.
type envelope struct {
	Error string `json:"error"`
}

// ErrorLogger writes API error responses and logs the server-side ones.
// Client mistakes (4xx) are returned without logging noise; 5xx responses
// log the underlying error and never leak it to the caller.
type ErrorLogger struct {
	Log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

func writeJSON(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Error: msg})
}

// BadRequest reports a malformed or invalid request body.
func (e *ErrorLogger) BadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, msg)
}

// Unauthorized reports a missing or expired session.
func (e *ErrorLogger) Unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, "sign in required")
}

// Forbidden reports an authenticated actor without permission.
func (e *ErrorLogger) Forbidden(w http.ResponseWriter) {
	writeJSON(w, http.StatusForbidden, "permission denied")
}

// NotFound reports a missing resource.
func (e *ErrorLogger) NotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, "not found")
}

// TooManyRequests reports a rate-limited request.
func (e *ErrorLogger) TooManyRequests(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusTooManyRequests, msg)
}

// Conflict reports a uniqueness violation in caller-friendly terms.
func (e *ErrorLogger) Conflict(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusConflict, msg)
}

// Internal logs the error and returns an opaque 500.
func (e *ErrorLogger) Internal(w http.ResponseWriter, r *http.Request, err error) {
	e.Log.Error("internal error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, "internal error")
}

// JSON writes a success payload with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
