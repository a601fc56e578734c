// Package handlers exposes the application services over HTTP with chi.
// Every response uses a uniform envelope:
//
//	{"status": "success"|"error", "message": "...", "data": ...}
//
// paired with the HTTP status code for the outcome (200 read-ok, 201
// created, 400 validation, 401 unauthenticated, 403 forbidden, 404
// not-found).
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/splitroom/splitroom/internal/apperr"
)

// Envelope is the uniform response shape for every endpoint.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// respond writes a success envelope.
func respond(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Envelope{Status: "success", Message: message, Data: data})
}

// WriteError writes an error envelope with the status code mapped from the
// error's kind. Unclassified errors become a generic 500 and are logged.
func WriteError(w http.ResponseWriter, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		slog.Error("internal error", "error", err)
	}
	writeJSON(w, apperr.HTTPStatus(err), Envelope{
		Status:  "error",
		Message: apperr.Message(err),
	})
}

// decodeJSON decodes the request body into dst, reporting malformed bodies
// as validation errors.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}
