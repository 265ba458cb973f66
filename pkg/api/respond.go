package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"convolog/pkg/convo"
)

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body with the given status code.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// statusFor maps the log's validation errors onto HTTP statuses:
// missing targets are 404, rejected input is 400.
func statusFor(err error) int {
	switch {
	case errors.Is(err, convo.ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, convo.ErrInvalidMessageType),
		errors.Is(err, convo.ErrInvalidThreadReference):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
