// Package response writes JSON bodies and JSON error envelopes.
package response

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the envelope returned for every non-2xx response.
type ErrorBody struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// Error writes an ErrorBody whose error field is the status text.
func Error(w http.ResponseWriter, status int, message string) {
	body, _ := json.Marshal(ErrorBody{
		Status:  status,
		Error:   http.StatusText(status),
		Message: message,
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// NoContent writes an empty 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
