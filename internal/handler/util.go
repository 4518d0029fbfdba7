package handler

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the uniform error payload for every endpoint. The auth
// and rate-limit middleware emit the same shape, so clients parse one
// format regardless of where a request was rejected.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
