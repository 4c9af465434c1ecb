package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

// requestError is returned from draft updates to carry the HTTP status back
// out of the session lock.
type requestError struct {
	status  int
	code    string
	details string
}

func (e *requestError) Error() string {
	return fmt.Sprintf("%s: %s", e.code, e.details)
}

func badRequest(code, details string) *requestError {
	return &requestError{status: http.StatusBadRequest, code: code, details: details}
}
