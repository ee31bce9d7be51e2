// Package core holds the small HTTP request and response helpers shared by
// every handler module.
package core

import (
	"encoding/json"
	"net/http"
)

// JSON writes v as a JSON body with the given status. Encoding failures are
// ignored; by the time they can occur the status line is already on the wire.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Text writes a plain text body with the given status. Error paths use this
// so existing clients that match on exact message strings keep working.
func Text(w http.ResponseWriter, status int, msg string) {
	http.Error(w, msg, status)
}

// Message is the {"message": ...} envelope used by acknowledgement responses.
type Message struct {
	Message string `json:"message"`
}

// ValidationFailure is the 422 body for rejected input.
type ValidationFailure struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}
