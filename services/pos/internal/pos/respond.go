package pos

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	Data  any    `json:"data,omitempty"`
	Meta  any    `json:"meta,omitempty"`
	Error string `json:"error,omitempty"`
}

// Respond writes data wrapped in the standard envelope.
func Respond(w http.ResponseWriter, status int, data any, meta any) {
	writeJSON(w, status, envelope{Data: data, Meta: meta})
}

func RespondError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
