package response

import (
	"encoding/json"
	"net/http"
)

// Envelope is the body shape every endpoint returns. Success responses
// carry the payload under "data"; failures carry a human-readable error.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, Envelope{Success: true, Data: data})
}

func Error(w http.ResponseWriter, status int, msg string) {
	write(w, status, Envelope{Success: false, Error: msg})
}

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
