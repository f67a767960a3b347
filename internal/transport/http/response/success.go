package response

import (
	"encoding/json"
	"net/http"
)

type Envelope struct {
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func OK(w http.ResponseWriter, data any, message string) {
	WriteJSON(w, http.StatusOK, Envelope{Data: data, Message: message})
}

func Created(w http.ResponseWriter, data any, message string) {
	WriteJSON(w, http.StatusCreated, Envelope{Data: data, Message: message})
}
