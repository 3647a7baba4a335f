package handlers

import (
	"encoding/json"
	"net/http"

	"task-manager/microservices/api-service/logging"
)

// Envelope is the body shape of every response that carries one: data is the
// payload on success and an empty object on errors.
type Envelope struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		data = struct{}{}
	}
	if err := json.NewEncoder(w).Encode(Envelope{Message: message, Data: data}); err != nil {
		logging.Logger.Errorf("Event ID: RESPONSE_ENCODE_FAILED, Description: Failed to encode response body: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, message, struct{}{})
}
