package handlers

import "net/http"

// Health reports liveness in the standard response envelope.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, "OK", struct{}{})
}
