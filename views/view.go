package views

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Render writes v as the JSON response body
func Render(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
