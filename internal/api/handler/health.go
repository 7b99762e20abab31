package handler

import (
	"net/http"

	"segstudio/internal/api/response"
)

// HealthCheck reports liveness.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}
