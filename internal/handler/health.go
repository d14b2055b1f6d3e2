package handler

import (
	"net/http"

	"atelier/internal/httputil"
)

// Health reports process liveness. It sits outside the auth middleware.
func Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
