package response

import (
	"encoding/json"
	"net/http"

	"github.com/asandoval/fintrack-backend/pkg/logger"
)

// WriteSuccess encodes the payload as-is. Handlers own the response shape,
// including the success flag.
func (h *responseHandler) WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log := logger.FromContext(r.Context())
		log.Error("failed to encode success response", "error", err)
	}
}
