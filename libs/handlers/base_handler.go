package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// RespondMessage sends a {"message": ...} body merged with extra fields
func (h *BaseHandler) RespondMessage(w http.ResponseWriter, status int, message string, extra map[string]any) {
	body := make(map[string]any, len(extra)+1)
	for k, v := range extra {
		body[k] = v
	}
	body["message"] = message
	h.RespondJSON(w, status, body)
}

// MethodNotAllowed answers requests whose path exists under another method
func (h *BaseHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.RespondJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "Method not allowed"})
}

// NotFound answers requests for unknown paths
func (h *BaseHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.RespondError(w, http.StatusNotFound, "not found")
}
