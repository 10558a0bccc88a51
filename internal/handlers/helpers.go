package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rolegate/backend/internal/apperrors"
	"github.com/rolegate/backend/libs/handlers"
	"github.com/rolegate/backend/libs/request"
	"go.uber.org/zap"
)

// respondServiceError writes err with the status of its kind.
// Domain failures are logged at info level, anything else at error level.
func respondServiceError(h *handlers.BaseHandler, w http.ResponseWriter, r *http.Request, err error) {
	if apperrors.KindOf(err) == apperrors.KindInternal {
		h.Logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		h.Logger.Info("request rejected", zap.String("path", r.URL.Path), zap.String("reason", err.Error()))
	}
	h.RespondError(w, apperrors.Status(err), err.Error())
}

// decodeBody decodes the request body into dst and answers 400 on failure
func decodeBody(h *handlers.BaseHandler, w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := request.Decode(r, dst); err != nil {
		h.Logger.Debug("failed to decode request body", zap.Error(err))
		h.RespondError(w, http.StatusBadRequest, request.ErrInvalidBody.Error())
		return false
	}
	return true
}

// idParam parses a numeric URL parameter and answers 400 with message when it is not a number
func idParam(h *handlers.BaseHandler, w http.ResponseWriter, r *http.Request, name, message string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, message)
		return 0, false
	}
	return id, true
}
