package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rolegate/backend/internal/models"
	"github.com/rolegate/backend/libs/handlers"
	"go.uber.org/zap"
)

// UserService is the interface that wraps methods for user management and authorization checks.
type UserService interface {
	// Method List returns users whose role is active, newest first.
	//
	// "search" parameter filters by first name, last name or email when not empty.
	List(ctx context.Context, search string) ([]models.UserListItem, error)
	// Method BatchUpdate applies a list of partial user updates in one transaction.
	//
	// If any record is invalid, the error for that record will be returned and no record is written.
	BatchUpdate(ctx context.Context, req *models.BatchUpdateUsersRequest) error
	// Method Delete removes a user.
	//
	// If the user does not exist, a not found error will be returned.
	Delete(ctx context.Context, id int) error
	// Method HasAccess reports whether the user's active role grants module.
	//
	// If the user does not exist or its role is inactive, a not found error will be returned together with "false" value.
	HasAccess(ctx context.Context, userID int, module string) (bool, error)
}

// UserHandler handles user management HTTP requests
type UserHandler struct {
	handlers.BaseHandler
	userService UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: handlers.BaseHandler{Logger: logger},
		userService: userService,
	}
}

// RegisterRoutes registers all user handler routes
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/user-list", h.ListUsers)
	r.Patch("/user-update", h.UpdateUsers)
	r.Delete("/user-delete/{id}", h.DeleteUser)
	r.Get("/user-has-access/{id}", h.HasAccess)
}

// ListUsers handles GET /user-list
// @Summary List users
// @Description List users with an active role, optionally filtered by name or email
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param search query string false "Search by first name, last name or email"
// @Success 200 {object} map[string][]models.UserListItem
// @Router /user-list [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		respondServiceError(&h.BaseHandler, w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]any{"user_list": users})
}

// UpdateUsers handles PATCH /user-update
// @Summary Update users
// @Description Apply partial updates to several users in one transaction
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.BatchUpdateUsersRequest true "Users to update"
// @Success 200 {object} map[string]string "Users updated successfully"
// @Failure 400 {object} map[string]string "Invalid user data"
// @Failure 404 {object} map[string]string "User not found"
// @Router /user-update [patch]
func (h *UserHandler) UpdateUsers(w http.ResponseWriter, r *http.Request) {
	var req models.BatchUpdateUsersRequest
	if !decodeBody(&h.BaseHandler, w, r, &req) {
		return
	}

	if err := h.userService.BatchUpdate(r.Context(), &req); err != nil {
		respondServiceError(&h.BaseHandler, w, r, err)
		return
	}

	h.RespondMessage(w, http.StatusOK, "Users updated successfully", nil)
}

// DeleteUser handles DELETE /user-delete/{id}
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string "User deleted successfully"
// @Failure 404 {object} map[string]string "User not found"
// @Router /user-delete/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(&h.BaseHandler, w, r, "id", "invalid user ID")
	if !ok {
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		respondServiceError(&h.BaseHandler, w, r, err)
		return
	}

	h.RespondMessage(w, http.StatusOK, "User deleted successfully", nil)
}

// HasAccess handles GET /user-has-access/{id}
// @Summary Check module access
// @Description Check whether the user's active role grants a module. A denied check answers 404.
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User ID"
// @Param module query string true "Module name"
// @Success 200 {object} map[string]string "User has access to the module"
// @Failure 400 {object} map[string]string "Module is required"
// @Failure 404 {object} map[string]string "No access, or user or role not found"
// @Router /user-has-access/{id} [get]
func (h *UserHandler) HasAccess(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(&h.BaseHandler, w, r, "id", "invalid user ID")
	if !ok {
		return
	}

	module := r.URL.Query().Get("module")
	granted, err := h.userService.HasAccess(r.Context(), id, module)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, r, err)
		return
	}

	if !granted {
		h.RespondMessage(w, http.StatusNotFound, "User does not have access to the module", map[string]any{"module": module})
		return
	}

	h.RespondMessage(w, http.StatusOK, "User has access to the module", map[string]any{"module": module})
}
