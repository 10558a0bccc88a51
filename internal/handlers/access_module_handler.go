package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rolegate/backend/internal/models"
	"github.com/rolegate/backend/libs/handlers"
	"go.uber.org/zap"
)

// AccessModuleService is the interface that wraps methods for editing the module set of a role.
type AccessModuleService interface {
	// Method UpdateAccessModules replaces the module set of an active role.
	//
	// If modules is empty, or the role is missing or inactive, the error will be returned together with "nil" value.
	UpdateAccessModules(ctx context.Context, roleID int, modules []string) (models.ModuleSet, error)
	// Method RemoveAccessModule removes one module from an active role and returns the remaining set.
	//
	// If the module is not granted to the role, a not found error will be returned and the set is unchanged.
	RemoveAccessModule(ctx context.Context, roleID int, module string) (models.ModuleSet, error)
}

// AccessModuleHandler handles access module HTTP requests
type AccessModuleHandler struct {
	handlers.BaseHandler
	accessModuleService AccessModuleService
}

// NewAccessModuleHandler creates a new access module handler
func NewAccessModuleHandler(accessModuleService AccessModuleService, logger *zap.Logger) *AccessModuleHandler {
	return &AccessModuleHandler{
		BaseHandler:         handlers.BaseHandler{Logger: logger},
		accessModuleService: accessModuleService,
	}
}

// RegisterRoutes registers all access module handler routes
func (h *AccessModuleHandler) RegisterRoutes(r chi.Router) {
	r.Patch("/access-update-modules/{role_id}", h.UpdateAccessModules)
	r.Patch("/access-remove-module/{role_id}", h.RemoveAccessModule)
}

// UpdateAccessModules handles PATCH /access-update-modules/{role_id}
// @Summary Replace access modules
// @Description Replace the whole module set of an active role
// @Tags access-modules
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security ApiKeyAuth
// @Param role_id path int true "Role ID"
// @Param request body models.UpdateAccessModulesRequest true "New module list"
// @Success 200 {object} map[string]interface{} "Access modules updated successfully"
// @Failure 400 {object} map[string]string "Access modules are required"
// @Failure 404 {object} map[string]string "Role not found"
// @Router /access-update-modules/{role_id} [patch]
func (h *AccessModuleHandler) UpdateAccessModules(w http.ResponseWriter, r *http.Request) {
	roleID, ok := idParam(&h.BaseHandler, w, r, "role_id", "invalid role ID")
	if !ok {
		return
	}

	var req models.UpdateAccessModulesRequest
	if !decodeBody(&h.BaseHandler, w, r, &req) {
		return
	}

	modules, err := h.accessModuleService.UpdateAccessModules(r.Context(), roleID, req.AccessModules)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, r, err)
		return
	}

	h.RespondMessage(w, http.StatusOK, "Access modules updated successfully", map[string]any{"modules": modules})
}

// RemoveAccessModule handles PATCH /access-remove-module/{role_id}
// @Summary Remove an access module
// @Description Remove one module from an active role
// @Tags access-modules
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param role_id path int true "Role ID"
// @Param request body models.RemoveAccessModuleRequest true "Module to remove"
// @Success 200 {object} map[string]interface{} "Module removed successfully"
// @Failure 400 {object} map[string]string "Module to remove is required"
// @Failure 404 {object} map[string]string "Role or module not found"
// @Router /access-remove-module/{role_id} [patch]
func (h *AccessModuleHandler) RemoveAccessModule(w http.ResponseWriter, r *http.Request) {
	roleID, ok := idParam(&h.BaseHandler, w, r, "role_id", "invalid role ID")
	if !ok {
		return
	}

	var req models.RemoveAccessModuleRequest
	if !decodeBody(&h.BaseHandler, w, r, &req) {
		return
	}

	modules, err := h.accessModuleService.RemoveAccessModule(r.Context(), roleID, req.Module)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, r, err)
		return
	}

	h.RespondMessage(w, http.StatusOK, "Module removed successfully", map[string]any{"modules": modules})
}
