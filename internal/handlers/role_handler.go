package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rolegate/backend/internal/models"
	"github.com/rolegate/backend/libs/handlers"
	"go.uber.org/zap"
)

// RoleService is the interface that wraps methods for role business logic.
type RoleService interface {
	// Method Create validates a role name and module list and stores a new active role.
	//
	// "req" parameter contains the role name and its access modules; duplicate modules are collapsed.
	//
	// If either field is empty, or some other error occurs, the error will be returned together with 0.
	Create(ctx context.Context, req *models.CreateRoleRequest) (int, error)
	// Method Get returns an active role.
	//
	// If the role does not exist or is inactive, a not found error will be returned together with "nil" value.
	Get(ctx context.Context, id int) (*models.Role, error)
	// Method List returns every active role, newest first.
	List(ctx context.Context) ([]models.Role, error)
	// Method Update changes the name and/or the module set of a role.
	//
	// "req" parameter fields that are empty keep the stored values.
	//
	// If the role does not exist, a not found error will be returned.
	Update(ctx context.Context, id int, req *models.UpdateRoleRequest) error
	// Method SoftDelete deactivates an active role.
	//
	// If the role does not exist or is already inactive, a not found error will be returned.
	SoftDelete(ctx context.Context, id int) error
}

// RoleHandler handles role-related HTTP requests
type RoleHandler struct {
	handlers.BaseHandler
	roleService RoleService
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roleService RoleService, logger *zap.Logger) *RoleHandler {
	return &RoleHandler{
		BaseHandler: handlers.BaseHandler{Logger: logger},
		roleService: roleService,
	}
}

// RegisterRoutes registers all role handler routes
func (h *RoleHandler) RegisterRoutes(r chi.Router) {
	r.Post("/create-role", h.CreateRole)
	r.Get("/get-role/{id}", h.GetRole)
	r.Get("/list-role-module", h.ListRoles)
	r.Patch("/role-update/{id}", h.UpdateRole)
	r.Delete("/role-delete/{id}", h.DeleteRole)
}

// CreateRole handles POST /create-role
// @Summary Create a role
// @Description Create an active role with a de-duplicated set of access modules
// @Tags roles
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CreateRoleRequest true "Role name and access modules"
// @Success 201 {object} map[string]interface{} "Role created successfully"
// @Failure 400 {object} map[string]string "Missing role name or access modules"
// @Router /create-role [post]
func (h *RoleHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoleRequest
	if !decodeBody(&h.BaseHandler, w, r, &req) {
		return
	}

	id, err := h.roleService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, r, err)
		return
	}

	h.RespondMessage(w, http.StatusCreated, "Role created successfully", map[string]any{"role_id": id})
}

// GetRole handles GET /get-role/{id}
// @Summary Get a role
// @Description Get an active role by ID
// @Tags roles
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Role ID"
// @Success 200 {object} map[string]models.Role
// @Failure 400 {object} map[string]string "Invalid role ID"
// @Failure 404 {object} map[string]string "Role not found"
// @Router /get-role/{id} [get]
func (h *RoleHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(&h.BaseHandler, w, r, "id", "invalid role ID")
	if !ok {
		return
	}

	role, err := h.roleService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]any{"role": role})
}

// ListRoles handles GET /list-role-module
// @Summary List roles
// @Description List active roles, newest first
// @Tags roles
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string][]models.Role
// @Router /list-role-module [get]
func (h *RoleHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roleService.List(r.Context())
	if err != nil {
		respondServiceError(&h.BaseHandler, w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]any{"role_modules": roles})
}

// UpdateRole handles PATCH /role-update/{id}
// @Summary Update a role
// @Description Update the name and/or access modules of a role; empty fields keep stored values
// @Tags roles
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Role ID"
// @Param request body models.UpdateRoleRequest true "Fields to change"
// @Success 200 {object} map[string]string "Role updated successfully"
// @Failure 404 {object} map[string]string "Role not found"
// @Router /role-update/{id} [patch]
func (h *RoleHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(&h.BaseHandler, w, r, "id", "invalid role ID")
	if !ok {
		return
	}

	var req models.UpdateRoleRequest
	if !decodeBody(&h.BaseHandler, w, r, &req) {
		return
	}

	if err := h.roleService.Update(r.Context(), id, &req); err != nil {
		respondServiceError(&h.BaseHandler, w, r, err)
		return
	}

	h.RespondMessage(w, http.StatusOK, "Role updated successfully", nil)
}

// DeleteRole handles DELETE /role-delete/{id}
// @Summary Delete a role
// @Description Soft-delete an active role
// @Tags roles
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Role ID"
// @Success 200 {object} map[string]string "Role deleted successfully"
// @Failure 404 {object} map[string]string "Role not found"
// @Router /role-delete/{id} [delete]
func (h *RoleHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(&h.BaseHandler, w, r, "id", "invalid role ID")
	if !ok {
		return
	}

	if err := h.roleService.SoftDelete(r.Context(), id); err != nil {
		respondServiceError(&h.BaseHandler, w, r, err)
		return
	}

	h.RespondMessage(w, http.StatusOK, "Role deleted successfully", nil)
}
