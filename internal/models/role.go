package models

// Role is a named set of access modules; inactive roles are soft-deleted
type Role struct {
	ID            int       `json:"id"`
	Name          string    `json:"roleName"`
	AccessModules ModuleSet `json:"accessModules"`
	Active        bool      `json:"active"`
}

// CreateRoleRequest represents a request to create a role
type CreateRoleRequest struct {
	RoleName      string   `json:"role_name"`
	AccessModules []string `json:"access_modules"`
}

// UpdateRoleRequest represents a partial role update.
// A nil or empty field keeps the stored value.
type UpdateRoleRequest struct {
	RoleName      *string  `json:"role_name,omitempty"`
	AccessModules []string `json:"access_modules,omitempty"`
}

// UpdateAccessModulesRequest replaces the whole module set of a role
type UpdateAccessModulesRequest struct {
	AccessModules []string `json:"accessModules"`
}

// RemoveAccessModuleRequest removes one module from a role
type RemoveAccessModuleRequest struct {
	Module string `json:"module"`
}
