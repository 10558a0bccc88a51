package services

import (
	"context"
	"errors"

	"github.com/rolegate/backend/internal/apperrors"
	"github.com/rolegate/backend/internal/db"
	"github.com/rolegate/backend/internal/models"
	"github.com/rolegate/backend/internal/repositories"
	"go.uber.org/zap"
)

// roleService implements RoleService
type roleService struct {
	tx       Transactor
	roleRepo RoleRepository
	logger   *zap.Logger
}

// NewRoleService creates a new role service
func NewRoleService(tx Transactor, roleRepo RoleRepository, logger *zap.Logger) *roleService {
	return &roleService{
		tx:       tx,
		roleRepo: roleRepo,
		logger:   logger,
	}
}

func roleNotFound() error {
	return apperrors.NotFound("Role not found")
}

// Create validates and inserts a new active role, returning its ID
func (s *roleService) Create(ctx context.Context, req *models.CreateRoleRequest) (int, error) {
	switch {
	case req.RoleName == "" && len(req.AccessModules) == 0:
		return 0, apperrors.Validation("Role name and access modules are required")
	case req.RoleName == "":
		return 0, apperrors.Validation("Role name is required")
	case len(req.AccessModules) == 0:
		return 0, apperrors.Validation("Access module is required")
	}

	role := &models.Role{
		Name:          req.RoleName,
		AccessModules: models.NewModuleSet(req.AccessModules...),
	}

	err := s.tx.WithinTx(ctx, func(q db.Querier) error {
		return s.roleRepo.Create(ctx, q, role)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("role created", zap.Int("roleId", role.ID), zap.Int("modules", len(role.AccessModules)))
	return role.ID, nil
}

// Get returns an active role
func (s *roleService) Get(ctx context.Context, id int) (*models.Role, error) {
	var role *models.Role
	err := s.tx.WithinTx(ctx, func(q db.Querier) error {
		var err error
		role, err = s.roleRepo.GetActiveByID(ctx, q, id)
		if errors.Is(err, repositories.ErrNotFound) {
			return roleNotFound()
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return role, nil
}

// List returns all active roles, newest first
func (s *roleService) List(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	err := s.tx.WithinTx(ctx, func(q db.Querier) error {
		var err error
		roles, err = s.roleRepo.ListActive(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}

	return roles, nil
}

// Update changes the name and/or module set of a role.
// The role is looked up without an active filter; empty fields keep the stored values.
func (s *roleService) Update(ctx context.Context, id int, req *models.UpdateRoleRequest) error {
	return s.tx.WithinTx(ctx, func(q db.Querier) error {
		role, err := s.roleRepo.GetByID(ctx, q, id)
		if errors.Is(err, repositories.ErrNotFound) {
			return roleNotFound()
		}
		if err != nil {
			return err
		}

		if req.RoleName != nil && *req.RoleName != "" {
			role.Name = *req.RoleName
		}
		if len(req.AccessModules) > 0 {
			role.AccessModules = models.NewModuleSet(req.AccessModules...)
		}

		return s.roleRepo.Update(ctx, q, role)
	})
}

// SoftDelete deactivates an active role.
// Users that reference the role are left untouched.
func (s *roleService) SoftDelete(ctx context.Context, id int) error {
	return s.tx.WithinTx(ctx, func(q db.Querier) error {
		_, err := s.roleRepo.GetActiveByID(ctx, q, id)
		if errors.Is(err, repositories.ErrNotFound) {
			return roleNotFound()
		}
		if err != nil {
			return err
		}

		return s.roleRepo.Deactivate(ctx, q, id)
	})
}
