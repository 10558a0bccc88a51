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

// accessModuleService implements AccessModuleService
type accessModuleService struct {
	tx       Transactor
	roleRepo RoleRepository
	logger   *zap.Logger
}

// NewAccessModuleService creates a new access module service
func NewAccessModuleService(tx Transactor, roleRepo RoleRepository, logger *zap.Logger) *accessModuleService {
	return &accessModuleService{
		tx:       tx,
		roleRepo: roleRepo,
		logger:   logger,
	}
}

// UpdateAccessModules replaces the module set of an active role and returns the stored set
func (s *accessModuleService) UpdateAccessModules(ctx context.Context, roleID int, modules []string) (models.ModuleSet, error) {
	if len(modules) == 0 {
		return nil, apperrors.Validation("Access modules are required")
	}

	set := models.NewModuleSet(modules...)

	err := s.tx.WithinTx(ctx, func(q db.Querier) error {
		exists, err := s.roleRepo.ExistsActive(ctx, q, roleID)
		if err != nil {
			return err
		}
		if !exists {
			return roleNotFound()
		}

		return s.roleRepo.UpdateAccessModules(ctx, q, roleID, set)
	})
	if err != nil {
		return nil, err
	}

	return set, nil
}

// RemoveAccessModule removes one module from an active role and returns the remaining set.
// The set is left unchanged when the module is not granted.
func (s *accessModuleService) RemoveAccessModule(ctx context.Context, roleID int, module string) (models.ModuleSet, error) {
	if module == "" {
		return nil, apperrors.Validation("Module to remove is required")
	}

	var remaining models.ModuleSet
	err := s.tx.WithinTx(ctx, func(q db.Querier) error {
		role, err := s.roleRepo.GetActiveByID(ctx, q, roleID)
		if errors.Is(err, repositories.ErrNotFound) {
			return roleNotFound()
		}
		if err != nil {
			return err
		}

		if !role.AccessModules.Remove(module) {
			return apperrors.NotFound("Module not found in the access list")
		}

		remaining = role.AccessModules
		return s.roleRepo.UpdateAccessModules(ctx, q, roleID, remaining)
	})
	if err != nil {
		return nil, err
	}

	return remaining, nil
}
