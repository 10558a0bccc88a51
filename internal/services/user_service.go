package services

import (
	"context"
	"errors"

	"github.com/rolegate/backend/internal/apperrors"
	"github.com/rolegate/backend/internal/db"
	"github.com/rolegate/backend/internal/models"
	"github.com/rolegate/backend/internal/repositories"
	"github.com/rolegate/backend/libs/auth/password"
	"github.com/rolegate/backend/libs/metrics"
	"go.uber.org/zap"
)

// userService implements UserService
type userService struct {
	tx       Transactor
	userRepo UserRepository
	roleRepo RoleRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(tx Transactor, userRepo UserRepository, roleRepo RoleRepository, logger *zap.Logger) *userService {
	return &userService{
		tx:       tx,
		userRepo: userRepo,
		roleRepo: roleRepo,
		logger:   logger,
	}
}

// List returns users whose role is active, filtered by search when set
func (s *userService) List(ctx context.Context, search string) ([]models.UserListItem, error) {
	var users []models.UserListItem
	err := s.tx.WithinTx(ctx, func(q db.Querier) error {
		var err error
		users, err = s.userRepo.List(ctx, q, search)
		return err
	})
	if err != nil {
		return nil, err
	}

	return users, nil
}

// BatchUpdate applies every patch in one transaction.
// The first invalid record aborts the batch and nothing is written.
func (s *userService) BatchUpdate(ctx context.Context, req *models.BatchUpdateUsersRequest) error {
	if len(req.Users) == 0 {
		return apperrors.Validation("Please provide a list of users with required data")
	}

	err := s.tx.WithinTx(ctx, func(q db.Querier) error {
		for _, patch := range req.Users {
			if err := s.applyPatch(ctx, q, patch); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("users updated", zap.Int("count", len(req.Users)))
	return nil
}

func (s *userService) applyPatch(ctx context.Context, q db.Querier, patch models.UserPatch) error {
	if patch.UserID == 0 {
		return apperrors.Validation("User ID is required for each user")
	}

	exists, err := s.userRepo.ExistsByID(ctx, q, patch.UserID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFound("User with id %d not found", patch.UserID)
	}

	var fields models.UserFields

	if patch.RoleID != nil && *patch.RoleID != 0 {
		roleActive, err := s.roleRepo.ExistsActive(ctx, q, *patch.RoleID)
		if err != nil {
			return err
		}
		if !roleActive {
			return apperrors.Validation("Role id %d is invalid for user with id %d, please provide a valid role id", *patch.RoleID, patch.UserID)
		}
		fields.RoleID = patch.RoleID
	}

	if isSet(patch.FirstName) {
		fields.FirstName = patch.FirstName
	}
	if isSet(patch.LastName) {
		fields.LastName = patch.LastName
	}

	// Email uniqueness is only enforced at sign-up
	if isSet(patch.Email) {
		if !isValidEmail(*patch.Email) {
			return apperrors.Validation("The email format is invalid for user with id %d", patch.UserID)
		}
		fields.Email = patch.Email
	}

	if isSet(patch.Password) {
		if !isValidPassword(*patch.Password) {
			return apperrors.Validation("Password for user with id %d %s", patch.UserID, passwordPolicy)
		}
		hash, err := password.Hash(*patch.Password)
		if err != nil {
			return err
		}
		fields.PasswordHash = &hash
	}

	if fields.Empty() {
		return nil
	}

	return s.userRepo.Update(ctx, q, patch.UserID, fields)
}

// Delete removes a user
func (s *userService) Delete(ctx context.Context, id int) error {
	return s.tx.WithinTx(ctx, func(q db.Querier) error {
		err := s.userRepo.Delete(ctx, q, id)
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("User not found")
		}
		return err
	})
}

// HasAccess reports whether the user's active role grants module
func (s *userService) HasAccess(ctx context.Context, userID int, module string) (bool, error) {
	if module == "" {
		return false, apperrors.Validation("Module is required")
	}

	var modules models.ModuleSet
	err := s.tx.WithinTx(ctx, func(q db.Querier) error {
		var err error
		modules, err = s.userRepo.GetRoleModules(ctx, q, userID)
		return err
	})
	if errors.Is(err, repositories.ErrNotFound) {
		metrics.AccessChecksTotal.WithLabelValues("not_found").Inc()
		return false, apperrors.NotFound("User or role not found")
	}
	if err != nil {
		return false, err
	}

	granted := modules.Contains(module)
	if granted {
		metrics.AccessChecksTotal.WithLabelValues("granted").Inc()
	} else {
		metrics.AccessChecksTotal.WithLabelValues("denied").Inc()
	}

	return granted, nil
}

func isSet(s *string) bool {
	return s != nil && *s != ""
}
