package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/rolegate/backend/internal/apperrors"
	"github.com/rolegate/backend/internal/db"
	"github.com/rolegate/backend/internal/models"
	"github.com/rolegate/backend/internal/repositories"
	"github.com/rolegate/backend/libs/auth/password"
	"github.com/rolegate/backend/libs/auth/service"
	"github.com/rolegate/backend/libs/metrics"
	"go.uber.org/zap"
)

// signinLookupID is the statement id reported by the sign-in email lookup.
// A SELECT never produces an insert id, so sessions are bound to 0 rather than the user's row id.
const signinLookupID = 0

// authService implements AuthService
type authService struct {
	tx             Transactor
	userRepo       UserRepository
	roleRepo       RoleRepository
	tokenGenerator *service.TokenGenerator
	logger         *zap.Logger
	secretKey      string
}

// NewAuthService creates a new auth service
func NewAuthService(
	tx Transactor,
	userRepo UserRepository,
	roleRepo RoleRepository,
	tokenGenerator *service.TokenGenerator,
	logger *zap.Logger,
	secretKey string,
) *authService {
	return &authService{
		tx:             tx,
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		tokenGenerator: tokenGenerator,
		logger:         logger,
		secretKey:      secretKey,
	}
}

// Signup validates and registers a new user with a hashed password
func (s *authService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	if err := validateRequired(req); err != nil {
		return nil, err
	}

	user := &models.User{
		RoleID:    req.RoleID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}

	err := s.tx.WithinTx(ctx, func(q db.Querier) error {
		roleActive, err := s.roleRepo.ExistsActive(ctx, q, req.RoleID)
		if err != nil {
			return err
		}
		if !roleActive {
			return apperrors.Validation("Role id is invalid, please provide a valid role id")
		}

		if !isValidEmail(req.Email) {
			return apperrors.Validation("The format of the email is invalid")
		}

		taken, err := s.userRepo.ExistsByEmail(ctx, q, req.Email)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Conflict("User has already registered with this email address, try with a different email")
		}

		if !isValidPassword(req.Password) {
			return apperrors.Validation("Password %s", passwordPolicy)
		}

		user.PasswordHash, err = password.Hash(req.Password)
		if err != nil {
			return err
		}

		return s.userRepo.Create(ctx, q, user)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", zap.Int("userId", user.ID), zap.Int("roleId", user.RoleID))
	return user, nil
}

// Signin verifies credentials and issues an access/refresh token pair
func (s *authService) Signin(ctx context.Context, req *models.SigninRequest) (*models.SigninResponse, error) {
	switch {
	case req.Email == "" && req.Password == "":
		return nil, apperrors.Validation("Please provide required data: email, password")
	case req.Email == "":
		return nil, apperrors.Validation("Email is required")
	case req.Password == "":
		return nil, apperrors.Validation("Password is required")
	}

	var user *models.User
	err := s.tx.WithinTx(ctx, func(q db.Querier) error {
		var err error
		user, err = s.userRepo.GetByEmail(ctx, q, req.Email)
		return err
	})
	if errors.Is(err, repositories.ErrNotFound) {
		metrics.SigninsTotal.WithLabelValues("not_found").Inc()
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}

	ok, err := password.Verify(user.PasswordHash, req.Password)
	if err != nil {
		s.logger.Error("failed to verify password", zap.Error(err), zap.Int("userId", user.ID))
		return nil, err
	}
	if !ok {
		metrics.SigninsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, apperrors.InvalidCredentials("Invalid credentials")
	}

	accessToken, refreshToken, err := s.tokenGenerator.GenerateTokens(s.subject(signinLookupID))
	if err != nil {
		s.logger.Error("failed to generate tokens", zap.Error(err))
		return nil, err
	}

	metrics.SigninsTotal.WithLabelValues("success").Inc()
	return &models.SigninResponse{
		ID:           signinLookupID,
		Email:        req.Email,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh issues a new access token for the subject of a valid refresh token
func (s *authService) Refresh(ctx context.Context, req *models.RefreshRequest) (string, error) {
	if req.RefreshToken == "" {
		return "", apperrors.Validation("Refresh token is required")
	}

	subject, err := s.tokenGenerator.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.logger.Debug("refresh token rejected", zap.Error(err))
		return "", apperrors.Validation("Invalid refresh token")
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(subject)
	if err != nil {
		s.logger.Error("failed to generate access token", zap.Error(err))
		return "", err
	}

	return accessToken, nil
}

func (s *authService) subject(id int) string {
	return s.secretKey + "/" + strconv.Itoa(id)
}
