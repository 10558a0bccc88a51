package services

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rolegate/backend/internal/apperrors"
	"github.com/rolegate/backend/internal/models"
	"github.com/rolegate/backend/internal/repositories"
	"github.com/rolegate/backend/libs/auth/password"
	"github.com/rolegate/backend/libs/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupUserService(userRepo *mockUserRepository) (*userService, *mockTransactor) {
	roleRepo := newMockRoleRepository(
		&models.Role{ID: 1, Name: "admin", Active: true},
		&models.Role{ID: 2, Name: "old", Active: false},
	)
	tx := &mockTransactor{}
	return NewUserService(tx, userRepo, roleRepo, zap.NewNop()), tx
}

func TestUserService_List(t *testing.T) {
	userRepo := &mockUserRepository{
		list: []models.UserListItem{{ID: 2, FirstName: "Grace"}, {ID: 1, FirstName: "Ada"}},
	}
	svc, _ := setupUserService(userRepo)

	users, err := svc.List(context.Background(), "a")

	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "a", userRepo.lastSearch)
}

func TestUserService_BatchUpdate(t *testing.T) {
	tests := []struct {
		name            string
		req             *models.BatchUpdateUsersRequest
		expectedError   string
		expectedKind    apperrors.Kind
		expectedUpdates int
	}{
		{
			name:          "empty list",
			req:           &models.BatchUpdateUsersRequest{},
			expectedError: "Please provide a list of users with required data",
			expectedKind:  apperrors.KindValidation,
		},
		{
			name:          "missing user id",
			req:           &models.BatchUpdateUsersRequest{Users: []models.UserPatch{{FirstName: strPtr("Ada")}}},
			expectedError: "User ID is required for each user",
			expectedKind:  apperrors.KindValidation,
		},
		{
			name:          "unknown user",
			req:           &models.BatchUpdateUsersRequest{Users: []models.UserPatch{{UserID: 77, FirstName: strPtr("Ada")}}},
			expectedError: "User with id 77 not found",
			expectedKind:  apperrors.KindNotFound,
		},
		{
			name:          "inactive role",
			req:           &models.BatchUpdateUsersRequest{Users: []models.UserPatch{{UserID: 1, RoleID: intPtr(2)}}},
			expectedError: "Role id 2 is invalid for user with id 1, please provide a valid role id",
			expectedKind:  apperrors.KindValidation,
		},
		{
			name:          "invalid email",
			req:           &models.BatchUpdateUsersRequest{Users: []models.UserPatch{{UserID: 1, Email: strPtr("not-an-email")}}},
			expectedError: "The email format is invalid for user with id 1",
			expectedKind:  apperrors.KindValidation,
		},
		{
			name:          "weak password",
			req:           &models.BatchUpdateUsersRequest{Users: []models.UserPatch{{UserID: 1, Password: strPtr("password")}}},
			expectedError: "Password for user with id 1 must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, one number, and one special character.",
			expectedKind:  apperrors.KindValidation,
		},
		{
			name: "records without changes are skipped",
			req: &models.BatchUpdateUsersRequest{Users: []models.UserPatch{
				{UserID: 1},
				{UserID: 2, FirstName: strPtr(""), RoleID: intPtr(0)},
				{UserID: 3, LastName: strPtr("Hopper")},
			}},
			expectedUpdates: 1,
		},
		{
			name: "every changed record is written",
			req: &models.BatchUpdateUsersRequest{Users: []models.UserPatch{
				{UserID: 1, RoleID: intPtr(1), FirstName: strPtr("Ada")},
				{UserID: 2, Email: strPtr("grace@example.com")},
			}},
			expectedUpdates: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := &mockUserRepository{existingIDs: map[int]bool{1: true, 2: true, 3: true}}
			svc, tx := setupUserService(userRepo)

			err := svc.BatchUpdate(context.Background(), tt.req)

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Equal(t, tt.expectedError, err.Error())
				assert.Equal(t, tt.expectedKind, apperrors.KindOf(err))
				assert.False(t, tx.committed)
				return
			}

			require.NoError(t, err)
			assert.True(t, tx.committed)
			assert.Len(t, userRepo.updates, tt.expectedUpdates)
		})
	}
}

func TestUserService_BatchUpdate_FailureAbortsWholeBatch(t *testing.T) {
	userRepo := &mockUserRepository{existingIDs: map[int]bool{1: true}}
	svc, tx := setupUserService(userRepo)

	err := svc.BatchUpdate(context.Background(), &models.BatchUpdateUsersRequest{Users: []models.UserPatch{
		{UserID: 1, FirstName: strPtr("Ada")},
		{UserID: 2, FirstName: strPtr("Grace")},
	}})

	require.Error(t, err)
	assert.Equal(t, "User with id 2 not found", err.Error())
	assert.Equal(t, 1, tx.calls)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

func TestUserService_BatchUpdate_HashesPassword(t *testing.T) {
	userRepo := &mockUserRepository{existingIDs: map[int]bool{1: true}}
	svc, _ := setupUserService(userRepo)

	err := svc.BatchUpdate(context.Background(), &models.BatchUpdateUsersRequest{Users: []models.UserPatch{
		{UserID: 1, Password: strPtr("Str0ng!Pass")},
	}})

	require.NoError(t, err)
	require.Len(t, userRepo.updates, 1)
	hash := userRepo.updates[0].fields.PasswordHash
	require.NotNil(t, hash)
	assert.NotEqual(t, "Str0ng!Pass", *hash)

	ok, err := password.Verify(*hash, "Str0ng!Pass")
	require.NoError(t, err)
	assert.True(t, ok)
}

// Email uniqueness is only checked at sign-up, so a batch may assign an email another user holds.
func TestUserService_BatchUpdate_DoesNotRecheckEmailUniqueness(t *testing.T) {
	userRepo := &mockUserRepository{existingIDs: map[int]bool{1: true}, emailTaken: true}
	svc, _ := setupUserService(userRepo)

	err := svc.BatchUpdate(context.Background(), &models.BatchUpdateUsersRequest{Users: []models.UserPatch{
		{UserID: 1, Email: strPtr("taken@example.com")},
	}})

	require.NoError(t, err)
	require.Len(t, userRepo.updates, 1)
	assert.Equal(t, "taken@example.com", *userRepo.updates[0].fields.Email)
}

func TestUserService_Delete(t *testing.T) {
	tests := []struct {
		name          string
		deleteErr     error
		expectedError string
	}{
		{name: "success"},
		{name: "not found", deleteErr: repositories.ErrNotFound, expectedError: "User not found"},
		{name: "database error", deleteErr: errors.New("database error"), expectedError: "database error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupUserService(&mockUserRepository{deleteErr: tt.deleteErr})

			err := svc.Delete(context.Background(), 1)

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Equal(t, tt.expectedError, err.Error())
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUserService_HasAccess(t *testing.T) {
	tests := []struct {
		name          string
		module        string
		userRepo      *mockUserRepository
		expected      bool
		expectedError string
		expectedKind  apperrors.Kind
		metricLabel   string
	}{
		{
			name:        "granted",
			module:      "users",
			userRepo:    &mockUserRepository{modules: models.NewModuleSet("users", "billing")},
			expected:    true,
			metricLabel: "granted",
		},
		{
			name:        "denied",
			module:      "reports",
			userRepo:    &mockUserRepository{modules: models.NewModuleSet("users")},
			expected:    false,
			metricLabel: "denied",
		},
		{
			name:          "module required",
			module:        "",
			userRepo:      &mockUserRepository{},
			expectedError: "Module is required",
			expectedKind:  apperrors.KindValidation,
		},
		{
			name:          "user or role missing",
			module:        "users",
			userRepo:      &mockUserRepository{getModulesErr: repositories.ErrNotFound},
			expectedError: "User or role not found",
			expectedKind:  apperrors.KindNotFound,
			metricLabel:   "not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupUserService(tt.userRepo)

			var before float64
			if tt.metricLabel != "" {
				before = testutil.ToFloat64(metrics.AccessChecksTotal.WithLabelValues(tt.metricLabel))
			}

			granted, err := svc.HasAccess(context.Background(), 5, tt.module)

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Equal(t, tt.expectedError, err.Error())
				assert.Equal(t, tt.expectedKind, apperrors.KindOf(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, granted)
			}

			if tt.metricLabel != "" {
				after := testutil.ToFloat64(metrics.AccessChecksTotal.WithLabelValues(tt.metricLabel))
				assert.Equal(t, before+1, after)
			}
		})
	}
}
