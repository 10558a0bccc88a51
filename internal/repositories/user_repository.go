package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rolegate/backend/internal/db"
	"github.com/rolegate/backend/internal/models"
	"go.uber.org/zap"
)

// userRepository implements UserRepository
type userRepository struct {
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(logger *zap.Logger) *userRepository {
	return &userRepository{
		logger: logger,
	}
}

// Create inserts a new user and sets its ID
func (r *userRepository) Create(ctx context.Context, q db.Querier, user *models.User) error {
	query := `
		INSERT INTO tbl_user (role_id, firstName, lastName, email, password)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := q.ExecContext(ctx, query, user.RoleID, user.FirstName, user.LastName, user.Email, user.PasswordHash)
	if err != nil {
		r.logger.Error("failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = int(id)
	return nil
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, q db.Querier, email string) (*models.User, error) {
	query := `
		SELECT id, role_id, firstName, lastName, email, password
		FROM tbl_user
		WHERE email = ?
		LIMIT 1
	`

	user := &models.User{}
	err := q.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.RoleID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user by email", zap.Error(err))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// ExistsByEmail checks if a user with the given email exists
func (r *userRepository) ExistsByEmail(ctx context.Context, q db.Querier, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM tbl_user WHERE email = ?)`

	var exists bool
	if err := q.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		r.logger.Error("failed to check email existence", zap.Error(err))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// ExistsByID checks if a user with the given ID exists
func (r *userRepository) ExistsByID(ctx context.Context, q db.Querier, id int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM tbl_user WHERE id = ?)`

	var exists bool
	if err := q.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		r.logger.Error("failed to check user existence", zap.Error(err), zap.Int("userId", id))
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return exists, nil
}

// List retrieves users whose role is active, newest first.
// A non-empty search matches first name, last name or email.
func (r *userRepository) List(ctx context.Context, q db.Querier, search string) ([]models.UserListItem, error) {
	var searchClause string
	args := []any{1}

	if search != "" {
		pattern := "%" + search + "%"
		searchClause = "AND (u.firstName LIKE ? OR u.lastName LIKE ? OR u.email LIKE ?)"
		args = append(args, pattern, pattern, pattern)
	}

	query := fmt.Sprintf(`
		SELECT u.id, u.firstName, u.lastName, u.email, r.roleName, r.accessModules
		FROM tbl_user u
		LEFT JOIN tbl_role r ON u.role_id = r.id
		WHERE r.active = ?
		%s
		ORDER BY u.id DESC
	`, searchClause)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query users", zap.Error(err))
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]models.UserListItem, 0)
	for rows.Next() {
		var user models.UserListItem
		if err := rows.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.RoleName, &user.AccessModules); err != nil {
			r.logger.Error("failed to scan user", zap.Error(err))
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

// Update writes the non-nil fields of a user
func (r *userRepository) Update(ctx context.Context, q db.Querier, id int, fields models.UserFields) error {
	var setParts []string
	var args []any

	if fields.RoleID != nil {
		setParts = append(setParts, "role_id = ?")
		args = append(args, *fields.RoleID)
	}
	if fields.FirstName != nil {
		setParts = append(setParts, "firstName = ?")
		args = append(args, *fields.FirstName)
	}
	if fields.LastName != nil {
		setParts = append(setParts, "lastName = ?")
		args = append(args, *fields.LastName)
	}
	if fields.Email != nil {
		setParts = append(setParts, "email = ?")
		args = append(args, *fields.Email)
	}
	if fields.PasswordHash != nil {
		setParts = append(setParts, "password = ?")
		args = append(args, *fields.PasswordHash)
	}

	if len(setParts) == 0 {
		return fmt.Errorf("no fields to update")
	}

	query := fmt.Sprintf(`
		UPDATE tbl_user
		SET %s
		WHERE id = ?
	`, strings.Join(setParts, ", "))

	args = append(args, id)

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("failed to update user", zap.Error(err), zap.Int("userId", id))
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// Delete removes a user row
func (r *userRepository) Delete(ctx context.Context, q db.Querier, id int) error {
	query := `DELETE FROM tbl_user WHERE id = ?`

	result, err := q.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("failed to delete user", zap.Error(err), zap.Int("userId", id))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetRoleModules resolves a user to the module set of its active role
func (r *userRepository) GetRoleModules(ctx context.Context, q db.Querier, userID int) (models.ModuleSet, error) {
	query := `
		SELECT r.accessModules
		FROM tbl_user u
		INNER JOIN tbl_role r ON u.role_id = r.id
		WHERE u.id = ? AND r.active = 1
	`

	var modules models.ModuleSet
	err := q.QueryRowContext(ctx, query, userID).Scan(&modules)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get role modules", zap.Error(err), zap.Int("userId", userID))
		return nil, fmt.Errorf("failed to get role modules: %w", err)
	}

	return modules, nil
}
