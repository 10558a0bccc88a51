package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rolegate/backend/internal/db"
	"github.com/rolegate/backend/internal/models"
	"go.uber.org/zap"
)

// roleRepository implements RoleRepository
type roleRepository struct {
	logger *zap.Logger
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(logger *zap.Logger) *roleRepository {
	return &roleRepository{
		logger: logger,
	}
}

// Create inserts a new active role and sets its ID
func (r *roleRepository) Create(ctx context.Context, q db.Querier, role *models.Role) error {
	query := `
		INSERT INTO tbl_role (roleName, accessModules)
		VALUES (?, ?)
	`

	result, err := q.ExecContext(ctx, query, role.Name, role.AccessModules)
	if err != nil {
		r.logger.Error("failed to create role", zap.Error(err))
		return fmt.Errorf("failed to create role: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	role.ID = int(id)
	role.Active = true
	return nil
}

// GetActiveByID retrieves a role only when it is active
func (r *roleRepository) GetActiveByID(ctx context.Context, q db.Querier, id int) (*models.Role, error) {
	query := `
		SELECT id, roleName, accessModules, active
		FROM tbl_role
		WHERE id = ? AND active = 1
	`
	return r.getOne(ctx, q, query, id)
}

// GetByID retrieves a role regardless of its active flag
func (r *roleRepository) GetByID(ctx context.Context, q db.Querier, id int) (*models.Role, error) {
	query := `
		SELECT id, roleName, accessModules, active
		FROM tbl_role
		WHERE id = ?
	`
	return r.getOne(ctx, q, query, id)
}

func (r *roleRepository) getOne(ctx context.Context, q db.Querier, query string, id int) (*models.Role, error) {
	role := &models.Role{}
	err := q.QueryRowContext(ctx, query, id).Scan(
		&role.ID,
		&role.Name,
		&role.AccessModules,
		&role.Active,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get role", zap.Error(err), zap.Int("roleId", id))
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	return role, nil
}

// ExistsActive checks if an active role with the given ID exists
func (r *roleRepository) ExistsActive(ctx context.Context, q db.Querier, id int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM tbl_role WHERE id = ? AND active = 1)`

	var exists bool
	if err := q.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		r.logger.Error("failed to check role existence", zap.Error(err), zap.Int("roleId", id))
		return false, fmt.Errorf("failed to check role existence: %w", err)
	}

	return exists, nil
}

// ListActive retrieves all active roles, newest first
func (r *roleRepository) ListActive(ctx context.Context, q db.Querier) ([]models.Role, error) {
	query := `
		SELECT id, roleName, accessModules, active
		FROM tbl_role
		WHERE active = 1
		ORDER BY id DESC
	`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to query roles", zap.Error(err))
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	roles := make([]models.Role, 0)
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.AccessModules, &role.Active); err != nil {
			r.logger.Error("failed to scan role", zap.Error(err))
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return roles, nil
}

// Update overwrites the name and module set of a role
func (r *roleRepository) Update(ctx context.Context, q db.Querier, role *models.Role) error {
	query := `
		UPDATE tbl_role
		SET roleName = ?, accessModules = ?
		WHERE id = ?
	`

	if _, err := q.ExecContext(ctx, query, role.Name, role.AccessModules, role.ID); err != nil {
		r.logger.Error("failed to update role", zap.Error(err), zap.Int("roleId", role.ID))
		return fmt.Errorf("failed to update role: %w", err)
	}

	return nil
}

// UpdateAccessModules overwrites the module set of a role
func (r *roleRepository) UpdateAccessModules(ctx context.Context, q db.Querier, id int, modules models.ModuleSet) error {
	query := `UPDATE tbl_role SET accessModules = ? WHERE id = ?`

	if _, err := q.ExecContext(ctx, query, modules, id); err != nil {
		r.logger.Error("failed to update access modules", zap.Error(err), zap.Int("roleId", id))
		return fmt.Errorf("failed to update access modules: %w", err)
	}

	return nil
}

// Deactivate soft-deletes a role
func (r *roleRepository) Deactivate(ctx context.Context, q db.Querier, id int) error {
	query := `UPDATE tbl_role SET active = 0 WHERE id = ?`

	if _, err := q.ExecContext(ctx, query, id); err != nil {
		r.logger.Error("failed to deactivate role", zap.Error(err), zap.Int("roleId", id))
		return fmt.Errorf("failed to deactivate role: %w", err)
	}

	return nil
}
