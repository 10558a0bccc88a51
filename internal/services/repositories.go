package services

import (
	"context"

	"github.com/rolegate/backend/internal/db"
	"github.com/rolegate/backend/internal/models"
)

// Transactor is the interface that wraps the unit-of-work boundary.
//
// Method WithinTx runs fn inside one transaction and commits only when fn returns nil.
// Every repository call made through the passed Querier shares that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(q db.Querier) error) error
}

// RoleRepository is the interface that wraps methods for tbl_role data access
type RoleRepository interface {
	// Method Create inserts a new active role and sets its ID.
	//
	// "role" parameter is the role to insert; its AccessModules are stored as a JSON array.
	//
	// If some error occurs during role creation, the error will be returned.
	Create(ctx context.Context, q db.Querier, role *models.Role) error
	// Method GetActiveByID retrieves a role by ID only when it is active.
	//
	// If no active role with such ID exists, repositories.ErrNotFound will be returned together with "nil" value.
	GetActiveByID(ctx context.Context, q db.Querier, id int) (*models.Role, error)
	// Method GetByID retrieves a role by ID regardless of its active flag.
	//
	// If no role with such ID exists, repositories.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, q db.Querier, id int) (*models.Role, error)
	// Method ExistsActive checks if an active role with such ID exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsActive(ctx context.Context, q db.Querier, id int) (bool, error)
	// Method ListActive retrieves all active roles ordered by ID descending.
	ListActive(ctx context.Context, q db.Querier) ([]models.Role, error)
	// Method Update overwrites the name and module set of a role.
	Update(ctx context.Context, q db.Querier, role *models.Role) error
	// Method UpdateAccessModules overwrites the module set of a role.
	UpdateAccessModules(ctx context.Context, q db.Querier, id int, modules models.ModuleSet) error
	// Method Deactivate soft-deletes a role by clearing its active flag.
	Deactivate(ctx context.Context, q db.Querier, id int) error
}

// UserRepository is the interface that wraps methods for tbl_user data access
type UserRepository interface {
	// Method Create inserts a new user and sets its ID.
	//
	// "user" parameter must already carry the hashed password.
	Create(ctx context.Context, q db.Querier, user *models.User) error
	// Method GetByEmail retrieves a user by email.
	//
	// If user with such email does not exist, repositories.ErrNotFound will be returned together with "nil" value.
	GetByEmail(ctx context.Context, q db.Querier, email string) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByEmail(ctx context.Context, q db.Querier, email string) (bool, error)
	// Method ExistsByID checks if a user with such ID exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByID(ctx context.Context, q db.Querier, id int) (bool, error)
	// Method List retrieves users joined with their active role.
	//
	// "search" parameter filters by first name, last name or email when not empty.
	List(ctx context.Context, q db.Querier, search string) ([]models.UserListItem, error)
	// Method Update writes the non-nil fields of a user.
	Update(ctx context.Context, q db.Querier, id int, fields models.UserFields) error
	// Method Delete removes a user.
	//
	// If user with such ID does not exist, repositories.ErrNotFound will be returned.
	Delete(ctx context.Context, q db.Querier, id int) error
	// Method GetRoleModules resolves a user to the module set of its active role.
	//
	// If the user does not exist or its role is inactive, repositories.ErrNotFound will be returned together with "nil" value.
	GetRoleModules(ctx context.Context, q db.Querier, userID int) (models.ModuleSet, error)
}
