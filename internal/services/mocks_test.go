package services

import (
	"context"

	"github.com/rolegate/backend/internal/db"
	"github.com/rolegate/backend/internal/models"
	"github.com/rolegate/backend/internal/repositories"
)

// mockTransactor runs fn directly and records how the unit of work ended
type mockTransactor struct {
	beginErr   error
	calls      int
	committed  bool
	rolledBack bool
}

func (m *mockTransactor) WithinTx(ctx context.Context, fn func(q db.Querier) error) error {
	m.calls++
	if m.beginErr != nil {
		return m.beginErr
	}
	if err := fn(nil); err != nil {
		m.rolledBack = true
		return err
	}
	m.committed = true
	return nil
}

// mockRoleRepository is a mock implementation of RoleRepository backed by a map
type mockRoleRepository struct {
	roles   map[int]*models.Role
	nextID  int
	err     error
	updated *models.Role
}

func newMockRoleRepository(roles ...*models.Role) *mockRoleRepository {
	m := &mockRoleRepository{roles: make(map[int]*models.Role), nextID: 1}
	for _, r := range roles {
		m.roles[r.ID] = r
		if r.ID >= m.nextID {
			m.nextID = r.ID + 1
		}
	}
	return m
}

func (m *mockRoleRepository) Create(ctx context.Context, q db.Querier, role *models.Role) error {
	if m.err != nil {
		return m.err
	}
	role.ID = m.nextID
	role.Active = true
	m.nextID++
	m.roles[role.ID] = role
	return nil
}

func (m *mockRoleRepository) GetActiveByID(ctx context.Context, q db.Querier, id int) (*models.Role, error) {
	if m.err != nil {
		return nil, m.err
	}
	role, ok := m.roles[id]
	if !ok || !role.Active {
		return nil, repositories.ErrNotFound
	}
	copied := *role
	copied.AccessModules = models.NewModuleSet(role.AccessModules.Slice()...)
	return &copied, nil
}

func (m *mockRoleRepository) GetByID(ctx context.Context, q db.Querier, id int) (*models.Role, error) {
	if m.err != nil {
		return nil, m.err
	}
	role, ok := m.roles[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *role
	return &copied, nil
}

func (m *mockRoleRepository) ExistsActive(ctx context.Context, q db.Querier, id int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	role, ok := m.roles[id]
	return ok && role.Active, nil
}

func (m *mockRoleRepository) ListActive(ctx context.Context, q db.Querier) ([]models.Role, error) {
	if m.err != nil {
		return nil, m.err
	}
	roles := make([]models.Role, 0)
	for id := m.nextID - 1; id > 0; id-- {
		if role, ok := m.roles[id]; ok && role.Active {
			roles = append(roles, *role)
		}
	}
	return roles, nil
}

func (m *mockRoleRepository) Update(ctx context.Context, q db.Querier, role *models.Role) error {
	if m.err != nil {
		return m.err
	}
	m.updated = role
	m.roles[role.ID] = role
	return nil
}

func (m *mockRoleRepository) UpdateAccessModules(ctx context.Context, q db.Querier, id int, modules models.ModuleSet) error {
	if m.err != nil {
		return m.err
	}
	m.roles[id].AccessModules = modules
	return nil
}

func (m *mockRoleRepository) Deactivate(ctx context.Context, q db.Querier, id int) error {
	if m.err != nil {
		return m.err
	}
	m.roles[id].Active = false
	return nil
}

// userUpdate records one call to mockUserRepository.Update
type userUpdate struct {
	id     int
	fields models.UserFields
}

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	user          *models.User
	err           error
	emailTaken    bool
	existingIDs   map[int]bool
	list          []models.UserListItem
	lastSearch    string
	updates       []userUpdate
	created       *models.User
	deleteErr     error
	modules       models.ModuleSet
	getModulesErr error
}

func (m *mockUserRepository) Create(ctx context.Context, q db.Querier, user *models.User) error {
	if m.err != nil {
		return m.err
	}
	user.ID = 1
	m.created = user
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, q db.Querier, email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.user == nil || m.user.Email != email {
		return nil, repositories.ErrNotFound
	}
	return m.user, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, q db.Querier, email string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.emailTaken, nil
}

func (m *mockUserRepository) ExistsByID(ctx context.Context, q db.Querier, id int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.existingIDs[id], nil
}

func (m *mockUserRepository) List(ctx context.Context, q db.Querier, search string) ([]models.UserListItem, error) {
	m.lastSearch = search
	if m.err != nil {
		return nil, m.err
	}
	return m.list, nil
}

func (m *mockUserRepository) Update(ctx context.Context, q db.Querier, id int, fields models.UserFields) error {
	if m.err != nil {
		return m.err
	}
	m.updates = append(m.updates, userUpdate{id: id, fields: fields})
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, q db.Querier, id int) error {
	return m.deleteErr
}

func (m *mockUserRepository) GetRoleModules(ctx context.Context, q db.Querier, userID int) (models.ModuleSet, error) {
	if m.getModulesErr != nil {
		return nil, m.getModulesErr
	}
	return m.modules, nil
}
