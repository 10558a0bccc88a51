package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rolegate/backend/internal/apperrors"
	"github.com/rolegate/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockRoleService is a mock implementation of RoleService
type mockRoleService struct {
	createReq *models.CreateRoleRequest
	updateReq *models.UpdateRoleRequest
	role      *models.Role
	roles     []models.Role
	err       error
}

func (m *mockRoleService) Create(ctx context.Context, req *models.CreateRoleRequest) (int, error) {
	m.createReq = req
	if m.err != nil {
		return 0, m.err
	}
	return 5, nil
}

func (m *mockRoleService) Get(ctx context.Context, id int) (*models.Role, error) {
	return m.role, m.err
}

func (m *mockRoleService) List(ctx context.Context) ([]models.Role, error) {
	return m.roles, m.err
}

func (m *mockRoleService) Update(ctx context.Context, id int, req *models.UpdateRoleRequest) error {
	m.updateReq = req
	return m.err
}

func (m *mockRoleService) SoftDelete(ctx context.Context, id int) error {
	return m.err
}

// mockAccessModuleService is a mock implementation of AccessModuleService
type mockAccessModuleService struct {
	modules models.ModuleSet
	err     error
}

func (m *mockAccessModuleService) UpdateAccessModules(ctx context.Context, roleID int, modules []string) (models.ModuleSet, error) {
	if m.err != nil {
		return nil, m.err
	}
	return models.NewModuleSet(modules...), nil
}

func (m *mockAccessModuleService) RemoveAccessModule(ctx context.Context, roleID int, module string) (models.ModuleSet, error) {
	return m.modules, m.err
}

// mockUserService is a mock implementation of UserService
type mockUserService struct {
	users      []models.UserListItem
	batchReq   *models.BatchUpdateUsersRequest
	granted    bool
	lastSearch string
	err        error
}

func (m *mockUserService) List(ctx context.Context, search string) ([]models.UserListItem, error) {
	m.lastSearch = search
	return m.users, m.err
}

func (m *mockUserService) BatchUpdate(ctx context.Context, req *models.BatchUpdateUsersRequest) error {
	m.batchReq = req
	return m.err
}

func (m *mockUserService) Delete(ctx context.Context, id int) error {
	return m.err
}

func (m *mockUserService) HasAccess(ctx context.Context, userID int, module string) (bool, error) {
	return m.granted, m.err
}

// mockAuthService is a mock implementation of AuthService
type mockAuthService struct {
	signupReq *models.SignupRequest
	user      *models.User
	signin    *models.SigninResponse
	token     string
	err       error
}

func (m *mockAuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	m.signupReq = req
	return m.user, m.err
}

func (m *mockAuthService) Signin(ctx context.Context, req *models.SigninRequest) (*models.SigninResponse, error) {
	return m.signin, m.err
}

func (m *mockAuthService) Refresh(ctx context.Context, req *models.RefreshRequest) (string, error) {
	return m.token, m.err
}

type routeRegistrar interface {
	RegisterRoutes(r chi.Router)
}

func newTestRouter(h routeRegistrar) chi.Router {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func doRequest(t *testing.T, router http.Handler, method, target, contentType, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), w.Body.String())
	return w, decoded
}

func TestRoleHandler(t *testing.T) {
	logger := zap.NewNop()

	t.Run("create from JSON", func(t *testing.T) {
		svc := &mockRoleService{}
		w, body := doRequest(t, newTestRouter(NewRoleHandler(svc, logger)), http.MethodPost, "/create-role",
			"application/json", `{"role_name":"admin","access_modules":["users","users"]}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "Role created successfully", body["message"])
		assert.Equal(t, float64(5), body["role_id"])
		assert.Equal(t, "admin", svc.createReq.RoleName)
	})

	t.Run("create from form", func(t *testing.T) {
		svc := &mockRoleService{}
		form := url.Values{"role_name": {"admin"}, "access_modules": {"users", "billing"}}
		w, _ := doRequest(t, newTestRouter(NewRoleHandler(svc, logger)), http.MethodPost, "/create-role",
			"application/x-www-form-urlencoded", form.Encode())

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, []string{"users", "billing"}, svc.createReq.AccessModules)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		w, body := doRequest(t, newTestRouter(NewRoleHandler(&mockRoleService{}, logger)), http.MethodPost, "/create-role",
			"application/json", `{"role_name":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid JSON format", body["error"])
	})

	t.Run("validation error", func(t *testing.T) {
		svc := &mockRoleService{err: apperrors.Validation("Role name is required")}
		w, body := doRequest(t, newTestRouter(NewRoleHandler(svc, logger)), http.MethodPost, "/create-role",
			"application/json", `{"access_modules":["users"]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Role name is required", body["error"])
	})

	t.Run("get", func(t *testing.T) {
		svc := &mockRoleService{role: &models.Role{ID: 3, Name: "admin", AccessModules: models.NewModuleSet("users"), Active: true}}
		w, body := doRequest(t, newTestRouter(NewRoleHandler(svc, logger)), http.MethodGet, "/get-role/3", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		role := body["role"].(map[string]any)
		assert.Equal(t, "admin", role["roleName"])
		assert.Equal(t, []any{"users"}, role["accessModules"])
	})

	t.Run("get not found", func(t *testing.T) {
		svc := &mockRoleService{err: apperrors.NotFound("Role not found")}
		w, body := doRequest(t, newTestRouter(NewRoleHandler(svc, logger)), http.MethodGet, "/get-role/3", "", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Role not found", body["error"])
	})

	t.Run("non-numeric id", func(t *testing.T) {
		w, body := doRequest(t, newTestRouter(NewRoleHandler(&mockRoleService{}, logger)), http.MethodGet, "/get-role/abc", "", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid role ID", body["error"])
	})

	t.Run("list", func(t *testing.T) {
		svc := &mockRoleService{roles: []models.Role{}}
		w, body := doRequest(t, newTestRouter(NewRoleHandler(svc, logger)), http.MethodGet, "/list-role-module", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []any{}, body["role_modules"])
	})

	t.Run("update", func(t *testing.T) {
		svc := &mockRoleService{}
		w, body := doRequest(t, newTestRouter(NewRoleHandler(svc, logger)), http.MethodPatch, "/role-update/2",
			"application/json", `{"role_name":"ops"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Role updated successfully", body["message"])
		require.NotNil(t, svc.updateReq.RoleName)
		assert.Equal(t, "ops", *svc.updateReq.RoleName)
		assert.Nil(t, svc.updateReq.AccessModules)
	})

	t.Run("delete", func(t *testing.T) {
		w, body := doRequest(t, newTestRouter(NewRoleHandler(&mockRoleService{}, logger)), http.MethodDelete, "/role-delete/2", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Role deleted successfully", body["message"])
	})

	t.Run("internal error answers 400", func(t *testing.T) {
		svc := &mockRoleService{err: errors.New("connection refused")}
		w, body := doRequest(t, newTestRouter(NewRoleHandler(svc, logger)), http.MethodDelete, "/role-delete/2", "", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "connection refused", body["error"])
	})
}

func TestAccessModuleHandler(t *testing.T) {
	logger := zap.NewNop()

	t.Run("update", func(t *testing.T) {
		router := newTestRouter(NewAccessModuleHandler(&mockAccessModuleService{}, logger))
		w, body := doRequest(t, router, http.MethodPatch, "/access-update-modules/1",
			"application/json", `{"accessModules":["b","a","b"]}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Access modules updated successfully", body["message"])
		assert.Equal(t, []any{"a", "b"}, body["modules"])
	})

	t.Run("remove", func(t *testing.T) {
		router := newTestRouter(NewAccessModuleHandler(&mockAccessModuleService{modules: models.NewModuleSet("users")}, logger))
		w, body := doRequest(t, router, http.MethodPatch, "/access-remove-module/1",
			"application/json", `{"module":"billing"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Module removed successfully", body["message"])
		assert.Equal(t, []any{"users"}, body["modules"])
	})

	t.Run("remove missing module", func(t *testing.T) {
		svc := &mockAccessModuleService{err: apperrors.NotFound("Module not found in the access list")}
		router := newTestRouter(NewAccessModuleHandler(svc, logger))
		w, body := doRequest(t, router, http.MethodPatch, "/access-remove-module/1",
			"application/json", `{"module":"reports"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Module not found in the access list", body["error"])
	})
}

func TestUserHandler(t *testing.T) {
	logger := zap.NewNop()

	t.Run("list passes search", func(t *testing.T) {
		svc := &mockUserService{users: []models.UserListItem{{ID: 1, FirstName: "Ada", RoleName: "admin", AccessModules: models.NewModuleSet("users")}}}
		w, body := doRequest(t, newTestRouter(NewUserHandler(svc, logger)), http.MethodGet, "/user-list?search=ada", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ada", svc.lastSearch)
		list := body["user_list"].([]any)
		require.Len(t, list, 1)
		assert.Equal(t, "Ada", list[0].(map[string]any)["firstName"])
	})

	t.Run("batch update", func(t *testing.T) {
		svc := &mockUserService{}
		w, body := doRequest(t, newTestRouter(NewUserHandler(svc, logger)), http.MethodPatch, "/user-update",
			"application/json", `{"users":[{"user_id":1,"firstname":"Ada"},{"user_id":2,"role_id":3}]}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Users updated successfully", body["message"])
		require.Len(t, svc.batchReq.Users, 2)
		assert.Equal(t, "Ada", *svc.batchReq.Users[0].FirstName)
		assert.Equal(t, 3, *svc.batchReq.Users[1].RoleID)
	})

	t.Run("batch update not found", func(t *testing.T) {
		svc := &mockUserService{err: apperrors.NotFound("User with id %d not found", 9)}
		w, body := doRequest(t, newTestRouter(NewUserHandler(svc, logger)), http.MethodPatch, "/user-update",
			"application/json", `{"users":[{"user_id":9,"firstname":"Ada"}]}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "User with id 9 not found", body["error"])
	})

	t.Run("delete", func(t *testing.T) {
		w, body := doRequest(t, newTestRouter(NewUserHandler(&mockUserService{}, logger)), http.MethodDelete, "/user-delete/4", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "User deleted successfully", body["message"])
	})

	t.Run("has access", func(t *testing.T) {
		svc := &mockUserService{granted: true}
		w, body := doRequest(t, newTestRouter(NewUserHandler(svc, logger)), http.MethodGet, "/user-has-access/4?module=users", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "User has access to the module", body["message"])
		assert.Equal(t, "users", body["module"])
	})

	// A denied check is reported with 404 and a message body, not an error body.
	t.Run("no access answers 404", func(t *testing.T) {
		svc := &mockUserService{granted: false}
		w, body := doRequest(t, newTestRouter(NewUserHandler(svc, logger)), http.MethodGet, "/user-has-access/4?module=reports", "", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "User does not have access to the module", body["message"])
		assert.Equal(t, "reports", body["module"])
		assert.NotContains(t, body, "error")
	})

	t.Run("user or role missing", func(t *testing.T) {
		svc := &mockUserService{err: apperrors.NotFound("User or role not found")}
		w, body := doRequest(t, newTestRouter(NewUserHandler(svc, logger)), http.MethodGet, "/user-has-access/4?module=users", "", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "User or role not found", body["error"])
	})
}

func TestAuthHandler(t *testing.T) {
	logger := zap.NewNop()

	t.Run("signup from form", func(t *testing.T) {
		svc := &mockAuthService{user: &models.User{ID: 1, RoleID: 2, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", PasswordHash: "secret-hash"}}
		form := url.Values{"role_id": {"2"}, "firstname": {"Ada"}, "lastname": {"Lovelace"}, "email": {"ada@example.com"}, "password": {"Str0ng!Pass"}}
		w, body := doRequest(t, newTestRouter(NewAuthHandler(svc, logger)), http.MethodPost, "/user-signup",
			"application/x-www-form-urlencoded", form.Encode())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "User create successfully", body["message"])
		assert.Equal(t, 2, svc.signupReq.RoleID)

		data := body["data"].(map[string]any)
		assert.Equal(t, "ada@example.com", data["email"])
		assert.Equal(t, float64(2), data["role_id"])
		assert.NotContains(t, data, "password")
		assert.NotContains(t, w.Body.String(), "secret-hash")
	})

	t.Run("signup conflict answers 404", func(t *testing.T) {
		svc := &mockAuthService{err: apperrors.Conflict("User has already registered with this email address, try with a different email")}
		w, _ := doRequest(t, newTestRouter(NewAuthHandler(svc, logger)), http.MethodPost, "/user-signup",
			"application/json", `{"role_id":1}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("signin", func(t *testing.T) {
		svc := &mockAuthService{signin: &models.SigninResponse{ID: 0, Email: "ada@example.com", AccessToken: "a", RefreshToken: "r"}}
		w, body := doRequest(t, newTestRouter(NewAuthHandler(svc, logger)), http.MethodPost, "/user-signin",
			"application/json", `{"email":"ada@example.com","password":"Str0ng!Pass"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "User signed in successfully", body["message"])
		data := body["data"].(map[string]any)
		assert.Equal(t, float64(0), data["id"])
		assert.Equal(t, "a", data["access_token"])
		assert.Equal(t, "r", data["refresh_token"])
	})

	t.Run("signin invalid credentials answers 400", func(t *testing.T) {
		svc := &mockAuthService{err: apperrors.InvalidCredentials("Invalid credentials")}
		w, body := doRequest(t, newTestRouter(NewAuthHandler(svc, logger)), http.MethodPost, "/user-signin",
			"application/json", `{"email":"ada@example.com","password":"nope"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid credentials", body["error"])
	})

	t.Run("refresh", func(t *testing.T) {
		svc := &mockAuthService{token: "new-access"}
		w, body := doRequest(t, newTestRouter(NewAuthHandler(svc, logger)), http.MethodPost, "/token-refresh",
			"application/json", `{"refresh_token":"r"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Token refreshed successfully", body["message"])
		assert.Equal(t, "new-access", body["data"].(map[string]any)["access_token"])
	})
}

// mockPinger is a mock implementation of Pinger
type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.err
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name           string
		pingErr        error
		expectedStatus int
		expectedBody   string
	}{
		{name: "ok", expectedStatus: http.StatusOK, expectedBody: "ok"},
		{name: "database down", pingErr: errors.New("dial tcp: refused"), expectedStatus: http.StatusServiceUnavailable, expectedBody: "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(NewHealthHandler(&mockPinger{err: tt.pingErr}, zap.NewNop()))

			w, body := doRequest(t, router, http.MethodGet, "/health", "", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, body["status"])
		})
	}
}
