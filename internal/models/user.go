package models

// User represents a user in the system
type User struct {
	ID           int    `json:"id"`
	RoleID       int    `json:"role_id"`
	FirstName    string `json:"firstname"`
	LastName     string `json:"lastname"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never serialize password hash
}

// UserListItem is a user joined with its active role
type UserListItem struct {
	ID            int       `json:"id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	RoleName      string    `json:"roleName"`
	AccessModules ModuleSet `json:"accessModules"`
}

// UserFields is the set of columns changed by a batch update; nil fields are left untouched
type UserFields struct {
	RoleID       *int
	FirstName    *string
	LastName     *string
	Email        *string
	PasswordHash *string
}

// Empty reports whether no field is set
func (f UserFields) Empty() bool {
	return f.RoleID == nil && f.FirstName == nil && f.LastName == nil && f.Email == nil && f.PasswordHash == nil
}

// SignupRequest represents a sign-up request
type SignupRequest struct {
	RoleID    int    `json:"role_id" validate:"required"`
	FirstName string `json:"firstname" validate:"required"`
	LastName  string `json:"lastname" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// SigninRequest represents a sign-in request
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninResponse is returned on successful sign-in
type SigninResponse struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserPatch is one record of a batch user update.
// Absent or empty values leave the stored column unchanged.
type UserPatch struct {
	UserID    int     `json:"user_id"`
	RoleID    *int    `json:"role_id,omitempty"`
	FirstName *string `json:"firstname,omitempty"`
	LastName  *string `json:"lastname,omitempty"`
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
}

// BatchUpdateUsersRequest represents a batch user update
type BatchUpdateUsersRequest struct {
	Users []UserPatch `json:"users"`
}
