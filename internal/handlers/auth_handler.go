package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rolegate/backend/internal/models"
	"github.com/rolegate/backend/libs/handlers"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for sign-up, sign-in and session refresh.
type AuthService interface {
	// Method Signup validates the request, hashes the password and stores a new user.
	//
	// "req" parameter contains role id, first name, last name, email and password.
	//
	// If a field is missing or invalid, the role is inactive, or the email is taken, the error will be returned together with "nil" value.
	Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error)
	// Method Signin verifies email and password and returns an access and refresh token pair.
	//
	// If the user does not exist or the password does not match, the error will be returned together with "nil" value.
	Signin(ctx context.Context, req *models.SigninRequest) (*models.SigninResponse, error)
	// Method Refresh validates a refresh token and returns a new access token for the same subject.
	//
	// If the refresh token is invalid or expired, the error will be returned together with an empty string.
	Refresh(ctx context.Context, req *models.RefreshRequest) (string, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	handlers.BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: handlers.BaseHandler{Logger: logger},
		authService: authService,
	}
}

// RegisterRoutes registers all auth handler routes
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/user-signup", h.Signup)
	r.Post("/user-signin", h.Signin)
	r.Post("/token-refresh", h.Refresh)
}

// Signup handles POST /user-signup
// @Summary Sign up
// @Description Register a user under an active role
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.SignupRequest true "User data"
// @Success 200 {object} map[string]interface{} "User create successfully"
// @Failure 400 {object} map[string]string "Missing or invalid field"
// @Failure 404 {object} map[string]string "Email already registered"
// @Router /user-signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !decodeBody(&h.BaseHandler, w, r, &req) {
		return
	}

	user, err := h.authService.Signup(r.Context(), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, r, err)
		return
	}

	h.RespondMessage(w, http.StatusOK, "User create successfully", map[string]any{"data": user})
}

// Signin handles POST /user-signin
// @Summary Sign in
// @Description Verify credentials and issue access and refresh tokens
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.SigninRequest true "Credentials"
// @Success 200 {object} map[string]interface{} "User signed in successfully"
// @Failure 400 {object} map[string]string "Missing fields or invalid credentials"
// @Failure 404 {object} map[string]string "User not found"
// @Router /user-signin [post]
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req models.SigninRequest
	if !decodeBody(&h.BaseHandler, w, r, &req) {
		return
	}

	resp, err := h.authService.Signin(r.Context(), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, r, err)
		return
	}

	h.RespondMessage(w, http.StatusOK, "User signed in successfully", map[string]any{"data": resp})
}

// Refresh handles POST /token-refresh
// @Summary Refresh access token
// @Description Exchange a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.RefreshRequest true "Refresh token"
// @Success 200 {object} map[string]interface{} "Token refreshed successfully"
// @Failure 400 {object} map[string]string "Invalid refresh token"
// @Router /token-refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if !decodeBody(&h.BaseHandler, w, r, &req) {
		return
	}

	accessToken, err := h.authService.Refresh(r.Context(), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, r, err)
		return
	}

	h.RespondMessage(w, http.StatusOK, "Token refreshed successfully", map[string]any{
		"data": map[string]string{"access_token": accessToken},
	})
}
