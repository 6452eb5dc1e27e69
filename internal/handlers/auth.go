// Package handlers: this file implements account creation, login, and the
// authenticated "who am I" lookup (spec §4.A, §6).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/streamspace-dev/codesandbox/internal/apperr"
	"github.com/streamspace-dev/codesandbox/internal/auth"
	"github.com/streamspace-dev/codesandbox/internal/db"
	"github.com/streamspace-dev/codesandbox/internal/models"
	"github.com/streamspace-dev/codesandbox/internal/validator"
)

// AuthHandler handles account creation and bearer issuance.
type AuthHandler struct {
	users  *db.UserStore
	tokens *auth.Manager
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(users *db.UserStore, tokens *auth.Manager) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// RegisterRoutes registers the /auth routes. authMiddleware gates /auth/me
// only; signup and login must stay reachable by callers with no bearer yet,
// but get rateLimitMiddleware to slow credential-guessing traffic.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware, rateLimitMiddleware gin.HandlerFunc) {
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/signup", rateLimitMiddleware, h.Signup)
		authRoutes.POST("/login", rateLimitMiddleware, h.Login)
		authRoutes.GET("/me", authMiddleware, h.Me)
	}
}

// Signup creates a new account and returns a bearer for it immediately
// (spec §4.A Register: username must be unused; email, if given, must be
// unused and well-formed).
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.RegisterRequest
	if !validator.BindAndValidate(c, &req) {
		return
	}

	if existing, err := h.users.GetByUsername(c.Request.Context(), req.Username); err != nil {
		apperr.Abort(c, apperr.Internal("failed to check existing username", err))
		return
	} else if existing != nil {
		apperr.Abort(c, apperr.Conflict("username already registered"))
		return
	}

	if req.Email != "" {
		if existing, err := h.users.GetByEmail(c.Request.Context(), req.Email); err != nil {
			apperr.Abort(c, apperr.Internal("failed to check existing email", err))
			return
		} else if existing != nil {
			apperr.Abort(c, apperr.Conflict("email already registered"))
			return
		}
	}

	user, err := h.users.CreateUser(c.Request.Context(), req.Username, req.Password, req.Email, req.FullName)
	if err != nil {
		apperr.Abort(c, apperr.Internal("failed to create user", err))
		return
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		apperr.Abort(c, apperr.Internal("failed to issue token", err))
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user.View(),
	})
}

// Login verifies credentials and issues a fresh bearer (spec §4.A Login:
// wrong username or wrong password both produce the same unauthorized
// response, never revealing which was wrong).
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !validator.BindAndValidate(c, &req) {
		return
	}

	user, err := h.users.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		apperr.Abort(c, apperr.Internal("failed to look up user", err))
		return
	}
	if user == nil || !user.Active || !db.VerifyPassword(user.PasswordHash, req.Password) {
		apperr.Abort(c, apperr.Unauthorized("invalid username or password"))
		return
	}

	if err := h.users.UpdateLastLogin(c.Request.Context(), user.ID); err != nil {
		apperr.Abort(c, apperr.Internal("failed to record login", err))
		return
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		apperr.Abort(c, apperr.Internal("failed to issue token", err))
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user.View(),
	})
}

// Me returns the authenticated caller's profile. Only reachable downstream
// of auth.Middleware.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.GetByUsername(c.Request.Context(), auth.Username(c))
	if err != nil || user == nil {
		apperr.Abort(c, apperr.Unauthorized("user not found"))
		return
	}
	c.JSON(http.StatusOK, user.View())
}
