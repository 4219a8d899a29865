// Package handlers はHTTPエンドポイントのハンドラーを提供します。
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-todo-backend/internal/auth"
	"go-todo-backend/internal/models"
	"go-todo-backend/internal/repositories"
	"go-todo-backend/internal/services"
)

// AuthHandler はユーザー登録とログインのハンドラーを管理します。
type AuthHandler struct {
	userService  *services.UserService
	tokenService *auth.TokenService
}

// NewAuthHandler は新しいAuthHandlerを作成します。
func NewAuthHandler(userService *services.UserService, tokenService *auth.TokenService) *AuthHandler {
	return &AuthHandler{userService: userService, tokenService: tokenService}
}

// SignupHandler はユーザー登録を処理します。
func (h *AuthHandler) SignupHandler(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	user, err := h.userService.Signup(req)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	h.respondWithToken(c, http.StatusCreated, user)
}

// LoginHandler はユーザーログインを処理します。
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	user, err := h.userService.Authenticate(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate user"})
		return
	}

	h.respondWithToken(c, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := h.tokenService.Generate(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(status, models.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      user.ID.String(),
		Email:       user.Email,
	})
}
