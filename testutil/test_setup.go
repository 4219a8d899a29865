package testutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"go-todo-backend/internal/auth"
	"go-todo-backend/internal/handlers"
	"go-todo-backend/internal/models"
	"go-todo-backend/internal/routes"
	"go-todo-backend/internal/services"
)

// TestSecret はテスト用のJWT署名シークレットです。
const TestSecret = "test-secret-key-for-unit-tests"

// NewTestTokenService はテスト用のTokenServiceを作成します。
func NewTestTokenService() *auth.TokenService {
	return auth.NewTokenService(TestSecret, "HS256", 30*time.Minute)
}

// SetupTestRouter はインメモリリポジトリを使ったテスト用ルーターをセットアップします。
// 本番のroutes.SetupRouterと同じ構成で、データベースだけフェイクです。
func SetupTestRouter(t *testing.T) (*gin.Engine, *MemoryTaskRepo, *MemoryUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	taskRepo := NewMemoryTaskRepo()
	userRepo := NewMemoryUserRepo()

	taskService := services.NewTaskService(taskRepo, userRepo)
	userService := services.NewUserService(userRepo)
	tokenService := NewTestTokenService()

	authHandler := handlers.NewAuthHandler(userService, tokenService)
	taskHandler := handlers.NewTaskHandler(taskService)

	r := gin.New()
	r.GET("/", handlers.RootHandler)
	r.POST("/auth/signup", authHandler.SignupHandler)
	r.POST("/auth/login", authHandler.LoginHandler)

	authorized := r.Group("/:userId")
	authorized.Use(routes.AuthMiddleware(tokenService))
	{
		authorized.GET("/tasks", taskHandler.ListTasksHandler)
		authorized.POST("/tasks", taskHandler.CreateTaskHandler)
		authorized.GET("/tasks/:taskId", taskHandler.GetTaskHandler)
		authorized.PUT("/tasks/:taskId", taskHandler.UpdateTaskHandler)
		authorized.DELETE("/tasks/:taskId", taskHandler.DeleteTaskHandler)
		authorized.PATCH("/tasks/:taskId/complete", taskHandler.ToggleCompleteHandler)
	}

	return r, taskRepo, userRepo
}

// CreateTestUser はリポジトリに直接テストユーザーを作成します。
func CreateTestUser(t *testing.T, userRepo *MemoryUserRepo, email, password string) *models.User {
	t.Helper()
	hashedPassword, err := services.HashPassword(password)
	require.NoError(t, err)

	now := time.Now().UTC()
	newUser := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, userRepo.Create(newUser))
	return newUser
}

// LoginAndGetToken はログインしてアクセストークンを取得します。
func LoginAndGetToken(t *testing.T, router *gin.Engine, email, password string) (string, error) {
	t.Helper()
	loginPayload := map[string]string{
		"email":    email,
		"password": password,
	}
	body, _ := json.Marshal(loginPayload)

	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d: %s", resp.Code, resp.Body.String())
	}

	var loginRes models.AuthResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &loginRes); err != nil {
		return "", fmt.Errorf("failed to unmarshal login response: %w", err)
	}
	if loginRes.AccessToken == "" {
		return "", errors.New("access_token not found in login response")
	}
	return loginRes.AccessToken, nil
}

// CreateTestTask はAPI経由でテスト用タスクを作成します。
func CreateTestTask(t *testing.T, router *gin.Engine, token string, userID uuid.UUID, title string) *models.Task {
	t.Helper()
	payload := map[string]interface{}{"title": title}
	body, _ := json.Marshal(payload)

	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/%s/tasks", userID), bytes.NewBuffer(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code, "failed to create test task: %s", resp.Body.String())

	var createdTask models.Task
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &createdTask))
	return &createdTask
}

// SignToken は任意のクレームを指定シークレットで署名します。
// 期限切れトークンや別シークレットのトークンを作るために使います。
func SignToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}
