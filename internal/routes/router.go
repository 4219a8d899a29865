// Package routes はroutingを行います。
package routes

import (
	"database/sql"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go-todo-backend/internal/auth"
	"go-todo-backend/internal/config"
	"go-todo-backend/internal/handlers"
	"go-todo-backend/internal/repositories"
	"go-todo-backend/internal/services"
)

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(db *sql.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// CORS対策
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// リポジトリ
	taskRepo := repositories.NewMySQLTaskRepo(db)
	userRepo := repositories.NewMySQLUserRepo(db)

	// サービス
	taskService := services.NewTaskService(taskRepo, userRepo)
	userService := services.NewUserService(userRepo)
	tokenService := auth.NewTokenService(
		cfg.JWTSecret,
		cfg.JWTAlgorithm,
		time.Duration(cfg.TokenLifetimeMinutes)*time.Minute,
	)

	// ハンドラー
	authHandler := handlers.NewAuthHandler(userService, tokenService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// 公開エンドポイント
	r.GET("/", handlers.RootHandler)
	r.GET("/health", handlers.HealthHandler(db))
	r.POST("/auth/signup", authHandler.SignupHandler)
	r.POST("/auth/login", authHandler.LoginHandler)

	// 認証必須エンドポイント
	authorized := r.Group("/:userId")
	authorized.Use(AuthMiddleware(tokenService))
	{
		authorized.GET("/tasks", taskHandler.ListTasksHandler)
		authorized.POST("/tasks", taskHandler.CreateTaskHandler)
		authorized.GET("/tasks/:taskId", taskHandler.GetTaskHandler)
		authorized.PUT("/tasks/:taskId", taskHandler.UpdateTaskHandler)
		authorized.DELETE("/tasks/:taskId", taskHandler.DeleteTaskHandler)
		authorized.PATCH("/tasks/:taskId/complete", taskHandler.ToggleCompleteHandler)
	}

	return r
}
