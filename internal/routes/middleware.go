package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-todo-backend/internal/auth"
)

// AuthMiddleware はベアラートークンを検証し、サブジェクトをコンテキストに設定する
// ミドルウェアです。ヘッダー欠落・署名不正・期限切れはすべて401になります。
func AuthMiddleware(tokenService *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		claims, err := tokenService.Decode(header)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("user_email", claims.Email)
		c.Next()
	}
}
