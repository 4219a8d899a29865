package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

const serviceName = "Todo Backend API"

// RootHandler はルートのヘルスチェックです。認証不要です。
func RootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": "1.0.0",
	})
}

// HealthHandler はデータベース接続を含む詳細なヘルスチェックです。
func HealthHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":   "error",
				"database": "unreachable",
				"service":  serviceName,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": "connected",
			"service":  serviceName,
		})
	}
}
