package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-todo-backend/internal/auth"
	"go-todo-backend/internal/models"
	"go-todo-backend/internal/repositories"
	"go-todo-backend/internal/services"
)

// TaskHandler はタスク関連のハンドラーを管理します。
// すべてのエンドポイントは同じパイプラインに従います:
// トークンのサブジェクト取得 → URLのuserId検証 → サブジェクト一致チェック
// → (個別タスク操作では) taskId検証 → 存在チェック → 所有者チェック → 実行。
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler は新しいTaskHandlerを作成します。
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// authorizeUserPath はコンテキストのサブジェクトとURLのuserIdを突き合わせます。
// 失敗時はレスポンス済みで ok=false を返します。
func (h *TaskHandler) authorizeUserPath(c *gin.Context) (uuid.UUID, bool) {
	subjectVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return uuid.Nil, false
	}
	subject, ok := subjectVal.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid subject type in context"})
		return uuid.Nil, false
	}

	urlUserID, err := auth.ParseResourceID(c.Param("userId"), "user_id")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return uuid.Nil, false
	}

	if err := auth.AuthorizeSubject(subject, urlUserID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to access this user's resources"})
		return uuid.Nil, false
	}
	return subject, true
}

// parseTaskID はURLのtaskIdセグメントを検証します。
func (h *TaskHandler) parseTaskID(c *gin.Context) (uuid.UUID, bool) {
	taskID, err := auth.ParseResourceID(c.Param("taskId"), "task_id")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return uuid.Nil, false
	}
	return taskID, true
}

// respondTaskError はサービス層のエラーをHTTPステータスに対応付けます。
func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, repositories.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, services.ErrTaskForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to access this task"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// ListTasksHandler は指定ユーザーのタスク一覧を返します。
func (h *TaskHandler) ListTasksHandler(c *gin.Context) {
	userID, ok := h.authorizeUserPath(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.List(userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// CreateTaskHandler は新しいタスクを作成します。
func (h *TaskHandler) CreateTaskHandler(c *gin.Context) {
	userID, ok := h.authorizeUserPath(c)
	if !ok {
		return
	}

	var req models.TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Create(userID, &req)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// GetTaskHandler は指定IDのタスクを返します。
func (h *TaskHandler) GetTaskHandler(c *gin.Context) {
	userID, ok := h.authorizeUserPath(c)
	if !ok {
		return
	}
	taskID, ok := h.parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTaskHandler はタスクを部分更新します。
func (h *TaskHandler) UpdateTaskHandler(c *gin.Context) {
	userID, ok := h.authorizeUserPath(c)
	if !ok {
		return
	}
	taskID, ok := h.parseTaskID(c)
	if !ok {
		return
	}

	var req models.TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Update(taskID, userID, &req)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTaskHandler はタスクを削除します。
func (h *TaskHandler) DeleteTaskHandler(c *gin.Context) {
	userID, ok := h.authorizeUserPath(c)
	if !ok {
		return
	}
	taskID, ok := h.parseTaskID(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(taskID, userID); err != nil {
		respondTaskError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleCompleteHandler は完了フラグを反転します。
func (h *TaskHandler) ToggleCompleteHandler(c *gin.Context) {
	userID, ok := h.authorizeUserPath(c)
	if !ok {
		return
	}
	taskID, ok := h.parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.ToggleComplete(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
