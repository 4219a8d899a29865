package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-backend/internal/models"
	"go-todo-backend/internal/repositories"
	"go-todo-backend/internal/services"
	"go-todo-backend/testutil"
)

func setupTaskService(t *testing.T) (*services.TaskService, *testutil.MemoryTaskRepo, *models.User) {
	t.Helper()
	taskRepo := testutil.NewMemoryTaskRepo()
	userRepo := testutil.NewMemoryUserRepo()
	owner := testutil.CreateTestUser(t, userRepo, "owner@example.com", "password123")
	return services.NewTaskService(taskRepo, userRepo), taskRepo, owner
}

func TestTaskService_CreateRequiresExistingUser(t *testing.T) {
	s, _, owner := setupTaskService(t)

	created, err := s.Create(owner.ID, &models.TaskCreateRequest{Title: "buy milk"})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, created.UserID)
	assert.False(t, created.Completed)

	_, err = s.Create(uuid.New(), &models.TaskCreateRequest{Title: "orphan"})
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestTaskService_NotFoundTakesPrecedenceOverForbidden(t *testing.T) {
	s, _, owner := setupTaskService(t)
	stranger := uuid.New()

	// 存在しないタスクは、リクエスターが誰であってもNotFound
	_, err := s.Get(uuid.New(), stranger)
	assert.ErrorIs(t, err, repositories.ErrTaskNotFound)

	created, err := s.Create(owner.ID, &models.TaskCreateRequest{Title: "owned"})
	require.NoError(t, err)

	// 存在するタスクへの他人のアクセスはForbidden
	_, err = s.Get(created.ID, stranger)
	assert.ErrorIs(t, err, services.ErrTaskForbidden)
	_, err = s.Update(created.ID, stranger, &models.TaskUpdateRequest{})
	assert.ErrorIs(t, err, services.ErrTaskForbidden)
	assert.ErrorIs(t, s.Delete(created.ID, stranger), services.ErrTaskForbidden)
	_, err = s.ToggleComplete(created.ID, stranger)
	assert.ErrorIs(t, err, services.ErrTaskForbidden)
}

func TestTaskService_UpdateNeverChangesOwner(t *testing.T) {
	s, taskRepo, owner := setupTaskService(t)

	created, err := s.Create(owner.ID, &models.TaskCreateRequest{Title: "mine"})
	require.NoError(t, err)

	req := &models.TaskUpdateRequest{Title: models.Some("still mine")}
	updated, err := s.Update(created.ID, owner.ID, req)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, updated.UserID)

	stored, err := taskRepo.FindByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, stored.UserID)
	assert.Equal(t, "still mine", stored.Title)
}

func TestTaskService_ToggleIsInvolutive(t *testing.T) {
	s, _, owner := setupTaskService(t)

	created, err := s.Create(owner.ID, &models.TaskCreateRequest{Title: "toggle"})
	require.NoError(t, err)
	require.False(t, created.Completed)

	once, err := s.ToggleComplete(created.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, once.Completed)
	assert.WithinDuration(t, time.Now(), once.UpdatedAt, 5*time.Second)

	twice, err := s.ToggleComplete(created.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, twice.Completed)
}
