package services

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"go-todo-backend/internal/auth"
	"go-todo-backend/internal/models"
	"go-todo-backend/internal/repositories"
)

// ErrTaskForbidden は他ユーザーのタスクへのアクセスを示します。
// 存在チェック (404) の後にのみ返されます。
var ErrTaskForbidden = errors.New("task access forbidden")

// TaskService はタスク関連のビジネスロジックを扱います。
type TaskService struct {
	taskRepo repositories.TaskRepository
	userRepo repositories.UserRepository
}

// NewTaskService は新しいTaskServiceを作成します。
func NewTaskService(taskRepo repositories.TaskRepository, userRepo repositories.UserRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, userRepo: userRepo}
}

// List は指定ユーザーが所有するタスクをすべて返します。
func (s *TaskService) List(userID uuid.UUID) ([]*models.Task, error) {
	return s.taskRepo.FindByUserID(userID)
}

// Create は新しいタスクを作成します。所有ユーザーが存在しない場合は
// repositories.ErrUserNotFound を返します。
func (s *TaskService) Create(userID uuid.UUID, req *models.TaskCreateRequest) (*models.Task, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := &models.Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

// load はタスクを取得し、所有者チェックを行います。
// 存在しない場合は ErrTaskNotFound、他人のタスクは ErrTaskForbidden です。
// この順序 (404が403に優先) はAPI契約の一部です。
func (s *TaskService) load(taskID, requesterID uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeOwnership(task.UserID, requesterID); err != nil {
		return nil, ErrTaskForbidden
	}
	return task, nil
}

// Get は指定IDのタスクを取得します。
func (s *TaskService) Get(taskID, requesterID uuid.UUID) (*models.Task, error) {
	return s.load(taskID, requesterID)
}

// Update はタスクを部分更新します。リクエストに含まれていたフィールドのみ
// 適用され、所有者は変更されません。
func (s *TaskService) Update(taskID, requesterID uuid.UUID, req *models.TaskUpdateRequest) (*models.Task, error) {
	task, err := s.load(taskID, requesterID)
	if err != nil {
		return nil, err
	}

	if req.Title.IsSet() {
		task.Title = req.Title.Value()
	}
	if req.Description.IsSet() {
		task.Description = req.Description.Value()
	}
	if req.Completed.IsSet() {
		task.Completed = req.Completed.Value()
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.taskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete はタスクを削除します。
func (s *TaskService) Delete(taskID, requesterID uuid.UUID) error {
	if _, err := s.load(taskID, requesterID); err != nil {
		return err
	}
	return s.taskRepo.Delete(taskID)
}

// ToggleComplete は完了フラグを無条件に反転します。
func (s *TaskService) ToggleComplete(taskID, requesterID uuid.UUID) (*models.Task, error) {
	if _, err := s.load(taskID, requesterID); err != nil {
		return nil, err
	}
	return s.taskRepo.Toggle(taskID, time.Now().UTC())
}
