// Package testutil はテスト用のフェイクリポジトリとヘルパーを提供します。
package testutil

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"go-todo-backend/internal/models"
	"go-todo-backend/internal/repositories"
)

// MemoryUserRepo はUserRepositoryのインメモリ実装です。
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*models.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *MemoryUserRepo) Create(u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repositories.ErrDuplicateEmail
		}
	}
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *MemoryUserRepo) FindByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *MemoryUserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

// MemoryTaskRepo はTaskRepositoryのインメモリ実装です。
// 挿入順を保持するためスライスで持ちます。
type MemoryTaskRepo struct {
	mu    sync.RWMutex
	tasks []*models.Task
}

func NewMemoryTaskRepo() *MemoryTaskRepo {
	return &MemoryTaskRepo{}
}

func (r *MemoryTaskRepo) Create(t *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *t
	r.tasks = append(r.tasks, &copied)
	return nil
}

func (r *MemoryTaskRepo) FindByUserID(userID uuid.UUID) ([]*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []*models.Task{}
	for _, t := range r.tasks {
		if t.UserID == userID {
			copied := *t
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *MemoryTaskRepo) FindByID(id uuid.UUID) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t := r.find(id)
	if t == nil {
		return nil, repositories.ErrTaskNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *MemoryTaskRepo) Update(t *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.find(t.ID)
	if stored == nil {
		return repositories.ErrTaskNotFound
	}
	stored.Title = t.Title
	stored.Description = t.Description
	stored.Completed = t.Completed
	stored.UpdatedAt = t.UpdatedAt
	return nil
}

func (r *MemoryTaskRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.tasks {
		if t.ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return repositories.ErrTaskNotFound
}

func (r *MemoryTaskRepo) Toggle(id uuid.UUID, now time.Time) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.find(id)
	if stored == nil {
		return nil, repositories.ErrTaskNotFound
	}
	stored.Completed = !stored.Completed
	stored.UpdatedAt = now
	copied := *stored
	return &copied, nil
}

func (r *MemoryTaskRepo) find(id uuid.UUID) *models.Task {
	for _, t := range r.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}
