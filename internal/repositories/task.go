package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"go-todo-backend/internal/models"
)

// ErrTaskNotFound はタスクが見つからない場合のエラーです。
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository は認可ロジックがタスクストアに求める操作です。
type TaskRepository interface {
	Create(t *models.Task) error
	FindByUserID(userID uuid.UUID) ([]*models.Task, error)
	FindByID(id uuid.UUID) (*models.Task, error)
	Update(t *models.Task) error
	Delete(id uuid.UUID) error
	Toggle(id uuid.UUID, now time.Time) (*models.Task, error)
}

// MySQLTaskRepo はTaskRepositoryのMySQL実装です。
type MySQLTaskRepo struct {
	DB *sql.DB
}

func NewMySQLTaskRepo(db *sql.DB) *MySQLTaskRepo {
	return &MySQLTaskRepo{DB: db}
}

// Create は新しいタスクをデータベースに挿入します。
func (r *MySQLTaskRepo) Create(t *models.Task) error {
	query := "INSERT INTO tasks (id, user_id, title, description, completed, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
	_, err := r.DB.Exec(query, t.ID.String(), t.UserID.String(), t.Title, t.Description, t.Completed, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		log.Printf("Failed to insert task: %v", err)
		return fmt.Errorf("could not insert task: %w", err)
	}
	return nil
}

// FindByUserID は指定ユーザーが所有するタスクを作成順で取得します。
func (r *MySQLTaskRepo) FindByUserID(userID uuid.UUID) ([]*models.Task, error) {
	query := "SELECT id, user_id, title, description, completed, created_at, updated_at FROM tasks WHERE user_id = ? ORDER BY created_at"

	rows, err := r.DB.Query(query, userID.String())
	if err != nil {
		log.Printf("Failed to query tasks: %v", err)
		return nil, fmt.Errorf("could not query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}

// FindByID は指定されたIDのタスクを取得します。
func (r *MySQLTaskRepo) FindByID(id uuid.UUID) (*models.Task, error) {
	query := "SELECT id, user_id, title, description, completed, created_at, updated_at FROM tasks WHERE id = ?"
	t, err := scanTask(r.DB.QueryRow(query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// Update はタスクの可変フィールドを更新します。所有者 (user_id) は変更しません。
// RowsAffected による存在チェックはDSNの clientFoundRows 前提です
// (マッチした行が数えられるため、値が変わらない更新でも0にならない)。
func (r *MySQLTaskRepo) Update(t *models.Task) error {
	query := "UPDATE tasks SET title = ?, description = ?, completed = ?, updated_at = ? WHERE id = ?"

	result, err := r.DB.Exec(query, t.Title, t.Description, t.Completed, t.UpdatedAt, t.ID.String())
	if err != nil {
		log.Printf("Failed to update task: %v", err)
		return fmt.Errorf("could not update task: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete は指定されたIDのタスクを削除します。
func (r *MySQLTaskRepo) Delete(id uuid.UUID) error {
	result, err := r.DB.Exec("DELETE FROM tasks WHERE id = ?", id.String())
	if err != nil {
		log.Printf("Failed to delete task: %v", err)
		return fmt.Errorf("could not delete task: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Toggle は完了フラグを反転します。
// 読み取りと更新を1つのトランザクションで行い、途中で失敗した場合はロールバックします。
func (r *MySQLTaskRepo) Toggle(id uuid.UUID, now time.Time) (*models.Task, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "SELECT id, user_id, title, description, completed, created_at, updated_at FROM tasks WHERE id = ? FOR UPDATE"
	t, err := scanTask(tx.QueryRow(query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	t.Completed = !t.Completed
	t.UpdatedAt = now
	_, err = tx.Exec("UPDATE tasks SET completed = ?, updated_at = ? WHERE id = ?", t.Completed, t.UpdatedAt, t.ID.String())
	if err != nil {
		log.Printf("Failed to toggle task: %v", err)
		return nil, fmt.Errorf("could not toggle task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit toggle: %w", err)
	}
	return t, nil
}

// scanTask は行からTaskを読み取ります。*sql.Row と *sql.Rows の両方で使えます。
func scanTask(row interface{ Scan(dest ...any) error }) (*models.Task, error) {
	var t models.Task
	var rawID, rawUserID string
	err := row.Scan(&rawID, &rawUserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		log.Printf("Failed to scan task: %v", err)
		return nil, fmt.Errorf("could not scan task: %w", err)
	}
	if t.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("could not parse stored task id %q: %w", rawID, err)
	}
	if t.UserID, err = uuid.Parse(rawUserID); err != nil {
		return nil, fmt.Errorf("could not parse stored user id %q: %w", rawUserID, err)
	}
	return &t, nil
}
