// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"go-todo-backend/internal/models"
)

var (
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrUserNotFound   = errors.New("user not found")
)

// UserRepository は認可ロジックがユーザーストアに求める操作です。
type UserRepository interface {
	Create(u *models.User) error
	FindByEmail(email string) (*models.User, error)
	FindByID(id uuid.UUID) (*models.User, error)
}

// MySQLUserRepo はUserRepositoryのMySQL実装です。
type MySQLUserRepo struct {
	DB *sql.DB
}

func NewMySQLUserRepo(db *sql.DB) *MySQLUserRepo {
	return &MySQLUserRepo{DB: db}
}

// Create は新しいユーザーをデータベースに挿入します。
func (r *MySQLUserRepo) Create(u *models.User) error {
	query := "INSERT INTO users (id, email, name, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
	_, err := r.DB.Exec(query, u.ID.String(), u.Email, u.Name, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		// MySQLの重複エントリーエラーコード1062をチェック
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return ErrDuplicateEmail
		}
		log.Printf("Failed to insert user: %v", err)
		return fmt.Errorf("could not insert user: %w", err)
	}
	return nil
}

// FindByEmail はメールアドレスでユーザーを検索します。
func (r *MySQLUserRepo) FindByEmail(email string) (*models.User, error) {
	query := "SELECT id, email, name, password_hash, created_at, updated_at FROM users WHERE email = ?"
	return r.scanUser(r.DB.QueryRow(query, email))
}

// FindByID はIDでユーザーを検索します。
func (r *MySQLUserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	query := "SELECT id, email, name, password_hash, created_at, updated_at FROM users WHERE id = ?"
	return r.scanUser(r.DB.QueryRow(query, id.String()))
}

func (r *MySQLUserRepo) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var rawID string
	err := row.Scan(&rawID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		log.Printf("Failed to query user: %v", err)
		return nil, fmt.Errorf("could not query user: %w", err)
	}
	u.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("could not parse stored user id %q: %w", rawID, err)
	}
	return &u, nil
}
