package repositories_test

import (
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-backend/internal/models"
	"go-todo-backend/internal/repositories"
)

// setupTestDB はテスト用のデータベース接続を確立し、テーブルを作り直します。
// TEST_DB_HOST が未設定の環境ではスキップします。
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping MySQL integration test")
	}

	// 本番のconfig.DSNと同じく clientFoundRows を有効にする
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&clientFoundRows=true",
		os.Getenv("TEST_DB_USER"),
		os.Getenv("TEST_DB_PASS"),
		host,
		os.Getenv("TEST_DB_PORT"),
		os.Getenv("TEST_DB_NAME"),
	)
	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())

	// 外部キーがあるため tasks -> users の順で削除
	_, err = db.Exec("DROP TABLE IF EXISTS tasks")
	require.NoError(t, err)
	_, err = db.Exec("DROP TABLE IF EXISTS users")
	require.NoError(t, err)

	createUserTableSQL := `
		CREATE TABLE users (
			id CHAR(36) PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			name VARCHAR(255),
			password_hash VARCHAR(255) NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);`
	_, err = db.Exec(createUserTableSQL)
	require.NoError(t, err)

	createTaskTableSQL := `
		CREATE TABLE tasks (
			id CHAR(36) PRIMARY KEY,
			user_id CHAR(36) NOT NULL,
			title VARCHAR(200) NOT NULL,
			description VARCHAR(1000),
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);`
	_, err = db.Exec(createTaskTableSQL)
	require.NoError(t, err)

	return db
}

func insertTestUser(t *testing.T, userRepo *repositories.MySQLUserRepo, email string) *models.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	u := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, userRepo.Create(u))
	return u
}

func TestMySQLUserRepo_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	userRepo := repositories.NewMySQLUserRepo(db)
	insertTestUser(t, userRepo, "dup@example.com")

	now := time.Now().UTC().Truncate(time.Second)
	err := userRepo.Create(&models.User{
		ID:           uuid.New(),
		Email:        "dup@example.com",
		PasswordHash: "y",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)
}

func TestMySQLTaskRepo_CRUD(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	userRepo := repositories.NewMySQLUserRepo(db)
	taskRepo := repositories.NewMySQLTaskRepo(db)
	owner := insertTestUser(t, userRepo, "owner@example.com")

	now := time.Now().UTC().Truncate(time.Second)
	desc := "a description"
	task := &models.Task{
		ID:          uuid.New(),
		UserID:      owner.ID,
		Title:       "buy milk",
		Description: &desc,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, taskRepo.Create(task))

	fetched, err := taskRepo.FindByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, fetched.ID)
	assert.Equal(t, owner.ID, fetched.UserID)
	assert.Equal(t, "buy milk", fetched.Title)
	require.NotNil(t, fetched.Description)
	assert.Equal(t, desc, *fetched.Description)
	assert.False(t, fetched.Completed)

	fetched.Title = "buy oat milk"
	fetched.UpdatedAt = now.Add(time.Second)
	require.NoError(t, taskRepo.Update(fetched))

	toggled, err := taskRepo.Toggle(task.ID, now.Add(2*time.Second))
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	assert.Equal(t, "buy oat milk", toggled.Title)

	require.NoError(t, taskRepo.Delete(task.ID))
	_, err = taskRepo.FindByID(task.ID)
	assert.ErrorIs(t, err, repositories.ErrTaskNotFound)
	assert.ErrorIs(t, taskRepo.Delete(task.ID), repositories.ErrTaskNotFound)
}

func TestMySQLTaskRepo_UpdateWithIdenticalValues(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	userRepo := repositories.NewMySQLUserRepo(db)
	taskRepo := repositories.NewMySQLTaskRepo(db)
	owner := insertTestUser(t, userRepo, "owner@example.com")

	now := time.Now().UTC().Truncate(time.Second)
	task := &models.Task{
		ID:        uuid.New(),
		UserID:    owner.ID,
		Title:     "unchanged",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, taskRepo.Create(task))

	// すべての値が同一のUPDATEでもNotFoundになってはいけない
	require.NoError(t, taskRepo.Update(task))

	fetched, err := taskRepo.FindByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "unchanged", fetched.Title)
}

func TestMySQLTaskRepo_CascadeDeleteWithUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	userRepo := repositories.NewMySQLUserRepo(db)
	taskRepo := repositories.NewMySQLTaskRepo(db)
	owner := insertTestUser(t, userRepo, "owner@example.com")

	now := time.Now().UTC().Truncate(time.Second)
	task := &models.Task{
		ID:        uuid.New(),
		UserID:    owner.ID,
		Title:     "goes away with the user",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, taskRepo.Create(task))

	_, err := db.Exec("DELETE FROM users WHERE id = ?", owner.ID.String())
	require.NoError(t, err)

	_, err = taskRepo.FindByID(task.ID)
	assert.ErrorIs(t, err, repositories.ErrTaskNotFound)
}
