package models

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Task はToDoタスクのデータベース構造体を表します。
// JSONフィールド名はAPI契約に合わせてcamelCaseです。
type Task struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"` // 所有者。作成後は変更されない
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

const (
	maxTitleLength       = 200
	maxDescriptionLength = 1000
)

var (
	ErrTitleEmpty         = errors.New("title cannot be empty")
	ErrTitleTooLong       = errors.New("title must be 200 characters or less")
	ErrDescriptionTooLong = errors.New("description must be 1000 characters or less")
)

// TaskCreateRequest はタスク作成リクエストの構造体です。
type TaskCreateRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
}

// Validate はタイトルをトリムした上で長さ制約を検証します。
// 長さ制限はバイト数ではなく文字数で数えます。
func (r *TaskCreateRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return ErrTitleEmpty
	}
	if utf8.RuneCountInString(r.Title) > maxTitleLength {
		return ErrTitleTooLong
	}
	if r.Description != nil && utf8.RuneCountInString(*r.Description) > maxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// TaskUpdateRequest は部分更新リクエストの構造体です。
// 各フィールドはリクエストに含まれていた場合のみ適用されます。
type TaskUpdateRequest struct {
	Title       Optional[string]  `json:"title"`
	Description Optional[*string] `json:"description"`
	Completed   Optional[bool]    `json:"completed"`
}

// Validate はセットされたフィールドに対して作成時と同じ制約を検証します。
func (r *TaskUpdateRequest) Validate() error {
	if r.Title.IsSet() {
		title := strings.TrimSpace(r.Title.Value())
		if title == "" {
			return ErrTitleEmpty
		}
		if utf8.RuneCountInString(title) > maxTitleLength {
			return ErrTitleTooLong
		}
		r.Title = Some(title)
	}
	if r.Description.IsSet() {
		if desc := r.Description.Value(); desc != nil && utf8.RuneCountInString(*desc) > maxDescriptionLength {
			return ErrDescriptionTooLong
		}
	}
	return nil
}
