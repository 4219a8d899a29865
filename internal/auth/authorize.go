package auth

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrForbidden は認証済みユーザーとリソースの識別子が一致しないことを示します。
	ErrForbidden = errors.New("forbidden")
	// ErrMalformedID はUUIDとして解釈できないパスセグメントを示します。
	ErrMalformedID = errors.New("malformed identifier")
)

// AuthorizeSubject はトークンのサブジェクトとURLのユーザーIDが一致するか検証します。
// タスク操作の前に必ず呼び出されます。
func AuthorizeSubject(requesterID, urlUserID uuid.UUID) error {
	if requesterID != urlUserID {
		return ErrForbidden
	}
	return nil
}

// AuthorizeOwnership はリソースの所有者と認証済みユーザーが一致するか検証します。
func AuthorizeOwnership(resourceOwnerID, requesterID uuid.UUID) error {
	if resourceOwnerID != requesterID {
		return ErrForbidden
	}
	return nil
}

// ParseResourceID はパスセグメントをUUIDとして解析します。
// 不正な形式は fieldName を含むエラーとして報告されます (422相当)。
func ParseResourceID(raw, fieldName string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s format, must be a valid UUID", ErrMalformedID, fieldName)
	}
	return id, nil
}
