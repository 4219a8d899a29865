// Package auth はベアラートークンの発行・検証と認可チェックを提供します。
package auth

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenExpired は有効期限切れのトークンを示します。
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed は検証には通るがサブジェクトを特定できないトークンを示します。
	ErrTokenMalformed = errors.New("token has no valid subject")
	// ErrTokenInvalid は署名不正・構造不正のトークンを示します。
	ErrTokenInvalid = errors.New("invalid token")
)

// TokenClaims は検証済みトークンから取り出した型付きペイロードです。
// 任意のクレームをそのままビジネスロジックへ持ち込まないための構造体です。
type TokenClaims struct {
	Subject   uuid.UUID
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService はJWTトークンの生成と検証を扱います。
type TokenService struct {
	secret   []byte
	method   jwt.SigningMethod
	lifetime time.Duration
}

// NewTokenService は新しいTokenServiceを作成します。
// algorithm はHMAC系 (HS256/HS384/HS512) のみ許可します。
func NewTokenService(secret, algorithm string, lifetime time.Duration) *TokenService {
	if secret == "" {
		log.Fatal("JWT secret must not be empty")
	}
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		log.Fatalf("Unsupported JWT algorithm: %q", algorithm)
	}
	return &TokenService{
		secret:   []byte(secret),
		method:   method,
		lifetime: lifetime,
	}
}

// Generate はユーザーIDを主体とするアクセストークンを生成します。
func (s *TokenService) Generate(userID uuid.UUID, email string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"userId": userID.String(),
		"sub":    userID.String(),
		"email":  email,
		"iat":    now.Unix(),
		"exp":    now.Add(s.lifetime).Unix(),
	}
	token := jwt.NewWithClaims(s.method, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return tokenString, nil
}

// Decode はベアラートークンを検証し、型付きクレームを返します。
// "Bearer " プレフィックスは付いていれば取り除きます。
// 失敗は ErrTokenExpired / ErrTokenMalformed / ErrTokenInvalid のいずれかに分類されます。
func (s *TokenService) Decode(raw string) (*TokenClaims, error) {
	tokenString := strings.TrimPrefix(raw, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	// サブジェクトは userId クレームを優先し、無ければ標準の sub を使う
	subjectRaw, ok := claims["userId"].(string)
	if !ok {
		subjectRaw, ok = claims["sub"].(string)
	}
	if !ok || subjectRaw == "" {
		return nil, ErrTokenMalformed
	}
	subject, err := uuid.Parse(subjectRaw)
	if err != nil {
		return nil, ErrTokenMalformed
	}

	result := &TokenClaims{Subject: subject}
	if email, ok := claims["email"].(string); ok {
		result.Email = email
	}
	if iat, ok := claims["iat"].(float64); ok {
		result.IssuedAt = time.Unix(int64(iat), 0).UTC()
	}
	if exp, ok := claims["exp"].(float64); ok {
		result.ExpiresAt = time.Unix(int64(exp), 0).UTC()
	}
	return result, nil
}
