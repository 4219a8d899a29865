// Package config は環境変数からアプリケーション設定を読み込みます。
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

// Config はアプリケーション全体の設定を保持します。
// すべて環境変数から供給され、起動後の再読み込みはありません。
type Config struct {
	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	JWTSecret    string
	JWTAlgorithm string

	// TokenLifetimeMinutes はアクセストークンの有効期限（分）です。
	TokenLifetimeMinutes int

	Port string
}

// Load は環境変数からConfigを構築します。
// JWT_SECRET が未設定の場合は起動を中断します。
func Load() *Config {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	algorithm := os.Getenv("JWT_ALGORITHM")
	if algorithm == "" {
		algorithm = "HS256"
	}

	lifetime := 30
	if raw := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			log.Fatalf("Invalid ACCESS_TOKEN_EXPIRE_MINUTES: %q", raw)
		}
		lifetime = parsed
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		DBUser:               os.Getenv("DB_USER"),
		DBPass:               os.Getenv("DB_PASS"),
		DBHost:               os.Getenv("DB_HOST"),
		DBPort:               os.Getenv("DB_PORT"),
		DBName:               os.Getenv("DB_NAME"),
		JWTSecret:            secret,
		JWTAlgorithm:         algorithm,
		TokenLifetimeMinutes: lifetime,
		Port:                 port,
	}
}

// DSN はMySQL接続文字列 (DSN) を構築します。
// clientFoundRows を有効にし、RowsAffected が「変更された行」ではなく
// 「マッチした行」を返すようにします。これが無いと、値の変わらない
// UPDATEが0行扱いになり、存在するタスクがNotFoundと誤判定されます。
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&clientFoundRows=true",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}
