package main

import (
	"log"

	"github.com/joho/godotenv"

	"go-todo-backend/internal/config"
	"go-todo-backend/internal/database"
	"go-todo-backend/internal/routes"
)

func main() {
	// .env が無い環境 (本番など) ではエラーを無視して環境変数をそのまま使う
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	db := database.InitDB(cfg.DSN())
	defer db.Close()

	r := routes.SetupRouter(db, cfg)

	log.Printf("Server listening on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
