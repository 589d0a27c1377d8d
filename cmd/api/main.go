package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"storyhouse-backend/pkg/logger"
)

func main() {
	// .env is for development and local runs; production uses the system
	// environment.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Before anything that logs, so startup lines already use the right format.
	logger.Init(env)

	Serve()
}
