// @title CodeQuest Backend API
// @version 1.0
// @description Backend for the CodeQuest coding-challenge platform.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"codequest_backend/internal/app"
	"codequest_backend/internal/config"
	"codequest_backend/pkg/configwatcher"
	"codequest_backend/pkg/logger"
	"log"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	go configwatcher.WatchConfig("configs/config.yaml", application.ApplyConfig)

	application.Run()
}
