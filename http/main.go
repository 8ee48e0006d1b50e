package main

import (
	"log"

	"github.com/EldoranCodes/FileStorageApi/config"
	"github.com/EldoranCodes/FileStorageApi/http/controller"
	routes "github.com/EldoranCodes/FileStorageApi/http/route"
	infraPkg "github.com/EldoranCodes/FileStorageApi/infra"
	"github.com/EldoranCodes/FileStorageApi/repository"
	"github.com/EldoranCodes/FileStorageApi/service"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	repo := repository.InitRepository(infra)
	svc := service.InitService(infra, repo)

	ctrl := controller.NewController(cfg, infra, repo, svc)

	router := routes.SetupRouter(ctrl)

	log.Println("HTTP Server started on :8080")
	if err := router.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
