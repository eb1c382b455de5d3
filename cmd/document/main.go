package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codocs/codocs/internal/database"
	"github.com/codocs/codocs/internal/document/handler"
	"github.com/codocs/codocs/internal/document/repository"
	"github.com/codocs/codocs/internal/document/service"
	"github.com/codocs/codocs/internal/oidc"
	"github.com/codocs/codocs/pkg/middleware"
)

// Standalone document service for local development. Runs against Mongo when
// MONGODB_URI is set, otherwise memory-backed, and accepts unverified bearer
// tokens so a frontend can be pointed at it without Keycloak.
func main() {
	port := os.Getenv("DOC_SERVICE_PORT")
	if port == "" {
		port = "5010"
	}

	r := gin.New()
	r.Use(gin.Recovery())

	var repo repository.Repository = repository.NewMemoryRepo()
	if mongoURI := os.Getenv("MONGODB_URI"); mongoURI != "" {
		client, err := database.ConnectMongo(context.Background(), mongoURI, 10*time.Second)
		if err != nil {
			log.Printf("warning: cannot connect to MongoDB (%v), using memory-backed repo", err)
		} else {
			repo = repository.NewMongoRepo(client.Database(os.Getenv("MONGODB_DATABASE")).Collection("documents"))
		}
	}

	svc := service.NewService(repo)
	auth := middleware.AuthMiddleware(oidc.NewInsecureVerifier())
	handler.New(svc, nil, nil, nil).Register(r, auth)

	log.Printf("document service listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
