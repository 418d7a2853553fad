package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"liarsbar-bot/internal/config"
	"liarsbar-bot/internal/database"
	"liarsbar-bot/internal/onboarding"
	"liarsbar-bot/internal/repository"
	"liarsbar-bot/internal/storage"
	"liarsbar-bot/internal/telegram"
	"liarsbar-bot/internal/webhook"
)

func main() {
	cfg := config.LoadConfig()

	mongoClient, err := database.ConnectMongo(cfg)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer func() {
		if err := database.Disconnect(mongoClient); err != nil {
			log.Printf("Error disconnecting from database: %v", err)
		}
	}()

	objectStore, err := storage.NewGCSStore(context.Background(), []byte(cfg.ServiceAccountJSON), cfg.StorageBucket)
	if err != nil {
		log.Fatalf("Could not create storage client: %v", err)
	}
	defer objectStore.Close()

	botClient, err := telegram.NewClient(cfg.BotToken)
	if err != nil {
		log.Fatalf("Could not create bot client: %v", err)
	}

	if cfg.WebhookURL != "" {
		if err := botClient.RegisterWebhook(context.Background(), cfg.WebhookURL); err != nil {
			log.Fatalf("Could not register webhook: %v", err)
		}
		log.Printf("Webhook registered at %s", cfg.WebhookURL)
	}

	users := repository.NewUserRepository(mongoClient, cfg.MongoDatabase)
	service := onboarding.NewService(botClient, users, objectStore, telegram.NewFileFetcher(), cfg.WebAppURL)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	webhook.NewHandler(service).Register(router)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
