package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken           string
	ServiceAccountJSON string
	MongoURI           string
	MongoDatabase      string
	StorageBucket      string
	WebAppURL          string
	WebhookURL         string
	Port               string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		BotToken:           getEnv("BOT_TOKEN", ""),
		ServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT", ""),
		MongoURI:           getEnv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase:      getEnv("MONGODB_DATABASE", "liarsbar"),
		StorageBucket:      getEnv("STORAGE_BUCKET", "telegram-mini-app-c9a1b.appspot.com"),
		WebAppURL:          getEnv("WEBAPP_URL", "https://miniappfrontend.netlify.app/"),
		WebhookURL:         getEnv("WEBHOOK_URL", ""),
		Port:               getEnv("PORT", "8080"),
	}

	if cfg.BotToken == "" {
		log.Fatal("Fatal: BOT_TOKEN required")
	}
	if cfg.ServiceAccountJSON == "" {
		log.Fatal("Fatal: GOOGLE_SERVICE_ACCOUNT required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
