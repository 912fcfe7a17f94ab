package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"compass/internal/cache"
	"compass/internal/config"
	"compass/internal/llm"
	"compass/internal/repository"
	"compass/internal/service"
	"compass/internal/storage"
	"compass/internal/transcript"
	"compass/internal/transport/rest"
	"compass/internal/tts"
)

// @title Compass Counseling API
// @version 1.0
// @description Voice-driven counseling conversation assistant
// @host localhost:8080
func main() {
	log.Println("started")
	ctx := context.Background()

	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Println("loaded .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Load AI config and log model settings
	aiConfig := config.DefaultAIConfig()
	log.Printf("AI Config:")
	log.Printf("  Transcribe: %s", aiConfig.Models.Transcribe)
	log.Printf("  Tracker:    %s", aiConfig.Models.Tracker)
	log.Printf("  Responder:  %s", aiConfig.Models.Responder)
	log.Printf("  Report:     %s", aiConfig.Models.Report)
	if aiConfig.IsEnabled() {
		log.Println("  API Key:    configured")
	} else {
		log.Println("  API Key:    NOT SET (using mock tracker/responder)")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	redisAddr := cfg.RedisURI
	// Remove redis:// prefix if present
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// External collaborators
	timeout := time.Duration(aiConfig.TimeoutMS) * time.Millisecond
	chatClient := llm.NewGroqClient(aiConfig.APIKey, aiConfig.BaseURL, timeout)
	transcriber := transcript.NewGroqTranscriber(aiConfig.APIKey, aiConfig.BaseURL, aiConfig.Models.Transcribe, timeout)
	synthesizer := tts.NewElevenLabsClient(cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoice)
	blobs := storage.NewSupabaseStorage(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)

	// Repositories and lock
	messageRepo := repository.NewMessageRepo(db)
	metricsRepo := repository.NewMetricsRepo(db)
	reportRepo := repository.NewReportRepo(db)
	convLock := cache.NewConversationLock(rdb)

	// Services
	trackerSvc := service.NewTrackerService(aiConfig, chatClient)
	responderSvc := service.NewResponderService(aiConfig, chatClient)
	turnSvc := service.NewTurnService(transcriber, trackerSvc, responderSvc, synthesizer, blobs, messageRepo, metricsRepo, convLock)
	reportSvc := service.NewReportService(aiConfig, chatClient, messageRepo, reportRepo)

	router := rest.NewRouter(&rest.Container{
		TurnService:    turnSvc,
		ReportService:  reportSvc,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  GET  /process_audio")
		log.Println("  GET  /health")
		log.Println("  POST /v1/reports/{conversationId}")
		log.Println("  GET  /v1/reports/{conversationId}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
