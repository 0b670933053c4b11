package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/adventureapp/adventure-api/internal/api"
	"github.com/adventureapp/adventure-api/internal/infrastructure/config"
	mongodb "github.com/adventureapp/adventure-api/internal/infrastructure/db/mongo"
	redisdb "github.com/adventureapp/adventure-api/internal/infrastructure/db/redis"
	"github.com/adventureapp/adventure-api/internal/infrastructure/openai"
	"github.com/adventureapp/adventure-api/internal/infrastructure/queue"
	"github.com/adventureapp/adventure-api/internal/infrastructure/s3"
	"github.com/adventureapp/adventure-api/pkg/logger"
)

func main() {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	if err := ensureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// --- Engines ---
	story := openai.NewStoryEngine(cfg.OpenAI.APIKey, cfg.OpenAI.TextModel, log)
	images := openai.NewImageEngine(cfg.OpenAI.APIKey, cfg.OpenAI.ImageModel, log)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3.Region))
	if err != nil {
		log.Fatal().Err(err).Msg("aws configuration failed")
	}
	objects := s3.NewObjectStore(awss3.NewFromConfig(awsCfg), cfg.S3.Bucket)

	// --- Audit pipeline ---
	auditRepo := mongodb.NewAuditRepository(db)
	audit := queue.NewAuditDispatcher(cfg.Audit.Workers, auditRepo, log)
	audit.Start(ctx)

	// --- HTTP ---
	e := api.NewRouter(cfg, api.Dependencies{
		Mongo:     db,
		Redis:     rdb,
		Story:     story,
		Images:    images,
		Objects:   objects,
		AuditSink: audit,
		Logger:    log,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongodb.NewAdventureRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongodb.NewAPIKeyRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return mongodb.NewAuditRepository(db).EnsureIndexes(ctx)
}
