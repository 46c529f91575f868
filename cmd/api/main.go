package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"bnl-store/internal/config"
	"bnl-store/internal/db"
	apihttp "bnl-store/internal/http"
	"bnl-store/internal/llm"
	"bnl-store/internal/repository"
	"bnl-store/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	conversationRepo := repository.NewPgConversationRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)
	catalogRepo := repository.NewPgCatalogRepository(pool)

	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, zap.NewStdLog(logger))

	index := service.NewCatalogIndex(catalogRepo, logger)
	ctxRefresh, cancelRefresh := context.WithTimeout(ctx, 10*time.Second)
	if err := index.Refresh(ctxRefresh); err != nil {
		logger.Warn("initial catalog index load failed", zap.Error(err))
	}
	cancelRefresh()
	go index.Run(ctx, time.Duration(cfg.IndexRefreshSeconds)*time.Second)

	var limiter service.ChatRateLimiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			limiter = service.NewRedisChatRateLimiter(
				redisClient,
				time.Duration(cfg.ChatRateWindowSeconds)*time.Second,
				cfg.ChatRateMax,
			)
		}
		cancel()
	}

	assembler := service.NewContextBuilder(catalogRepo)
	chatSvc := service.NewChatService(
		conversationRepo,
		messageRepo,
		index,
		assembler,
		service.PromptBuilder{},
		llmClient,
		limiter,
		logger,
	)

	chatHandler := apihttp.NewChatHandler(logger, chatSvc)
	catalogHandler := apihttp.NewCatalogHandler(logger, catalogRepo)
	healthHandler := apihttp.NewHealthHandler(pool)
	router := apihttp.NewRouter(logger, chatHandler, catalogHandler, healthHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
