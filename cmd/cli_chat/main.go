package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"bnl-store/internal/config"
	"bnl-store/internal/db"
	"bnl-store/internal/llm"
	"bnl-store/internal/repository"
	"bnl-store/internal/service"
)

// Cliente de terminal contra el mismo pipeline de chat que el API.
func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	conversationRepo := repository.NewPgConversationRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)
	catalogRepo := repository.NewPgCatalogRepository(pool)

	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, zap.NewStdLog(logger))

	index := service.NewCatalogIndex(catalogRepo, logger)
	if err := index.Refresh(ctx); err != nil {
		log.Fatalf("cargar índice del catálogo: %v", err)
	}

	chatSvc := service.NewChatService(
		conversationRepo,
		messageRepo,
		index,
		service.NewContextBuilder(catalogRepo),
		service.PromptBuilder{},
		llmClient,
		nil,
		logger,
	)

	sessionID := "cli-" + uuid.NewString()
	fmt.Println("===== Buy n Large — asistente de catálogo =====")
	fmt.Printf("Sesión: %s\n", sessionID)
	fmt.Println("Escribe tu pregunta (o 'salir' para terminar).")

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "salir") || strings.EqualFold(line, "exit") {
			return
		}

		ctxReq, cancel := context.WithTimeout(ctx, 90*time.Second)
		result, err := chatSvc.Handle(ctxReq, sessionID, line)
		cancel()
		if err != nil {
			if errors.Is(err, service.ErrCompletionFailed) {
				fmt.Println(service.FallbackResponse)
				continue
			}
			log.Printf("error: %v", err)
			continue
		}

		fmt.Println(result.Response)
	}
}
