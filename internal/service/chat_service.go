package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"bnl-store/internal/domain"
	"bnl-store/internal/llm"
	"bnl-store/internal/repository"
)

var (
	ErrSessionRequired      = errors.New("session_id required")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrCompletionFailed     = errors.New("completion service failed")
	ErrTooManyMessages      = errors.New("too many messages")
)

// FallbackResponse es la disculpa fija que ve el cliente cuando el servicio
// de completions falla.
const FallbackResponse = "Lo siento, estoy teniendo problemas técnicos para procesar tu consulta en este momento. ¿Puedes intentarlo de nuevo?"

// ChatResult es la salida de un intercambio exitoso.
type ChatResult struct {
	Response       string
	MessageID      string
	ConversationID string
}

// snapshotProvider entrega la vista de nombres del catálogo al clasificador.
type snapshotProvider interface {
	Snapshot() CatalogSnapshot
}

// contextAssembler produce el documento de contexto para un set de intents.
type contextAssembler interface {
	Build(ctx context.Context, intents []Intent) (domain.ContextDocument, error)
}

// ChatRateLimiter acota mensajes por sesión. Una implementación nil equivale
// a no limitar.
type ChatRateLimiter interface {
	Allow(sessionID string) bool
}

// ChatService orquesta un intercambio de chat completo:
// validar → conversación → persistir mensaje del usuario → clasificar →
// armar contexto → armar prompt → completions → persistir respuesta.
type ChatService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	index         snapshotProvider
	assembler     contextAssembler
	prompts       PromptBuilder
	llmClient     llm.Client
	limiter       ChatRateLimiter
	logger        *zap.Logger
}

func NewChatService(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	index snapshotProvider,
	assembler contextAssembler,
	prompts PromptBuilder,
	llmClient llm.Client,
	limiter ChatRateLimiter,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		index:         index,
		assembler:     assembler,
		prompts:       prompts,
		llmClient:     llmClient,
		limiter:       limiter,
		logger:        logger,
	}
}

// Handle procesa un mensaje entrante. El mensaje del usuario queda persistido
// antes de la llamada externa, así no se pierde aunque el LLM falle; la
// respuesta del bot solo se persiste si la llamada fue exitosa.
func (s *ChatService) Handle(ctx context.Context, sessionID, message string) (ChatResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ChatResult{}, ErrSessionRequired
	}

	if s.limiter != nil && !s.limiter.Allow(sessionID) {
		return ChatResult{}, ErrTooManyMessages
	}

	conv, err := s.conversations.GetOrCreate(ctx, sessionID)
	if err != nil {
		return ChatResult{}, fmt.Errorf("get or create conversation: %w", err)
	}

	// La ventana se lee antes de guardar el mensaje entrante para que el
	// turno actual no aparezca duplicado en el prompt.
	history, err := s.messages.ListRecent(ctx, conv.ID, historyWindow)
	if err != nil {
		return ChatResult{}, fmt.Errorf("list history: %w", err)
	}

	userMsg := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		Content:        message,
		Sender:         domain.SenderUser,
		Timestamp:      time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		return ChatResult{}, fmt.Errorf("persist user message: %w", err)
	}

	intents := ClassifyIntents(message, s.index.Snapshot())

	doc, err := s.assembler.Build(ctx, intents)
	if err != nil {
		return ChatResult{}, fmt.Errorf("assemble context: %w", err)
	}

	turns, err := s.prompts.Build(history, doc, message)
	if err != nil {
		return ChatResult{}, fmt.Errorf("build prompt: %w", err)
	}

	response, err := s.llmClient.Complete(ctx, turns)
	if err != nil {
		s.logger.Warn("completion failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return ChatResult{ConversationID: conv.ID}, fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}

	botMsg := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		Content:        response,
		Sender:         domain.SenderBot,
		Timestamp:      time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, botMsg); err != nil {
		return ChatResult{}, fmt.Errorf("persist bot message: %w", err)
	}

	return ChatResult{
		Response:       response,
		MessageID:      botMsg.ID,
		ConversationID: conv.ID,
	}, nil
}

// History devuelve la conversación de una sesión con todos sus mensajes en
// orden cronológico.
func (s *ChatService) History(ctx context.Context, sessionID string) (domain.Conversation, []domain.Message, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return domain.Conversation{}, nil, ErrSessionRequired
	}

	conv, err := s.conversations.GetBySessionID(ctx, sessionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Conversation{}, nil, ErrConversationNotFound
	}
	if err != nil {
		return domain.Conversation{}, nil, fmt.Errorf("get conversation: %w", err)
	}

	messages, err := s.messages.ListByConversationID(ctx, conv.ID)
	if err != nil {
		return domain.Conversation{}, nil, fmt.Errorf("list messages: %w", err)
	}

	return conv, messages, nil
}
