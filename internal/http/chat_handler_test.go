package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bnl-store/internal/domain"
	"bnl-store/internal/service"
)

type mockChatService struct {
	result      service.ChatResult
	handleErr   error
	conv        domain.Conversation
	history     []domain.Message
	historyErr  error
	lastSession string
	lastMessage string
}

func (m *mockChatService) Handle(_ context.Context, sessionID, message string) (service.ChatResult, error) {
	m.lastSession = sessionID
	m.lastMessage = message
	if m.handleErr != nil {
		return service.ChatResult{}, m.handleErr
	}
	return m.result, nil
}

func (m *mockChatService) History(_ context.Context, _ string) (domain.Conversation, []domain.Message, error) {
	if m.historyErr != nil {
		return domain.Conversation{}, nil, m.historyErr
	}
	return m.conv, m.history, nil
}

var _ chatService = (*mockChatService)(nil)

func setupChatRouter(svc chatService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewChatHandler(zap.NewNop(), svc)
	r.POST("/api/chatbot", h.PostChat)
	r.GET("/api/chatbot/history/:session_id", h.GetHistory)
	return r
}

func postChat(t *testing.T, r *gin.Engine, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/chatbot", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPostChat_Exito(t *testing.T) {
	svc := &mockChatService{
		result: service.ChatResult{
			Response:       "Tenemos 3 laptops disponibles.",
			MessageID:      "m1",
			ConversationID: "c1",
		},
	}
	r := setupChatRouter(svc)

	w := postChat(t, r, map[string]string{"message": "¿tienen laptops?", "session_id": "s1"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Response       string `json:"response"`
		MessageID      string `json:"message_id"`
		ConversationID string `json:"conversation_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Response != "Tenemos 3 laptops disponibles." || resp.MessageID != "m1" || resp.ConversationID != "c1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if svc.lastSession != "s1" || svc.lastMessage != "¿tienen laptops?" {
		t.Fatalf("unexpected service args: %q %q", svc.lastSession, svc.lastMessage)
	}
}

func TestPostChat_SesionFaltante(t *testing.T) {
	svc := &mockChatService{handleErr: service.ErrSessionRequired}
	r := setupChatRouter(svc)

	w := postChat(t, r, map[string]string{"message": "hola"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["error"] != "session_id required" {
		t.Fatalf("expected exact error literal, got %q", resp["error"])
	}
}

func TestPostChat_FallaDeCompletions(t *testing.T) {
	svc := &mockChatService{
		handleErr: fmt.Errorf("%w: status=429", service.ErrCompletionFailed),
	}
	r := setupChatRouter(svc)

	w := postChat(t, r, map[string]string{"message": "hola", "session_id": "s1"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["response"] != service.FallbackResponse {
		t.Fatalf("expected fallback response, got %q", resp["response"])
	}
	if resp["error"] == "" {
		t.Fatalf("expected error detail attached")
	}
}

func TestPostChat_RateLimited(t *testing.T) {
	svc := &mockChatService{handleErr: service.ErrTooManyMessages}
	r := setupChatRouter(svc)

	w := postChat(t, r, map[string]string{"message": "hola", "session_id": "s1"})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestGetHistory_Exito(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &mockChatService{
		conv: domain.Conversation{ID: "c1", SessionID: "s1", CreatedAt: created},
		history: []domain.Message{
			{ID: "m1", Content: "hola", Sender: domain.SenderUser, Timestamp: created.Add(time.Minute)},
			{ID: "m2", Content: "¡Hola!", Sender: domain.SenderBot, Timestamp: created.Add(2 * time.Minute)},
		},
	}
	r := setupChatRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/chatbot/history/s1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		ID        string `json:"id"`
		SessionID string `json:"session_id"`
		Messages  []struct {
			ID      string `json:"id"`
			Content string `json:"content"`
			Sender  string `json:"sender"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.ID != "c1" || resp.SessionID != "s1" {
		t.Fatalf("unexpected conversation: %+v", resp)
	}
	if len(resp.Messages) != 2 || resp.Messages[0].Sender != "user" || resp.Messages[1].Sender != "bot" {
		t.Fatalf("unexpected messages: %+v", resp.Messages)
	}
}

func TestGetHistory_SesionDesconocida(t *testing.T) {
	svc := &mockChatService{historyErr: service.ErrConversationNotFound}
	r := setupChatRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/chatbot/history/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
