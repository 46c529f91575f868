package service

import (
	"strings"
	"testing"
	"time"

	"bnl-store/internal/domain"
)

func historyOf(n int) []domain.Message {
	now := time.Now().UTC()
	msgs := make([]domain.Message, 0, n)
	for i := 1; i <= n; i++ {
		sender := domain.SenderUser
		if i%2 == 0 {
			sender = domain.SenderBot
		}
		msgs = append(msgs, domain.Message{
			Content:   "msg" + strings.Repeat("x", i),
			Sender:    sender,
			Timestamp: now.Add(time.Duration(i) * time.Minute),
		})
	}
	return msgs
}

func TestPromptBuilder_OrdenDeTurnos(t *testing.T) {
	history := []domain.Message{
		{Content: "hola", Sender: domain.SenderUser},
		{Content: "¡Hola! ¿En qué puedo ayudarte?", Sender: domain.SenderBot},
	}
	doc := domain.ContextDocument{Catalog: domain.CatalogCounts{TotalProducts: 3}}

	turns, err := PromptBuilder{}.Build(history, doc, "¿tienen laptops?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(turns) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(turns))
	}
	if turns[0].Role != "system" {
		t.Fatalf("expected system first, got %q", turns[0].Role)
	}
	if turns[1].Role != "user" || turns[1].Content != "hola" {
		t.Fatalf("expected history user turn, got %+v", turns[1])
	}
	if turns[2].Role != "assistant" {
		t.Fatalf("expected bot sender mapped to assistant, got %q", turns[2].Role)
	}
	last := turns[len(turns)-1]
	if last.Role != "user" {
		t.Fatalf("expected final user turn, got %q", last.Role)
	}
	if !strings.Contains(last.Content, "¿tienen laptops?") {
		t.Fatalf("expected literal message embedded, got %q", last.Content)
	}
	if !strings.Contains(last.Content, `"total_products": 3`) {
		t.Fatalf("expected serialized context embedded, got %q", last.Content)
	}
}

func TestPromptBuilder_VentanaDeHistorial(t *testing.T) {
	history := historyOf(10)

	turns, err := PromptBuilder{}.Build(history, domain.ContextDocument{}, "pregunta")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// system + 8 de historial + turno actual.
	if len(turns) != 10 {
		t.Fatalf("expected 10 turns, got %d", len(turns))
	}

	// Se descartan los 2 más viejos y el resto queda en orden cronológico.
	if turns[1].Content != history[2].Content {
		t.Fatalf("expected window to start at third message, got %q", turns[1].Content)
	}
	if turns[8].Content != history[9].Content {
		t.Fatalf("expected window to end at newest message, got %q", turns[8].Content)
	}
}

func TestPromptBuilder_DirectivasDelSistema(t *testing.T) {
	turns, err := PromptBuilder{}.Build(nil, domain.ContextDocument{}, "hola")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	system := turns[0].Content
	for _, fragment := range []string{"Buy n Large", "$899.99", "Fundamenta", "idioma"} {
		if !strings.Contains(system, fragment) {
			t.Fatalf("expected system instructions to mention %q", fragment)
		}
	}
}
