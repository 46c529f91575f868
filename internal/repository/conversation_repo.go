package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"bnl-store/internal/domain"
)

type ConversationRepository interface {
	// GetOrCreate devuelve la conversación de la sesión, creándola si no existe.
	// Debe ser idempotente: dos llamadas concurrentes con la misma clave
	// resuelven a la misma fila.
	GetOrCreate(ctx context.Context, sessionID string) (domain.Conversation, error)
	GetBySessionID(ctx context.Context, sessionID string) (domain.Conversation, error)
}

type PgConversationRepository struct {
	pool *pgxpool.Pool
}

func NewPgConversationRepository(pool *pgxpool.Pool) *PgConversationRepository {
	return &PgConversationRepository{pool: pool}
}

func (r *PgConversationRepository) GetOrCreate(ctx context.Context, sessionID string) (domain.Conversation, error) {
	// El upsert sobre el índice único de session_id resuelve la carrera de
	// creación: el perdedor termina leyendo la fila del ganador.
	const query = `
		INSERT INTO conversations (id, session_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO UPDATE SET session_id = EXCLUDED.session_id
		RETURNING id, session_id, COALESCE(user_id::text, ''), created_at
	`

	var conv domain.Conversation
	err := r.pool.QueryRow(ctx, query,
		uuid.NewString(),
		sessionID,
		time.Now().UTC(),
	).Scan(&conv.ID, &conv.SessionID, &conv.UserID, &conv.CreatedAt)
	if err != nil {
		return domain.Conversation{}, err
	}
	return conv, nil
}

func (r *PgConversationRepository) GetBySessionID(ctx context.Context, sessionID string) (domain.Conversation, error) {
	const query = `
		SELECT id, session_id, COALESCE(user_id::text, ''), created_at
		FROM conversations
		WHERE session_id = $1
	`

	var conv domain.Conversation
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&conv.ID,
		&conv.SessionID,
		&conv.UserID,
		&conv.CreatedAt,
	)
	if err != nil {
		return domain.Conversation{}, err
	}
	return conv, nil
}
