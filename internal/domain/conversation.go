package domain

import "time"

// Sender valido para un mensaje.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Conversation agrupa los mensajes de una sesión de chat. El session_id es la
// clave opaca que manda el cliente; existe a lo sumo una conversación por clave.
type Conversation struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Message pertenece a exactamente una conversación y es inmutable una vez creado.
// El orden observable es siempre por Timestamp ascendente.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"-"`
	Content        string    `json:"content"`
	Sender         string    `json:"sender"`
	Timestamp      time.Time `json:"timestamp"`
}
