package llm

import "context"

// MockClient permite tests sin llamar a un LLM real. Guarda los turnos de la
// última llamada para inspección.
type MockClient struct {
	Response  string
	Err       error
	LastTurns []Turn
}

func (m *MockClient) Complete(ctx context.Context, turns []Turn) (string, error) {
	m.LastTurns = turns
	return m.Response, m.Err
}
