package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"bnl-store/internal/domain"
	"bnl-store/internal/llm"
)

// historyWindow es el tope duro de mensajes previos incluidos en el prompt.
// Los turnos más viejos se descartan en silencio, no se resumen.
const historyWindow = 8

// systemInstructions fija la persona del asistente y sus directivas de
// respuesta.
const systemInstructions = `Eres el asistente virtual de la tienda de tecnología Buy n Large.
Tu objetivo es responder preguntas de clientes sobre productos, precios, inventario y características usando los datos del inventario que se te proporcionan.

Directivas:
1. Sé conciso pero completo: responde lo que se pregunta sin omitir datos relevantes.
2. Fundamenta siempre tus respuestas en los datos del inventario proporcionados; no inventes productos ni precios.
3. Siempre que menciones precios, usa formato de dólares con dos decimales (por ejemplo, $899.99).
4. Si no tienes información sobre lo que te preguntan, dilo honestamente y ofrece seguir ayudando.
5. Presenta las especificaciones técnicas de forma legible y ordenada.
6. Cuando compares productos, resalta las diferencias clave.
7. Personaliza la recomendación según las necesidades que exprese el cliente.
8. Responde en el idioma en el que escribe el cliente.
9. Destaca las especificaciones más importantes de cada producto.
10. Respeta los rangos de precio que indique el cliente al recomendar.`

// PromptBuilder convierte historial, contexto y mensaje actual en la
// secuencia de turnos para el servicio de completions.
type PromptBuilder struct{}

// Build arma los turnos en orden fijo: system, historial cronológico (máximo
// historyWindow mensajes, el remitente bot pasa a rol assistant) y un turno
// user final que incrusta el documento de contexto serializado y el mensaje
// literal del cliente.
func (PromptBuilder) Build(history []domain.Message, doc domain.ContextDocument, message string) ([]llm.Turn, error) {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	turns := make([]llm.Turn, 0, len(history)+2)
	turns = append(turns, llm.Turn{Role: "system", Content: systemInstructions})

	for _, msg := range history {
		role := "user"
		if msg.Sender == domain.SenderBot {
			role = "assistant"
		}
		turns = append(turns, llm.Turn{Role: role, Content: msg.Content})
	}

	contextJSON, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize context: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("Datos del inventario:\n")
	sb.Write(contextJSON)
	sb.WriteString("\n\nPregunta del cliente: ")
	sb.WriteString(message)
	sb.WriteString("\n\nResponde de manera amigable y profesional basándote en los datos proporcionados.")

	turns = append(turns, llm.Turn{Role: "user", Content: sb.String()})
	return turns, nil
}
