package followup

import (
	"fmt"
	"log"
	"strings"
	"time"

	"naarad-gateway/internal/llm"
	"naarad-gateway/internal/memory"
	"naarad-gateway/internal/models"
	"naarad-gateway/internal/store"
)

// Generator composes the follow-up prompt, invokes the completion provider
// and records the exchange in memory and the transcript store.
type Generator struct {
	LLM         llm.Completer
	Memory      *memory.Store
	Transcripts *store.TranscriptStore
}

func NewGenerator(completer llm.Completer, mem *memory.Store, transcripts *store.TranscriptStore) *Generator {
	return &Generator{
		LLM:         completer,
		Memory:      mem,
		Transcripts: transcripts,
	}
}

// ClientContext maps a client record into the context fields the prompt
// template consumes.
func ClientContext(c *models.Client) map[string]any {
	return map[string]any{
		"name":            c.Name,
		"company":         c.Company,
		"email":           c.Email,
		"status":          c.Status,
		"urgency":         c.Urgency,
		"lastInteraction": c.LastInteraction,
		"dueDate":         c.DueDate,
	}
}

// Generate returns the agent's reply for the triggering message. The user
// turn lands in the memory buffer before the provider call; the agent turn
// and both transcript turns commit only with a successful reply.
func (g *Generator) Generate(clientID, message string, clientContext map[string]any) (string, error) {
	prompt := g.buildPrompt(clientID, message, clientContext)
	g.Memory.Append(clientID, models.RoleUser, message)

	reply, err := g.LLM.Complete(prompt)
	if err != nil {
		return "", err
	}
	g.Memory.Append(clientID, models.RoleAgent, reply)

	now := time.Now().Format(time.RFC3339)
	if err := g.Transcripts.Append(
		models.TranscriptTurn{ClientID: clientID, Role: models.RoleUser, Message: message, Timestamp: now},
		models.TranscriptTurn{ClientID: clientID, Role: models.RoleAgent, Message: reply, Timestamp: now},
	); err != nil {
		log.Printf("Error recording transcript for %s: %v", clientID, err)
	}

	return reply, nil
}

func (g *Generator) buildPrompt(clientID, message string, clientContext map[string]any) string {
	get := func(key string) string {
		if v, ok := clientContext[key]; ok {
			if s := fmt.Sprintf("%v", v); s != "" {
				return s
			}
		}
		return "N/A"
	}

	var b strings.Builder
	b.WriteString("You are NAARAD, an AI follow-up agent. Follow up professionally.\n")
	fmt.Fprintf(&b, "Client: %s from %s\n", get("name"), get("company"))
	fmt.Fprintf(&b, "Email: %s\n", get("email"))
	fmt.Fprintf(&b, "Status: %s\n", get("status"))
	fmt.Fprintf(&b, "Urgency: %s\n", get("urgency"))
	fmt.Fprintf(&b, "Last Interaction: %s\n", get("lastInteraction"))
	fmt.Fprintf(&b, "Due Date: %s\n", get("dueDate"))

	if turns := g.Memory.Turns(clientID); len(turns) > 0 {
		b.WriteString("\nConversation so far:\n")
		for _, t := range turns {
			fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Message)
		}
	}

	b.WriteString("\nWrite a helpful, context-aware follow-up message for this situation.\n")
	fmt.Fprintf(&b, "User message: %s\n", message)
	return b.String()
}
