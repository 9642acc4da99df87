package followup

import (
	"errors"
	"testing"

	"naarad-gateway/internal/llm"
	"naarad-gateway/internal/memory"
	"naarad-gateway/internal/models"
	"naarad-gateway/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(t *testing.T, completer *fakeCompleter) (*Generator, *store.TranscriptStore) {
	t.Helper()
	transcripts := store.NewTranscriptStore(newTestDB(t))
	return NewGenerator(completer, memory.NewStore(), transcripts), transcripts
}

func TestGenerateRecordsExchange(t *testing.T) {
	completer := &fakeCompleter{reply: "Hi Alice, checking in."}
	g, transcripts := newTestGenerator(t, completer)

	reply, err := g.Generate("c1", "please follow up", map[string]any{"name": "Alice", "company": "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "Hi Alice, checking in.", reply)

	turns := g.Memory.Turns("c1")
	require.Len(t, turns, 2)
	assert.Equal(t, memory.Turn{Role: models.RoleUser, Message: "please follow up"}, turns[0])
	assert.Equal(t, memory.Turn{Role: models.RoleAgent, Message: "Hi Alice, checking in."}, turns[1])

	recorded, err := transcripts.History("c1")
	require.NoError(t, err)
	require.Len(t, recorded, 2)
	assert.Equal(t, models.RoleUser, recorded[0].Role)
	assert.Equal(t, "please follow up", recorded[0].Message)
	assert.Equal(t, models.RoleAgent, recorded[1].Role)
}

func TestGeneratePromptDefaultsToNA(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	g, _ := newTestGenerator(t, completer)

	_, err := g.Generate("c1", "hello", map[string]any{"name": "Alice"})
	require.NoError(t, err)

	prompt := completer.lastPrompt()
	assert.Contains(t, prompt, "You are NAARAD, an AI follow-up agent.")
	assert.Contains(t, prompt, "Client: Alice from N/A")
	assert.Contains(t, prompt, "Email: N/A")
	assert.Contains(t, prompt, "Due Date: N/A")
	assert.Contains(t, prompt, "User message: hello")
}

func TestGenerateThreadsPriorTurns(t *testing.T) {
	completer := &fakeCompleter{reply: "first reply"}
	g, _ := newTestGenerator(t, completer)

	_, err := g.Generate("c1", "first message", nil)
	require.NoError(t, err)
	assert.NotContains(t, completer.lastPrompt(), "Conversation so far:")

	completer.reply = "second reply"
	_, err = g.Generate("c1", "second message", nil)
	require.NoError(t, err)

	prompt := completer.lastPrompt()
	assert.Contains(t, prompt, "Conversation so far:")
	assert.Contains(t, prompt, "user: first message")
	assert.Contains(t, prompt, "agent: first reply")
	// The triggering message only appears as the user message, not history.
	assert.Contains(t, prompt, "User message: second message")
}

func TestGenerateFailureCommitsNoTranscript(t *testing.T) {
	completer := &fakeCompleter{err: &llm.GenerationError{Err: errors.New("provider down")}}
	g, transcripts := newTestGenerator(t, completer)

	_, err := g.Generate("c1", "hello", nil)
	require.Error(t, err)

	var genErr *llm.GenerationError
	assert.ErrorAs(t, err, &genErr)

	recorded, err := transcripts.History("c1")
	require.NoError(t, err)
	assert.Empty(t, recorded)

	// The user turn still lands in memory before the provider call.
	turns := g.Memory.Turns("c1")
	require.Len(t, turns, 1)
	assert.Equal(t, models.RoleUser, turns[0].Role)
}
