package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"naarad-gateway/internal/followup"
	"naarad-gateway/internal/memory"
	"naarad-gateway/internal/models"
	"naarad-gateway/internal/store"
	"naarad-gateway/internal/tasks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeCompleter struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSender struct {
	mu   sync.Mutex
	err  error
	sent int
}

func (f *fakeSender) Send(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent++
	return nil
}

func (f *fakeSender) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent
}

type testEnv struct {
	router    *gin.Engine
	completer *fakeCompleter
	sender    *fakeSender
	runner    *tasks.Runner
	clients   *store.ClientStore
	auditLog  *store.AuditLogStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Client{}, &models.AuditLogEntry{}, &models.TranscriptTurn{}))

	completer := &fakeCompleter{reply: "Hi, just following up."}
	sender := &fakeSender{}
	clients := store.NewClientStore(db)
	auditLog := store.NewAuditLogStore(db)
	transcripts := store.NewTranscriptStore(db)
	runner := tasks.NewRunner()

	generator := followup.NewGenerator(completer, memory.NewStore(), transcripts)
	orchestrator := followup.NewOrchestrator(clients, auditLog, generator, followup.NewDeliveryAttempter(sender), runner, nil)

	clientHandler := NewClientHandler(clients, auditLog, transcripts, orchestrator, nil)
	interactionHandler := NewInteractionHandler(orchestrator)
	dashboardHandler := NewDashboardHandler(clients, auditLog)

	router := gin.New()
	router.GET("/history/:id", clientHandler.GetChatHistory)
	router.POST("/process_interaction", interactionHandler.ProcessInteraction)
	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/clients", clientHandler.GetClients)
		apiGroup.POST("/clients/upload", clientHandler.UploadClients)
		apiGroup.GET("/clients/:id/history", clientHandler.GetHistory)
		apiGroup.POST("/clients/:id/reply", clientHandler.PostReply)
		apiGroup.PATCH("/clients/:id/auto-toggle", clientHandler.ToggleAuto)
		apiGroup.POST("/clients/:id/log", clientHandler.LogEntry)
		apiGroup.GET("/dashboard/stats", dashboardHandler.GetStats)
	}

	return &testEnv{
		router:    router,
		completer: completer,
		sender:    sender,
		runner:    runner,
		clients:   clients,
		auditLog:  auditLog,
	}
}

func (env *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *testEnv) historyEntries(t *testing.T, clientID string) []models.FollowUpEntry {
	t.Helper()
	w := env.do(t, http.MethodGet, "/api/clients/"+clientID+"/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []models.FollowUpEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	return entries
}

func uploadBatch() []map[string]any {
	return []map[string]any{
		{
			"id": "c1", "name": "Alice", "company": "Acme", "email": "alice@acme.test",
			"status": "active", "urgency": "high", "lastInteraction": "2026-08-01",
			"type": "renewal", "auto": true,
		},
		{
			"id": "c2", "name": "Bob", "company": "Globex", "email": "bob@globex.test",
			"status": "pending", "urgency": "low", "lastInteraction": "2026-07-15",
			"type": "proposal", "auto": false,
		},
	}
}
