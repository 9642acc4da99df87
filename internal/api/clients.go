package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"naarad-gateway/internal/followup"
	"naarad-gateway/internal/models"
	"naarad-gateway/internal/store"
	"naarad-gateway/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ClientHandler struct {
	Clients      *store.ClientStore
	AuditLog     *store.AuditLogStore
	Transcripts  *store.TranscriptStore
	Orchestrator *followup.Orchestrator
	Hub          *ws.Hub
}

func NewClientHandler(clients *store.ClientStore, auditLog *store.AuditLogStore, transcripts *store.TranscriptStore, orchestrator *followup.Orchestrator, hub *ws.Hub) *ClientHandler {
	return &ClientHandler{
		Clients:      clients,
		AuditLog:     auditLog,
		Transcripts:  transcripts,
		Orchestrator: orchestrator,
		Hub:          hub,
	}
}

// GetClients returns the full registry snapshot.
func (h *ClientHandler) GetClients(c *gin.Context) {
	clients, err := h.Clients.All()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, clients)
}

// UploadClient mirrors the client record with auto defaulting to on when the
// field is omitted.
type UploadClient struct {
	ID              string `json:"id" binding:"required"`
	Name            string `json:"name"`
	Company         string `json:"company"`
	Email           string `json:"email"`
	Status          string `json:"status"`
	Urgency         string `json:"urgency"`
	LastInteraction string `json:"lastInteraction"`
	Type            string `json:"type"`
	DueDate         string `json:"dueDate"`
	Details         string `json:"details"`
	Auto            *bool  `json:"auto"`
}

// UploadClients replaces the registry with the posted batch and runs one
// synchronous follow-up cycle for every auto-enabled client before
// responding.
func (h *ClientHandler) UploadClients(c *gin.Context) {
	var req []UploadClient
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clients := make([]models.Client, 0, len(req))
	for _, rc := range req {
		auto := true
		if rc.Auto != nil {
			auto = *rc.Auto
		}
		clients = append(clients, models.Client{
			ID:              rc.ID,
			Name:            rc.Name,
			Company:         rc.Company,
			Email:           rc.Email,
			Status:          rc.Status,
			Urgency:         rc.Urgency,
			LastInteraction: rc.LastInteraction,
			Type:            rc.Type,
			DueDate:         rc.DueDate,
			Details:         rc.Details,
			Auto:            auto,
		})
	}

	count, err := h.Clients.ReplaceAll(clients)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replace clients"})
		return
	}

	h.Orchestrator.FollowUpAfterUpload(clients)

	if h.Hub != nil {
		h.Hub.BroadcastEvent("clients_uploaded", gin.H{"count": count})
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "count": count})
}

// GetHistory returns the client's audit log in insertion order.
func (h *ClientHandler) GetHistory(c *gin.Context) {
	entries, err := h.AuditLog.History(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetChatHistory returns the raw generation transcript, a separate store from
// the audit log.
func (h *ClientHandler) GetChatHistory(c *gin.Context) {
	turns, err := h.Transcripts.History(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, turns)
}

type ReplyRequest struct {
	Reply string `json:"reply" binding:"required"`
}

// PostReply appends a manual operator reply to the audit log. No generation
// or delivery happens on this path.
func (h *ClientHandler) PostReply(c *gin.Context) {
	clientID := c.Param("id")
	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := models.FollowUpEntry{
		Type:      models.EntryTypeReply,
		Content:   req.Reply,
		Timestamp: time.Now().Format(time.RFC3339),
		Rationale: "Manual reply from UI",
	}
	if err := h.AuditLog.AppendEntry(clientID, entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record reply"})
		return
	}

	if h.Hub != nil {
		h.Hub.NotifyReply(clientID, entry)
	}
	c.JSON(http.StatusOK, gin.H{"status": "Reply recorded"})
}

type ToggleRequest struct {
	Auto *bool `json:"auto" binding:"required"`
}

// ToggleAuto flips a client's automation flag. Toggling on schedules one
// background follow-up cycle after the response is sent.
func (h *ClientHandler) ToggleAuto(c *gin.Context) {
	clientID := c.Param("id")
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.Clients.SetAuto(clientID, *req.Auto)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if *req.Auto {
		h.Orchestrator.ScheduleFollowUp(client)
	}

	if h.Hub != nil {
		h.Hub.BroadcastEvent("auto_toggled", gin.H{"client_id": clientID, "auto": *req.Auto})
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated", "auto": *req.Auto})
}

// LogEntry appends a caller-supplied payload to the audit log verbatim. No
// schema validation beyond being JSON.
func (h *ClientHandler) LogEntry(c *gin.Context) {
	var payload json.RawMessage
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.AuditLog.Append(c.Param("id"), payload); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log entry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged"})
}
