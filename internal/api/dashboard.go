package api

import (
	"net/http"

	"naarad-gateway/internal/models"
	"naarad-gateway/internal/store"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	Clients  *store.ClientStore
	AuditLog *store.AuditLogStore
}

func NewDashboardHandler(clients *store.ClientStore, auditLog *store.AuditLogStore) *DashboardHandler {
	return &DashboardHandler{Clients: clients, AuditLog: auditLog}
}

// GetStats returns aggregate counts for the dashboard.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	var stats struct {
		TotalClients     int64 `json:"total_clients"`
		AutoEnabled      int64 `json:"auto_enabled"`
		FollowUpAttempts int64 `json:"followup_attempts"`
		EmailsSent       int64 `json:"emails_sent"`
		EmailsFailed     int64 `json:"emails_failed"`
	}

	var err error
	if stats.TotalClients, err = h.Clients.Count(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if stats.AutoEnabled, err = h.Clients.CountAuto(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if stats.FollowUpAttempts, err = h.AuditLog.Count(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	stats.EmailsSent, _ = h.AuditLog.CountByStatus(models.StatusEmailSent)
	stats.EmailsFailed, _ = h.AuditLog.CountByStatus(models.StatusEmailFailed)

	c.JSON(http.StatusOK, stats)
}
