package api

import (
	"errors"
	"net/http"

	"naarad-gateway/internal/followup"
	"naarad-gateway/internal/llm"

	"github.com/gin-gonic/gin"
)

type InteractionHandler struct {
	Orchestrator *followup.Orchestrator
}

func NewInteractionHandler(orchestrator *followup.Orchestrator) *InteractionHandler {
	return &InteractionHandler{Orchestrator: orchestrator}
}

type InteractionRequest struct {
	ClientID      string         `json:"client_id" binding:"required"`
	Message       string         `json:"message" binding:"required"`
	ClientContext map[string]any `json:"client_context"`
}

// ProcessInteraction runs one synchronous generate→deliver cycle with the
// caller's message and returns the reply and delivery status inline. Unknown
// client ids still get a reply, with a no_client status.
func (h *InteractionHandler) ProcessInteraction(c *gin.Context) {
	var req InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, emailStatus, err := h.Orchestrator.ProcessInteraction(req.ClientID, req.Message, req.ClientContext)
	if err != nil {
		var genErr *llm.GenerationError
		if errors.As(err, &genErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": reply, "email_status": emailStatus})
}
