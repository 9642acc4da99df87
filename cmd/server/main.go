package main

import (
	"log"

	"naarad-gateway/internal/api"
	"naarad-gateway/internal/config"
	"naarad-gateway/internal/database"
	"naarad-gateway/internal/followup"
	"naarad-gateway/internal/llm"
	"naarad-gateway/internal/mailer"
	"naarad-gateway/internal/memory"
	"naarad-gateway/internal/store"
	"naarad-gateway/internal/tasks"
	"naarad-gateway/internal/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()
	db := database.Init(cfg)

	r := gin.Default()

	// CORS Middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	clients := store.NewClientStore(db)
	auditLog := store.NewAuditLogStore(db)
	transcripts := store.NewTranscriptStore(db)
	conversations := memory.NewStore()

	hub := ws.NewHub()
	go hub.Run()

	generator := followup.NewGenerator(llm.NewClient(cfg), conversations, transcripts)
	delivery := followup.NewDeliveryAttempter(mailer.NewMailer(cfg))
	runner := tasks.NewRunner()
	orchestrator := followup.NewOrchestrator(clients, auditLog, generator, delivery, runner, hub)

	clientHandler := api.NewClientHandler(clients, auditLog, transcripts, orchestrator, hub)
	interactionHandler := api.NewInteractionHandler(orchestrator)
	dashboardHandler := api.NewDashboardHandler(clients, auditLog)

	r.GET("/ws", func(c *gin.Context) { hub.ServeWs(c.Writer, c.Request) })
	r.GET("/history/:id", clientHandler.GetChatHistory)
	r.POST("/process_interaction", interactionHandler.ProcessInteraction)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/clients", clientHandler.GetClients)
		apiGroup.POST("/clients/upload", clientHandler.UploadClients)
		apiGroup.GET("/clients/:id/history", clientHandler.GetHistory)
		apiGroup.POST("/clients/:id/reply", clientHandler.PostReply)
		apiGroup.PATCH("/clients/:id/auto-toggle", clientHandler.ToggleAuto)
		apiGroup.POST("/clients/:id/log", clientHandler.LogEntry)

		apiGroup.GET("/dashboard/stats", dashboardHandler.GetStats)
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
