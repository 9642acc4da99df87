package followup

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"naarad-gateway/internal/models"
	"naarad-gateway/internal/store"
	"naarad-gateway/internal/tasks"
	"naarad-gateway/internal/ws"

	"gorm.io/gorm"
)

const followUpSubject = "Renewal Follow-up from NAARAD"

const (
	rationaleUpload = "Automated initial follow-up after upload"
	rationaleToggle = "Automated follow-up (auto mode ON)"
)

// Orchestrator runs follow-up cycles: generate, attempt delivery, append one
// audit entry. Cycles for the same client id are mutually exclusive so a
// background toggle cycle and a concurrent direct interaction cannot
// interleave their turns.
type Orchestrator struct {
	Clients   *store.ClientStore
	AuditLog  *store.AuditLogStore
	Generator *Generator
	Delivery  *DeliveryAttempter
	Tasks     *tasks.Runner
	Hub       *ws.Hub

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewOrchestrator(clients *store.ClientStore, auditLog *store.AuditLogStore, generator *Generator, delivery *DeliveryAttempter, runner *tasks.Runner, hub *ws.Hub) *Orchestrator {
	return &Orchestrator{
		Clients:   clients,
		AuditLog:  auditLog,
		Generator: generator,
		Delivery:  delivery,
		Tasks:     runner,
		Hub:       hub,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (o *Orchestrator) clientLock(id string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	lk, ok := o.locks[id]
	if !ok {
		lk = &sync.Mutex{}
		o.locks[id] = lk
	}
	return lk
}

// RunCycle executes one generate→deliver→log cycle for a client. Delivery
// failures end up in the audit entry's status; generation failures are
// recorded as a failed cycle and returned. Configuration errors abort before
// logging.
func (o *Orchestrator) RunCycle(client *models.Client, message, rationale string) error {
	lk := o.clientLock(client.ID)
	lk.Lock()
	defer lk.Unlock()

	reply, err := o.Generator.Generate(client.ID, message, ClientContext(client))
	if err != nil {
		entry := models.FollowUpEntry{
			Type:      models.EntryTypeAgent,
			Content:   err.Error(),
			Timestamp: time.Now().Format(time.RFC3339),
			Rationale: rationale,
			Status:    models.StatusGenerationFailed,
		}
		if logErr := o.AuditLog.AppendEntry(client.ID, entry); logErr != nil {
			log.Printf("Error logging failed cycle for %s: %v", client.ID, logErr)
		}
		return err
	}

	outcome, err := o.Delivery.Attempt(client.Email, followUpSubject, reply)
	if err != nil {
		return err
	}

	entry := models.FollowUpEntry{
		Type:      models.EntryTypeAgent,
		Content:   outcome.Body,
		Timestamp: time.Now().Format(time.RFC3339),
		Rationale: rationale,
		Status:    outcome.Status,
	}
	if err := o.AuditLog.AppendEntry(client.ID, entry); err != nil {
		return err
	}

	if o.Hub != nil {
		o.Hub.NotifyFollowUp(client.ID, client.Name, entry)
	}
	return nil
}

// FollowUpAfterUpload synchronously runs one cycle per auto-enabled client in
// the uploaded batch. Clients with auto off are skipped with no log entry.
func (o *Orchestrator) FollowUpAfterUpload(clients []models.Client) {
	for i := range clients {
		client := &clients[i]
		if !client.Auto {
			continue
		}
		message := fmt.Sprintf("Hi %s, following up on our conversation about your %s at %s. Have you had a chance to review?",
			client.Name, client.Type, client.Company)
		if err := o.RunCycle(client, message, rationaleUpload); err != nil {
			log.Printf("Follow-up cycle for client %s failed: %v", client.ID, err)
		}
	}
}

// ScheduleFollowUp queues the toggle-triggered cycle so the caller's response
// never waits on it.
func (o *Orchestrator) ScheduleFollowUp(client *models.Client) {
	c := *client
	o.Tasks.Submit("auto-followup "+c.ID, func() error {
		log.Printf("Auto follow-up triggered for %s (ID: %s)", c.Name, c.ID)
		message := fmt.Sprintf("Hi %s, following up on your %s at %s. Have you had a chance to review?",
			c.Name, c.Type, c.Company)
		return o.RunCycle(&c, message, rationaleToggle)
	})
}

// ProcessInteraction runs a caller-supplied message through one
// generate→deliver cycle and returns the outcome inline. It deliberately
// writes no audit entry; the caller owns the result.
func (o *Orchestrator) ProcessInteraction(clientID, message string, clientContext map[string]any) (string, string, error) {
	lk := o.clientLock(clientID)
	lk.Lock()
	defer lk.Unlock()

	reply, err := o.Generator.Generate(clientID, message, clientContext)
	if err != nil {
		return "", "", err
	}

	client, err := o.Clients.FindByID(clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return reply, models.StatusNoClient, nil
		}
		return "", "", err
	}

	outcome, err := o.Delivery.Attempt(client.Email, followUpSubject, reply)
	if err != nil {
		return "", "", err
	}

	status := outcome.Status
	if outcome.Err != nil {
		status = fmt.Sprintf("%s: %v", models.StatusEmailFailed, outcome.Err)
	}
	return reply, status, nil
}
