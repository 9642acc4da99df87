package models

import (
	"time"
)

// Client represents a business client tracked by the follow-up agent.
// The collection is replaced wholesale on upload; only the auto flag is
// mutated in place.
type Client struct {
	ID              string `gorm:"primaryKey;type:varchar(255)" json:"id"`
	Name            string `gorm:"type:varchar(255)" json:"name"`
	Company         string `gorm:"type:varchar(255)" json:"company"`
	Email           string `gorm:"type:varchar(255)" json:"email"`
	Status          string `gorm:"type:varchar(50)" json:"status"`
	Urgency         string `gorm:"type:varchar(50)" json:"urgency"`
	LastInteraction string `gorm:"type:varchar(100)" json:"lastInteraction"`
	Type            string `gorm:"type:varchar(50)" json:"type"` // renewal, birthday, query, proposal
	DueDate         string `gorm:"type:varchar(100)" json:"dueDate,omitempty"`
	Details         string `gorm:"type:text" json:"details,omitempty"`
	Auto            bool   `json:"auto"`
}

func (Client) TableName() string {
	return "clients"
}

// AuditLogEntry is one row of a client's audit log. The payload is kept as
// raw JSON so entries posted through the generic log endpoint round-trip
// verbatim.
type AuditLogEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClientID  string    `gorm:"index;not null;type:varchar(255)" json:"client_id"`
	Entry     string    `gorm:"type:text" json:"entry"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AuditLogEntry) TableName() string {
	return "audit_log_entries"
}

// Entry types written by the follow-up paths.
const (
	EntryTypeAgent = "naarad"
	EntryTypeReply = "reply"
)

// Delivery outcome tags recorded on audit entries and returned inline by the
// direct interaction endpoint.
const (
	StatusEmailSent        = "email_sent"
	StatusEmailFailed      = "email_failed"
	StatusGenerationFailed = "generation_failed"
	StatusNoClient         = "no_client"
)

// FollowUpEntry is the typed payload for naarad and reply audit entries.
type FollowUpEntry struct {
	Type      string `json:"type"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Rationale string `json:"rationale"`
	Status    string `json:"status,omitempty"`
}

// Transcript roles.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// TranscriptTurn is one side of a generation exchange, kept separately from
// the audit log for the raw chat history endpoint.
type TranscriptTurn struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	ClientID  string `gorm:"index;not null;type:varchar(255)" json:"-"`
	Role      string `gorm:"type:varchar(20)" json:"role"`
	Message   string `gorm:"type:text" json:"message"`
	Timestamp string `gorm:"type:varchar(50)" json:"timestamp"`
}

func (TranscriptTurn) TableName() string {
	return "transcript_turns"
}
