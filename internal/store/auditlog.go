package store

import (
	"encoding/json"
	"fmt"

	"naarad-gateway/internal/models"

	"gorm.io/gorm"
)

// AuditLogStore holds the per-client, append-only record of follow-up
// attempts and manual replies. Payloads are stored as raw JSON so entries
// posted through the generic log endpoint come back verbatim.
type AuditLogStore struct {
	db *gorm.DB
}

func NewAuditLogStore(db *gorm.DB) *AuditLogStore {
	return &AuditLogStore{db: db}
}

func (s *AuditLogStore) Append(clientID string, payload json.RawMessage) error {
	return s.db.Create(&models.AuditLogEntry{
		ClientID: clientID,
		Entry:    string(payload),
	}).Error
}

func (s *AuditLogStore) AppendEntry(clientID string, entry models.FollowUpEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.Append(clientID, payload)
}

func (s *AuditLogStore) Count() (int64, error) {
	var n int64
	err := s.db.Model(&models.AuditLogEntry{}).Count(&n).Error
	return n, err
}

// CountByStatus matches the status tag inside the stored JSON payload, the
// same form AppendEntry writes it.
func (s *AuditLogStore) CountByStatus(status string) (int64, error) {
	var n int64
	err := s.db.Model(&models.AuditLogEntry{}).
		Where("entry LIKE ?", fmt.Sprintf(`%%"status":%q%%`, status)).
		Count(&n).Error
	return n, err
}

// History returns the client's entries in insertion order. Unknown ids get an
// empty log, matching the lazy-creation semantics of the log map it replaced.
func (s *AuditLogStore) History(clientID string) ([]json.RawMessage, error) {
	var rows []models.AuditLogEntry
	if err := s.db.Where("client_id = ?", clientID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, json.RawMessage(row.Entry))
	}
	return entries, nil
}
