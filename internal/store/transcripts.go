package store

import (
	"naarad-gateway/internal/models"

	"gorm.io/gorm"
)

// TranscriptStore keeps the raw ordered record of user/agent turns, distinct
// from the audit log. Turns for one exchange are committed together so a
// failed generation never leaves a dangling user turn.
type TranscriptStore struct {
	db *gorm.DB
}

func NewTranscriptStore(db *gorm.DB) *TranscriptStore {
	return &TranscriptStore{db: db}
}

func (s *TranscriptStore) Append(turns ...models.TranscriptTurn) error {
	if len(turns) == 0 {
		return nil
	}
	return s.db.Create(&turns).Error
}

func (s *TranscriptStore) History(clientID string) ([]models.TranscriptTurn, error) {
	var turns []models.TranscriptTurn
	if err := s.db.Where("client_id = ?", clientID).Order("id ASC").Find(&turns).Error; err != nil {
		return nil, err
	}
	if turns == nil {
		turns = []models.TranscriptTurn{}
	}
	return turns, nil
}
