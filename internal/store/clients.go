package store

import (
	"naarad-gateway/internal/models"

	"gorm.io/gorm"
)

// ClientStore is the single source of truth for client records and the only
// writer of the auto flag.
type ClientStore struct {
	db *gorm.DB
}

func NewClientStore(db *gorm.DB) *ClientStore {
	return &ClientStore{db: db}
}

// ReplaceAll swaps the entire collection for the uploaded batch. Clients
// absent from the batch are no longer tracked; their logs and transcripts
// remain retrievable by id.
func (s *ClientStore) ReplaceAll(clients []models.Client) (int, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Client{}).Error; err != nil {
			return err
		}
		if len(clients) == 0 {
			return nil
		}
		return tx.Create(&clients).Error
	})
	if err != nil {
		return 0, err
	}
	return len(clients), nil
}

func (s *ClientStore) All() ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.Find(&clients).Error; err != nil {
		return nil, err
	}
	// Return empty array instead of null
	if clients == nil {
		clients = []models.Client{}
	}
	return clients, nil
}

func (s *ClientStore) Count() (int64, error) {
	var n int64
	err := s.db.Model(&models.Client{}).Count(&n).Error
	return n, err
}

func (s *ClientStore) CountAuto() (int64, error) {
	var n int64
	err := s.db.Model(&models.Client{}).Where("auto = ?", true).Count(&n).Error
	return n, err
}

// FindByID returns gorm.ErrRecordNotFound for unknown ids.
func (s *ClientStore) FindByID(id string) (*models.Client, error) {
	var client models.Client
	if err := s.db.First(&client, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// SetAuto flips the automation toggle and returns the updated record. Unknown
// ids fail with gorm.ErrRecordNotFound and mutate nothing.
func (s *ClientStore) SetAuto(id string, enabled bool) (*models.Client, error) {
	var client models.Client
	if err := s.db.First(&client, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&client).Update("auto", enabled).Error; err != nil {
		return nil, err
	}
	client.Auto = enabled
	return &client, nil
}
