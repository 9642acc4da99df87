package database

import (
	"fmt"
	"log"

	"naarad-gateway/internal/config"
	"naarad-gateway/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init opens the backing database and runs migrations. Sqlite (in-memory by
// default) is used unless DB_HOST selects postgres.
func Init(cfg *config.Config) *gorm.DB {
	var dialector gorm.Dialector
	if cfg.DBHost != "" {
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(cfg.DBPath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Client{},
		&models.AuditLogEntry{},
		&models.TranscriptTurn{},
	); err != nil {
		log.Fatalf("Failed to run auto-migration: %v", err)
	}

	log.Println("Database initialized successfully (clients, audit log, transcripts)")
	return db
}
