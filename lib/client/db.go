package client

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/suwen-susan/swe1-app/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite" // Sqlite driver based on CGO
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to postgres when databaseURL is set and falls back to a
// local sqlite file otherwise.
func Open(databaseURL, sqlitePath string, debug bool) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	if debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	var dialector gorm.Dialector
	if databaseURL == "" {
		log.WithField("path", sqlitePath).Info("using sqlite database")
		dialector = sqlite.Open(sqlitePath)
	} else {
		log.Info("using postgres database")
		dialector = postgres.Open(databaseURL)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Question{}, &models.Choice{}); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}
