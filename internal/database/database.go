package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jshaha/cognitive-load-annotation/internal/config"
	"github.com/jshaha/cognitive-load-annotation/internal/logging"
	"github.com/jshaha/cognitive-load-annotation/internal/models"
)

var DB *gorm.DB

// Init opens the configured database and runs migrations. The driver is
// postgres for deployments and sqlite for zero-config local runs.
func Init(log *zap.Logger) error {
	dbConf := config.Conf.Database

	var dialector gorm.Dialector
	switch dbConf.Driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dbConf.SQLitePath)
	default:
		return fmt.Errorf("unknown database driver %q", dbConf.Driver)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logging.NewGormZapLogger(log),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Database connection established", zap.String("driver", dbConf.Driver))
	return runMigrations(log)
}

func runMigrations(log *zap.Logger) error {
	// GORM's AutoMigrate creates tables, columns and foreign keys. Custom
	// indexes are handled separately below.
	err := DB.AutoMigrate(
		&models.User{},
		&models.Article{},
		&models.Annotation{},
		&models.DifficultPassage{},
	)
	if err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	log.Info("Database migrations completed successfully.")

	// The export and per-article progress queries scan annotations by
	// article with the newest first.
	exportIndex := `CREATE INDEX IF NOT EXISTS idx_annotations_article_recency ON annotations (article_id, timestamp_submitted DESC);`
	if err := DB.Exec(exportIndex).Error; err != nil {
		return fmt.Errorf("failed to create custom index on annotations: %w", err)
	}
	log.Info("Custom indexes ensured successfully.")
	return nil
}
