package database

import (
	"fmt"

	"github.com/lumen-studio/site-core/internal/config"
	"github.com/lumen-studio/site-core/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured database and runs auto-migration.
func Connect(cfg *config.AppConfig) (*gorm.DB, error) {
	db, err := open(cfg.Database, resolveLogLevel(cfg))
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}

func resolveLogLevel(cfg *config.AppConfig) logger.LogLevel {
	if cfg.IsDev() {
		return logger.Info
	}
	return logger.Warn
}

func open(dbCfg config.DatabaseConfig, logLevel logger.LogLevel) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var dialector gorm.Dialector
	switch dbCfg.Driver {
	case "mysql":
		dialector = mysql.New(mysql.Config{DSN: dbCfg.DSN, DefaultStringSize: 191})
	case "sqlite", "":
		dialector = sqlite.Open(dbCfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dbCfg.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return db, nil
}

// Migrate runs GORM auto-migration for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.UserModel{},
		&models.UserSession{},
		&models.ContentEntry{},
		&models.MediaAsset{},
		&models.PostModel{},
		&models.ProjectModel{},
		&models.FileReference{},
		&models.OptionModel{},
	)
}
