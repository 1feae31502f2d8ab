// internal/database/connection.go
package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/config"
	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/models"
)

// Initialize opens the store. Production runs postgres; a sqlite DSN
// (file path or file: URI) is accepted for local development and tests.
func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode)
	}

	dialector, err := detectDialector(dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func detectDialector(dsn string) (gorm.Dialector, error) {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	switch {
	case strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://"):
		return postgres.Open(dsn), nil
	case strings.Contains(lower, "host=") || strings.Contains(lower, "dbname="):
		return postgres.Open(dsn), nil
	case strings.HasPrefix(lower, "file:") || !strings.Contains(lower, "://"):
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database dsn: %s", dsn)
	}
}

func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.RateCard{},
		&models.ApprovalToken{},
		&models.AuditLog{},
	)
}

func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
