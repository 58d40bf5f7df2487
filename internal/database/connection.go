// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/inventory-admin/internal/config"
	"github.com/javajoker/inventory-admin/internal/models"
)

// DefaultProductTypes is the catalog seeded into a fresh database.
var DefaultProductTypes = []string{
	"food",
	"clothing",
	"small electronics",
	"large electronics",
	"toys",
	"tools",
	"books",
	"furniture",
	"appliances",
	"sporting goods",
	"automotive parts",
	"jewelry",
	"collectibles",
	"antiques",
	"art",
}

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.LogLevel)),
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established successfully")
	return db, nil
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.ProductType{},
		&models.Item{},
		&models.Media{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		createIndexes(db)
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_items_owner_created ON items(added_by, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_items_owner_sold ON items(added_by, is_sold, sold_at)",
		"CREATE INDEX IF NOT EXISTS idx_product_types_created_at ON product_types(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			// Continue with other indexes instead of failing completely
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
		}
	}
}

// SeedProductTypes inserts the default catalog entries that are missing.
func SeedProductTypes(db *gorm.DB) (int, error) {
	created := 0
	for _, name := range DefaultProductTypes {
		var count int64
		if err := db.Model(&models.ProductType{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return created, fmt.Errorf("failed to check product type %q: %w", name, err)
		}
		if count > 0 {
			continue
		}

		if err := db.Create(&models.ProductType{Name: name}).Error; err != nil {
			return created, fmt.Errorf("failed to create product type %q: %w", name, err)
		}
		created++
	}

	logrus.WithField("created", created).Info("Product type seeding completed")
	return created, nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
