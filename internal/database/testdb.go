package database

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory SQLite database with the schema applied.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("getting test sql.DB: %v", err)
	}
	// A single connection keeps the in-memory database alive and serializes writes.
	sqlDB.SetMaxOpenConns(1)

	if err := RunMigrations(db); err != nil {
		sqlDB.Close()
		t.Fatalf("migrating test database: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })

	return db
}
