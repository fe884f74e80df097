// Package dbtest opens a migrated in-memory SQLite store for service tests.
package dbtest

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	database "jobmarket_backend/internals/databases"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]`)

// NewStore gives every test its own database. A single connection keeps the
// shared in-memory database alive for the life of the test.
func NewStore(t *testing.T) *database.GormStore {
	t.Helper()
	return database.NewStore(NewDB(t))
}

func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := unsafeName.ReplaceAllString(t.Name(), "_")
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
