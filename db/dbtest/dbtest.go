// Package dbtest opens throwaway SQLite databases with the catalog schema.
package dbtest

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"trackcatalog/db"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open returns a migrated in-memory database private to the calling test.
// A single connection keeps the shared-cache database alive and avoids
// SQLite table locks between pooled connections.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	return open(t, dsn, db.PoolOptions{MaxOpen: 1, MaxIdle: 1})
}

// OpenFile returns a migrated WAL-mode database file with a small pool, so
// a reader on one connection can run while another holds a transaction.
func OpenFile(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.db")
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)
	return open(t, dsn, db.PoolOptions{MaxOpen: 4, MaxIdle: 4})
}

func open(t testing.TB, dsn string, pool db.PoolOptions) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(sqlite.Open(dsn), gormlogger.Silent, pool)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })

	if err := db.AutoMigrate(context.Background(), gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}
