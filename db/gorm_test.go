package db_test

import (
	"context"
	"testing"
	"time"

	"trackcatalog/config"
	"trackcatalog/db"
	"trackcatalog/db/dbtest"
	"trackcatalog/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestMySQLDSN(t *testing.T) {
	cfg := &config.Config{
		DBUser:     "catalog",
		DBPassword: "secret",
		DBHost:     "db.internal",
		DBPort:     "3307",
		DBName:     "music",
	}

	dsn := db.MySQLDSN(cfg)

	assert.Contains(t, dsn, "catalog:secret@tcp(db.internal:3307)/music")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, db.ParseLogLevel("silent"))
	assert.Equal(t, gormlogger.Info, db.ParseLogLevel("info"))
	assert.Equal(t, gormlogger.Warn, db.ParseLogLevel(""))
}

func TestClearTables(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()

	user := model.User{Email: "test@testcom"}
	require.NoError(t, gdb.Create(&user).Error)
	artist := model.Artist{UserID: user.ID, Name: "artist", URLSlug: "artist"}
	require.NoError(t, gdb.Create(&artist).Error)
	tg := model.NewTrackGroup(artist.ID, "album", "album", time.Now())
	tg.Tracks = []model.Track{{Title: "one"}}
	require.NoError(t, gdb.Create(tg).Error)

	require.NoError(t, db.ClearTables(ctx, gdb))

	for _, m := range db.Models() {
		var count int64
		require.NoError(t, gdb.Model(m).Count(&count).Error)
		assert.Zero(t, count, "%T should be empty", m)
	}
}

func TestClearTablesOnEmptyDatabase(t *testing.T) {
	gdb := dbtest.Open(t)
	assert.NoError(t, db.ClearTables(context.Background(), gdb))
}

func TestPing(t *testing.T) {
	gdb := dbtest.Open(t)
	assert.NoError(t, db.Ping(context.Background(), gdb))
}
