package db

import (
	"context"
	"fmt"
	"net"
	"time"

	"trackcatalog/config"
	"trackcatalog/model"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models lists every table the catalog owns, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Artist{},
		&model.TrackGroup{},
		&model.Track{},
	}
}

// PoolOptions tunes the underlying sql.DB pool.
type PoolOptions struct {
	MaxIdle     int
	MaxOpen     int
	MaxLifetime time.Duration
}

// MySQLDSN builds the driver DSN. Times are parsed and stored as UTC.
func MySQLDSN(cfg *config.Config) string {
	mc := mysql.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPassword
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// ParseLogLevel maps DB_LOG_LEVEL onto GORM's logger levels.
func ParseLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// Open opens a GORM connection over any dialector. Production passes the
// MySQL dialector; tests pass SQLite.
func Open(dialector gorm.Dialector, level gormlogger.LogLevel, pool PoolOptions) (*gorm.DB, error) {
	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database with GORM: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if pool.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdle)
	}
	if pool.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpen)
	}
	if pool.MaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.MaxLifetime)
	}
	if err := enableCommitHooks(gdb); err != nil {
		return nil, fmt.Errorf("failed to install commit hooks: %w", err)
	}
	return gdb, nil
}

// ConnectMySQL opens the production database described by cfg.
func ConnectMySQL(cfg *config.Config) (*gorm.DB, error) {
	return Open(gormmysql.Open(MySQLDSN(cfg)), ParseLogLevel(cfg.DBLogLevel), PoolOptions{
		MaxIdle:     cfg.DBMaxIdle,
		MaxOpen:     cfg.DBMaxOpen,
		MaxLifetime: cfg.DBMaxConnAge,
	})
}

// Close closes the underlying connection pool.
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the database is reachable.
func Ping(ctx context.Context, gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// AutoMigrate creates or updates the catalog tables.
func AutoMigrate(ctx context.Context, gdb *gorm.DB) error {
	if err := gdb.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	return nil
}

// ClearTables deletes every row from the catalog tables, children first.
// Deletes go through GORM's delete callbacks so listeners such as the
// listing cache see them.
func ClearTables(ctx context.Context, gdb *gorm.DB) error {
	models := Models()
	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := len(models) - 1; i >= 0; i-- {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(models[i]).Error; err != nil {
				return fmt.Errorf("failed to clear %T: %w", models[i], err)
			}
		}
		return nil
	})
}
