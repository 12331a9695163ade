package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"liyu1981.xyz/iot-telemetry-service/pkg/common"
)

const (
	dialectSqlite   = "sqlite"
	dialectPostgres = "postgres"
)

// DB owns the connection pool. Repository code never holds a connection
// across calls: every unit of work goes through WithConnection.
type DB struct {
	Conn *gorm.DB
}

// Open connects with the given dialector. Any failure is reported as
// common.ErrStorageUnavailable.
func Open(dialector gorm.Dialector) (*DB, error) {
	logger := common.GetLoggerWith(common.LoggerNameStorage)

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}

	// a private in-memory database lives only as long as one of its
	// connections, and shared cache serializes writers anyway
	if sd, ok := dialector.(*sqlite.Dialector); ok && strings.Contains(sd.DSN, "mode=memory") {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}

	logger.Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

	return &DB{Conn: conn}, nil
}

// WithConnection acquires one pooled connection, runs fn on it and releases
// it on every exit path. Acquisition failures are common.ErrStorageUnavailable,
// constraint failures raised by fn are common.ErrConstraintViolation.
func (d *DB) WithConnection(ctx context.Context, fn func(conn *gorm.DB) error) error {
	acquired := false

	err := d.Conn.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		acquired = true

		// foreign key enforcement is per connection in sqlite
		if d.IsSqlite() {
			if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
				return err
			}
		}

		return fn(conn.Session(&gorm.Session{NewDB: true}))
	})

	if err != nil && !acquired {
		return fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}
	return classifyError(err)
}

func (d *DB) Dialect() string {
	return d.Conn.Dialector.Name()
}

func (d *DB) IsSqlite() bool {
	return d.Dialect() == dialectSqlite
}

func (d *DB) Close() error {
	sqlDB, err := d.Conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func UseSqliteDialector(path string) gorm.Dialector {
	if path == "" {
		path = "telemetry.db"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return sqlite.Open(path + sep + "_foreign_keys=1&_busy_timeout=5000&_journal_mode=WAL")
}

// UseMemorySqliteDialector returns a dialector for a fresh, private
// in-memory database. Two calls never share data.
func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open(fmt.Sprintf("file:telemetry-%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString()))
}

func UsePostgresDialector(url string) gorm.Dialector {
	return postgres.Open(url)
}
