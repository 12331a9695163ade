package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/iot-telemetry-service/pkg/common"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS dispositivos (
		id INTEGER PRIMARY KEY,
		lat REAL NOT NULL,
		long REAL NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS medidas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		temperatura REAL NOT NULL,
		umidade REAL NOT NULL,
		timestamp INTEGER NOT NULL,
		id_dispositivo INTEGER NOT NULL,
		FOREIGN KEY (id_dispositivo) REFERENCES dispositivos(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_medidas_id_dispositivo ON medidas(id_dispositivo)`,
	`CREATE INDEX IF NOT EXISTS idx_medidas_timestamp ON medidas(timestamp)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS dispositivos (
		id BIGINT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		long DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS medidas (
		id BIGSERIAL PRIMARY KEY,
		temperatura DOUBLE PRECISION NOT NULL,
		umidade DOUBLE PRECISION NOT NULL,
		"timestamp" BIGINT NOT NULL,
		id_dispositivo BIGINT NOT NULL,
		FOREIGN KEY (id_dispositivo) REFERENCES dispositivos(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_medidas_id_dispositivo ON medidas(id_dispositivo)`,
	`CREATE INDEX IF NOT EXISTS idx_medidas_timestamp ON medidas("timestamp")`,
}

func (d *DB) schemaStatements() []string {
	if d.Dialect() == dialectPostgres {
		return postgresSchema
	}
	return sqliteSchema
}

// EnsureSchema creates the device and measurement tables when missing. It is
// safe to run on every start and from the migrate command.
func (d *DB) EnsureSchema(ctx context.Context) error {
	logger := common.GetLoggerWith(common.LoggerNameStorage)

	logger.Info("Creating dispositivos and medidas tables if they don't exist",
		zap.String("dialect", d.Dialect()))

	err := d.WithConnection(ctx, func(conn *gorm.DB) error {
		for _, stmt := range d.schemaStatements() {
			if err := conn.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	logger.Info("Tables created or already exist")
	return nil
}
