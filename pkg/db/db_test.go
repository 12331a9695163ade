package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"liyu1981.xyz/iot-telemetry-service/pkg/common"
	"liyu1981.xyz/iot-telemetry-service/pkg/models"
	_ "liyu1981.xyz/iot-telemetry-service/pkg/testing"
)

func tableExists(db *gorm.DB, tableName string) bool {
	var count int64
	err := db.Raw(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, tableName,
	).Scan(&count).Error
	return err == nil && count > 0
}

func schemaSnapshot(t *testing.T, db *gorm.DB) []string {
	var stmts []string
	err := db.Raw(`SELECT sql FROM sqlite_master WHERE sql IS NOT NULL ORDER BY name`).Scan(&stmts).Error
	require.NoError(t, err)
	return stmts
}

func openMemory(t *testing.T) *DB {
	instance, err := Open(UseMemorySqliteDialector())
	require.NoError(t, err)
	t.Cleanup(func() { _ = instance.Close() })
	return instance
}

func TestEnsureSchemaWithMemorySqlite(t *testing.T) {
	common.SetTestLoggerNop()

	instance := openMemory(t)
	require.NoError(t, instance.EnsureSchema(context.Background()))

	for _, table := range []string{"dispositivos", "medidas"} {
		assert.True(t, tableExists(instance.Conn, table), "expected table %q to exist after migration", table)
	}
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	common.SetTestLoggerNop()

	instance := openMemory(t)
	ctx := context.Background()

	require.NoError(t, instance.EnsureSchema(ctx))
	first := schemaSnapshot(t, instance.Conn)

	require.NoError(t, instance.EnsureSchema(ctx))
	second := schemaSnapshot(t, instance.Conn)

	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestMemoryDatabasesAreIsolated(t *testing.T) {
	common.SetTestLoggerNop()

	a := openMemory(t)
	b := openMemory(t)

	require.NoError(t, a.EnsureSchema(context.Background()))

	assert.True(t, tableExists(a.Conn, "dispositivos"))
	assert.False(t, tableExists(b.Conn, "dispositivos"))
}

func TestOrphanMeasurementIsRejected(t *testing.T) {
	common.SetTestLoggerNop()

	instance := openMemory(t)
	ctx := context.Background()
	require.NoError(t, instance.EnsureSchema(ctx))

	err := instance.WithConnection(ctx, func(conn *gorm.DB) error {
		return conn.Create(&models.Measurement{
			Temperature: 20.0,
			Humidity:    50.0,
			Timestamp:   1700000000,
			DeviceID:    404,
		}).Error
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConstraintViolation), "got %v", err)

	var count int64
	require.NoError(t, instance.Conn.Model(&models.Measurement{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDuplicateDeviceIsConstraintViolation(t *testing.T) {
	common.SetTestLoggerNop()

	instance := openMemory(t)
	ctx := context.Background()
	require.NoError(t, instance.EnsureSchema(ctx))

	insert := func(conn *gorm.DB) error {
		return conn.Create(&models.Device{ID: 1, Latitude: 10, Longitude: 20}).Error
	}

	require.NoError(t, instance.WithConnection(ctx, insert))
	err := instance.WithConnection(ctx, insert)
	assert.True(t, errors.Is(err, common.ErrConstraintViolation), "got %v", err)
}

func TestWithConnectionReleasesOnEveryPath(t *testing.T) {
	common.SetTestLoggerNop()

	instance := openMemory(t)
	ctx := context.Background()
	sqlDB, err := instance.Conn.DB()
	require.NoError(t, err)

	require.NoError(t, instance.WithConnection(ctx, func(conn *gorm.DB) error {
		assert.Equal(t, 1, sqlDB.Stats().InUse)
		return nil
	}))
	assert.Equal(t, 0, sqlDB.Stats().InUse)

	boom := errors.New("boom")
	err = instance.WithConnection(ctx, func(conn *gorm.DB) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, sqlDB.Stats().InUse)

	assert.Panics(t, func() {
		_ = instance.WithConnection(ctx, func(conn *gorm.DB) error {
			panic("boom")
		})
	})
	assert.Equal(t, 0, sqlDB.Stats().InUse)
}

func TestWithConnectionOnClosedPool(t *testing.T) {
	common.SetTestLoggerNop()

	instance, err := Open(UseMemorySqliteDialector())
	require.NoError(t, err)
	require.NoError(t, instance.Close())

	called := false
	err = instance.WithConnection(context.Background(), func(conn *gorm.DB) error {
		called = true
		return nil
	})
	assert.False(t, called)
	assert.True(t, common.IsFatal(err), "got %v", err)
}

func TestOpenUnreachableStore(t *testing.T) {
	common.SetTestLoggerNop()

	_, err := Open(UseSqliteDialector("/nonexistent-dir/sub/telemetry.db"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrStorageUnavailable)
}
