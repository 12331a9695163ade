package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"liyu1981.xyz/iot-telemetry-service/pkg/common"
	_ "liyu1981.xyz/iot-telemetry-service/pkg/testing"
)

func TestRun_UnknownCommand(t *testing.T) {
	common.SetTestLoggerNop()

	assert.Equal(t, 1, run([]string{"seed"}))
}

func TestRun_Migrate(t *testing.T) {
	common.SetTestLoggerNop()
	t.Setenv(common.EnvKeyIOTDBType, common.DBTypeMemory)

	assert.Equal(t, 0, run([]string{"migrate"}))
	// idempotent
	assert.Equal(t, 0, run([]string{"migrate"}))
}

func TestRun_MigrateFileDatabase(t *testing.T) {
	common.SetTestLoggerNop()
	t.Setenv(common.EnvKeyIOTDBType, common.DBTypeFile)
	t.Setenv(common.EnvKeyIOTDbPath, t.TempDir()+"/telemetry.db")

	assert.Equal(t, 0, run([]string{"migrate"}))
	assert.Equal(t, 0, run([]string{"migrate"}))
}

func TestRun_InvalidConfig(t *testing.T) {
	common.SetTestLoggerNop()
	t.Setenv(common.EnvKeyIOTDBType, "mysql")

	assert.Equal(t, 1, run([]string{"migrate"}))
}

func TestRun_PostgresRequiresURL(t *testing.T) {
	common.SetTestLoggerNop()
	t.Setenv(common.EnvKeyIOTDBType, common.DBTypePostgres)
	t.Setenv(common.EnvKeyIOTPostgresURL, "")

	// postgres without a URL is rejected by config validation
	assert.Equal(t, 1, run([]string{"migrate"}))
}
