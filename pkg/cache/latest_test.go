package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liyu1981.xyz/iot-telemetry-service/pkg/common"
	"liyu1981.xyz/iot-telemetry-service/pkg/models"
	_ "liyu1981.xyz/iot-telemetry-service/pkg/testing"
)

func TestLatestKey(t *testing.T) {
	assert.Equal(t, "device:last:42", LatestKey(42))
	assert.Equal(t, "device:last:-1", LatestKey(-1))
}

func TestNewLatestStore_Unreachable(t *testing.T) {
	common.SetTestLoggerNop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewLatestStore(ctx, "127.0.0.1:1", time.Minute)
	assert.Error(t, err)
}

func TestLatestStore_RoundTrip(t *testing.T) {
	common.SetTestLoggerNop()

	if os.Getenv(common.EnvKeyRunIntegrationTests) != "true" {
		t.Skip("Skipping integration test: RUN_INTEGRATION_TESTS environment variable not set")
	}
	addr := os.Getenv(common.EnvKeyIOTRedisAddr)
	if addr == "" {
		t.Skip("Skipping redis test: IOT_REDIS_ADDR not set")
	}

	ctx := context.Background()
	store, err := NewLatestStore(ctx, addr, time.Minute)
	require.NoError(t, err)
	defer store.Close()

	deviceID := time.Now().UnixNano()

	missing, err := store.GetLatest(ctx, deviceID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, store.SetLatest(ctx, &models.Measurement{ID: 1, Temperature: 25.5, Humidity: 60, Timestamp: 1700000000, DeviceID: deviceID}))
	require.NoError(t, store.SetLatest(ctx, &models.Measurement{ID: 2, Temperature: 26.0, Humidity: 61, Timestamp: 1700000060, DeviceID: deviceID}))

	latest, err := store.GetLatest(ctx, deviceID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, int64(2), latest.ID)
	assert.Equal(t, 26.0, latest.Temperature)
	assert.Equal(t, int64(1700000060), latest.Timestamp)
}
