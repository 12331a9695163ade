package iot

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"liyu1981.xyz/iot-telemetry-service/pkg/common"
	"liyu1981.xyz/iot-telemetry-service/pkg/models"
	_ "liyu1981.xyz/iot-telemetry-service/pkg/testing"
)

func countDevices(t *testing.T, i *IOT) int64 {
	var count int64
	require.NoError(t, i.Db.Conn.Model(&models.Device{}).Count(&count).Error)
	return count
}

func TestFindByID_Absent(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _ := GetMockIOTWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	device, err := iotObj.Device.FindByID(context.Background(), 1)
	assert.NoError(t, err)
	assert.Nil(t, device)
}

func TestCreateAndFindDevice(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _ := GetMockIOTWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()
	ctx := context.Background()

	err := iotObj.Device.Create(ctx, &models.Device{ID: 1, Latitude: 10.0, Longitude: 20.0})
	require.NoError(t, err)

	device, err := iotObj.Device.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, device)
	assert.Equal(t, models.Device{ID: 1, Latitude: 10.0, Longitude: 20.0}, *device)
}

func TestCreateDevice_Duplicate(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _ := GetMockIOTWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()
	ctx := context.Background()

	require.NoError(t, iotObj.Device.Create(ctx, &models.Device{ID: 5, Latitude: 1, Longitude: 2}))

	err := iotObj.Device.Create(ctx, &models.Device{ID: 5, Latitude: 3, Longitude: 4})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConstraintViolation), "got %v", err)

	device, err := iotObj.Device.FindByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, device.Latitude)
	assert.Equal(t, 2.0, device.Longitude)
}

func TestCreateDevice_ZeroID(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _ := GetMockIOTWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()
	ctx := context.Background()

	require.NoError(t, iotObj.Device.Create(ctx, &models.Device{ID: 0, Latitude: 1, Longitude: 2}))

	device, err := iotObj.Device.FindByID(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, device)
	assert.Equal(t, int64(0), device.ID)
}

func TestRegisterDevice_KeepsFirstCoordinates(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _ := GetMockIOTWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()
	ctx := context.Background()

	created, err := iotObj.Device.Register(ctx, &models.Device{ID: 1, Latitude: 10.0, Longitude: 20.0})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = iotObj.Device.Register(ctx, &models.Device{ID: 1, Latitude: 99.0, Longitude: 99.0})
	require.NoError(t, err)
	assert.False(t, created)

	device, err := iotObj.Device.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 10.0, device.Latitude)
	assert.Equal(t, 20.0, device.Longitude)
	assert.Equal(t, int64(1), countDevices(t, iotObj))
}

func TestRegisterDevice_Concurrent(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _ := GetMockIOTWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	const goroutineCount = 20

	var wg sync.WaitGroup
	results := make(chan bool, goroutineCount)
	errs := make(chan error, goroutineCount)

	for range goroutineCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := iotObj.Device.Register(context.Background(), &models.Device{ID: 42, Latitude: 1, Longitude: 2})
			results <- created
			errs <- err
		}()
	}

	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	createdCount := 0
	for created := range results {
		if created {
			createdCount++
		}
	}
	assert.Equal(t, 1, createdCount)
	assert.Equal(t, int64(1), countDevices(t, iotObj))
}

func TestRegisterDevice_WithLog(t *testing.T) {
	var buf = &bytes.Buffer{}
	common.SetTestCaptureLogger(buf, zapcore.InfoLevel)

	ctrl, iotObj, _ := GetMockIOTWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	_, err := iotObj.Device.Register(context.Background(), &models.Device{ID: 77, Latitude: -22.9, Longitude: -43.2})
	require.NoError(t, err)

	found := false
	for _, log := range ParseLogs(buf) {
		lobj := log.(map[string]any)
		if lobj["category"] == "device" &&
			lobj["logger"] == "iot_core" &&
			lobj["msg"] == "Registered new device" &&
			lobj["device"].(map[string]any)["id"] == 77.0 &&
			lobj["device"].(map[string]any)["lat"] == -22.9 {
			found = true
		}
	}
	assert.True(t, found, "log not found")
}
