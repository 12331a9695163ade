package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"liyu1981.xyz/iot-telemetry-service/pkg/db"
	"liyu1981.xyz/iot-telemetry-service/pkg/iot"
	"liyu1981.xyz/iot-telemetry-service/pkg/iot/mocks"
	"liyu1981.xyz/iot-telemetry-service/pkg/models"
)

func getMemoryIOT(t *testing.T) *iot.IOT {
	dbInstance, err := db.Open(db.UseMemorySqliteDialector())
	require.NoError(t, err)
	require.NoError(t, dbInstance.EnsureSchema(context.Background()))
	t.Cleanup(func() { _ = dbInstance.Close() })

	return iot.New(dbInstance)
}

func getMockedIOT(t *testing.T) (*gomock.Controller, *iot.IOT, *mocks.MockIDevice, *mocks.MockIMeasurement) {
	ctrl := gomock.NewController(t)
	mockIDevice := mocks.NewMockIDevice(ctrl)
	mockIMeasurement := mocks.NewMockIMeasurement(ctrl)

	iotInstance := getMemoryIOT(t).WithServices(iot.ServiceOpts{
		Device:      mockIDevice,
		Measurement: mockIMeasurement,
	})
	return ctrl, iotInstance, mockIDevice, mockIMeasurement
}

func countRows(t *testing.T, i *iot.IOT) (devices int64, measurements int64) {
	require.NoError(t, i.Db.Conn.Model(&models.Device{}).Count(&devices).Error)
	require.NoError(t, i.Db.Conn.Model(&models.Measurement{}).Count(&measurements).Error)
	return devices, measurements
}

func parseLogs(r io.Reader) []map[string]any {
	scanner := bufio.NewScanner(r)
	var logs []map[string]any

	for scanner.Scan() {
		var j map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
