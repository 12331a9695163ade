package iot

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"liyu1981.xyz/iot-telemetry-service/pkg/db"
	"liyu1981.xyz/iot-telemetry-service/pkg/iot/mocks"
)

func GetMockIOTWithMemorySqliteDialector(t *testing.T, useMockILatest bool) (
	*gomock.Controller,
	*IOT,
	*mocks.MockILatest,
) {
	ctrl := gomock.NewController(t)

	dbInstance, err := db.Open(db.UseMemorySqliteDialector())
	require.NoError(t, err)
	require.NoError(t, dbInstance.EnsureSchema(context.Background()))
	t.Cleanup(func() { _ = dbInstance.Close() })

	iotInstance := New(dbInstance)

	mockILatest := mocks.NewMockILatest(ctrl)
	if useMockILatest {
		iotInstance.WithServices(ServiceOpts{Latest: mockILatest})
	}

	return ctrl, iotInstance, mockILatest
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		var j any
		if err := json.Unmarshal([]byte(scanner.Text()), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
