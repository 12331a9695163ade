package common

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	_ "liyu1981.xyz/iot-telemetry-service/pkg/testing"
)

func TestLoggingCapture(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	logger := GetLoggerWith(LoggerNameIngest, zap.String(LoggerFieldIOTCategory, LoggerCategoryIOTDevice))
	logger.Info("Registered device", zap.Int64("device_id", 7))
	logger.Debug("dropped below level")

	logOutput := buf.String()
	assert.True(t, strings.Contains(logOutput, "Registered device"), "got: %s", logOutput)
	assert.True(t, strings.Contains(logOutput, `"logger":"ingest"`), "got: %s", logOutput)
	assert.True(t, strings.Contains(logOutput, `"category":"device"`), "got: %s", logOutput)
	assert.False(t, strings.Contains(logOutput, "dropped below level"))
}
