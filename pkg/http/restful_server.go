package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"liyu1981.xyz/iot-telemetry-service/pkg/common"
	"liyu1981.xyz/iot-telemetry-service/pkg/ingest"
	"liyu1981.xyz/iot-telemetry-service/pkg/iot"
)

// RestfulServer limits device reads with RateLimiterStore. Ingestion is
// limited by the Ingestor's own store, so reads never spend a device's
// ingestion budget.
type RestfulServer struct {
	Server           *gin.Engine
	Iot              *iot.IOT
	Ingestor         *ingest.Ingestor
	RateLimiterStore *iot.RateLimiterStore
}

func (rs *RestfulServer) CheckDeviceLimiter(deviceID int64) bool {
	return rs.RateLimiterStore.Allow(deviceID)
}

// SetLimiter adjusts the ingestion limiter of a device, the one protecting
// the store from a flooding sensor.
func (rs *RestfulServer) SetLimiter(deviceID int64, deviceRate float64, deviceBurst int) {
	if rs.Ingestor.RateLimiterStore == nil {
		return
	}
	rs.Ingestor.RateLimiterStore.SetLimiter(deviceID, rate.Limit(deviceRate), deviceBurst)
}

func (rs *RestfulServer) Setup() {
	if rs.Ingestor == nil {
		rs.Ingestor = ingest.NewIngestor(rs.Iot, nil)
	}

	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.GET("/readings", rs.GetReadings)

	devices := rs.Server.Group("/devices/:device_id")
	{
		devices.GET("", rs.GetDevice)
		devices.GET("/readings", rs.GetDeviceReadings)
		devices.GET("/latest", rs.GetLatest)
		devices.POST("/measurements", rs.PostMeasurement)
		devices.POST("/limiter", rs.PostLimiter)
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrMalformedPayload):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, common.ErrConstraintViolation):
		return http.StatusConflict
	case errors.Is(err, common.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		common.GetLoggerWith(common.LoggerNameRestfulServer).Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
