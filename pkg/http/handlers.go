package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"liyu1981.xyz/iot-telemetry-service/pkg/common"
	"liyu1981.xyz/iot-telemetry-service/pkg/models"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

type ReadingsQuery struct {
	Limit int `zog:"limit"`
}

var readingsQuerySchema = z.Struct(z.Shape{
	"limit": z.Int().Default(common.DefaultReadoutLimit).GT(0).LTE(common.MaxReadoutLimit),
})

// deviceParam parses :device_id and writes a 400 when it is not an integer.
func deviceParam(c *gin.Context) (int64, bool) {
	deviceID, err := common.ParseDeviceID(c.Param("device_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, false
	}
	return deviceID, true
}

func (rs *RestfulServer) listReadings(c *gin.Context, deviceID *int64) {
	var req ReadingsQuery
	if err := readingsQuerySchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	readings, err := rs.Iot.Readout.ListReadings(c.Request.Context(), models.ReadoutQuery{
		DeviceID: deviceID,
		Limit:    req.Limit,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, readings)
}

func (rs *RestfulServer) GetReadings(c *gin.Context) {
	rs.listReadings(c, nil)
}

func (rs *RestfulServer) GetDeviceReadings(c *gin.Context) {
	deviceID, ok := deviceParam(c)
	if !ok {
		return
	}

	if !rs.CheckDeviceLimiter(deviceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	rs.listReadings(c, &deviceID)
}

func (rs *RestfulServer) GetDevice(c *gin.Context) {
	deviceID, ok := deviceParam(c)
	if !ok {
		return
	}

	if !rs.CheckDeviceLimiter(deviceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	device, err := rs.Iot.Readout.GetDevice(c.Request.Context(), deviceID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if device == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}

	c.JSON(http.StatusOK, device)
}

func (rs *RestfulServer) GetLatest(c *gin.Context) {
	deviceID, ok := deviceParam(c)
	if !ok {
		return
	}

	if rs.Iot.Latest == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "latest reading cache is disabled"})
		return
	}

	measurement, err := rs.Iot.Latest.GetLatest(c.Request.Context(), deviceID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if measurement == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no reading cached for device"})
		return
	}

	c.JSON(http.StatusOK, measurement)
}

// PostMeasurement accepts the sensor payload without its id, which comes from
// the path, and runs it through the same ingestor as the MQTT subscriber.
func (rs *RestfulServer) PostMeasurement(c *gin.Context) {
	deviceID, ok := deviceParam(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be a JSON object"})
		return
	}
	fields["id"] = json.RawMessage(strconv.FormatInt(deviceID, 10))

	raw, err := json.Marshal(fields)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := rs.Ingestor.Handle(c.Request.Context(), raw); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

type LimiterRequest struct {
	Rate  float64 `json:"rate" zog:"rate"`
	Burst int     `json:"burst" zog:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required().GTE(0),
	"burst": z.Int().Required().GTE(0),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	deviceID, ok := deviceParam(c)
	if !ok {
		return
	}

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(deviceID, req.Rate, req.Burst)

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
