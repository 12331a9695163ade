package iot

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/iot-telemetry-service/pkg/common"
	"liyu1981.xyz/iot-telemetry-service/pkg/models"
)

func (i *IOT) createMeasurement(ctx context.Context, input *models.Measurement) error {
	logger := common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTMeasurement),
	)

	measurement := models.Measurement{
		Temperature: input.Temperature,
		Humidity:    input.Humidity,
		Timestamp:   input.Timestamp,
		DeviceID:    input.DeviceID,
	}

	logger.Debug("Received measurement for device", zap.Reflect("measurement", measurement))

	if err := i.Db.WithConnection(ctx, func(conn *gorm.DB) error {
		return conn.Create(&measurement).Error
	}); err != nil {
		return err
	}

	logger.Info("Stored measurement for device", zap.Reflect("measurement", measurement))

	// the relational row is the source of truth, a stale cache is tolerated
	if i.Latest != nil {
		if err := i.Latest.SetLatest(ctx, &measurement); err != nil {
			logger.Warn("Failed to update latest measurement cache",
				zap.Int64("device_id", measurement.DeviceID), zap.Error(err))
		}
	}

	return nil
}

type IMeasurementImpl struct {
	iot *IOT
}

func (im *IMeasurementImpl) Create(ctx context.Context, measurement *models.Measurement) error {
	return im.iot.createMeasurement(ctx, measurement)
}

func (i *IOT) GetIMeasurement() IMeasurement {
	return &IMeasurementImpl{iot: i}
}
