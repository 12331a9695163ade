package iot

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"liyu1981.xyz/iot-telemetry-service/pkg/common"
	"liyu1981.xyz/iot-telemetry-service/pkg/models"
)

func deviceLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTDevice),
	)
}

func lookupDevice(conn *gorm.DB, id int64) (*models.Device, error) {
	var devices []models.Device
	if err := conn.Where("id = ?", id).Limit(1).Find(&devices).Error; err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, nil
	}
	return &devices[0], nil
}

func (i *IOT) findDeviceByID(ctx context.Context, id int64) (*models.Device, error) {
	var device *models.Device
	err := i.Db.WithConnection(ctx, func(conn *gorm.DB) error {
		var err error
		device, err = lookupDevice(conn, id)
		return err
	})
	return device, err
}

func (i *IOT) createDevice(ctx context.Context, input *models.Device) error {
	device := models.Device{
		ID:        input.ID,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	}

	err := i.Db.WithConnection(ctx, func(conn *gorm.DB) error {
		return conn.Create(&device).Error
	})
	if err == nil {
		deviceLogger().Info("Created device", zap.Reflect("device", device))
	}
	return err
}

// registerDevice keeps the lookup-then-create order, but the insert itself
// is ON CONFLICT DO NOTHING so a concurrent registration of the same id is
// a no-op instead of a constraint failure.
func (i *IOT) registerDevice(ctx context.Context, input *models.Device) (bool, error) {
	created := false

	err := i.Db.WithConnection(ctx, func(conn *gorm.DB) error {
		existing, err := lookupDevice(conn, input.ID)
		if err != nil || existing != nil {
			return err
		}

		device := models.Device{
			ID:        input.ID,
			Latitude:  input.Latitude,
			Longitude: input.Longitude,
		}
		result := conn.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).Create(&device)
		if result.Error != nil {
			return result.Error
		}
		created = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	if created {
		deviceLogger().Info("Registered new device", zap.Reflect("device", input))
	}
	return created, nil
}

type IDeviceImpl struct {
	iot *IOT
}

func (di *IDeviceImpl) FindByID(ctx context.Context, deviceID int64) (*models.Device, error) {
	return di.iot.findDeviceByID(ctx, deviceID)
}

func (di *IDeviceImpl) Create(ctx context.Context, device *models.Device) error {
	return di.iot.createDevice(ctx, device)
}

func (di *IDeviceImpl) Register(ctx context.Context, device *models.Device) (bool, error) {
	return di.iot.registerDevice(ctx, device)
}

func (i *IOT) GetIDevice() IDevice {
	return &IDeviceImpl{iot: i}
}
