package iot

import (
	"context"

	"gorm.io/gorm"
	"liyu1981.xyz/iot-telemetry-service/pkg/models"
)

const readingColumns = `m.id AS id, m.id_dispositivo AS device_id, m.temperatura AS temperatura,
	m.umidade AS umidade, m.timestamp AS timestamp, d.lat AS lat, d.long AS long`

func (i *IOT) listReadings(ctx context.Context, query models.ReadoutQuery) ([]models.Reading, error) {
	readings := make([]models.Reading, 0)

	err := i.Db.WithConnection(ctx, func(conn *gorm.DB) error {
		tx := conn.Table("medidas AS m").
			Select(readingColumns).
			Joins("JOIN dispositivos AS d ON d.id = m.id_dispositivo")

		if query.DeviceID != nil {
			tx = tx.Where("m.id_dispositivo = ?", *query.DeviceID)
		}
		if query.Limit > 0 {
			tx = tx.Limit(query.Limit)
		}

		return tx.Order("m.timestamp DESC").Order("m.id DESC").Scan(&readings).Error
	})

	return readings, err
}

type IReadoutImpl struct {
	iot *IOT
}

func (ir *IReadoutImpl) ListReadings(ctx context.Context, query models.ReadoutQuery) ([]models.Reading, error) {
	return ir.iot.listReadings(ctx, query)
}

func (ir *IReadoutImpl) GetDevice(ctx context.Context, id int64) (*models.Device, error) {
	return ir.iot.findDeviceByID(ctx, id)
}

func (i *IOT) GetIReadout() IReadout {
	return &IReadoutImpl{iot: i}
}
