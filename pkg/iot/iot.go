package iot

import (
	"context"

	"liyu1981.xyz/iot-telemetry-service/pkg/db"
	"liyu1981.xyz/iot-telemetry-service/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_iot.go -package=mocks liyu1981.xyz/iot-telemetry-service/pkg/iot IDevice,IMeasurement,IReadout,ILatest

// IDevice is the device registry.
type IDevice interface {
	// FindByID returns nil and no error when the device is unknown.
	FindByID(ctx context.Context, id int64) (*models.Device, error)
	// Create inserts a new device and fails with common.ErrConstraintViolation
	// if the id is taken.
	Create(ctx context.Context, device *models.Device) error
	// Register is get-or-create. It reports whether a row was inserted and
	// never modifies an existing device.
	Register(ctx context.Context, device *models.Device) (bool, error)
}

type IMeasurement interface {
	Create(ctx context.Context, measurement *models.Measurement) error
}

type IReadout interface {
	ListReadings(ctx context.Context, query models.ReadoutQuery) ([]models.Reading, error)
	GetDevice(ctx context.Context, id int64) (*models.Device, error)
}

// ILatest keeps the most recent measurement of each device outside the
// relational store.
type ILatest interface {
	SetLatest(ctx context.Context, measurement *models.Measurement) error
	GetLatest(ctx context.Context, deviceID int64) (*models.Measurement, error)
}

type IOT struct {
	Db          *db.DB
	Device      IDevice
	Measurement IMeasurement
	Readout     IReadout
	Latest      ILatest
}

type ServiceOpts struct {
	Device      IDevice
	Measurement IMeasurement
	Readout     IReadout
	Latest      ILatest
}

// New returns an IOT backed by database with the default services wired.
// Latest stays nil until a cache is configured.
func New(database *db.DB) *IOT {
	i := &IOT{Db: database}
	return i.WithServices(ServiceOpts{
		Device:      i.GetIDevice(),
		Measurement: i.GetIMeasurement(),
		Readout:     i.GetIReadout(),
	})
}

func (i *IOT) WithServices(opts ServiceOpts) *IOT {
	if opts.Device != nil {
		i.Device = opts.Device
	}
	if opts.Measurement != nil {
		i.Measurement = opts.Measurement
	}
	if opts.Readout != nil {
		i.Readout = opts.Readout
	}
	if opts.Latest != nil {
		i.Latest = opts.Latest
	}
	return i
}
