package models

// Device is a sensor registered on first sighting. Coordinates are written
// once and never updated.
type Device struct {
	ID        int64   `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Latitude  float64 `gorm:"column:lat;not null" json:"lat"`
	Longitude float64 `gorm:"column:long;not null" json:"long"`
}

func (Device) TableName() string {
	return "dispositivos"
}

type Measurement struct {
	ID          int64   `gorm:"column:id;primaryKey" json:"id"`
	Temperature float64 `gorm:"column:temperatura;not null" json:"temperatura"`
	Humidity    float64 `gorm:"column:umidade;not null" json:"umidade"`
	Timestamp   int64   `gorm:"column:timestamp;not null" json:"timestamp"` // epoch seconds
	DeviceID    int64   `gorm:"column:id_dispositivo;not null" json:"device_id"`
}

func (Measurement) TableName() string {
	return "medidas"
}

// Reading is a measurement joined with the coordinates of its device, the
// row shape the dashboard consumes.
type Reading struct {
	ID          int64   `gorm:"column:id" json:"id"`
	DeviceID    int64   `gorm:"column:device_id" json:"device_id"`
	Temperature float64 `gorm:"column:temperatura" json:"temperatura"`
	Humidity    float64 `gorm:"column:umidade" json:"umidade"`
	Timestamp   int64   `gorm:"column:timestamp" json:"timestamp"`
	Latitude    float64 `gorm:"column:lat" json:"lat"`
	Longitude   float64 `gorm:"column:long" json:"long"`
}

// Payload is one decoded sensor message.
type Payload struct {
	DeviceID    int64   `json:"id"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"long"`
	Temperature float64 `json:"temperatura"`
	Humidity    float64 `json:"umidade"`
	Timestamp   int64   `json:"timestamp"`
}

func (p *Payload) Device() *Device {
	return &Device{
		ID:        p.DeviceID,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
	}
}

func (p *Payload) Measurement() *Measurement {
	return &Measurement{
		Temperature: p.Temperature,
		Humidity:    p.Humidity,
		Timestamp:   p.Timestamp,
		DeviceID:    p.DeviceID,
	}
}

// ReadoutQuery filters the reading list. A nil DeviceID selects every
// device, a non-positive Limit means no limit.
type ReadoutQuery struct {
	DeviceID *int64
	Limit    int
}
