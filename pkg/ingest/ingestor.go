package ingest

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"liyu1981.xyz/iot-telemetry-service/pkg/common"
	"liyu1981.xyz/iot-telemetry-service/pkg/iot"
	"liyu1981.xyz/iot-telemetry-service/pkg/models"
)

// Ingestor turns decoded payloads into rows. Calls are serialized, so only
// one message is in flight no matter which transport delivered it.
type Ingestor struct {
	Iot              *iot.IOT
	RateLimiterStore *iot.RateLimiterStore

	mu sync.Mutex
}

func NewIngestor(i *iot.IOT, limiter *iot.RateLimiterStore) *Ingestor {
	return &Ingestor{Iot: i, RateLimiterStore: limiter}
}

// Handle decodes raw and ingests it. The decoded payload is returned even
// when ingestion fails so callers can log it.
func (in *Ingestor) Handle(ctx context.Context, raw []byte) (*models.Payload, error) {
	payload, err := ParsePayload(raw)
	if err != nil {
		return nil, err
	}
	return payload, in.Ingest(ctx, payload)
}

// Ingest registers the device if it is unseen, then writes the measurement.
// The device row always exists before the measurement insert.
func (in *Ingestor) Ingest(ctx context.Context, payload *models.Payload) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if !in.RateLimiterStore.Allow(payload.DeviceID) {
		return fmt.Errorf("%w: device %d", common.ErrRateLimited, payload.DeviceID)
	}

	created, err := in.Iot.Device.Register(ctx, payload.Device())
	if err != nil {
		return fmt.Errorf("register device %d: %w", payload.DeviceID, err)
	}

	if err := in.Iot.Measurement.Create(ctx, payload.Measurement()); err != nil {
		return fmt.Errorf("write measurement for device %d: %w", payload.DeviceID, err)
	}

	common.GetLoggerWith(common.LoggerNameIngest).Debug("Ingested payload",
		zap.Int64("device_id", payload.DeviceID),
		zap.Bool("new_device", created),
		zap.Int64("timestamp", payload.Timestamp))

	return nil
}
