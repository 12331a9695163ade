package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"liyu1981.xyz/iot-telemetry-service/pkg/common"
	"liyu1981.xyz/iot-telemetry-service/pkg/iot"
	"liyu1981.xyz/iot-telemetry-service/pkg/models"
)

// LatestStore keeps the last measurement of every device in Redis under
// "device:last:{id}". Entries expire so silent devices drop out.
type LatestStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLatestStore(ctx context.Context, addr string, ttl time.Duration) (*LatestStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis not reachable at %s: %w", addr, err)
	}

	common.GetLoggerWith(common.LoggerNameCache).Info("Connected to redis", zap.String("addr", addr))

	return &LatestStore{client: client, ttl: ttl}, nil
}

func LatestKey(deviceID int64) string {
	return fmt.Sprintf("device:last:%d", deviceID)
}

func (s *LatestStore) SetLatest(ctx context.Context, measurement *models.Measurement) error {
	value, err := json.Marshal(measurement)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, LatestKey(measurement.DeviceID), value, s.ttl).Err()
}

// GetLatest returns nil and no error when nothing is cached for the device.
func (s *LatestStore) GetLatest(ctx context.Context, deviceID int64) (*models.Measurement, error) {
	value, err := s.client.Get(ctx, LatestKey(deviceID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var measurement models.Measurement
	if err := json.Unmarshal(value, &measurement); err != nil {
		return nil, fmt.Errorf("corrupt cache entry %s: %w", LatestKey(deviceID), err)
	}
	return &measurement, nil
}

func (s *LatestStore) Close() error {
	return s.client.Close()
}

var _ iot.ILatest = (*LatestStore)(nil)
