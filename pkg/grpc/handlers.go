package grpc

import (
	"context"
	"errors"
	"fmt"
	"math"

	z "github.com/Oudwins/zog"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"
	"liyu1981.xyz/iot-telemetry-service/pkg/common"
	"liyu1981.xyz/iot-telemetry-service/pkg/models"
)

func validateLimit(limit *int) z.ZogIssueList {
	var limitValidator = z.Int().Required().GT(0).LTE(common.MaxReadoutLimit)
	return limitValidator.Validate(limit)
}

// deviceIDField reads the optional device_id, accepting an integral number or
// a decimal string.
func deviceIDField(req *structpb.Struct) (*int64, error) {
	v, ok := req.GetFields()["device_id"]
	if !ok {
		return nil, nil
	}

	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return nil, fmt.Errorf("device_id must be an integer, got %v", n)
		}
		// float64(math.MaxInt64) rounds up to 2^63, hence >=
		if n < math.MinInt64 || n >= math.MaxInt64 {
			return nil, fmt.Errorf("device_id out of range, got %v", n)
		}
		id := int64(n)
		return &id, nil
	case *structpb.Value_StringValue:
		id, err := common.ParseDeviceID(kind.StringValue)
		if err != nil {
			return nil, err
		}
		return &id, nil
	default:
		return nil, errors.New("device_id must be an integer")
	}
}

func limitField(req *structpb.Struct) (int, error) {
	v, ok := req.GetFields()["limit"]
	if !ok {
		return common.DefaultReadoutLimit, nil
	}

	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, errors.New("limit must be an integer")
	}
	if n.NumberValue < 1 || n.NumberValue > float64(common.MaxReadoutLimit) {
		return 0, fmt.Errorf("limit must be between 1 and %d", common.MaxReadoutLimit)
	}

	limit := int(n.NumberValue)
	if issues := validateLimit(&limit); len(issues) > 0 {
		return 0, fmt.Errorf("limit must be between 1 and %d: %v", common.MaxReadoutLimit, issues)
	}
	return limit, nil
}

func statusStruct(success bool, message string) map[string]any {
	return map[string]any{"success": success, "message": message}
}

func failure(message string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"status": statusStruct(false, message)})
}

func storageFailure(method string, err error) (*structpb.Struct, error) {
	common.GetLoggerWith(common.LoggerNameGrpcServer).Error("Readout failed",
		zap.String("method", method),
		zap.Error(err))
	return failure(err.Error())
}

func readingToValue(r models.Reading) any {
	return map[string]any{
		"id":          r.ID,
		"device_id":   r.DeviceID,
		"temperatura": r.Temperature,
		"umidade":     r.Humidity,
		"timestamp":   r.Timestamp,
		"lat":         r.Latitude,
		"long":        r.Longitude,
	}
}

func (s *ReadoutServer) ListReadings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	deviceID, err := deviceIDField(req)
	if err != nil {
		return failure(fmt.Sprintf("validation error: %v", err))
	}

	limit, err := limitField(req)
	if err != nil {
		return failure(fmt.Sprintf("validation error: %v", err))
	}

	readings, err := s.Iot.Readout.ListReadings(ctx, models.ReadoutQuery{DeviceID: deviceID, Limit: limit})
	if err != nil {
		return storageFailure("ListReadings", err)
	}

	return structpb.NewStruct(map[string]any{
		"status":   statusStruct(true, "OK"),
		"readings": common.Mapper(readings, readingToValue),
	})
}

func (s *ReadoutServer) GetDevice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	deviceID, err := deviceIDField(req)
	if err != nil {
		return failure(fmt.Sprintf("validation error: %v", err))
	}
	if deviceID == nil {
		return failure("validation error: device_id is required")
	}

	device, err := s.Iot.Readout.GetDevice(ctx, *deviceID)
	if err != nil {
		return storageFailure("GetDevice", err)
	}
	if device == nil {
		return failure("device not found")
	}

	return structpb.NewStruct(map[string]any{
		"status": statusStruct(true, "OK"),
		"device": map[string]any{
			"id":   device.ID,
			"lat":  device.Latitude,
			"long": device.Longitude,
		},
	})
}
