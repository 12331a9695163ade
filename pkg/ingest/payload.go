package ingest

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"liyu1981.xyz/iot-telemetry-service/pkg/common"
	"liyu1981.xyz/iot-telemetry-service/pkg/models"
)

// wirePayload uses pointers so a missing or null key is distinguishable
// from a zero reading.
type wirePayload struct {
	ID          *int64   `json:"id"`
	Lat         *float64 `json:"lat"`
	Long        *float64 `json:"long"`
	Temperatura *float64 `json:"temperatura"`
	Umidade     *float64 `json:"umidade"`
	Timestamp   *int64   `json:"timestamp"`
}

func (w *wirePayload) missingFields() []string {
	var missing []string
	if w.ID == nil {
		missing = append(missing, "id")
	}
	if w.Lat == nil {
		missing = append(missing, "lat")
	}
	if w.Long == nil {
		missing = append(missing, "long")
	}
	if w.Temperatura == nil {
		missing = append(missing, "temperatura")
	}
	if w.Umidade == nil {
		missing = append(missing, "umidade")
	}
	if w.Timestamp == nil {
		missing = append(missing, "timestamp")
	}
	return missing
}

// ParsePayload decodes one sensor message. Every failure wraps
// common.ErrMalformedPayload. Unknown keys are ignored.
func ParsePayload(raw []byte) (*models.Payload, error) {
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: not valid UTF-8", common.ErrMalformedPayload)
	}

	var wire wirePayload
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrMalformedPayload, err)
	}

	if missing := wire.missingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required fields: %s", common.ErrMalformedPayload, strings.Join(missing, ", "))
	}

	return &models.Payload{
		DeviceID:    *wire.ID,
		Latitude:    *wire.Lat,
		Longitude:   *wire.Long,
		Temperature: *wire.Temperatura,
		Humidity:    *wire.Umidade,
		Timestamp:   *wire.Timestamp,
	}, nil
}
