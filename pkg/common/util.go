package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func IsProduction() bool {
	return os.Getenv(EnvKeyGoEnv) == "production"
}

func Mapper[T any, R any](items []T, mapFn func(T) R) []R {
	mapped := make([]R, len(items))
	for i := range len(items) {
		mapped[i] = mapFn(items[i])
	}
	return mapped
}

// ParseDeviceID parses the external integer id used in paths and requests.
func ParseDeviceID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid device id %q", raw)
	}
	return id, nil
}
