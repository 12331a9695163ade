package iot

import (
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiterStore manages per-device rate limiters: device id -> limiter.
// A nil store allows everything.
type RateLimiterStore struct {
	limiters     map[int64]*rate.Limiter
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

func NewRateLimiterStore(defaultRate rate.Limit, defaultBurst int) *RateLimiterStore {
	return &RateLimiterStore{
		limiters:     make(map[int64]*rate.Limiter),
		defaultRate:  defaultRate,
		defaultBurst: defaultBurst,
	}
}

func (s *RateLimiterStore) GetLimiter(deviceID int64) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[deviceID]
	if !exists {
		limiter = rate.NewLimiter(s.defaultRate, s.defaultBurst)
		s.limiters[deviceID] = limiter
	}
	return limiter
}

func (s *RateLimiterStore) SetLimiter(deviceID int64, deviceRate rate.Limit, deviceBurst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters[deviceID] = rate.NewLimiter(deviceRate, deviceBurst)
}

func (s *RateLimiterStore) Allow(deviceID int64) bool {
	if s == nil {
		return true
	}
	return s.GetLimiter(deviceID).Allow()
}
