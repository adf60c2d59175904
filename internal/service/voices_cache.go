package service

import (
	"sync"
	"time"

	"github.com/set-night/pagecast/internal/domain"
)

type VoicesCache struct {
	mu       sync.RWMutex
	voices   []domain.Voice
	cachedAt time.Time
	ttl      time.Duration
}

func NewVoicesCache(ttl time.Duration) *VoicesCache {
	return &VoicesCache{ttl: ttl}
}

// Get returns nil when nothing is cached or the entry has expired.
func (c *VoicesCache) Get() []domain.Voice {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.voices == nil || time.Since(c.cachedAt) > c.ttl {
		return nil
	}
	return c.voices
}

func (c *VoicesCache) Set(voices []domain.Voice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.voices = voices
	c.cachedAt = time.Now()
}
