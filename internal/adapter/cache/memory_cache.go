package cache

import (
	"context"
	"sync"

	"github.com/simaogato/wealthflow-sim/internal/domain"
)

// MemoryCache is an in-process domain.ResultCache
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]domain.ProjectionResult
}

// NewMemoryCache creates an empty cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]domain.ProjectionResult)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*domain.ProjectionResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return &result, true
}

func (c *MemoryCache) Set(_ context.Context, key string, result *domain.ProjectionResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = *result
	return nil
}

// Len returns the number of cached projections
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
