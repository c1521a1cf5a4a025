package cache

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// MemoryRevenueCache is a process-local RevenueCache without expiry. Entries carry the
// version they were looked up under; Invalidate bumps it and drops everything.
// It serves single-process deployments (STORE_DRIVER=memory without Redis).
type MemoryRevenueCache struct {
	mu      sync.Mutex
	version int64
	entries map[string]decimal.Decimal
}

func NewMemoryRevenueCache() *MemoryRevenueCache {
	return &MemoryRevenueCache{entries: map[string]decimal.Decimal{}}
}

func (c *MemoryRevenueCache) versionPrefix() string {
	return strconv.FormatInt(c.version, 10) + ":"
}

func (c *MemoryRevenueCache) Get(_ context.Context, key string) (decimal.Decimal, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry := c.versionPrefix() + key
	v, ok := c.entries[entry]
	return v, entry, ok
}

// Set drops totals whose entry predates the last Invalidate.
func (c *MemoryRevenueCache) Set(_ context.Context, entry string, total decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !strings.HasPrefix(entry, c.versionPrefix()) {
		return
	}
	c.entries[entry] = total
}

func (c *MemoryRevenueCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	c.entries = map[string]decimal.Decimal{}
}
