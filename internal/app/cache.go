package app

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// SlotCache memoizes availability results per date. It is an optimization
// only: booking correctness never depends on cache content.
type SlotCache struct {
	store *cache.Cache
	ttl   time.Duration
}

func NewSlotCache(ttl time.Duration) *SlotCache {
	return &SlotCache{
		store: cache.New(ttl, time.Minute),
		ttl:   ttl,
	}
}

func slotCacheKey(dateStr string) string {
	return "available_slots_" + dateStr
}

// Get returns the cached slots for a date, if present and unexpired.
func (c *SlotCache) Get(dateStr string) ([]AvailableSlot, bool) {
	v, found := c.store.Get(slotCacheKey(dateStr))
	if !found {
		return nil, false
	}
	slots, ok := v.([]AvailableSlot)
	return slots, ok
}

// Set stores the slots for a date with the configured TTL. Overwriting an
// existing entry is always safe; each write fully replaces the date's value.
func (c *SlotCache) Set(dateStr string, slots []AvailableSlot) {
	c.store.Set(slotCacheKey(dateStr), slots, c.ttl)
}

// Flush clears all cached dates. Administrative operation.
func (c *SlotCache) Flush() {
	c.store.Flush()
}

// ItemCount reports the number of cached entries, expired ones included.
func (c *SlotCache) ItemCount() int {
	return c.store.ItemCount()
}
