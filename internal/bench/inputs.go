package bench

import (
	"math/rand"
	"sync"

	"github.com/golang/groupcache/lru"
)

// InputCache hands out pseudo-random buffers by size, keeping the most
// recently used ones so a sweep does not regenerate 100 MB per strategy.
// Callers may transform the returned buffer in place; the contents only need
// to be arbitrary.
type InputCache struct {
	mu   sync.Mutex
	lru  *lru.Cache
	seed int64
}

func NewInputCache(maxEntries int, seed int64) *InputCache {
	return &InputCache{lru: lru.New(maxEntries), seed: seed}
}

func (c *InputCache) Get(size int) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.lru.Get(size); ok {
		return v.([]byte)
	}
	buf := make([]byte, size)
	rand.New(rand.NewSource(c.seed + int64(size))).Read(buf)
	c.lru.Add(size, buf)
	return buf
}

// Len is the number of cached buffers.
func (c *InputCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
