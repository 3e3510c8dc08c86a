package renderer

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

// CacheKind classifies cached GPU-side resources.
type CacheKind int

const (
	KindShader CacheKind = iota
	KindShadowMap
	KindFramebuffer
	kindCount
)

func (k CacheKind) String() string {
	switch k {
	case KindShader:
		return "shader"
	case KindShadowMap:
		return "shadow-map"
	case KindFramebuffer:
		return "framebuffer"
	default:
		return fmt.Sprintf("CacheKind(%d)", int(k))
	}
}

// CacheEntryStats is the number and total size of the cached entries of one kind.
type CacheEntryStats struct {
	Count int
	Bytes int64
}

// CacheStatistics is a point-in-time read of the cache. It is a plain value
// and does not change when the cache does.
type CacheStatistics struct {
	Shaders      CacheEntryStats
	ShadowMaps   CacheEntryStats
	Framebuffers CacheEntryStats
}

// Total sums the statistics of every kind.
func (s CacheStatistics) Total() CacheEntryStats {
	return CacheEntryStats{
		Count: s.Shaders.Count + s.ShadowMaps.Count + s.Framebuffers.Count,
		Bytes: s.Shaders.Bytes + s.ShadowMaps.Bytes + s.Framebuffers.Bytes,
	}
}

// cache is the implementation of the Cache interface.
type cache struct {
	mu      sync.RWMutex
	entries [kindCount]map[string]int64
}

// Cache records which GPU-side resources exist and how large they are. It does
// not own the resources; the renderer reports creation and release through
// Put and Evict.
type Cache interface {
	// Put records a resource, replacing any entry of the same kind and key.
	//
	// Parameters:
	//   - kind: the resource kind
	//   - key: the resource key, unique within kind
	//   - bytes: the resource size in bytes
	//
	// Returns:
	//   - error: *common.PreconditionError for an unknown kind or negative size
	Put(kind CacheKind, key string, bytes int64) error

	// Evict removes a resource.
	//
	// Returns:
	//   - bool: false if no entry existed
	Evict(kind CacheKind, key string) bool

	// Size returns the recorded size of a resource.
	//
	// Returns:
	//   - int64: the size in bytes
	//   - bool: false if no entry exists
	Size(kind CacheKind, key string) (int64, bool)

	// Keys returns the keys of one kind in ascending order.
	Keys(kind CacheKind) []string

	// Statistics returns a point-in-time read of the cache.
	Statistics() CacheStatistics
}

var _ Cache = &cache{}

// NewCache creates an empty Cache.
//
// Returns:
//   - Cache: the cache
func NewCache() Cache {
	c := &cache{}
	for i := range c.entries {
		c.entries[i] = make(map[string]int64)
	}
	return c
}

func (c *cache) Put(kind CacheKind, key string, bytes int64) error {
	if kind < 0 || kind >= kindCount {
		return common.Preconditionf("cache.kind", "unknown kind %d", int(kind))
	}
	if bytes < 0 {
		return common.Preconditionf("cache.bytes", "must not be negative, got %d", bytes)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[kind][key] = bytes
	return nil
}

func (c *cache) Evict(kind CacheKind, key string) bool {
	if kind < 0 || kind >= kindCount {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[kind][key]; !ok {
		return false
	}
	delete(c.entries[kind], key)
	return true
}

func (c *cache) Size(kind CacheKind, key string) (int64, bool) {
	if kind < 0 || kind >= kindCount {
		return 0, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.entries[kind][key]
	return b, ok
}

func (c *cache) Keys(kind CacheKind) []string {
	if kind < 0 || kind >= kindCount {
		return nil
	}
	c.mu.RLock()
	keys := make([]string, 0, len(c.entries[kind]))
	for k := range c.entries[kind] {
		keys = append(keys, k)
	}
	c.mu.RUnlock()
	slices.Sort(keys)
	return keys
}

func (c *cache) Statistics() CacheStatistics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStatistics{
		Shaders:      c.stats(KindShader),
		ShadowMaps:   c.stats(KindShadowMap),
		Framebuffers: c.stats(KindFramebuffer),
	}
}

// stats sums one kind. Callers hold mu.
func (c *cache) stats(kind CacheKind) CacheEntryStats {
	s := CacheEntryStats{Count: len(c.entries[kind])}
	for _, b := range c.entries[kind] {
		s.Bytes += b
	}
	return s
}
