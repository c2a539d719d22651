package vm

// cacheEntry pairs a shape with the slot a cached key resolves to under
// that shape. Valid only while the receiver still reports the same shape
// pointer.
type cacheEntry struct {
	shape *Shape
	slot  SlotIndex
}

type cacheKind uint8

const (
	cacheEmpty cacheKind = iota
	cacheMono
	cachePoly
	cacheMega
)

// PropertyCache is a per-site inline cache for named property reads. It
// starts monomorphic, widens to a small polymorphic set with move-to-front
// ordering, and collapses to megamorphic (disabled) when the site sees too
// many shapes.
type PropertyCache struct {
	kind    cacheKind
	entries []cacheEntry
}

// NewPropertyCache creates an empty cache site.
func NewPropertyCache() *PropertyCache {
	return &PropertyCache{}
}

func (c *PropertyCache) lookup(r *Runtime, shape *Shape) (SlotIndex, bool) {
	switch c.kind {
	case cacheMono:
		if c.entries[0].shape == shape {
			r.stats.monoHits++
			return c.entries[0].slot, true
		}
	case cachePoly:
		for i := range c.entries {
			if c.entries[i].shape == shape {
				r.stats.polyHits++
				if i > 0 {
					hit := c.entries[i]
					copy(c.entries[1:i+1], c.entries[:i])
					c.entries[0] = hit
				}
				return c.entries[0].slot, true
			}
		}
	}
	r.stats.misses++
	return 0, false
}

// update records a resolution. Dictionary shapes are never recorded; their
// layout can change without the shape pointer changing.
func (c *PropertyCache) update(r *Runtime, shape *Shape, slot SlotIndex) {
	if shape.isDictionary() || c.kind == cacheMega {
		return
	}
	r.stats.fills++
	switch c.kind {
	case cacheEmpty:
		c.kind = cacheMono
		c.entries = []cacheEntry{{shape: shape, slot: slot}}
	case cacheMono:
		c.kind = cachePoly
		c.entries = append([]cacheEntry{{shape: shape, slot: slot}}, c.entries...)
	case cachePoly:
		if len(c.entries) >= r.config.MaxPolymorphicEntries {
			c.kind = cacheMega
			c.entries = nil
			r.stats.megaTransitions++
			return
		}
		c.entries = append([]cacheEntry{{shape: shape, slot: slot}}, c.entries...)
	}
}

// cacheable reports whether a resolved own property can be served from an
// inline cache: plain data properties only, and never through a
// dictionary shape or an internal setter.
func cacheable(shape *Shape, flags PropertyFlags) bool {
	return !shape.isDictionary() &&
		!flags.Accessor &&
		!flags.HostObject &&
		!flags.InternalSetter
}

type cacheStats struct {
	monoHits        uint64
	polyHits        uint64
	misses          uint64
	fills           uint64
	megaTransitions uint64
	forInHits       uint64
	forInMisses     uint64
}

// CacheStats is the exported snapshot of the runtime cache counters.
type CacheStats struct {
	MonoHits        uint64
	PolyHits        uint64
	Misses          uint64
	Fills           uint64
	MegaTransitions uint64
	ForInHits       uint64
	ForInMisses     uint64
}

func (s *cacheStats) snapshot() CacheStats {
	return CacheStats{
		MonoHits:        s.monoHits,
		PolyHits:        s.polyHits,
		Misses:          s.misses,
		Fills:           s.fills,
		MegaTransitions: s.megaTransitions,
		ForInHits:       s.forInHits,
		ForInMisses:     s.forInMisses,
	}
}
