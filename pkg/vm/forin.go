package vm

// forInEntry caches the computed for-in name list for a receiver shape,
// together with the prototype-chain shape fingerprint it was computed
// under. The entry is valid only while every prototype still reports the
// same shape pointer in the same position.
type forInEntry struct {
	protos []*Shape
	names  []string
}

// GetForInPropertyNames produces the enumeration order of a for-in loop
// over the object: own enumerable string keys first, then each prototype's
// enumerable keys that no earlier object shadows.
//
// The result is cached on the receiver's shape when the object and its
// chain are cache-friendly (no dictionaries, no elements, no host or lazy
// objects) and prototype bookkeeping stays small relative to the names.
func (r *Runtime) GetForInPropertyNames(o *Object) ([]string, error) {
	if entry := o.shape.forIn; entry != nil {
		if r.matchesProtoShapes(o, entry.protos) {
			r.stats.forInHits++
			return entry.names, nil
		}
		// Stale fingerprint; drop the entry so the next miss recomputes.
		o.shape.forIn = nil
	}
	r.stats.forInMisses++

	names, friendly, err := r.computeForInNames(o)
	if err != nil {
		return nil, err
	}

	if friendly && r.shouldCacheForIn(o, names) {
		o.shape.forIn = &forInEntry{protos: protoShapes(o), names: names}
	}
	return names, nil
}

// matchesProtoShapes validates a cached fingerprint positionally against
// the current prototype chain. Dictionary shapes can mutate without
// changing identity, so any dictionary in either list rejects.
func (r *Runtime) matchesProtoShapes(o *Object, protos []*Shape) bool {
	cur := o.parent
	for _, s := range protos {
		if cur == nil || cur.shape != s || s.isDictionary() {
			return false
		}
		cur = cur.parent
	}
	return cur == nil
}

func protoShapes(o *Object) []*Shape {
	var out []*Shape
	for cur := o.parent; cur != nil; cur = cur.parent {
		out = append(out, cur.shape)
	}
	return out
}

// computeForInNames walks the chain collecting enumerable names with
// shadowing. The second result reports whether every object on the chain
// is cache-friendly.
func (r *Runtime) computeForInNames(o *Object) ([]string, bool, error) {
	var names []string
	seen := make(map[string]bool)
	friendly := true

	for cur := o; cur != nil; cur = cur.parent {
		if cur.flags.hostObject || cur.flags.lazy || cur.shape.isDictionary() {
			friendly = false
		}
		if cur.flags.indexedStorage {
			begin, end := cur.indexed.OwnIndexedRange(r, cur)
			for i := begin; i < end; i++ {
				if cur.indexed.HaveOwnIndexed(r, cur, i) {
					friendly = false
					break
				}
			}
		}
		own, err := r.GetOwnPropertyNames(cur, true)
		if err != nil {
			return nil, false, err
		}
		for _, name := range own {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names, friendly, nil
}

// shouldCacheForIn applies the storage policy: no caching on dictionary
// receivers, and no caching when the prototype fingerprint would dominate
// the entry.
func (r *Runtime) shouldCacheForIn(o *Object, names []string) bool {
	if o.shape.isDictionary() {
		return false
	}
	numProtos := 0
	for cur := o.parent; cur != nil; cur = cur.parent {
		numProtos++
	}
	// Fingerprint overhead above the configured percentage of the name
	// list makes the entry more bookkeeping than payload.
	return numProtos*100 <= len(names)*r.config.ForInMaxProtoPercent
}
