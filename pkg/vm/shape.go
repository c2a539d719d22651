package vm

// SlotIndex addresses a property value cell inside an object: indices below
// DirectPropertySlots live in the inline array, the rest in indirect storage.
type SlotIndex = uint32

// shapeProperty is the (key, flags, slot) triple a shape declares.
type shapeProperty struct {
	key   PropertyKey
	flags PropertyFlags
	slot  SlotIndex
}

// transitionKey identifies an add-property transition: same key added with
// the same attributes reaches the same child shape.
type transitionKey struct {
	key   PropertyKey
	flags PropertyFlags
}

// Shape describes the property layout shared by every object that added the
// same properties in the same order with the same attributes. Shared shapes
// are immutable: any mutation produces a new shape, leaving prior holders'
// view unchanged. A shape degrades to unshared dictionary mode when the
// mutation pattern makes sharing unprofitable (deletes, attribute updates,
// or very wide objects); dictionary shapes are owned by a single object and
// mutate in place, and are never used as cache keys.
type Shape struct {
	parent     *Shape
	properties []shapeProperty

	// transitions is built lazily on the first add through this shape.
	transitions map[transitionKey]*Shape

	// nextSlot is the slot index the next added property receives. Slots
	// are assigned densely; a transition preserves all indices of the
	// prefix it extends.
	nextSlot SlotIndex

	dictionary bool
	// freeSlots holds slot indices released by deletes, reused by later
	// adds. Dictionary mode only; shared shapes never reclaim slots.
	freeSlots []SlotIndex

	hasIndexLikeProps bool

	// forIn is the for-in cache slot (shared shapes only).
	forIn *forInEntry
}

func newRootShape() *Shape {
	return &Shape{}
}

func (s *Shape) isDictionary() bool { return s.dictionary }

func (s *Shape) numProperties() int { return len(s.properties) }

// findProperty returns the position of a property in the shape, or -1.
func (s *Shape) findProperty(key PropertyKey) int {
	for i := range s.properties {
		if s.properties[i].key == key {
			return i
		}
	}
	return -1
}

// forEachProperty visits every property in insertion order.
func (s *Shape) forEachProperty(visit func(key PropertyKey, flags PropertyFlags, slot SlotIndex)) {
	for i := range s.properties {
		p := &s.properties[i]
		visit(p.key, p.flags, p.slot)
	}
}

// cloneForDictionary produces a private unshared copy of the shape. The
// copy does not participate in the transition DAG and never carries a
// for-in cache.
func (s *Shape) cloneForDictionary() *Shape {
	props := make([]shapeProperty, len(s.properties))
	copy(props, s.properties)
	return &Shape{
		parent:            s,
		properties:        props,
		nextSlot:          s.nextSlot,
		dictionary:        true,
		hasIndexLikeProps: s.hasIndexLikeProps,
	}
}

// shapeAddProperty adds a property mapping and returns the resulting shape
// plus the slot index assigned to the new property. Shared shapes reach the
// result through the transition table so that objects adding the same
// properties in the same order end up sharing; dictionary shapes mutate in
// place.
func (r *Runtime) shapeAddProperty(s *Shape, key PropertyKey, flags PropertyFlags) (*Shape, SlotIndex) {
	if s.dictionary {
		slot := s.nextSlot
		if n := len(s.freeSlots); n > 0 {
			slot = s.freeSlots[n-1]
			s.freeSlots = s.freeSlots[:n-1]
		} else {
			s.nextSlot++
		}
		s.properties = append(s.properties, shapeProperty{key: key, flags: flags, slot: slot})
		if indexLikeKey(key) {
			s.hasIndexLikeProps = true
		}
		return s, slot
	}

	tk := transitionKey{key: key, flags: flags}
	if child, ok := s.transitions[tk]; ok {
		return child, child.properties[len(child.properties)-1].slot
	}

	slot := s.nextSlot
	props := make([]shapeProperty, len(s.properties)+1)
	copy(props, s.properties)
	props[len(s.properties)] = shapeProperty{key: key, flags: flags, slot: slot}

	child := &Shape{
		parent:            s,
		properties:        props,
		nextSlot:          slot + 1,
		hasIndexLikeProps: s.hasIndexLikeProps || indexLikeKey(key),
	}

	// Wide objects stop sharing: past the threshold the chance of another
	// object following the exact same transition path is negligible.
	if len(props) > r.config.DictionaryThreshold {
		child.dictionary = true
		return child, slot
	}

	if s.transitions == nil {
		s.transitions = make(map[transitionKey]*Shape, 1)
	}
	s.transitions[tk] = child
	return child, slot
}

// shapeUpdateProperty changes the attributes of the property at pos. A
// shared shape degrades to a private dictionary copy so that other holders
// of the original shape are unaffected.
func (r *Runtime) shapeUpdateProperty(s *Shape, pos int, flags PropertyFlags) *Shape {
	if !s.dictionary {
		s = s.cloneForDictionary()
	}
	s.properties[pos].flags = flags
	return s
}

// shapeDeleteProperty removes the property at pos, releasing its slot for
// reuse. Deletion always degrades to dictionary mode: the structural DAG
// never encodes removals.
func (r *Runtime) shapeDeleteProperty(s *Shape, pos int) *Shape {
	if !s.dictionary {
		s = s.cloneForDictionary()
	}
	slot := s.properties[pos].slot
	s.properties = append(s.properties[:pos], s.properties[pos+1:]...)
	s.freeSlots = append(s.freeSlots, slot)
	return s
}

// checkAllMode selects the attribute every property must satisfy in a bulk
// scan.
type checkAllMode uint8

const (
	checkAllNonConfigurable checkAllMode = iota
	checkAllReadOnly
)

// areAllProperties reports whether every property of the shape satisfies
// the mode: non-configurable, or additionally non-writable for data
// properties.
func (s *Shape) areAllProperties(mode checkAllMode) bool {
	for i := range s.properties {
		f := &s.properties[i].flags
		if f.Configurable {
			return false
		}
		if mode == checkAllReadOnly && !f.Accessor && f.Writable {
			return false
		}
	}
	return true
}

// shapeMakeAllNonConfigurable clears the configurable bit on every
// property, producing a private unshared shape.
func (r *Runtime) shapeMakeAllNonConfigurable(s *Shape) *Shape {
	return r.shapeClearFlags(s, false)
}

// shapeMakeAllReadOnly clears configurable on every property and writable
// on every data property.
func (r *Runtime) shapeMakeAllReadOnly(s *Shape) *Shape {
	return r.shapeClearFlags(s, true)
}

func (r *Runtime) shapeClearFlags(s *Shape, clearWritable bool) *Shape {
	out := s
	if !out.dictionary {
		out = s.cloneForDictionary()
	}
	for i := range out.properties {
		out.properties[i].flags.Configurable = false
		if clearWritable && !out.properties[i].flags.Accessor {
			out.properties[i].flags.Writable = false
		}
	}
	return out
}

func indexLikeKey(key PropertyKey) bool {
	if !key.isString() {
		return false
	}
	_, ok := toArrayIndex(key.name)
	return ok
}
