package vm

import (
	"github.com/rshpount/hermes/pkg/errors"
)

// DirectPropertySlots is the number of value cells embedded directly in the
// object record. Slots past this spill into the growable indirect storage.
const DirectPropertySlots = 5

// defaultPropStorageCapacity is the initial capacity of indirect storage.
const defaultPropStorageCapacity = 4

// ObjectID is a lazily-assigned unique identity number.
type ObjectID uint64

type objectFlags struct {
	// noExtend is the one-way extensibility latch.
	noExtend bool
	// sealed/frozen are cached positive results of the IsSealed/IsFrozen
	// scans.
	sealed bool
	frozen bool

	hostObject bool
	lazy       bool

	// indexedStorage is set when the object owns an array-index property
	// space.
	indexedStorage bool
	// fastIndexProperties allows index-form keys to consult indexed
	// storage only, skipping the named lookup. Cleared as soon as the
	// shape declares an index-like named property.
	fastIndexProperties bool
}

// Object is the runtime object record: a prototype reference, the current
// shape, inline plus indirect slot storage, and the behavior hooks for
// indexed, host and lazy objects.
type Object struct {
	parent *Object
	shape  *Shape

	direct   [DirectPropertySlots]Value
	indirect []Value

	flags objectFlags
	id    ObjectID

	// indexed is non-nil iff flags.indexedStorage.
	indexed IndexedStorage
	// host is non-nil iff flags.hostObject.
	host HostObject
	// lazyInit is consumed by the first failed lookup on a lazy object.
	lazyInit LazyInitializer
}

// Shape returns the object's current shape. Cache entries keyed on it are
// valid only while a later call returns the same pointer.
func (o *Object) Shape() *Shape { return o.shape }

// Parent returns the prototype, or nil.
func (o *Object) Parent() *Object { return o.parent }

func (o *Object) IsExtensible() bool { return !o.flags.noExtend }

func (o *Object) isHostObject() bool { return o.flags.hostObject }

// NewObject creates a plain object with the given prototype (nil allowed).
func (r *Runtime) NewObject(parent *Object) *Object {
	return &Object{parent: parent, shape: r.rootShape}
}

// NewObjectWithCapacity creates a plain object with indirect storage
// preallocated for a known property count.
func (r *Runtime) NewObjectWithCapacity(parent *Object, propertyCount int) *Object {
	obj := r.NewObject(parent)
	if propertyCount > DirectPropertySlots {
		obj.indirect = make([]Value, 0, propertyCount-DirectPropertySlots)
	}
	return obj
}

// NewObjectWithShape creates an object that starts at a pre-built shape.
// Storage is allocated for the shape's slots; every slot starts undefined.
func (r *Runtime) NewObjectWithShape(parent *Object, shape *Shape) *Object {
	obj := r.NewObjectWithCapacity(parent, shape.numProperties())
	obj.shape = shape
	shape.forEachProperty(func(key PropertyKey, flags PropertyFlags, slot SlotIndex) {
		r.allocateSlotStorage(obj, slot, Undefined)
	})
	return obj
}

// NewHostObject creates an object whose unresolved property operations
// delegate to the supplied host hooks.
func (r *Runtime) NewHostObject(parent *Object, host HostObject) *Object {
	obj := r.NewObject(parent)
	obj.flags.hostObject = true
	obj.host = host
	return obj
}

// NewLazyObject creates a placeholder object whose real properties are
// populated by init on the first failed lookup. init runs at most once.
func (r *Runtime) NewLazyObject(parent *Object, init LazyInitializer) *Object {
	obj := r.NewObject(parent)
	obj.flags.lazy = true
	obj.lazyInit = init
	return obj
}

// GetObjectID returns the object's unique identity, assigning it on first
// use.
func (r *Runtime) GetObjectID(o *Object) ObjectID {
	if o.id == 0 {
		r.nextObjectID++
		o.id = r.nextObjectID
	}
	return o.id
}

// --- Slot storage ---

// getSlotValue reads the value cell at slot.
func getSlotValue(o *Object, slot SlotIndex) Value {
	if slot < DirectPropertySlots {
		return o.direct[slot]
	}
	return o.indirect[slot-DirectPropertySlots]
}

// setSlotValue overwrites the value cell at slot. The slot must already be
// allocated.
func setSlotValue(o *Object, slot SlotIndex, v Value) {
	if slot < DirectPropertySlots {
		o.direct[slot] = v
		return
	}
	o.indirect[slot-DirectPropertySlots] = v
}

// allocateSlotStorage stores v at slot, growing indirect storage when the
// slot is new. New indirect slots are only ever appended; a slot below the
// current size is a reclaimed dictionary-mode slot being reused.
func (r *Runtime) allocateSlotStorage(o *Object, slot SlotIndex, v Value) {
	if slot < DirectPropertySlots {
		o.direct[slot] = v
		return
	}
	idx := int(slot - DirectPropertySlots)
	switch {
	case idx < len(o.indirect):
		o.indirect[idx] = v
	case idx == len(o.indirect):
		if o.indirect == nil {
			o.indirect = make([]Value, 0, defaultPropStorageCapacity)
		}
		o.indirect = append(o.indirect, v)
	default:
		// Slots are appended densely; a gap means the shape handed out an
		// index we never allocated.
		panic(errors.NewFatalError("slot %d allocated out of order (storage size %d)", slot, len(o.indirect)))
	}
}

// --- Prototype mutation and extensibility ---

// SetParent changes the object's prototype, enforcing extensibility and
// rejecting any assignment that would create a prototype cycle.
func (r *Runtime) SetParent(o *Object, parent *Object) error {
	if o.parent == parent {
		return nil
	}
	if !o.IsExtensible() {
		return errors.NewTypeError("cannot change the prototype of a non-extensible object")
	}
	for cur := parent; cur != nil; cur = cur.parent {
		if cur == o {
			return errors.NewTypeError("prototype cycle detected")
		}
	}
	o.parent = parent
	return nil
}

// PreventExtensions latches the object non-extensible. No properties can be
// added afterward; the flag cannot be cleared.
func (r *Runtime) PreventExtensions(o *Object) {
	o.flags.noExtend = true
}

// Seal marks every current own named property non-configurable and
// prevents extension.
func (r *Runtime) Seal(o *Object) {
	if o.flags.sealed {
		return
	}
	o.shape = r.shapeMakeAllNonConfigurable(o.shape)
	if s, ok := o.indexed.(SealableIndexedStorage); ok {
		s.MakeAllNonConfigurable()
	}
	o.flags.sealed = true
	o.flags.noExtend = true
}

// Freeze seals the object and additionally marks every data property
// non-writable.
func (r *Runtime) Freeze(o *Object) {
	if o.flags.frozen {
		return
	}
	o.shape = r.shapeMakeAllReadOnly(o.shape)
	if s, ok := o.indexed.(SealableIndexedStorage); ok {
		s.MakeAllReadOnly()
	}
	o.flags.frozen = true
	o.flags.sealed = true
	o.flags.noExtend = true
}

// IsSealed reports whether the object is non-extensible and every own
// property (named and indexed) is non-configurable. A positive result is
// cached in the object flags.
func (r *Runtime) IsSealed(o *Object) bool {
	if o.flags.sealed {
		return true
	}
	if !o.flags.noExtend {
		return false
	}
	if !o.shape.areAllProperties(checkAllNonConfigurable) {
		return false
	}
	if o.indexed != nil && !o.indexed.CheckAllIndexed(CheckIndexedNonConfigurable) {
		return false
	}
	o.flags.sealed = true
	return true
}

// IsFrozen reports whether the object is sealed and every data property is
// also non-writable. A positive result is cached in the object flags.
func (r *Runtime) IsFrozen(o *Object) bool {
	if o.flags.frozen {
		return true
	}
	if !o.flags.noExtend {
		return false
	}
	if !o.shape.areAllProperties(checkAllReadOnly) {
		return false
	}
	if o.indexed != nil && !o.indexed.CheckAllIndexed(CheckIndexedReadOnly) {
		return false
	}
	o.flags.frozen = true
	o.flags.sealed = true
	return true
}

// --- Lazy materialization ---

// LazyInitializer populates a lazy object's real properties. It runs at
// most once, on the first lookup that misses.
type LazyInitializer func(r *Runtime, o *Object)

// initializeLazyObject transitions Lazy -> Materialized. Idempotent.
func (r *Runtime) initializeLazyObject(o *Object) {
	if !o.flags.lazy {
		return
	}
	// Object is now assumed to be a regular object.
	o.flags.lazy = false
	init := o.lazyInit
	o.lazyInit = nil
	if init != nil {
		r.log.Debugf("materializing lazy object %d", r.GetObjectID(o))
		init(r, o)
	}
}

// --- Internal (reserved) properties ---

// AddInternalProperty appends a reserved internal slot, invisible to
// enumeration and lookup by ordinary keys. Internal properties must be
// added before any named property, while the object is still in class
// mode.
func (r *Runtime) AddInternalProperty(o *Object, index int, v Value) SlotIndex {
	if index >= len(r.internalKeys) {
		panic(errors.NewFatalError("internal property index %d out of range", index))
	}
	if o.shape.isDictionary() {
		panic(errors.NewFatalError("internal properties can only be added in class mode"))
	}
	shape, slot := r.shapeAddProperty(o.shape, r.internalKeys[index], PropertyFlags{})
	o.shape = shape
	r.allocateSlotStorage(o, slot, v)
	return slot
}

// AddInternalProperties bulk-adds count internal slots, all holding v.
func (r *Runtime) AddInternalProperties(o *Object, count int, v Value) {
	if count == 0 || count > DirectPropertySlots {
		panic(errors.NewFatalError("invalid internal property count %d", count))
	}
	if o.shape.numProperties() != 0 {
		panic(errors.NewFatalError("internal properties must be added first"))
	}
	for i := 0; i < count; i++ {
		r.AddInternalProperty(o, i, v)
	}
}
