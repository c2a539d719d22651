package vm

import (
	"fortio.org/safecast"

	"github.com/rshpount/hermes/pkg/errors"
)

// CheckIndexedMode selects the attribute a bulk indexed-storage scan
// verifies, mirroring the shape-level checkAllMode.
type CheckIndexedMode uint8

const (
	CheckIndexedNonConfigurable CheckIndexedMode = iota
	CheckIndexedReadOnly
)

// IndexedStorage is the behavior hook set for objects that own an
// array-index property space. Indexed properties live outside the shape;
// only these hooks know which indexes exist.
type IndexedStorage interface {
	// GetOwnIndexed returns the element at index, if present.
	GetOwnIndexed(r *Runtime, o *Object, index uint32) (Value, bool)
	// SetOwnIndexed stores v at index, growing the storage as needed.
	// Returns false when the element cannot be written.
	SetOwnIndexed(r *Runtime, o *Object, index uint32, v Value) (bool, error)
	// DeleteOwnIndexed removes the element at index. Deleting an absent
	// element succeeds.
	DeleteOwnIndexed(r *Runtime, o *Object, index uint32) bool
	// HaveOwnIndexed reports element presence without reading it.
	HaveOwnIndexed(r *Runtime, o *Object, index uint32) bool
	// OwnIndexedRange returns the [begin, end) window that can contain
	// elements.
	OwnIndexedRange(r *Runtime, o *Object) (begin, end uint32)
	// OwnIndexedFlags returns the attributes of the element at index, if
	// present.
	OwnIndexedFlags(r *Runtime, o *Object, index uint32) (PropertyFlags, bool)
	// CheckAllIndexed reports whether every present element satisfies the
	// mode.
	CheckAllIndexed(mode CheckIndexedMode) bool
}

// SealableIndexedStorage is implemented by storages whose elements can be
// bulk-restricted by Seal and Freeze.
type SealableIndexedStorage interface {
	MakeAllNonConfigurable()
	MakeAllReadOnly()
}

// internalSetterHandler intercepts writes to properties flagged with
// InternalSetter. The array length property is the canonical user.
type internalSetterHandler interface {
	InternalSet(r *Runtime, o *Object, key PropertyKey, slot SlotIndex, v Value) error
}

// ArrayStorage is dense element storage with an invariant-maintaining
// length property. Holes are Empty cells.
type ArrayStorage struct {
	elements   []Value
	lengthSlot SlotIndex

	nonConfigurable bool
	readOnly        bool
}

// arrayLengthFlags: length is writable through its internal setter only,
// never enumerable or configurable.
func arrayLengthFlags() PropertyFlags {
	return PropertyFlags{Writable: true, InternalSetter: true}
}

var lengthKey = NewStringKey("length")

// NewArray creates an array object: indexed storage plus the reserved
// length property.
func (r *Runtime) NewArray(parent *Object, length uint32) *Object {
	obj := r.NewObject(parent)
	storage := &ArrayStorage{}
	if length > 0 {
		storage.elements = make([]Value, length)
		for i := range storage.elements {
			storage.elements[i] = Empty
		}
	}
	shape, slot := r.shapeAddProperty(obj.shape, lengthKey, arrayLengthFlags())
	obj.shape = shape
	r.allocateSlotStorage(obj, slot, NumberValue(float64(length)))
	storage.lengthSlot = slot
	obj.indexed = storage
	obj.flags.indexedStorage = true
	obj.flags.fastIndexProperties = true
	return obj
}

// ArrayLength reads the array's length property without a full lookup.
func (r *Runtime) ArrayLength(o *Object) uint32 {
	s, ok := o.indexed.(*ArrayStorage)
	if !ok {
		return 0
	}
	return uint32(getSlotValue(o, s.lengthSlot).AsNumber())
}

func (a *ArrayStorage) hasElements() bool {
	for i := range a.elements {
		if !a.elements[i].IsEmpty() {
			return true
		}
	}
	return false
}

func (a *ArrayStorage) GetOwnIndexed(r *Runtime, o *Object, index uint32) (Value, bool) {
	if index >= uint32(len(a.elements)) || a.elements[index].IsEmpty() {
		return Undefined, false
	}
	return a.elements[index], true
}

func (a *ArrayStorage) SetOwnIndexed(r *Runtime, o *Object, index uint32, v Value) (bool, error) {
	if a.readOnly {
		return false, nil
	}
	inBounds := index < uint32(len(a.elements))
	if a.nonConfigurable && (!inBounds || a.elements[index].IsEmpty()) {
		// New elements cannot appear on a sealed array.
		return false, nil
	}
	if length := uint32(getSlotValue(o, a.lengthSlot).AsNumber()); index >= length {
		// Growth raises the length through the property protocol, so a
		// non-writable length rejects the write before the element lands.
		ok, err := r.PutNamed(o, lengthKey, NumberValue(float64(index)+1), PropOpFlags{})
		if err != nil || !ok {
			return false, err
		}
	}
	for uint32(len(a.elements)) <= index {
		a.elements = append(a.elements, Empty)
	}
	a.elements[index] = v
	return true, nil
}

func (a *ArrayStorage) DeleteOwnIndexed(r *Runtime, o *Object, index uint32) bool {
	if index >= uint32(len(a.elements)) || a.elements[index].IsEmpty() {
		return true
	}
	if a.nonConfigurable {
		return false
	}
	a.elements[index] = Empty
	return true
}

func (a *ArrayStorage) HaveOwnIndexed(r *Runtime, o *Object, index uint32) bool {
	return index < uint32(len(a.elements)) && !a.elements[index].IsEmpty()
}

func (a *ArrayStorage) OwnIndexedRange(r *Runtime, o *Object) (uint32, uint32) {
	return 0, uint32(len(a.elements))
}

func (a *ArrayStorage) OwnIndexedFlags(r *Runtime, o *Object, index uint32) (PropertyFlags, bool) {
	if !a.HaveOwnIndexed(r, o, index) {
		return PropertyFlags{}, false
	}
	return PropertyFlags{
		Enumerable:   true,
		Writable:     !a.readOnly,
		Configurable: !a.nonConfigurable,
	}, true
}

func (a *ArrayStorage) CheckAllIndexed(mode CheckIndexedMode) bool {
	if !a.hasElements() {
		return true
	}
	if mode == CheckIndexedReadOnly {
		return a.nonConfigurable && a.readOnly
	}
	return a.nonConfigurable
}

func (a *ArrayStorage) MakeAllNonConfigurable() { a.nonConfigurable = true }

func (a *ArrayStorage) MakeAllReadOnly() {
	a.nonConfigurable = true
	a.readOnly = true
}

// InternalSet handles writes to the length property: the new value must be
// a number that converts exactly to uint32, and shrinking drops elements
// past the new length.
func (a *ArrayStorage) InternalSet(r *Runtime, o *Object, key PropertyKey, slot SlotIndex, v Value) error {
	if !v.IsNumber() {
		return errors.NewRangeError("invalid array length")
	}
	newLen, err := safecast.Convert[uint32](v.AsNumber())
	if err != nil {
		return errors.NewRangeError("invalid array length")
	}
	if a.readOnly {
		return errors.NewTypeError("cannot assign to read-only array length")
	}
	if uint32(len(a.elements)) > newLen {
		a.elements = a.elements[:newLen]
	}
	setSlotValue(o, slot, NumberValue(float64(newLen)))
	return nil
}
