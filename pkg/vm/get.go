package vm

import (
	"github.com/rshpount/hermes/pkg/errors"
)

// GetNamed reads a named property, walking the prototype chain. A missing
// property yields undefined, unless opFlags.MustExist upgrades the miss to
// a reference error.
func (r *Runtime) GetNamed(o *Object, key PropertyKey, opFlags PropOpFlags) (Value, error) {
	return r.GetNamedWithCache(o, key, opFlags, nil)
}

// GetNamedWithCache is GetNamed with an optional per-site inline cache.
// The cache serves repeat reads of plain own data properties without
// resolving the descriptor again.
func (r *Runtime) GetNamedWithCache(o *Object, key PropertyKey, opFlags PropOpFlags, cache *PropertyCache) (Value, error) {
	if cache != nil {
		if slot, ok := cache.lookup(r, o.shape); ok {
			return getSlotValue(o, slot), nil
		}
	}

	propObj, desc, found := r.getNamedDescriptor(o, key)
	if !found {
		if opFlags.MustExist {
			return Undefined, errors.NewReferenceError("property '%s' doesn't exist", key.debugName())
		}
		return Undefined, nil
	}

	if desc.Flags.HostObject {
		return propObj.host.Get(r, key.Name())
	}
	if desc.Flags.Accessor {
		acc := getSlotValue(propObj, desc.Slot).asPropertyAccessor()
		return acc.callGetter(r, ObjectValue(o))
	}

	if cache != nil && propObj == o && cacheable(o.shape, desc.Flags) {
		cache.update(r, o.shape, desc.Slot)
	}
	return getSlotValue(propObj, desc.Slot), nil
}

// GetComputed reads a property addressed by an arbitrary key value.
// Array-index keys on fast-index objects read indexed storage directly.
func (r *Runtime) GetComputed(o *Object, keyVal Value) (Value, error) {
	if o.flags.indexedStorage && o.flags.fastIndexProperties {
		if index, ok := toArrayIndexFastPath(keyVal); ok {
			if v, present := o.indexed.GetOwnIndexed(r, o, index); present {
				return v, nil
			}
			// Fall through: the element may live on the prototype chain.
		}
	}

	ck := newComputedKey(keyVal)
	if _, err := ck.propertyKey(); err != nil {
		return Undefined, err
	}

	propObj, desc, found := r.getComputedDescriptor(o, &ck)
	if !found {
		return Undefined, nil
	}
	if desc.Flags.Accessor {
		acc := getSlotValue(propObj, desc.Slot).asPropertyAccessor()
		return acc.callGetter(r, ObjectValue(o))
	}
	return r.readDescriptorValue(propObj, &ck, desc)
}

// GetNamedOrIndexed reads a property whose key arrived as a string but may
// be an array index in disguise. Index-form keys take the computed path so
// indexed storage is consulted.
func (r *Runtime) GetNamedOrIndexed(o *Object, key PropertyKey, opFlags PropOpFlags) (Value, error) {
	if key.isString() {
		if _, ok := toArrayIndex(key.Name()); ok {
			return r.GetComputed(o, NewString(key.Name()))
		}
	}
	return r.GetNamed(o, key, opFlags)
}
