package vm

import "github.com/rshpount/hermes/pkg/errors"

// PutNamed writes a named property with full ES assignment semantics:
// setters fire wherever they sit on the prototype chain, read-only
// properties reject, and an unresolved key adds a fresh own property on
// the receiver. The bool result reports whether the write took effect.
func (r *Runtime) PutNamed(o *Object, key PropertyKey, v Value, opFlags PropOpFlags) (bool, error) {
	propObj, desc, found := r.getNamedDescriptor(o, key)
	if found {
		if desc.Flags.Accessor {
			acc := getSlotValue(propObj, desc.Slot).asPropertyAccessor()
			if acc.Setter == nil {
				return typeErrorOr(opFlags, "cannot assign to property '%s' which has only a getter", key.debugName())
			}
			if err := acc.callSetter(r, ObjectValue(o), v); err != nil {
				return false, err
			}
			return true, nil
		}

		if !desc.Flags.Writable {
			if desc.Flags.StaticBuiltin && !opFlags.InternalForce {
				return false, r.builtinOverrideError("assign to", key)
			}
			return typeErrorOr(opFlags, "cannot assign to read-only property '%s'", key.debugName())
		}

		if propObj == o {
			if desc.Flags.InternalSetter {
				h := o.indexed.(internalSetterHandler)
				if err := h.InternalSet(r, o, key, desc.Slot, v); err != nil {
					return false, err
				}
				return true, nil
			}
			if desc.Flags.HostObject {
				if err := o.host.Set(r, key.Name(), v); err != nil {
					return false, err
				}
				return true, nil
			}
			setSlotValue(o, desc.Slot, v)
			return true, nil
		}
		// Writable data property on the prototype: shadow it with a fresh
		// own property on the receiver.
	}

	if !found && opFlags.MustExist {
		return false, errors.NewReferenceError("property '%s' doesn't exist", key.debugName())
	}
	if !o.IsExtensible() {
		return typeErrorOr(opFlags, "cannot add property '%s', object is not extensible", key.debugName())
	}
	if err := r.addOwnProperty(o, key, defaultNewPropertyFlags(), v); err != nil {
		return false, err
	}
	return true, nil
}

// PutComputed writes a property addressed by an arbitrary key value.
// Array-index keys on objects with indexed storage write the element space
// unless an index-like named property shadows it.
func (r *Runtime) PutComputed(o *Object, keyVal Value, v Value, opFlags PropOpFlags) (bool, error) {
	if o.flags.indexedStorage && o.flags.fastIndexProperties {
		if index, ok := toArrayIndexFastPath(keyVal); ok {
			// Only existing elements take the fast path. A brand-new index
			// falls through to the slow path for the extensibility and
			// MustExist checks.
			if o.indexed.HaveOwnIndexed(r, o, index) {
				ok, err := o.indexed.SetOwnIndexed(r, o, index, v)
				if err != nil {
					return false, err
				}
				if ok {
					return true, nil
				}
				return typeErrorOr(opFlags, "cannot assign to element %d", index)
			}
		}
	}

	ck := newComputedKey(keyVal)
	key, err := ck.propertyKey()
	if err != nil {
		return false, err
	}

	propObj, desc, found := r.getComputedDescriptor(o, &ck)
	if found {
		if desc.Flags.Accessor {
			acc := getSlotValue(propObj, desc.Slot).asPropertyAccessor()
			if acc.Setter == nil {
				return typeErrorOr(opFlags, "cannot assign to property '%s' which has only a getter", key.debugName())
			}
			if err := acc.callSetter(r, ObjectValue(o), v); err != nil {
				return false, err
			}
			return true, nil
		}
		if !desc.Flags.Writable {
			if desc.Flags.StaticBuiltin && !opFlags.InternalForce {
				return false, r.builtinOverrideError("assign to", key)
			}
			return typeErrorOr(opFlags, "cannot assign to read-only property '%s'", key.debugName())
		}
		if propObj == o {
			if desc.Indexed {
				ok, err := o.indexed.SetOwnIndexed(r, o, desc.Slot, v)
				if err != nil {
					return false, err
				}
				if !ok {
					return typeErrorOr(opFlags, "cannot assign to element %d", desc.Slot)
				}
				return true, nil
			}
			if desc.Flags.InternalSetter {
				h := o.indexed.(internalSetterHandler)
				if err := h.InternalSet(r, o, key, desc.Slot, v); err != nil {
					return false, err
				}
				return true, nil
			}
			if desc.Flags.HostObject {
				if err := o.host.Set(r, key.Name(), v); err != nil {
					return false, err
				}
				return true, nil
			}
			setSlotValue(o, desc.Slot, v)
			return true, nil
		}
	}

	if !found && opFlags.MustExist {
		return false, errors.NewReferenceError("property '%s' doesn't exist", key.debugName())
	}
	if !o.IsExtensible() {
		return typeErrorOr(opFlags, "cannot add property '%s', object is not extensible", key.debugName())
	}

	// A brand-new index-form key prefers the element space when the object
	// has one.
	if index, isIndex := ck.arrayIndex(); isIndex && o.flags.indexedStorage {
		ok, err := o.indexed.SetOwnIndexed(r, o, index, v)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		return typeErrorOr(opFlags, "cannot assign to element %d", index)
	}

	if err := r.addOwnProperty(o, key, defaultNewPropertyFlags(), v); err != nil {
		return false, err
	}
	return true, nil
}

// PutNamedOrIndexed routes a string-keyed write through the computed path
// when the key has array-index form.
func (r *Runtime) PutNamedOrIndexed(o *Object, key PropertyKey, v Value, opFlags PropOpFlags) (bool, error) {
	if key.isString() {
		if _, ok := toArrayIndex(key.Name()); ok {
			return r.PutComputed(o, NewString(key.Name()), v, opFlags)
		}
	}
	return r.PutNamed(o, key, v, opFlags)
}
