package vm

// DeleteNamed removes an own named property. Deleting an absent property
// succeeds; deleting a non-configurable one fails (or throws under
// ThrowOnError). The released slot is cleared so the old value is
// unreachable.
func (r *Runtime) DeleteNamed(o *Object, key PropertyKey, opFlags PropOpFlags) (bool, error) {
	desc, found := r.getOwnNamedDescriptor(o, key)
	if !found {
		return true, nil
	}
	if desc.Flags.StaticBuiltin && !opFlags.InternalForce {
		return false, r.builtinOverrideError("delete", key)
	}
	if !desc.Flags.Configurable {
		return typeErrorOr(opFlags, "property '%s' is not configurable", key.debugName())
	}
	pos := o.shape.findProperty(key)
	o.shape = r.shapeDeleteProperty(o.shape, pos)
	setSlotValue(o, desc.Slot, Empty)
	return true, nil
}

// DeleteComputed removes an own property under an arbitrary key. An
// index-form key deletes from both spaces: a success must leave neither a
// named property nor an element behind.
func (r *Runtime) DeleteComputed(o *Object, keyVal Value, opFlags PropOpFlags) (bool, error) {
	ck := newComputedKey(keyVal)
	key, err := ck.propertyKey()
	if err != nil {
		return false, err
	}

	desc, foundNamed := r.getOwnNamedDescriptor(o, key)
	if foundNamed {
		if desc.Flags.StaticBuiltin && !opFlags.InternalForce {
			return false, r.builtinOverrideError("delete", key)
		}
		if !desc.Flags.Configurable {
			return typeErrorOr(opFlags, "property '%s' is not configurable", key.debugName())
		}
	}

	if index, isIndex := ck.arrayIndex(); isIndex && o.flags.indexedStorage {
		if !o.indexed.DeleteOwnIndexed(r, o, index) {
			return typeErrorOr(opFlags, "cannot delete element %d", index)
		}
	}

	if foundNamed {
		pos := o.shape.findProperty(key)
		o.shape = r.shapeDeleteProperty(o.shape, pos)
		setSlotValue(o, desc.Slot, Empty)
	}
	return true, nil
}
