package vm

// propertyUpdateStatus is the outcome of reconciling a define request
// against an existing property.
type propertyUpdateStatus uint8

const (
	// updateDone: the request is a no-op, nothing to store.
	updateDone propertyUpdateStatus = iota
	// updateNeedSet: the request is legal, caller stores flags and value.
	updateNeedSet
	// updateFailed: the request violates the existing attributes.
	updateFailed
)

// DefineOwnProperty defines or redefines an own named property. For
// accessor definitions, valueOrAccessor carries the accessor record built
// with NewAccessor; for data definitions it carries the plain value. The
// bool result reports success when errors are suppressed.
func (r *Runtime) DefineOwnProperty(o *Object, key PropertyKey, dpFlags DefinePropertyFlags, valueOrAccessor Value, opFlags PropOpFlags) (bool, error) {
	if desc, found := r.getOwnNamedDescriptor(o, key); found {
		return r.updateOwnProperty(o, key, desc, dpFlags, valueOrAccessor, opFlags)
	}

	if !o.IsExtensible() && !opFlags.InternalForce {
		return typeErrorOr(opFlags, "cannot define property '%s', object is not extensible", key.debugName())
	}
	if err := r.addOwnProperty(o, key, dpFlags.toPropertyFlags(), normalizeNewValue(dpFlags, valueOrAccessor)); err != nil {
		return false, err
	}
	return true, nil
}

// DefineNewOwnProperty adds a property the caller knows is absent, with
// explicit attributes and no reconciliation. Object literal construction
// and builtin installation use this path.
func (r *Runtime) DefineNewOwnProperty(o *Object, key PropertyKey, flags PropertyFlags, valueOrAccessor Value) error {
	if o.shape.findProperty(key) >= 0 {
		panic("DefineNewOwnProperty: property already exists")
	}
	return r.addOwnProperty(o, key, flags, valueOrAccessor)
}

// DefineOwnComputed defines an own property under an arbitrary key value.
// Index-form keys prefer indexed storage when the requested attributes fit
// the element space (enumerable, writable, configurable data property);
// anything else materializes a named property, disabling the fast index
// path.
func (r *Runtime) DefineOwnComputed(o *Object, keyVal Value, dpFlags DefinePropertyFlags, valueOrAccessor Value, opFlags PropOpFlags) (bool, error) {
	ck := newComputedKey(keyVal)
	key, err := ck.propertyKey()
	if err != nil {
		return false, err
	}

	index, isIndex := ck.arrayIndex()
	if !isIndex || !o.flags.indexedStorage {
		return r.DefineOwnProperty(o, key, dpFlags, valueOrAccessor, opFlags)
	}

	// From here on the object has indexed storage and the key is an
	// array index.
	if desc, found := r.getOwnComputedDescriptor(o, &ck); found && desc.Indexed {
		if elementCompatible(dpFlags, desc.Flags) {
			if dpFlags.SetValue {
				ok, err := o.indexed.SetOwnIndexed(r, o, index, valueOrAccessor)
				if err != nil {
					return false, err
				}
				if !ok {
					return typeErrorOr(opFlags, "cannot redefine element %d", index)
				}
			}
			return true, nil
		}
		// The requested attributes cannot be represented in the element
		// space: convert the element into a named property.
		cur, _ := o.indexed.GetOwnIndexed(r, o, index)
		status, newFlags, err := checkPropertyUpdate(desc.Flags, dpFlags, cur, valueOrAccessor, opFlags)
		if err != nil {
			return false, err
		}
		if status == updateFailed {
			return typeErrorOr(opFlags, "cannot redefine element %d", index)
		}
		if !o.indexed.DeleteOwnIndexed(r, o, index) {
			return typeErrorOr(opFlags, "cannot redefine element %d", index)
		}
		v := cur
		if dpFlags.SetValue || dpFlags.isAccessor() {
			v = valueOrAccessor
		}
		if err := r.addOwnProperty(o, key, newFlags, v); err != nil {
			return false, err
		}
		return true, nil
	} else if found {
		return r.updateOwnProperty(o, key, desc.named(), dpFlags, valueOrAccessor, opFlags)
	}

	if !o.IsExtensible() && !opFlags.InternalForce {
		return typeErrorOr(opFlags, "cannot define property '%s', object is not extensible", key.debugName())
	}

	// A brand-new index with element-shaped attributes goes straight into
	// indexed storage.
	if elementShaped(dpFlags) {
		ok, err := o.indexed.SetOwnIndexed(r, o, index, normalizeNewValue(dpFlags, valueOrAccessor))
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		return typeErrorOr(opFlags, "cannot define element %d", index)
	}
	if err := r.addOwnProperty(o, key, dpFlags.toPropertyFlags(), normalizeNewValue(dpFlags, valueOrAccessor)); err != nil {
		return false, err
	}
	return true, nil
}

// elementShaped reports whether a define request matches the fixed
// attributes of indexed-storage elements exactly.
func elementShaped(dp DefinePropertyFlags) bool {
	return !dp.isAccessor() &&
		dp.SetEnumerable && dp.Enumerable &&
		dp.SetWritable && dp.Writable &&
		dp.SetConfigurable && dp.Configurable &&
		!dp.EnableInternalSetter
}

// elementCompatible reports whether a define request against an existing
// element changes nothing but the value.
func elementCompatible(dp DefinePropertyFlags, cur PropertyFlags) bool {
	if dp.isAccessor() || dp.EnableInternalSetter {
		return false
	}
	if dp.SetEnumerable && dp.Enumerable != cur.Enumerable {
		return false
	}
	if dp.SetWritable && dp.Writable != cur.Writable {
		return false
	}
	if dp.SetConfigurable && dp.Configurable != cur.Configurable {
		return false
	}
	return true
}

// normalizeNewValue picks the stored value for a fresh property: the
// supplied value when one was given, undefined otherwise.
func normalizeNewValue(dp DefinePropertyFlags, v Value) Value {
	if dp.SetValue || dp.isAccessor() {
		return v
	}
	return Undefined
}

// addOwnProperty installs a brand-new own property. It maintains the
// fast-index flag and the sealed/frozen caches.
func (r *Runtime) addOwnProperty(o *Object, key PropertyKey, flags PropertyFlags, valueOrAccessor Value) error {
	shape, slot := r.shapeAddProperty(o.shape, key, flags)
	o.shape = shape
	r.allocateSlotStorage(o, slot, valueOrAccessor)
	if indexLikeKey(key) {
		// Named index-like properties shadow indexed storage; every
		// index-form lookup must now consult the shape first.
		o.flags.fastIndexProperties = false
	}
	if flags.Configurable {
		o.flags.sealed = false
		o.flags.frozen = false
	} else if flags.Writable && !flags.Accessor {
		o.flags.frozen = false
	}
	return nil
}

// updateOwnProperty reconciles a define request with an existing own
// property and applies the result.
func (r *Runtime) updateOwnProperty(o *Object, key PropertyKey, desc NamedPropertyDescriptor, dpFlags DefinePropertyFlags, valueOrAccessor Value, opFlags PropOpFlags) (bool, error) {
	if desc.Flags.StaticBuiltin && !opFlags.InternalForce {
		return false, r.builtinOverrideError("redefine", key)
	}

	curValue := getSlotValue(o, desc.Slot)
	status, newFlags, err := checkPropertyUpdate(desc.Flags, dpFlags, curValue, valueOrAccessor, opFlags)
	if err != nil {
		return false, err
	}
	switch status {
	case updateDone:
		return true, nil
	case updateFailed:
		return typeErrorOr(opFlags, "cannot redefine property '%s'", key.debugName())
	}

	pos := o.shape.findProperty(key)
	if newFlags != desc.Flags {
		o.shape = r.shapeUpdateProperty(o.shape, pos, newFlags)
		if newFlags.Configurable || (newFlags.Writable && !newFlags.Accessor) {
			o.flags.sealed = o.flags.sealed && !newFlags.Configurable
			o.flags.frozen = false
		}
	}

	if newFlags.Accessor {
		if desc.Flags.Accessor {
			// Merge: only the supplied sides change.
			cur := curValue.asPropertyAccessor()
			next := &PropertyAccessor{Getter: cur.Getter, Setter: cur.Setter}
			na := valueOrAccessor.asPropertyAccessor()
			if dpFlags.SetGetter {
				next.Getter = na.Getter
			}
			if dpFlags.SetSetter {
				next.Setter = na.Setter
			}
			setSlotValue(o, desc.Slot, accessorValue(next))
		} else {
			setSlotValue(o, desc.Slot, valueOrAccessor)
		}
		return true, nil
	}

	if desc.Flags.Accessor {
		// Accessor converted back to data: the value resets unless one was
		// supplied.
		v := Undefined
		if dpFlags.SetValue {
			v = valueOrAccessor
		}
		setSlotValue(o, desc.Slot, v)
		return true, nil
	}

	if dpFlags.SetValue {
		if newFlags.InternalSetter {
			h := o.indexed.(internalSetterHandler)
			if err := h.InternalSet(r, o, key, desc.Slot, valueOrAccessor); err != nil {
				return false, err
			}
			return true, nil
		}
		setSlotValue(o, desc.Slot, valueOrAccessor)
	}
	return true, nil
}

// checkPropertyUpdate reconciles requested changes against the current
// attributes, following the ES defineProperty validation order. It returns
// the merged attributes to store when the answer is updateNeedSet.
func checkPropertyUpdate(cur PropertyFlags, dp DefinePropertyFlags, curValue Value, newValue Value, opFlags PropOpFlags) (propertyUpdateStatus, PropertyFlags, error) {
	if dp.isEmpty() {
		return updateDone, cur, nil
	}

	toAccessor := dp.isAccessor()
	toData := dp.SetValue || dp.SetWritable

	if opFlags.InternalForce {
		// Privileged callers skip the restriction checks entirely.
		return updateNeedSet, mergePropertyFlags(cur, dp), nil
	}

	if !cur.Configurable {
		if dp.SetConfigurable && dp.Configurable {
			return updateFailed, cur, nil
		}
		if dp.SetEnumerable && dp.Enumerable != cur.Enumerable {
			return updateFailed, cur, nil
		}
		// Kind changes require configurability.
		if cur.Accessor && toData {
			return updateFailed, cur, nil
		}
		if !cur.Accessor && toAccessor {
			return updateFailed, cur, nil
		}
	}

	if cur.Accessor && !toData {
		if !cur.Configurable && toAccessor {
			curAcc := curValue.asPropertyAccessor()
			newAcc := newValue.asPropertyAccessor()
			if dp.SetGetter && newAcc.Getter != curAcc.Getter {
				return updateFailed, cur, nil
			}
			if dp.SetSetter && newAcc.Setter != curAcc.Setter {
				return updateFailed, cur, nil
			}
		}
	} else if !cur.Accessor && !toAccessor {
		if !cur.Configurable && !cur.Writable {
			if dp.SetWritable && dp.Writable {
				return updateFailed, cur, nil
			}
			if dp.SetValue && !newValue.SameValue(curValue) {
				return updateFailed, cur, nil
			}
		}
	}

	return updateNeedSet, mergePropertyFlags(cur, dp), nil
}

// mergePropertyFlags folds a define request into the current attributes.
func mergePropertyFlags(cur PropertyFlags, dp DefinePropertyFlags) PropertyFlags {
	merged := cur
	if dp.SetEnumerable {
		merged.Enumerable = dp.Enumerable
	}
	if dp.SetConfigurable {
		merged.Configurable = dp.Configurable
	}
	switch {
	case dp.isAccessor():
		merged.Accessor = true
		merged.Writable = false
		merged.InternalSetter = false
	case cur.Accessor && (dp.SetValue || dp.SetWritable):
		merged.Accessor = false
		merged.Writable = dp.SetWritable && dp.Writable
	default:
		if dp.SetWritable {
			merged.Writable = dp.Writable
		}
	}
	if dp.EnableInternalSetter {
		merged.InternalSetter = true
	}
	return merged
}
