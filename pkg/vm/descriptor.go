package vm

// NamedPropertyDescriptor locates a named property inside an object: its
// attributes and the slot its value occupies. A descriptor is only valid
// while the object's shape is unchanged.
type NamedPropertyDescriptor struct {
	Flags PropertyFlags
	Slot  SlotIndex
}

// ComputedPropertyDescriptor extends the named form to cover indexed
// properties. When Indexed is set, Slot is the element index in indexed
// storage rather than a shape slot.
type ComputedPropertyDescriptor struct {
	Flags   PropertyFlags
	Slot    SlotIndex
	Indexed bool
}

func (d ComputedPropertyDescriptor) named() NamedPropertyDescriptor {
	return NamedPropertyDescriptor{Flags: d.Flags, Slot: d.Slot}
}

// getOwnNamedDescriptor resolves key against the object's own shape. A
// miss on a lazy object materializes it and retries once.
func (r *Runtime) getOwnNamedDescriptor(o *Object, key PropertyKey) (NamedPropertyDescriptor, bool) {
	pos := o.shape.findProperty(key)
	if pos >= 0 {
		p := &o.shape.properties[pos]
		return NamedPropertyDescriptor{Flags: p.flags, Slot: p.slot}, true
	}
	if o.flags.lazy {
		r.initializeLazyObject(o)
		return r.getOwnNamedDescriptor(o, key)
	}
	return NamedPropertyDescriptor{}, false
}

// getOwnComputedDescriptor resolves an arbitrary key against the object's
// own properties, indexed storage included.
//
// Fast-index objects with an index-form key consult indexed storage only.
// Otherwise the named shape wins over indexed storage, because an
// index-like named property shadows the element space.
func (r *Runtime) getOwnComputedDescriptor(o *Object, ck *computedKey) (ComputedPropertyDescriptor, bool) {
	if o.flags.indexedStorage {
		if index, ok := ck.arrayIndex(); ok && o.flags.fastIndexProperties {
			if flags, present := o.indexed.OwnIndexedFlags(r, o, index); present {
				return ComputedPropertyDescriptor{Flags: flags, Slot: index, Indexed: true}, true
			}
			return ComputedPropertyDescriptor{}, false
		}
	}

	key, err := ck.propertyKey()
	if err == nil {
		if desc, ok := r.getOwnNamedDescriptor(o, key); ok {
			return ComputedPropertyDescriptor{Flags: desc.Flags, Slot: desc.Slot}, true
		}
	}

	if o.flags.indexedStorage {
		if index, ok := ck.arrayIndex(); ok {
			if flags, present := o.indexed.OwnIndexedFlags(r, o, index); present {
				return ComputedPropertyDescriptor{Flags: flags, Slot: index, Indexed: true}, true
			}
		}
	}
	return ComputedPropertyDescriptor{}, false
}

// getNamedDescriptor resolves key along the prototype chain, returning the
// owning object together with the descriptor. An unresolved name on a host
// object synthesizes a host descriptor; the host hooks decide existence at
// access time.
func (r *Runtime) getNamedDescriptor(o *Object, key PropertyKey) (*Object, NamedPropertyDescriptor, bool) {
	for cur := o; cur != nil; cur = cur.parent {
		if desc, ok := r.getOwnNamedDescriptor(cur, key); ok {
			return cur, desc, true
		}
		if cur.flags.hostObject && key.isString() {
			return cur, NamedPropertyDescriptor{Flags: hostDescriptorFlags()}, true
		}
	}
	return nil, NamedPropertyDescriptor{}, false
}

// getComputedDescriptor is the computed-key form of getNamedDescriptor.
func (r *Runtime) getComputedDescriptor(o *Object, ck *computedKey) (*Object, ComputedPropertyDescriptor, bool) {
	for cur := o; cur != nil; cur = cur.parent {
		if desc, ok := r.getOwnComputedDescriptor(cur, ck); ok {
			return cur, desc, true
		}
		if cur.flags.hostObject {
			if key, err := ck.propertyKey(); err == nil && key.isString() {
				return cur, ComputedPropertyDescriptor{Flags: hostDescriptorFlags()}, true
			}
		}
	}
	return nil, ComputedPropertyDescriptor{}, false
}

// HasNamed reports whether key resolves anywhere on the prototype chain.
func (r *Runtime) HasNamed(o *Object, key PropertyKey) bool {
	_, _, ok := r.getNamedDescriptor(o, key)
	return ok
}

// HasNamedOwn reports whether the object itself declares key.
func (r *Runtime) HasNamedOwn(o *Object, key PropertyKey) bool {
	_, ok := r.getOwnNamedDescriptor(o, key)
	return ok
}

// HasComputed reports whether an arbitrary key resolves anywhere on the
// prototype chain.
func (r *Runtime) HasComputed(o *Object, keyVal Value) (bool, error) {
	ck := newComputedKey(keyVal)
	if _, err := ck.propertyKey(); err != nil {
		return false, err
	}
	_, _, ok := r.getComputedDescriptor(o, &ck)
	return ok, nil
}

// readDescriptorValue loads the value a resolved descriptor points at,
// dispatching to indexed storage or host hooks as the flags dictate.
// Accessor slots are returned raw; callers invoke the getter themselves.
func (r *Runtime) readDescriptorValue(propObj *Object, ck *computedKey, desc ComputedPropertyDescriptor) (Value, error) {
	if desc.Indexed {
		v, _ := propObj.indexed.GetOwnIndexed(r, propObj, desc.Slot)
		return v, nil
	}
	if desc.Flags.HostObject {
		key, err := ck.propertyKey()
		if err != nil {
			return Undefined, err
		}
		return propObj.host.Get(r, key.Name())
	}
	return getSlotValue(propObj, desc.Slot), nil
}
