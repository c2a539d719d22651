package vm

import (
	"sort"
	"strconv"
)

// GetOwnPropertyNames lists the object's own string-keyed property names
// in enumeration order: all index-form keys first in ascending numeric
// order (elements and index-like named properties interleaved), then the
// remaining named properties in insertion order, then host-reported keys.
// Symbols and internal properties are never listed.
func (r *Runtime) GetOwnPropertyNames(o *Object, onlyEnumerable bool) ([]string, error) {
	if o.flags.lazy {
		r.initializeLazyObject(o)
	}

	var indexes []uint32
	if o.flags.indexedStorage {
		begin, end := o.indexed.OwnIndexedRange(r, o)
		for i := begin; i < end; i++ {
			flags, present := o.indexed.OwnIndexedFlags(r, o, i)
			if !present {
				continue
			}
			if onlyEnumerable && !flags.Enumerable {
				continue
			}
			indexes = append(indexes, i)
		}
	}

	var indexNames []uint32
	var names []string
	o.shape.forEachProperty(func(key PropertyKey, flags PropertyFlags, slot SlotIndex) {
		if !key.isString() {
			return
		}
		if onlyEnumerable && !flags.Enumerable {
			return
		}
		if index, ok := toArrayIndex(key.Name()); ok {
			indexNames = append(indexNames, index)
			return
		}
		names = append(names, key.Name())
	})

	// Index-form keys from both spaces merge into one ascending run.
	// Shadowing guarantees no duplicates between the two sources.
	if len(indexNames) > 0 {
		sort.Slice(indexNames, func(i, j int) bool { return indexNames[i] < indexNames[j] })
		indexes = mergeIndexes(indexes, indexNames)
	}

	// Host keys dedupe against everything already declared: index-form ones
	// join the ascending numeric run, the rest append after the named run.
	var hostNames []string
	if o.flags.hostObject {
		hostKeys, err := o.host.Keys(r)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]struct{}, len(names)+len(hostKeys))
		for _, n := range names {
			seen[n] = struct{}{}
		}
		var hostIndexes []uint32
		for _, hk := range hostKeys {
			if _, dup := seen[hk]; dup {
				continue
			}
			seen[hk] = struct{}{}
			if index, ok := toArrayIndex(hk); ok {
				hostIndexes = append(hostIndexes, index)
				continue
			}
			hostNames = append(hostNames, hk)
		}
		if len(hostIndexes) > 0 {
			sort.Slice(hostIndexes, func(i, j int) bool { return hostIndexes[i] < hostIndexes[j] })
			indexes = mergeIndexes(indexes, hostIndexes)
		}
	}

	out := make([]string, 0, len(indexes)+len(names)+len(hostNames))
	for _, i := range indexes {
		out = append(out, strconv.FormatUint(uint64(i), 10))
	}
	out = append(out, names...)
	out = append(out, hostNames...)
	return out, nil
}

// GetOwnPropertySymbols lists the object's own symbol keys in insertion
// order, internal properties excluded.
func (r *Runtime) GetOwnPropertySymbols(o *Object) []*Symbol {
	if o.flags.lazy {
		r.initializeLazyObject(o)
	}
	var out []*Symbol
	o.shape.forEachProperty(func(key PropertyKey, flags PropertyFlags, slot SlotIndex) {
		if !key.isSymbol() || r.isInternalKey(key) {
			return
		}
		out = append(out, key.Symbol())
	})
	return out
}

func (r *Runtime) isInternalKey(key PropertyKey) bool {
	for _, ik := range r.internalKeys {
		if key == ik {
			return true
		}
	}
	return false
}

// mergeIndexes merges two ascending index runs into one ascending run,
// dropping duplicates.
func mergeIndexes(a, b []uint32) []uint32 {
	out := make([]uint32, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
