package vm

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot value kinds. Callables and host hooks cannot be serialized;
// they are recorded as opaque markers.
const (
	snapUndefined = "undefined"
	snapNull      = "null"
	snapBoolean   = "boolean"
	snapNumber    = "number"
	snapString    = "string"
	snapSymbol    = "symbol"
	snapObject    = "object"
	snapAccessor  = "accessor"
	snapOpaque    = "opaque"
)

// SnapshotValue is the serialized form of a slot value. Object references
// are recorded by object ID.
type SnapshotValue struct {
	Kind string  `msgpack:"kind"`
	Num  float64 `msgpack:"num,omitempty"`
	Str  string  `msgpack:"str,omitempty"`
	Ref  uint64  `msgpack:"ref,omitempty"`
}

// SnapshotProperty is one named property in enumeration-independent
// insertion order.
type SnapshotProperty struct {
	Name         string        `msgpack:"name"`
	Enumerable   bool          `msgpack:"enumerable"`
	Writable     bool          `msgpack:"writable"`
	Configurable bool          `msgpack:"configurable"`
	Value        SnapshotValue `msgpack:"value"`
}

// SnapshotElement is one present indexed element.
type SnapshotElement struct {
	Index uint32        `msgpack:"index"`
	Value SnapshotValue `msgpack:"value"`
}

// SnapshotObject is the serialized form of one object record.
type SnapshotObject struct {
	ID         uint64             `msgpack:"id"`
	Parent     uint64             `msgpack:"parent,omitempty"`
	Extensible bool               `msgpack:"extensible"`
	HostObject bool               `msgpack:"host,omitempty"`
	Lazy       bool               `msgpack:"lazy,omitempty"`
	Properties []SnapshotProperty `msgpack:"properties"`
	Elements   []SnapshotElement  `msgpack:"elements,omitempty"`
}

// Snapshot is a serialized object graph.
type Snapshot struct {
	Version int              `msgpack:"version"`
	Roots   []uint64         `msgpack:"roots"`
	Objects []SnapshotObject `msgpack:"objects"`
}

const snapshotVersion = 1

// WriteSnapshot serializes every object reachable from roots through
// prototype links, named properties and indexed elements. Lazy objects
// are snapshotted as-is, without materializing them.
func (r *Runtime) WriteSnapshot(w io.Writer, roots ...*Object) error {
	snap := Snapshot{Version: snapshotVersion}
	seen := make(map[*Object]bool)

	var visit func(o *Object)
	visit = func(o *Object) {
		if o == nil || seen[o] {
			return
		}
		seen[o] = true

		rec := SnapshotObject{
			ID:         uint64(r.GetObjectID(o)),
			Extensible: o.IsExtensible(),
			HostObject: o.flags.hostObject,
			Lazy:       o.flags.lazy,
		}
		if o.parent != nil {
			rec.Parent = uint64(r.GetObjectID(o.parent))
		}

		o.shape.forEachProperty(func(key PropertyKey, flags PropertyFlags, slot SlotIndex) {
			if !key.isString() {
				return
			}
			rec.Properties = append(rec.Properties, SnapshotProperty{
				Name:         key.Name(),
				Enumerable:   flags.Enumerable,
				Writable:     flags.Writable,
				Configurable: flags.Configurable,
				Value:        r.snapshotValue(getSlotValue(o, slot), flags),
			})
		})

		if o.flags.indexedStorage {
			begin, end := o.indexed.OwnIndexedRange(r, o)
			for i := begin; i < end; i++ {
				if v, present := o.indexed.GetOwnIndexed(r, o, i); present {
					rec.Elements = append(rec.Elements, SnapshotElement{
						Index: i,
						Value: r.snapshotValue(v, PropertyFlags{}),
					})
				}
			}
		}

		snap.Objects = append(snap.Objects, rec)

		visit(o.parent)
		for i := range rec.Properties {
			if rec.Properties[i].Value.Kind == snapObject {
				prop := o.shape.findProperty(NewStringKey(rec.Properties[i].Name))
				if prop >= 0 {
					visit(getSlotValue(o, o.shape.properties[prop].slot).AsObject())
				}
			}
		}
		if o.flags.indexedStorage {
			begin, end := o.indexed.OwnIndexedRange(r, o)
			for i := begin; i < end; i++ {
				if v, present := o.indexed.GetOwnIndexed(r, o, i); present && v.IsObject() {
					visit(v.AsObject())
				}
			}
		}
	}

	for _, root := range roots {
		if root != nil {
			snap.Roots = append(snap.Roots, uint64(r.GetObjectID(root)))
			visit(root)
		}
	}
	return msgpack.NewEncoder(w).Encode(&snap)
}

// ReadSnapshot decodes a serialized object graph back into its record
// form.
func ReadSnapshot(rd io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := msgpack.NewDecoder(rd).Decode(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (r *Runtime) snapshotValue(v Value, flags PropertyFlags) SnapshotValue {
	if flags.Accessor {
		return SnapshotValue{Kind: snapAccessor}
	}
	switch v.Type() {
	case TypeUndefined, TypeEmpty:
		return SnapshotValue{Kind: snapUndefined}
	case TypeNull:
		return SnapshotValue{Kind: snapNull}
	case TypeBoolean:
		n := 0.0
		if v.AsBoolean() {
			n = 1
		}
		return SnapshotValue{Kind: snapBoolean, Num: n}
	case TypeNumber:
		return SnapshotValue{Kind: snapNumber, Num: v.AsNumber()}
	case TypeString:
		return SnapshotValue{Kind: snapString, Str: v.AsString()}
	case TypeSymbol:
		return SnapshotValue{Kind: snapSymbol, Str: v.AsSymbol().Description}
	case TypeObject:
		return SnapshotValue{Kind: snapObject, Ref: uint64(r.GetObjectID(v.AsObject()))}
	default:
		return SnapshotValue{Kind: snapOpaque}
	}
}
