package vm

import (
	"fmt"
	"math"
	"strconv"
	"unsafe"
)

type ValueType uint8

const (
	TypeUndefined ValueType = iota
	TypeNull

	TypeBoolean
	TypeNumber
	TypeString
	TypeSymbol

	TypeObject

	// TypeEmpty is the internal tombstone written into deleted slots and
	// returned by indexed storage for holes. It is never visible to callers
	// of the access protocol.
	TypeEmpty
	// TypeAccessor marks a slot whose value is a PropertyAccessor record.
	// Like TypeEmpty it never escapes the access protocol.
	TypeAccessor
)

// String returns a human-readable string representation of the ValueType
func (vt ValueType) String() string {
	switch vt {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeSymbol:
		return "symbol"
	case TypeObject:
		return "object"
	case TypeEmpty:
		return "empty"
	case TypeAccessor:
		return "accessor"
	default:
		return "unknown"
	}
}

// Value is the universal runtime value. Immediates live in num/str; heap
// values (objects, symbols, accessors) are carried as an untyped pointer
// tagged by typ.
type Value struct {
	typ ValueType
	num float64
	str string
	obj unsafe.Pointer
}

var (
	Undefined = Value{typ: TypeUndefined}
	Null      = Value{typ: TypeNull}
	True      = Value{typ: TypeBoolean, num: 1}
	False     = Value{typ: TypeBoolean, num: 0}
	// Empty is the deleted-slot tombstone.
	Empty = Value{typ: TypeEmpty}
)

func NumberValue(n float64) Value { return Value{typ: TypeNumber, num: n} }

func IntegerValue(n int64) Value { return Value{typ: TypeNumber, num: float64(n)} }

func BooleanValue(b bool) Value {
	if b {
		return True
	}
	return False
}

func NewString(s string) Value { return Value{typ: TypeString, str: s} }

// Symbol is a unique property key with an optional description.
type Symbol struct {
	Description string
	id          uint64
}

var nextSymbolID uint64 = 1

// NewSymbol creates a fresh, unique symbol value.
func NewSymbol(description string) Value {
	sym := &Symbol{Description: description, id: nextSymbolID}
	nextSymbolID++
	return Value{typ: TypeSymbol, obj: unsafe.Pointer(sym)}
}

func ObjectValue(o *Object) Value {
	if o == nil {
		return Null
	}
	return Value{typ: TypeObject, obj: unsafe.Pointer(o)}
}

func accessorValue(a *PropertyAccessor) Value {
	return Value{typ: TypeAccessor, obj: unsafe.Pointer(a)}
}

func (v Value) Type() ValueType { return v.typ }

func (v Value) IsUndefined() bool { return v.typ == TypeUndefined }
func (v Value) IsNull() bool      { return v.typ == TypeNull }
func (v Value) IsNumber() bool    { return v.typ == TypeNumber }
func (v Value) IsString() bool    { return v.typ == TypeString }
func (v Value) IsSymbol() bool    { return v.typ == TypeSymbol }
func (v Value) IsObject() bool    { return v.typ == TypeObject }
func (v Value) IsEmpty() bool     { return v.typ == TypeEmpty }
func (v Value) isAccessor() bool  { return v.typ == TypeAccessor }

func (v Value) AsNumber() float64 { return v.num }
func (v Value) AsBoolean() bool   { return v.num != 0 }
func (v Value) AsString() string  { return v.str }

func (v Value) AsObject() *Object {
	if v.typ != TypeObject {
		return nil
	}
	return (*Object)(v.obj)
}

func (v Value) AsSymbol() *Symbol {
	if v.typ != TypeSymbol {
		return nil
	}
	return (*Symbol)(v.obj)
}

func (v Value) asPropertyAccessor() *PropertyAccessor {
	if v.typ != TypeAccessor {
		return nil
	}
	return (*PropertyAccessor)(v.obj)
}

// Is reports reference/primitive identity: same type and same payload.
// Unlike SameValue it considers NaN != NaN, matching Go equality on the
// number payload only when bit-for-bit comparison is not required.
func (v Value) Is(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeUndefined, TypeNull, TypeEmpty:
		return true
	case TypeBoolean, TypeNumber:
		return v.num == other.num
	case TypeString:
		return v.str == other.str
	default:
		return v.obj == other.obj
	}
}

// SameValue implements the ES SameValue algorithm: NaN equals NaN, and
// +0 and -0 are distinguished.
func (v Value) SameValue(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeUndefined, TypeNull, TypeEmpty:
		return true
	case TypeBoolean:
		return v.num == other.num
	case TypeNumber:
		if math.IsNaN(v.num) && math.IsNaN(other.num) {
			return true
		}
		return math.Float64bits(v.num) == math.Float64bits(other.num)
	case TypeString:
		return v.str == other.str
	default:
		return v.obj == other.obj
	}
}

// ToString renders the value for diagnostics and the shell. It is not the
// full ES ToString; object-to-primitive conversion does not belong to the
// object model.
func (v Value) ToString() string {
	switch v.typ {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		if v.num != 0 {
			return "true"
		}
		return "false"
	case TypeNumber:
		return formatNumber(v.num)
	case TypeString:
		return v.str
	case TypeSymbol:
		return fmt.Sprintf("Symbol(%s)", v.AsSymbol().Description)
	case TypeObject:
		return fmt.Sprintf("[object %p]", v.obj)
	case TypeEmpty:
		return "<empty>"
	case TypeAccessor:
		return "<accessor>"
	default:
		return "<unknown>"
	}
}

// formatNumber renders a float the way a number-to-property-key conversion
// needs it: integral values in plain decimal, everything else in shortest
// round-trip form.
func formatNumber(n float64) string {
	if n == 0 {
		// Both zeros print as "0".
		return "0"
	}
	if n == math.Trunc(n) && !math.IsInf(n, 0) && math.Abs(n) < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
