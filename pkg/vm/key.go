package vm

import (
	"math"

	"fortio.org/safecast"

	"github.com/rshpount/hermes/pkg/errors"
)

type KeyKind uint8

const (
	KeyKindString KeyKind = iota
	KeyKindSymbol
)

// PropertyKey is a canonical property key: a string identifier or a symbol.
// Numeric values and index-like strings normalize to the same string key,
// so "3" and 3.0 address the same named property.
type PropertyKey struct {
	kind KeyKind
	name string  // for string keys
	sym  *Symbol // for symbol keys
}

// NewStringKey constructs a PropertyKey for string-named properties.
func NewStringKey(name string) PropertyKey { return PropertyKey{kind: KeyKindString, name: name} }

// NewSymbolKey constructs a PropertyKey for symbol-named properties.
// The value must be a symbol.
func NewSymbolKey(sym Value) PropertyKey {
	return PropertyKey{kind: KeyKindSymbol, sym: sym.AsSymbol()}
}

func (k PropertyKey) isString() bool { return k.kind == KeyKindString }
func (k PropertyKey) isSymbol() bool { return k.kind == KeyKindSymbol }

// Name returns the string form for string keys, "" otherwise.
func (k PropertyKey) Name() string { return k.name }

// Symbol returns the symbol for symbol keys, nil otherwise.
func (k PropertyKey) Symbol() *Symbol { return k.sym }

func (k PropertyKey) debugName() string {
	if k.kind == KeyKindSymbol {
		return "Symbol(" + k.sym.Description + ")"
	}
	return k.name
}

// maxArrayIndex is the largest valid array index, 2^32-2. 2^32-1 is
// reserved for array length.
const maxArrayIndex = 4294967294

// toArrayIndex checks whether a string is the canonical decimal form of a
// valid array index. Leading zeros disqualify (except "0" itself), matching
// the canonical-numeric-string rule.
func toArrayIndex(key string) (uint32, bool) {
	if key == "" {
		return 0, false
	}
	if len(key) > 1 && key[0] == '0' {
		return 0, false
	}
	var idx uint64
	for i := 0; i < len(key); i++ {
		ch := key[i]
		if ch < '0' || ch > '9' {
			return 0, false
		}
		idx = idx*10 + uint64(ch-'0')
		if idx > maxArrayIndex {
			return 0, false
		}
	}
	u32, err := safecast.Conv[uint32](idx)
	if err != nil {
		return 0, false
	}
	return u32, true
}

// toArrayIndexFastPath recognizes a numeric value that is already a valid
// array index, without going through string conversion.
func toArrayIndexFastPath(v Value) (uint32, bool) {
	if !v.IsNumber() {
		return 0, false
	}
	n := v.AsNumber()
	if n != math.Trunc(n) || n < 0 || n > maxArrayIndex {
		return 0, false
	}
	u32, err := safecast.Conv[uint32](int64(n))
	if err != nil {
		return 0, false
	}
	return u32, true
}

// ToPropertyKey canonicalizes a primitive value into a property key.
// Object values must be converted to primitives by the caller (that
// conversion can run arbitrary code and does not belong to the object
// model).
func ToPropertyKey(v Value) (PropertyKey, error) {
	switch v.Type() {
	case TypeString:
		return NewStringKey(v.AsString()), nil
	case TypeSymbol:
		return NewSymbolKey(v), nil
	case TypeNumber:
		return NewStringKey(formatNumber(v.AsNumber())), nil
	case TypeBoolean:
		if v.AsBoolean() {
			return NewStringKey("true"), nil
		}
		return NewStringKey("false"), nil
	case TypeNull:
		return NewStringKey("null"), nil
	case TypeUndefined:
		return NewStringKey("undefined"), nil
	default:
		return PropertyKey{}, errors.NewTypeError("cannot use %s as a property key", v.Type())
	}
}

// computedKey memoizes the conversions a computed-key operation may need:
// the canonical property key and the optional array index. Each is computed
// at most once per operation and the memo is passed down the call chain.
type computedKey struct {
	val Value

	key    PropertyKey
	keyErr error
	hasKey bool

	index        uint32
	isIndex      bool
	checkedIndex bool
}

func newComputedKey(v Value) computedKey { return computedKey{val: v} }

// propertyKey returns the canonical key, converting on first use.
func (ck *computedKey) propertyKey() (PropertyKey, error) {
	if !ck.hasKey {
		ck.key, ck.keyErr = ToPropertyKey(ck.val)
		ck.hasKey = true
	}
	return ck.key, ck.keyErr
}

// arrayIndex returns the array-index form of the key if it has one,
// converting on first use. Symbols never have one.
func (ck *computedKey) arrayIndex() (uint32, bool) {
	if !ck.checkedIndex {
		ck.checkedIndex = true
		if idx, ok := toArrayIndexFastPath(ck.val); ok {
			ck.index, ck.isIndex = idx, true
		} else if !ck.val.IsSymbol() {
			if key, err := ck.propertyKey(); err == nil && key.isString() {
				if idx, ok := toArrayIndex(key.name); ok {
					ck.index, ck.isIndex = idx, true
				}
			}
		}
	}
	return ck.index, ck.isIndex
}
