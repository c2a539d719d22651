package vm

// PropertyFlags are the resolved attributes of a property. The struct is
// comparable, so flag sets can be tested for equality directly.
type PropertyFlags struct {
	Enumerable   bool
	Writable     bool
	Configurable bool

	// Accessor marks a property whose slot holds a PropertyAccessor record
	// instead of a data value. Accessor properties are never writable.
	Accessor bool

	// HostObject marks a synthesized descriptor bound to a host object;
	// reads and writes delegate to the host hooks.
	HostObject bool

	// InternalSetter routes writes through a specialized handler (for
	// example array length truncation/extension).
	InternalSetter bool

	// StaticBuiltin protects a builtin from being overridden; writes fail
	// with a descriptive error, or abort under the compat flag.
	StaticBuiltin bool
}

// defaultNewPropertyFlags are the attributes of a property created by plain
// assignment: enumerable, writable, configurable.
func defaultNewPropertyFlags() PropertyFlags {
	return PropertyFlags{Enumerable: true, Writable: true, Configurable: true}
}

// DefinePropertyFlags is a define-property request. Every attribute carries
// an explicit presence bit so "unspecified" and "explicitly false" are
// distinct. A request never has both a value and an accessor present.
type DefinePropertyFlags struct {
	SetEnumerable   bool
	Enumerable      bool
	SetWritable     bool
	Writable        bool
	SetConfigurable bool
	Configurable    bool

	SetValue  bool
	SetGetter bool
	SetSetter bool

	// EnableInternalSetter requests the internal-setter dispatch for the
	// new property. Only privileged runtime internals set this.
	EnableInternalSetter bool
}

// DefaultDataPropertyFlags is the request produced by plain assignment to a
// missing property: value present, all attributes true.
func DefaultDataPropertyFlags() DefinePropertyFlags {
	return DefinePropertyFlags{
		SetEnumerable: true, Enumerable: true,
		SetWritable: true, Writable: true,
		SetConfigurable: true, Configurable: true,
		SetValue: true,
	}
}

func (dpf DefinePropertyFlags) isAccessor() bool { return dpf.SetGetter || dpf.SetSetter }

// toPropertyFlags materializes the request as attributes for a brand-new
// property. Unspecified attributes default to false, per the
// defineProperty rules.
func (dpf DefinePropertyFlags) toPropertyFlags() PropertyFlags {
	f := PropertyFlags{
		Enumerable:     dpf.SetEnumerable && dpf.Enumerable,
		Configurable:   dpf.SetConfigurable && dpf.Configurable,
		InternalSetter: dpf.EnableInternalSetter,
	}
	if dpf.isAccessor() {
		f.Accessor = true
	} else {
		f.Writable = dpf.SetWritable && dpf.Writable
	}
	return f
}

func (dpf DefinePropertyFlags) isEmpty() bool {
	return !dpf.SetEnumerable && !dpf.SetWritable && !dpf.SetConfigurable &&
		!dpf.SetValue && !dpf.SetGetter && !dpf.SetSetter
}

// PropOpFlags are per-call options of a property operation.
type PropOpFlags struct {
	// ThrowOnError selects raising a TypeError/ReferenceError over silently
	// returning false.
	ThrowOnError bool

	// MustExist fails the operation with a ReferenceError when the property
	// does not resolve anywhere along the chain: a get reports the missing
	// binding, and a put refuses to create a new one.
	MustExist bool

	// InternalForce bypasses the extensibility check. Only privileged
	// runtime internals set this.
	InternalForce bool
}

// ThrowOnError is the PropOpFlags for strict-mode throwing behavior.
var ThrowOnError = PropOpFlags{ThrowOnError: true}
