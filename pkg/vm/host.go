package vm

// HostObject lets embedder-defined objects answer property operations that
// the ordinary lookup did not resolve. Host properties behave as writable,
// enumerable, non-accessor data properties; the hooks themselves decide
// what exists.
type HostObject interface {
	// Get produces the value of a host property.
	Get(r *Runtime, name string) (Value, error)
	// Set stores a value into a host property.
	Set(r *Runtime, name string, v Value) error
	// Keys lists the host property names for enumeration.
	Keys(r *Runtime) ([]string, error)
}

// hostDescriptorFlags are the fixed attributes every host-delegated
// property reports.
func hostDescriptorFlags() PropertyFlags {
	return PropertyFlags{
		Enumerable: true,
		Writable:   true,
		HostObject: true,
	}
}
