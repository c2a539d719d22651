package vm

// Callable is anything invokable as a getter or setter. The object model
// only needs invocation with a receiver; full function semantics live
// above it.
type Callable interface {
	Call(r *Runtime, this Value, args []Value) (Value, error)
}

// NativeFunction adapts a Go function to Callable.
type NativeFunction func(r *Runtime, this Value, args []Value) (Value, error)

func (f NativeFunction) Call(r *Runtime, this Value, args []Value) (Value, error) {
	return f(r, this, args)
}

// PropertyAccessor is the paired getter/setter record stored in a single
// slot for accessor properties. Either side may be nil.
type PropertyAccessor struct {
	Getter Callable
	Setter Callable
}

// NewAccessor wraps a getter/setter pair as a slot value.
func NewAccessor(getter, setter Callable) Value {
	return accessorValue(&PropertyAccessor{Getter: getter, Setter: setter})
}

// callGetter invokes the accessor's getter with the given receiver. A
// missing getter yields undefined.
func (a *PropertyAccessor) callGetter(r *Runtime, this Value) (Value, error) {
	if a.Getter == nil {
		return Undefined, nil
	}
	return a.Getter.Call(r, this, nil)
}

// callSetter invokes the accessor's setter with the given receiver.
func (a *PropertyAccessor) callSetter(r *Runtime, this Value, v Value) error {
	_, err := a.Setter.Call(r, this, []Value{v})
	return err
}
