package vm

import (
	"testing"

	"github.com/rshpount/hermes/pkg/errors"
)

func newTestRuntime() *Runtime {
	return NewRuntime(DefaultConfig())
}

func mustPut(t *testing.T, r *Runtime, o *Object, name string, v Value) {
	t.Helper()
	ok, err := r.PutNamed(o, NewStringKey(name), v, ThrowOnError)
	if err != nil {
		t.Fatalf("PutNamed(%q) failed: %v", name, err)
	}
	if !ok {
		t.Fatalf("PutNamed(%q) returned false", name)
	}
}

func mustGet(t *testing.T, r *Runtime, o *Object, name string) Value {
	t.Helper()
	v, err := r.GetNamed(o, NewStringKey(name), PropOpFlags{})
	if err != nil {
		t.Fatalf("GetNamed(%q) failed: %v", name, err)
	}
	return v
}

func TestObjectBasic(t *testing.T) {
	r := newTestRuntime()
	o := r.NewObject(nil)

	if r.HasNamedOwn(o, NewStringKey("foo")) {
		t.Errorf("expected no own property on a fresh object")
	}
	mustPut(t, r, o, "foo", IntegerValue(42))
	if !r.HasNamedOwn(o, NewStringKey("foo")) {
		t.Errorf("expected own property after put")
	}
	if v := mustGet(t, r, o, "foo"); v.AsNumber() != 42 {
		t.Errorf("expected 42, got %v", v.ToString())
	}

	mustPut(t, r, o, "foo", IntegerValue(7))
	if v := mustGet(t, r, o, "foo"); v.AsNumber() != 7 {
		t.Errorf("expected overwritten value 7, got %v", v.ToString())
	}
}

func TestGetMissingProperty(t *testing.T) {
	r := newTestRuntime()
	o := r.NewObject(nil)

	if v := mustGet(t, r, o, "nope"); !v.IsUndefined() {
		t.Errorf("expected undefined for a missing property, got %v", v.ToString())
	}
	_, err := r.GetNamed(o, NewStringKey("nope"), PropOpFlags{MustExist: true})
	if !errors.IsReferenceError(err) {
		t.Errorf("expected ReferenceError with MustExist, got %v", err)
	}
}

func TestPrototypeChainLookup(t *testing.T) {
	r := newTestRuntime()
	grandproto := r.NewObject(nil)
	proto := r.NewObject(grandproto)
	o := r.NewObject(proto)

	mustPut(t, r, grandproto, "deep", IntegerValue(1))
	mustPut(t, r, proto, "mid", IntegerValue(2))
	mustPut(t, r, o, "own", IntegerValue(3))

	if v := mustGet(t, r, o, "deep"); v.AsNumber() != 1 {
		t.Errorf("expected 1 from grandproto, got %v", v.ToString())
	}
	if v := mustGet(t, r, o, "mid"); v.AsNumber() != 2 {
		t.Errorf("expected 2 from proto, got %v", v.ToString())
	}
	if r.HasNamedOwn(o, NewStringKey("mid")) {
		t.Errorf("proto property must not be an own property")
	}
	if !r.HasNamed(o, NewStringKey("deep")) {
		t.Errorf("HasNamed should see the whole chain")
	}
}

func TestPutShadowsPrototype(t *testing.T) {
	r := newTestRuntime()
	proto := r.NewObject(nil)
	o := r.NewObject(proto)

	mustPut(t, r, proto, "x", IntegerValue(1))
	mustPut(t, r, o, "x", IntegerValue(2))

	if v := mustGet(t, r, o, "x"); v.AsNumber() != 2 {
		t.Errorf("expected shadowing own value 2, got %v", v.ToString())
	}
	if v := mustGet(t, r, proto, "x"); v.AsNumber() != 1 {
		t.Errorf("prototype value must be untouched, got %v", v.ToString())
	}
	if !r.HasNamedOwn(o, NewStringKey("x")) {
		t.Errorf("expected shadowing property to be own")
	}
}

func TestSetParent(t *testing.T) {
	r := newTestRuntime()
	a := r.NewObject(nil)
	b := r.NewObject(nil)

	if err := r.SetParent(a, b); err != nil {
		t.Fatalf("SetParent failed: %v", err)
	}
	if a.Parent() != b {
		t.Errorf("expected parent to be b")
	}

	// Cycle: b -> a -> b must be rejected.
	if err := r.SetParent(b, a); !errors.IsTypeError(err) {
		t.Errorf("expected TypeError for prototype cycle, got %v", err)
	}

	// Self cycle.
	if err := r.SetParent(a, a); !errors.IsTypeError(err) {
		t.Errorf("expected TypeError for self cycle, got %v", err)
	}

	r.PreventExtensions(a)
	if err := r.SetParent(a, nil); !errors.IsTypeError(err) {
		t.Errorf("expected TypeError on non-extensible object, got %v", err)
	}

	// Setting the same parent is a no-op even when non-extensible.
	if err := r.SetParent(a, b); err != nil {
		t.Errorf("expected same-parent set to succeed, got %v", err)
	}
}

func TestPreventExtensions(t *testing.T) {
	r := newTestRuntime()
	o := r.NewObject(nil)
	mustPut(t, r, o, "x", IntegerValue(1))
	r.PreventExtensions(o)

	ok, err := r.PutNamed(o, NewStringKey("y"), IntegerValue(2), PropOpFlags{})
	if ok || err != nil {
		t.Errorf("expected silent failure adding to non-extensible object, got ok=%v err=%v", ok, err)
	}
	_, err = r.PutNamed(o, NewStringKey("y"), IntegerValue(2), ThrowOnError)
	if !errors.IsTypeError(err) {
		t.Errorf("expected TypeError with ThrowOnError, got %v", err)
	}

	// Existing properties stay writable.
	mustPut(t, r, o, "x", IntegerValue(10))
	if v := mustGet(t, r, o, "x"); v.AsNumber() != 10 {
		t.Errorf("expected 10, got %v", v.ToString())
	}
}

func TestSealAndFreeze(t *testing.T) {
	r := newTestRuntime()
	o := r.NewObject(nil)
	mustPut(t, r, o, "x", IntegerValue(1))

	if r.IsSealed(o) || r.IsFrozen(o) {
		t.Fatalf("fresh object must be neither sealed nor frozen")
	}

	r.Seal(o)
	if !r.IsSealed(o) {
		t.Errorf("expected sealed after Seal")
	}
	if r.IsFrozen(o) {
		t.Errorf("sealed object with a writable property is not frozen")
	}
	if ok, _ := r.DeleteNamed(o, NewStringKey("x"), PropOpFlags{}); ok {
		t.Errorf("delete must fail on a sealed object")
	}
	// Write still allowed.
	mustPut(t, r, o, "x", IntegerValue(5))

	r.Freeze(o)
	if !r.IsFrozen(o) {
		t.Errorf("expected frozen after Freeze")
	}
	ok, err := r.PutNamed(o, NewStringKey("x"), IntegerValue(9), PropOpFlags{})
	if ok || err != nil {
		t.Errorf("expected silent write failure on frozen object, got ok=%v err=%v", ok, err)
	}
	if v := mustGet(t, r, o, "x"); v.AsNumber() != 5 {
		t.Errorf("frozen value must be unchanged, got %v", v.ToString())
	}
}

func TestIsSealedScanAndCache(t *testing.T) {
	r := newTestRuntime()
	o := r.NewObject(nil)
	if err := r.DefineNewOwnProperty(o, NewStringKey("x"), PropertyFlags{Enumerable: true, Writable: true}, IntegerValue(1)); err != nil {
		t.Fatalf("define failed: %v", err)
	}
	r.PreventExtensions(o)

	// Every property is already non-configurable, so the scan should
	// succeed without an explicit Seal call.
	if !r.IsSealed(o) {
		t.Errorf("expected scan to detect a sealed object")
	}
	if !o.flags.sealed {
		t.Errorf("expected positive scan result to be cached")
	}
}

func TestLazyObjectMaterialization(t *testing.T) {
	r := newTestRuntime()
	initCount := 0
	o := r.NewLazyObject(nil, func(r *Runtime, o *Object) {
		initCount++
		if err := r.DefineNewOwnProperty(o, NewStringKey("answer"), defaultNewPropertyFlags(), IntegerValue(42)); err != nil {
			t.Fatalf("define in initializer failed: %v", err)
		}
	})

	if v := mustGet(t, r, o, "answer"); v.AsNumber() != 42 {
		t.Errorf("expected lazily materialized 42, got %v", v.ToString())
	}
	if initCount != 1 {
		t.Fatalf("expected exactly one initializer run, got %d", initCount)
	}

	// Further misses must not re-run the initializer.
	mustGet(t, r, o, "missing")
	mustGet(t, r, o, "answer")
	if initCount != 1 {
		t.Errorf("initializer ran %d times, expected 1", initCount)
	}
}

type mapHostObject struct {
	props map[string]Value
}

func (h *mapHostObject) Get(r *Runtime, name string) (Value, error) {
	if v, ok := h.props[name]; ok {
		return v, nil
	}
	return Undefined, nil
}

func (h *mapHostObject) Set(r *Runtime, name string, v Value) error {
	h.props[name] = v
	return nil
}

func (h *mapHostObject) Keys(r *Runtime) ([]string, error) {
	out := make([]string, 0, len(h.props))
	for k := range h.props {
		out = append(out, k)
	}
	return out, nil
}

func TestHostObject(t *testing.T) {
	r := newTestRuntime()
	host := &mapHostObject{props: map[string]Value{"greeting": NewString("hello")}}
	o := r.NewHostObject(nil, host)

	if v := mustGet(t, r, o, "greeting"); v.AsString() != "hello" {
		t.Errorf("expected host get to produce hello, got %v", v.ToString())
	}

	mustPut(t, r, o, "greeting", NewString("goodbye"))
	if host.props["greeting"].AsString() != "goodbye" {
		t.Errorf("expected host set to store goodbye")
	}

	// Host properties behave as writable data properties.
	if !r.HasNamed(o, NewStringKey("anything")) {
		t.Errorf("host object must claim unresolved names")
	}
}

func TestInternalPropertiesInvisible(t *testing.T) {
	r := newTestRuntime()
	o := r.NewObject(nil)
	r.AddInternalProperties(o, 2, Null)
	mustPut(t, r, o, "visible", IntegerValue(1))

	names, err := r.GetOwnPropertyNames(o, false)
	if err != nil {
		t.Fatalf("GetOwnPropertyNames failed: %v", err)
	}
	if len(names) != 1 || names[0] != "visible" {
		t.Errorf("expected only [visible], got %v", names)
	}
	if syms := r.GetOwnPropertySymbols(o); len(syms) != 0 {
		t.Errorf("internal properties must not appear as symbols, got %d", len(syms))
	}
}

func TestObjectIDStable(t *testing.T) {
	r := newTestRuntime()
	a := r.NewObject(nil)
	b := r.NewObject(nil)

	idA := r.GetObjectID(a)
	if idA == 0 {
		t.Fatalf("object id must be non-zero")
	}
	if got := r.GetObjectID(a); got != idA {
		t.Errorf("object id must be stable, got %d then %d", idA, got)
	}
	if r.GetObjectID(b) == idA {
		t.Errorf("distinct objects must have distinct ids")
	}
}
