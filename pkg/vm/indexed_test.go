package vm

import (
	"testing"

	"github.com/rshpount/hermes/pkg/errors"
)

func TestArrayBasics(t *testing.T) {
	r := newTestRuntime()
	arr := r.NewArray(nil, 0)

	if got := r.ArrayLength(arr); got != 0 {
		t.Fatalf("expected empty array, length %d", got)
	}

	if ok, err := r.PutComputed(arr, NumberValue(0), NewString("a"), ThrowOnError); !ok || err != nil {
		t.Fatalf("put failed: ok=%v err=%v", ok, err)
	}
	if ok, err := r.PutComputed(arr, NumberValue(1), NewString("b"), ThrowOnError); !ok || err != nil {
		t.Fatalf("put failed: ok=%v err=%v", ok, err)
	}

	if got := r.ArrayLength(arr); got != 2 {
		t.Errorf("expected length 2, got %d", got)
	}
	v, err := r.GetComputed(arr, NumberValue(1))
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if v.AsString() != "b" {
		t.Errorf("expected b, got %v", v.ToString())
	}

	// length is readable as an ordinary named property.
	if v := mustGet(t, r, arr, "length"); v.AsNumber() != 2 {
		t.Errorf("expected length property 2, got %v", v.ToString())
	}
}

func TestArrayLengthGrowsPastHoles(t *testing.T) {
	r := newTestRuntime()
	arr := r.NewArray(nil, 0)

	if ok, err := r.PutComputed(arr, NumberValue(4), IntegerValue(1), ThrowOnError); !ok || err != nil {
		t.Fatalf("put failed: ok=%v err=%v", ok, err)
	}
	if got := r.ArrayLength(arr); got != 5 {
		t.Errorf("expected length 5, got %d", got)
	}

	// Holes read as undefined and report absent.
	v, err := r.GetComputed(arr, NumberValue(2))
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !v.IsUndefined() {
		t.Errorf("expected undefined for a hole, got %v", v.ToString())
	}
	if arr.indexed.HaveOwnIndexed(r, arr, 2) {
		t.Errorf("hole must not report as present")
	}
}

func TestArrayLengthTruncation(t *testing.T) {
	r := newTestRuntime()
	arr := r.NewArray(nil, 0)
	for i := 0; i < 4; i++ {
		if ok, err := r.PutComputed(arr, NumberValue(float64(i)), IntegerValue(int64(i)), ThrowOnError); !ok || err != nil {
			t.Fatalf("put failed: ok=%v err=%v", ok, err)
		}
	}

	// Assigning length routes through the internal setter.
	mustPut(t, r, arr, "length", NumberValue(2))
	if got := r.ArrayLength(arr); got != 2 {
		t.Errorf("expected truncated length 2, got %d", got)
	}
	if arr.indexed.HaveOwnIndexed(r, arr, 3) {
		t.Errorf("elements past the new length must be gone")
	}
	v, err := r.GetComputed(arr, NumberValue(1))
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if v.AsNumber() != 1 {
		t.Errorf("surviving element must be intact, got %v", v.ToString())
	}
}

func TestArrayInvalidLength(t *testing.T) {
	r := newTestRuntime()
	arr := r.NewArray(nil, 0)

	for _, bad := range []Value{NumberValue(1.5), NumberValue(-1), NewString("abc")} {
		_, err := r.PutNamed(arr, lengthKey, bad, ThrowOnError)
		if _, ok := err.(*errors.RangeError); !ok {
			t.Errorf("expected RangeError for length %v, got %v", bad.ToString(), err)
		}
	}
}

func TestFrozenArrayRejectsElementWrites(t *testing.T) {
	r := newTestRuntime()
	arr := r.NewArray(nil, 0)
	if ok, err := r.PutComputed(arr, NumberValue(0), IntegerValue(1), ThrowOnError); !ok || err != nil {
		t.Fatalf("put failed: ok=%v err=%v", ok, err)
	}

	r.Freeze(arr)
	if !r.IsFrozen(arr) {
		t.Fatalf("expected frozen array")
	}

	ok, err := r.PutComputed(arr, NumberValue(0), IntegerValue(9), PropOpFlags{})
	if ok || err != nil {
		t.Errorf("expected silent element write failure, got ok=%v err=%v", ok, err)
	}
	if _, err := r.PutComputed(arr, NumberValue(0), IntegerValue(9), ThrowOnError); !errors.IsTypeError(err) {
		t.Errorf("expected TypeError, got %v", err)
	}
	v, _ := r.GetComputed(arr, NumberValue(0))
	if v.AsNumber() != 1 {
		t.Errorf("frozen element must keep its value, got %v", v.ToString())
	}
}

func TestSealedArrayRejectsNewElements(t *testing.T) {
	r := newTestRuntime()
	arr := r.NewArray(nil, 0)
	if ok, err := r.PutComputed(arr, NumberValue(0), IntegerValue(1), ThrowOnError); !ok || err != nil {
		t.Fatalf("put failed: ok=%v err=%v", ok, err)
	}

	r.Seal(arr)
	if !r.IsSealed(arr) {
		t.Fatalf("expected sealed array")
	}

	// Existing elements stay writable.
	if ok, err := r.PutComputed(arr, NumberValue(0), IntegerValue(5), ThrowOnError); !ok || err != nil {
		t.Errorf("sealed array must keep elements writable, got ok=%v err=%v", ok, err)
	}
	// New elements cannot appear.
	if ok, _ := r.PutComputed(arr, NumberValue(1), IntegerValue(2), PropOpFlags{}); ok {
		t.Errorf("sealed array must reject new elements")
	}
	// Deleting an element fails.
	if ok, _ := r.DeleteComputed(arr, NumberValue(0), PropOpFlags{}); ok {
		t.Errorf("sealed array must reject element deletes")
	}
}

func TestNonExtensibleArrayRejectsNewElements(t *testing.T) {
	r := newTestRuntime()
	arr := r.NewArray(nil, 0)
	if ok, err := r.PutComputed(arr, NumberValue(0), IntegerValue(1), ThrowOnError); !ok || err != nil {
		t.Fatalf("put failed: ok=%v err=%v", ok, err)
	}

	r.PreventExtensions(arr)

	// A brand-new index is an add, so it needs extensibility, and the
	// numeric and string forms of the key agree.
	for _, keyVal := range []Value{NumberValue(3), NewString("3")} {
		if _, err := r.PutComputed(arr, keyVal, IntegerValue(9), ThrowOnError); !errors.IsTypeError(err) {
			t.Errorf("expected TypeError for new element under key %v, got %v", keyVal.ToString(), err)
		}
	}
	if r.ArrayLength(arr) != 1 {
		t.Errorf("length must not grow, got %d", r.ArrayLength(arr))
	}
	if arr.indexed.HaveOwnIndexed(r, arr, 3) {
		t.Errorf("rejected element must not land")
	}

	// Existing elements stay writable.
	if ok, err := r.PutComputed(arr, NumberValue(0), IntegerValue(7), ThrowOnError); !ok || err != nil {
		t.Errorf("existing element write failed: ok=%v err=%v", ok, err)
	}
}

func TestNonWritableLengthBlocksImplicitGrowth(t *testing.T) {
	r := newTestRuntime()
	arr := r.NewArray(nil, 1)
	if ok, err := r.PutComputed(arr, NumberValue(0), IntegerValue(1), ThrowOnError); !ok || err != nil {
		t.Fatalf("put failed: ok=%v err=%v", ok, err)
	}

	dp := DefinePropertyFlags{SetWritable: true}
	if ok, err := r.DefineOwnProperty(arr, lengthKey, dp, Undefined, ThrowOnError); !ok || err != nil {
		t.Fatalf("clearing length writability failed: ok=%v err=%v", ok, err)
	}

	// Growth past the current length must first raise length, which the
	// non-writable flag rejects, so the element never lands.
	if _, err := r.PutComputed(arr, NumberValue(5), IntegerValue(9), ThrowOnError); !errors.IsTypeError(err) {
		t.Errorf("expected TypeError on implicit growth, got %v", err)
	}
	if r.ArrayLength(arr) != 1 {
		t.Errorf("length must stay 1, got %d", r.ArrayLength(arr))
	}
	if arr.indexed.HaveOwnIndexed(r, arr, 5) {
		t.Errorf("element must not land when the length raise fails")
	}

	// Writes within the current length do not touch length.
	if ok, err := r.PutComputed(arr, NumberValue(0), IntegerValue(2), ThrowOnError); !ok || err != nil {
		t.Errorf("in-bounds write failed: ok=%v err=%v", ok, err)
	}
}
