package vm

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/rshpount/hermes/pkg/errors"
)

// reservedInternalSlots is how many internal property keys a runtime
// pre-creates. Internal properties live in ordinary slots but their keys
// are private symbols no user lookup can name.
const reservedInternalSlots = DirectPropertySlots

// Runtime owns the shape registry roots, object identity counter and
// tuning configuration. All objects created through one Runtime share its
// shape transition DAG. A Runtime serves a single mutator; none of its
// structures are locked.
type Runtime struct {
	config Config
	log    commonlog.Logger

	rootShape    *Shape
	nextObjectID ObjectID

	// internalKeys are the private symbol keys backing internal
	// properties.
	internalKeys []PropertyKey

	stats cacheStats
}

// NewRuntime creates a runtime with the given configuration.
func NewRuntime(cfg Config) *Runtime {
	r := &Runtime{
		config: cfg,
		log:    commonlog.GetLogger("hermes.vm"),
	}
	r.rootShape = newRootShape()
	r.internalKeys = make([]PropertyKey, reservedInternalSlots)
	for i := range r.internalKeys {
		r.internalKeys[i] = NewSymbolKey(NewSymbol(fmt.Sprintf("@@internal%d", i)))
	}
	return r
}

// Config returns the runtime's active configuration.
func (r *Runtime) Config() Config { return r.config }

// Stats returns a snapshot of the property cache counters.
func (r *Runtime) Stats() CacheStats { return r.stats.snapshot() }

// typeErrorOr reports a failed operation: with ThrowOnError set it
// surfaces a type error, otherwise the failure is silent.
func typeErrorOr(opFlags PropOpFlags, format string, args ...any) (bool, error) {
	if opFlags.ThrowOnError {
		return false, errors.NewTypeError(format, args...)
	}
	return false, nil
}

// builtinOverrideError reports an attempt to modify a static builtin
// method. The message names the property. With FatalOnBuiltinOverride the
// error is fatal and delivered by panic.
func (r *Runtime) builtinOverrideError(verb string, key PropertyKey) error {
	msg := fmt.Sprintf("cannot %s the property '%s' of a frozen builtin method", verb, key.debugName())
	if r.config.FatalOnBuiltinOverride {
		panic(errors.NewFatalError("%s", msg))
	}
	return errors.NewTypeError("%s", msg)
}
