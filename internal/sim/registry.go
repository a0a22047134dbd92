package sim

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/quantsim/simbroker/internal/order"
)

// ErrNoExecutor is returned when no executor constructor is registered
// for an order variant. This is a configuration error and is surfaced
// immediately to the caller — never silently defaulted.
var ErrNoExecutor = errors.New("sim: no executor registered for order type")

// CreateFactory builds a create-executor for an order.
type CreateFactory func(o order.Order) CreateExecutor

// ModifyFactory builds a modify-executor for an order.
type ModifyFactory func(o order.Order) ModifyExecutor

// Registry maps order variants to executor constructors. Registering or
// unregistering entries lets callers extend or replace simulated
// behavior for an order type without touching the engine. A registry is
// passed to the engine's constructor rather than being process-global,
// so multiple engines can run with different registries concurrently.
//
// Registration during an active run is unsupported.
type Registry struct {
	creates  map[reflect.Type]CreateFactory
	modifies map[reflect.Type]ModifyFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		creates:  make(map[reflect.Type]CreateFactory),
		modifies: make(map[reflect.Type]ModifyFactory),
	}
}

// NewDefaultRegistry creates a registry wired with the built-in
// executors for every order variant.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.RegisterCreate(order.SingleOrder{}, func(o order.Order) CreateExecutor {
		return NewSingleExecutor(o.(order.SingleOrder))
	})
	r.RegisterCreate(order.BracketOrder{}, func(o order.Order) CreateExecutor {
		return NewBracketExecutor(o.(order.BracketOrder))
	})
	r.RegisterCreate(order.OCOOrder{}, func(o order.Order) CreateExecutor {
		return NewOCOExecutor(o.(order.OCOOrder))
	})
	r.RegisterCreate(order.OTOOrder{}, func(o order.Order) CreateExecutor {
		return NewOTOExecutor(o.(order.OTOOrder))
	})
	r.RegisterModify(order.UpdateOrder{}, func(o order.Order) ModifyExecutor {
		return NewUpdateExecutor(o.(order.UpdateOrder))
	})
	r.RegisterModify(order.CancelOrder{}, func(o order.Order) ModifyExecutor {
		return NewCancelExecutor(o.(order.CancelOrder))
	})
	return r
}

// RegisterCreate maps the sample's concrete type to a create factory.
func (r *Registry) RegisterCreate(sample order.Order, f CreateFactory) {
	r.creates[reflect.TypeOf(sample)] = f
}

// RegisterModify maps the sample's concrete type to a modify factory.
func (r *Registry) RegisterModify(sample order.Order, f ModifyFactory) {
	r.modifies[reflect.TypeOf(sample)] = f
}

// Unregister removes the entry for the sample's concrete type.
func (r *Registry) Unregister(sample order.Order) {
	t := reflect.TypeOf(sample)
	delete(r.creates, t)
	delete(r.modifies, t)
}

// newExecutor builds the executor for an order. Exactly one of the
// returned executors is non-nil on success.
func (r *Registry) newExecutor(o order.Order) (CreateExecutor, ModifyExecutor, error) {
	t := reflect.TypeOf(o)
	if f, ok := r.creates[t]; ok {
		return f(o), nil, nil
	}
	if f, ok := r.modifies[t]; ok {
		return nil, f(o), nil
	}
	return nil, nil, fmt.Errorf("%w: %T", ErrNoExecutor, o)
}
