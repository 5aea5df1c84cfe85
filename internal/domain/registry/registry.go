// Package registry holds the payment methods available to a batch.
//
// A Registry is a flat mutable store keyed by method ID. Iteration follows
// the order in which methods were first added, so every rule that scans the
// registry ("first method whose limit covers X") is deterministic.
//
// A Registry is owned by a single allocation pass and is not safe for
// concurrent use. Batches that run in parallel must each build their own.
//
// Example usage:
//
//	reg := registry.New(methods)
//	if pm, ok := reg.Get("PUNKTY"); ok {
//		fmt.Println(pm.Limit)
//	}
//	pm, ok := reg.FirstCovering(amount, payment.PointsID)
package registry

import (
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/payopt/internal/domain/payment"
)

// Registry maps method IDs to methods and remembers insertion order.
type Registry struct {
	methods map[string]*payment.Method
	order   []string
}

// New builds a registry from methods. Each method is copied, so the caller's
// slice is never mutated by allocation. IDs must be unique; the input loader
// rejects batches that repeat one.
func New(methods []payment.Method) *Registry {
	r := &Registry{
		methods: make(map[string]*payment.Method, len(methods)),
		order:   make([]string, 0, len(methods)),
	}
	for _, m := range methods {
		r.Put(m)
	}
	return r
}

// Put adds a method, or replaces the one with the same ID in place.
func (r *Registry) Put(m payment.Method) {
	if _, exists := r.methods[m.ID]; !exists {
		r.order = append(r.order, m.ID)
	}
	stored := m
	r.methods[m.ID] = &stored
}

// Get returns the method with the given ID.
func (r *Registry) Get(id string) (*payment.Method, bool) {
	m, ok := r.methods[id]
	return m, ok
}

// Points returns the loyalty-points method if present.
func (r *Registry) Points() (*payment.Method, bool) {
	return r.Get(payment.PointsID)
}

// Len returns the number of methods.
func (r *Registry) Len() int {
	return len(r.order)
}

// Each calls fn for every method in insertion order until fn returns false.
func (r *Registry) Each(fn func(m *payment.Method) bool) {
	for _, id := range r.order {
		if !fn(r.methods[id]) {
			return
		}
	}
}

// FirstCovering returns the first method, in insertion order, whose limit is
// at least amount. Methods whose ID is in exclude are skipped.
func (r *Registry) FirstCovering(amount decimal.Decimal, exclude ...string) (*payment.Method, bool) {
	var found *payment.Method
	r.Each(func(m *payment.Method) bool {
		for _, id := range exclude {
			if m.ID == id {
				return true
			}
		}
		if m.Covers(amount) {
			found = m
			return false
		}
		return true
	})
	return found, found != nil
}

// Charge subtracts amount from the method's limit. It reports false when the
// method does not exist. Limits are not clamped.
func (r *Registry) Charge(id string, amount decimal.Decimal) bool {
	m, ok := r.methods[id]
	if !ok {
		return false
	}
	m.Limit = m.Limit.Sub(amount)
	return true
}

// Snapshot returns copies of all methods in insertion order.
func (r *Registry) Snapshot() []payment.Method {
	out := make([]payment.Method, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.methods[id])
	}
	return out
}
