// Package registry tracks every live stat collection in the process.
//
// A Registry is created once at application start, handed to every
// collection through stats.Config, and cleared at shutdown.
package registry

import (
	"sync"

	"github.com/KirkDiggler/rpg-stats/internal/stats"
)

// Registry is a set of live collections keyed by identity, iterated in
// registration order
type Registry struct {
	mu     sync.RWMutex
	sheets map[stats.Sheet]struct{}
	order  []stats.Sheet
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		sheets: make(map[stats.Sheet]struct{}),
	}
}

var _ stats.Registry = (*Registry)(nil)

// Register adds sheet. Registering the same sheet twice is a no-op.
func (r *Registry) Register(sheet stats.Sheet) {
	if sheet == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sheets[sheet]; ok {
		return
	}
	r.sheets[sheet] = struct{}{}
	r.order = append(r.order, sheet)
}

// Unregister removes sheet if present
func (r *Registry) Unregister(sheet stats.Sheet) {
	if sheet == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sheets[sheet]; !ok {
		return
	}
	delete(r.sheets, sheet)
	for i, s := range r.order {
		if s == sheet {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Contains reports whether sheet is registered
func (r *Registry) Contains(sheet stats.Sheet) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.sheets[sheet]
	return ok
}

// Len returns the number of registered sheets
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// All returns a snapshot of every registered sheet
func (r *Registry) All() []stats.Sheet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stats.Sheet, len(r.order))
	copy(out, r.order)
	return out
}

// Clear forgets every sheet without closing them. Used at shutdown.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sheets = make(map[stats.Sheet]struct{})
	r.order = nil
}

// CollectionsOf returns the registered collections whose key type is K
func CollectionsOf[K comparable](r *Registry) []*stats.Collection[K] {
	var out []*stats.Collection[K]
	for _, sheet := range r.All() {
		if c, ok := sheet.(*stats.Collection[K]); ok {
			out = append(out, c)
		}
	}
	return out
}

// ForEach calls fn for every registered collection whose key type is K. The
// set is snapshotted first, so fn may close collections.
func ForEach[K comparable](r *Registry, fn func(*stats.Collection[K])) {
	for _, c := range CollectionsOf[K](r) {
		fn(c)
	}
}
