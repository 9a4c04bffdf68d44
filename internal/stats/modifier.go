package stats

import (
	"fmt"
	"reflect"
)

// Modifier adjusts a stat's value. Modifiers are immutable and compared by
// pointer: two modifiers with identical fields are still distinct entries.
type Modifier struct {
	op     Operation
	value  float64
	id     string
	source any
	post   bool
}

// ModifierOption configures a Modifier at construction
type ModifierOption func(*Modifier)

// WithID labels the modifier for RemoveModifiersByID
func WithID(id string) ModifierOption {
	return func(m *Modifier) {
		m.id = id
	}
}

// WithSource records what granted the modifier, typically an item or effect.
// The source must be comparable to be matched by RemoveModifiersBySource.
func WithSource(source any) ModifierOption {
	return func(m *Modifier) {
		m.source = source
	}
}

// AsPost flags the modifier as a post modifier. The flag is informational:
// post modifiers resolve like any other modifier on the stat they belong to,
// and reach chained stats only through that stat's Value.
func AsPost() ModifierOption {
	return func(m *Modifier) {
		m.post = true
	}
}

// NewModifier creates a modifier of the given operation and value
func NewModifier(op Operation, value float64, opts ...ModifierOption) *Modifier {
	m := &Modifier{
		op:    op,
		value: value,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Operation returns the modifier kind
func (m *Modifier) Operation() Operation { return m.op }

// Value returns the raw modifier value. Percent and multiply values are
// fractions: 0.15 means fifteen percent.
func (m *Modifier) Value() float64 { return m.value }

// ID returns the caller-chosen label, empty if none
func (m *Modifier) ID() string { return m.id }

// Source returns whatever granted the modifier, nil if none
func (m *Modifier) Source() any { return m.source }

// IsPost reports whether the modifier was flagged with AsPost
func (m *Modifier) IsPost() bool { return m.post }

// String renders the modifier for logs
func (m *Modifier) String() string {
	return fmt.Sprintf("%s %g (id=%q source=%v post=%t)", m.op, m.value, m.id, m.source, m.post)
}

// matchesSource compares sources by identity. Nil and non-comparable sources
// never match.
func (m *Modifier) matchesSource(source any) bool {
	if m.source == nil || source == nil {
		return false
	}
	if reflect.TypeOf(source) != reflect.TypeOf(m.source) {
		return false
	}
	// Value.Comparable inspects interface fields, so a struct holding a
	// slice is rejected here instead of panicking in ==
	if !reflect.ValueOf(source).Comparable() || !reflect.ValueOf(m.source).Comparable() {
		return false
	}
	return m.source == source
}
