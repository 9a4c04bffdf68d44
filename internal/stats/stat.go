package stats

import (
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-stats/internal/errors"
)

// Stat is a single named quantity resolved from a base value and modifiers.
//
// A root Stat owns a settable base value. A chained Stat reads its base from
// its parent's Value plus the seed it was built with; the parent reference is
// non-owning and must stay valid for as long as the chained Stat is read.
type Stat[K comparable] struct {
	key     K
	initial float64
	base    float64

	parent    *Stat[K]
	parentSub SubscriptionID

	buckets [numOperations][]*Modifier

	dirty    bool
	lastBase float64
	cached   float64

	listeners listeners[func(*Stat[K])]
	logger    *slog.Logger
}

// StatOption configures a Stat at construction
type StatOption func(*statOptions)

type statOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for diagnostics
func WithLogger(logger *slog.Logger) StatOption {
	return func(o *statOptions) {
		o.logger = logger
	}
}

func buildStatOptions(opts []StatOption) statOptions {
	o := statOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// NewStat creates a root stat with the given initial base value
func NewStat[K comparable](key K, initialValue float64, opts ...StatOption) *Stat[K] {
	o := buildStatOptions(opts)

	return &Stat[K]{
		key:     key,
		initial: initialValue,
		base:    initialValue,
		dirty:   true,
		logger:  o.logger,
	}
}

// NewChainedStat creates a stat whose base value follows parent. The seed is
// added on top of the parent's value and cannot be changed afterwards.
func NewChainedStat[K comparable](parent *Stat[K], seed float64, opts ...StatOption) (*Stat[K], error) {
	if parent == nil {
		return nil, errors.InvalidArgument("parent stat is required")
	}

	o := buildStatOptions(opts)

	s := &Stat[K]{
		key:     parent.Key(),
		initial: seed,
		base:    seed,
		parent:  parent,
		dirty:   true,
		logger:  o.logger,
	}
	s.parentSub = parent.Subscribe(s.onParentChanged)

	return s, nil
}

// Key returns the stat's key. Chained stats share their root's key.
func (s *Stat[K]) Key() K {
	return s.key
}

// Name returns the key formatted for display
func (s *Stat[K]) Name() string {
	return fmt.Sprint(s.key)
}

// Parent returns the stat this one is chained to, nil for a root stat
func (s *Stat[K]) Parent() *Stat[K] {
	return s.parent
}

// IsChained reports whether the stat derives its base from a parent
func (s *Stat[K]) IsChained() bool {
	return s.parent != nil
}

// Depth returns the number of parents above this stat
func (s *Stat[K]) Depth() int {
	depth := 0
	for p := s.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// InitialValue returns the value the stat was constructed with
func (s *Stat[K]) InitialValue() float64 {
	return s.initial
}

// BaseValue returns the effective base: the stored scalar for a root stat,
// the parent's value plus the seed for a chained stat.
func (s *Stat[K]) BaseValue() float64 {
	if s.parent != nil {
		return s.parent.Value() + s.base
	}
	return s.base
}

// SetBaseValue replaces a root stat's base value. Chained stats derive their
// base and reject the call with a FailedPrecondition error.
func (s *Stat[K]) SetBaseValue(value float64) error {
	if s.parent != nil {
		s.logger.Warn("cannot set base value of chained stat",
			"stat", s.Name(),
			"value", value)
		return errors.FailedPreconditionf("base value of chained stat %s is derived from its parent", s.Name()).
			WithMeta("stat", s.Name())
	}

	if s.base == value {
		return nil
	}

	s.base = value
	s.markChanged()
	return nil
}

// Value returns the resolved value, recomputing it only when the modifier set
// changed or the effective base drifted since the last read.
func (s *Stat[K]) Value() float64 {
	base := s.BaseValue()
	if s.dirty || base != s.lastBase {
		s.lastBase = base
		s.cached = s.calculate(base)
		s.dirty = false
	}
	return s.cached
}

func (s *Stat[K]) calculate(base float64) float64 {
	value := base

	for _, m := range s.buckets[OpAdd.index()] {
		value += m.value
	}

	percent := 0.0
	for _, m := range s.buckets[OpPercent.index()] {
		percent += m.value
	}
	value *= 1 + percent

	for _, m := range s.buckets[OpMultiply.index()] {
		value *= 1 + m.value
	}

	return value
}

// AddModifier appends m to the bucket for its operation. Adding the same
// instance twice is a no-op; distinct instances with equal fields coexist.
func (s *Stat[K]) AddModifier(m *Modifier) bool {
	if m == nil {
		s.logger.Warn("ignoring nil modifier", "stat", s.Name())
		return false
	}
	if !m.op.Valid() {
		s.logger.Warn("ignoring modifier with unknown operation",
			"stat", s.Name(),
			"operation", m.op.String())
		return false
	}

	bucket := s.buckets[m.op.index()]
	for _, existing := range bucket {
		if existing == m {
			return false
		}
	}

	s.buckets[m.op.index()] = append(bucket, m)
	s.markChanged()
	return true
}

// RemoveModifier removes exactly this instance. Returns false, without
// notifying, when the modifier is not attached.
func (s *Stat[K]) RemoveModifier(m *Modifier) bool {
	if m == nil || !m.op.Valid() {
		return false
	}

	idx := m.op.index()
	for i, existing := range s.buckets[idx] {
		if existing == m {
			s.buckets[idx] = append(s.buckets[idx][:i], s.buckets[idx][i+1:]...)
			s.markChanged()
			return true
		}
	}
	return false
}

// RemoveModifiersByID removes every modifier labeled id across all buckets
// and notifies once if any were removed. An empty id matches nothing.
func (s *Stat[K]) RemoveModifiersByID(id string) int {
	if id == "" {
		return 0
	}
	return s.removeWhere(func(m *Modifier) bool {
		return m.id == id
	})
}

// RemoveModifiersBySource removes every modifier granted by source and
// notifies once if any were removed. A nil source matches nothing.
func (s *Stat[K]) RemoveModifiersBySource(source any) int {
	if source == nil {
		return 0
	}
	return s.removeWhere(func(m *Modifier) bool {
		return m.matchesSource(source)
	})
}

func (s *Stat[K]) removeWhere(match func(*Modifier) bool) int {
	removed := 0
	for i, bucket := range s.buckets {
		kept := bucket[:0]
		for _, m := range bucket {
			if match(m) {
				removed++
				continue
			}
			kept = append(kept, m)
		}
		// clear the tail so removed modifiers can be collected
		for j := len(kept); j < len(bucket); j++ {
			bucket[j] = nil
		}
		s.buckets[i] = kept
	}

	if removed > 0 {
		s.markChanged()
	}
	return removed
}

// Modifiers returns a copy of the modifiers for op in insertion order. An
// unknown operation yields an empty slice.
func (s *Stat[K]) Modifiers(op Operation) []*Modifier {
	if !op.Valid() {
		return []*Modifier{}
	}
	bucket := s.buckets[op.index()]
	out := make([]*Modifier, len(bucket))
	copy(out, bucket)
	return out
}

// ModifierCount returns the number of modifiers across all operations
func (s *Stat[K]) ModifierCount() int {
	n := 0
	for _, bucket := range s.buckets {
		n += len(bucket)
	}
	return n
}

// Subscribe registers fn to run synchronously whenever the stat's value may
// have changed, including changes inherited from a parent.
func (s *Stat[K]) Subscribe(fn func(*Stat[K])) SubscriptionID {
	return s.listeners.add(fn)
}

// Unsubscribe removes a listener registered with Subscribe
func (s *Stat[K]) Unsubscribe(id SubscriptionID) bool {
	return s.listeners.remove(id)
}

// Detach stops a chained stat from receiving its parent's change
// notifications. The base value keeps following the parent on read.
func (s *Stat[K]) Detach() bool {
	if s.parent == nil || s.parentSub == 0 {
		return false
	}
	ok := s.parent.Unsubscribe(s.parentSub)
	s.parentSub = 0
	return ok
}

func (s *Stat[K]) onParentChanged(*Stat[K]) {
	s.markChanged()
}

func (s *Stat[K]) markChanged() {
	s.dirty = true
	for _, fn := range s.listeners.snapshot() {
		fn(s)
	}
}
