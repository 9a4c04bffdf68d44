package stats

import (
	"log/slog"

	"github.com/KirkDiggler/rpg-stats/internal/errors"
	"github.com/KirkDiggler/rpg-stats/internal/pkg/idgen"
)

// EntityType is the core.Entity type reported by collections
const EntityType = "stat_collection"

// Listener receives change notifications re-broadcast by a collection
type Listener[K comparable] func(c *Collection[K], s *Stat[K])

// Config holds the dependencies for a collection
type Config[K comparable] struct {
	// Name is optional and only used for display and logs
	Name string

	// Parent, when set, is cloned into chained stats. The collection does
	// not own its parent.
	Parent *Collection[K]

	Registry    Registry
	Logger      *slog.Logger
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config[K]) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Registry == nil {
		vb.RequiredField("Registry")
	}

	return vb.Build()
}

// Collection owns a keyed set of stats
type Collection[K comparable] struct {
	id     string
	name   string
	parent *Collection[K]

	stats    map[K]*Stat[K]
	order    []K
	statSubs map[K]SubscriptionID

	listeners listeners[Listener[K]]
	registry  Registry
	logger    *slog.Logger
	closed    bool
}

// NewCollection creates a collection and registers it with cfg.Registry
func NewCollection[K comparable](cfg *Config[K]) (*Collection[K], error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	if cfg.Parent != nil && cfg.Parent.closed {
		return nil, errors.FailedPreconditionf("parent collection %q is closed", cfg.Parent.name)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	idGen := cfg.IDGenerator
	if idGen == nil {
		idGen = idgen.NewUUID("stats")
	}

	c := &Collection[K]{
		id:       idGen.Generate(),
		name:     cfg.Name,
		parent:   cfg.Parent,
		stats:    make(map[K]*Stat[K]),
		statSubs: make(map[K]SubscriptionID),
		registry: cfg.Registry,
		logger:   logger,
	}

	if c.parent != nil {
		for _, key := range c.parent.order {
			chained, err := NewChainedStat(c.parent.stats[key], 0, WithLogger(logger))
			if err != nil {
				return nil, errors.Wrapf(err, "failed to chain stat %v", key)
			}
			c.attach(key, chained)
		}
	}

	c.registry.Register(c)

	c.logger.Debug("stat collection created",
		"collection_id", c.id,
		"name", c.name,
		"stats", len(c.order),
		"chained", c.parent != nil)

	return c, nil
}

// GetID returns the collection's unique ID
func (c *Collection[K]) GetID() string {
	return c.id
}

// GetType returns the entity type for rpg-toolkit
func (c *Collection[K]) GetType() string {
	return EntityType
}

// Name returns the display name, possibly empty
func (c *Collection[K]) Name() string {
	return c.name
}

// Parent returns the collection this one was cloned from, nil if none
func (c *Collection[K]) Parent() *Collection[K] {
	return c.parent
}

// Closed reports whether Close has been called
func (c *Collection[K]) Closed() bool {
	return c.closed
}

// Contains reports whether key has a stat
func (c *Collection[K]) Contains(key K) bool {
	_, ok := c.stats[key]
	return ok
}

// Len returns the number of stats
func (c *Collection[K]) Len() int {
	return len(c.order)
}

// Keys returns the stat keys in insertion order
func (c *Collection[K]) Keys() []K {
	keys := make([]K, len(c.order))
	copy(keys, c.order)
	return keys
}

// Stats returns the stats in insertion order
func (c *Collection[K]) Stats() []*Stat[K] {
	out := make([]*Stat[K], len(c.order))
	for i, key := range c.order {
		out[i] = c.stats[key]
	}
	return out
}

// Readers returns key-independent views of the stats in insertion order
func (c *Collection[K]) Readers() []Reader {
	out := make([]Reader, len(c.order))
	for i, key := range c.order {
		out[i] = c.stats[key]
	}
	return out
}

// Get returns the stat for key. An unknown key is logged and reported as
// absent.
func (c *Collection[K]) Get(key K) (*Stat[K], bool) {
	s, ok := c.stats[key]
	if !ok {
		c.logger.Error("stat not found",
			"collection", c.name,
			"key", key)
		return nil, false
	}
	return s, true
}

// AddStat creates a root stat for key. Returns false if key already exists.
func (c *Collection[K]) AddStat(key K, initialValue float64) bool {
	if c.rejectClosed("AddStat") {
		return false
	}
	if _, ok := c.stats[key]; ok {
		c.logger.Warn("stat already added",
			"collection", c.name,
			"key", key)
		return false
	}

	c.attach(key, NewStat(key, initialValue, WithLogger(c.logger)))
	return true
}

// AddModifier attaches m to the stat for key. Returns false if key is unknown
// or the stat rejected the modifier.
func (c *Collection[K]) AddModifier(key K, m *Modifier) bool {
	if c.rejectClosed("AddModifier") {
		return false
	}
	s, ok := c.stats[key]
	if !ok {
		c.logger.Warn("cannot add modifier, stat not found",
			"collection", c.name,
			"key", key)
		return false
	}
	return s.AddModifier(m)
}

// RemoveModifier detaches m from the stat for key. An unknown key is logged;
// a modifier that is not attached is ignored.
func (c *Collection[K]) RemoveModifier(key K, m *Modifier) {
	if c.rejectClosed("RemoveModifier") {
		return
	}
	s, ok := c.stats[key]
	if !ok {
		c.logger.Error("cannot remove modifier, stat not found",
			"collection", c.name,
			"key", key)
		return
	}
	s.RemoveModifier(m)
}

// RemoveModifiersByID removes modifiers labeled id from every stat and
// returns how many were removed
func (c *Collection[K]) RemoveModifiersByID(id string) int {
	if c.rejectClosed("RemoveModifiersByID") {
		return 0
	}
	removed := 0
	for _, key := range c.order {
		removed += c.stats[key].RemoveModifiersByID(id)
	}
	return removed
}

// RemoveModifiersBySource removes modifiers granted by source from every stat
// and returns how many were removed
func (c *Collection[K]) RemoveModifiersBySource(source any) int {
	if c.rejectClosed("RemoveModifiersBySource") {
		return 0
	}
	removed := 0
	for _, key := range c.order {
		removed += c.stats[key].RemoveModifiersBySource(source)
	}
	return removed
}

// Subscribe registers fn to receive every change of any owned stat
func (c *Collection[K]) Subscribe(fn Listener[K]) SubscriptionID {
	return c.listeners.add(fn)
}

// Unsubscribe removes a listener registered with Subscribe
func (c *Collection[K]) Unsubscribe(id SubscriptionID) bool {
	return c.listeners.remove(id)
}

// Close unregisters the collection and releases its listeners, including
// the subscriptions its chained stats hold on the parent collection.
// Stats remain readable. Calling Close more than once is a no-op.
func (c *Collection[K]) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	for _, key := range c.order {
		s := c.stats[key]
		s.Unsubscribe(c.statSubs[key])
		s.Detach()
	}
	c.statSubs = make(map[K]SubscriptionID)
	c.listeners.clear()

	c.registry.Unregister(c)

	c.logger.Debug("stat collection closed",
		"collection_id", c.id,
		"name", c.name)

	return nil
}

func (c *Collection[K]) attach(key K, s *Stat[K]) {
	c.stats[key] = s
	c.order = append(c.order, key)
	c.statSubs[key] = s.Subscribe(c.onStatChanged)
}

func (c *Collection[K]) onStatChanged(s *Stat[K]) {
	for _, fn := range c.listeners.snapshot() {
		fn(c, s)
	}
}

func (c *Collection[K]) rejectClosed(op string) bool {
	if !c.closed {
		return false
	}
	c.logger.Warn("collection is closed",
		"collection", c.name,
		"operation", op)
	return true
}
