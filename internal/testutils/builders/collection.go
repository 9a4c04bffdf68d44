// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/KirkDiggler/rpg-stats/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-stats/internal/stats"
)

type pendingModifier struct {
	key string
	mod *stats.Modifier
}

// CollectionBuilder provides a fluent interface for building test collections
type CollectionBuilder struct {
	cfg       *stats.Config[string]
	stats     []string
	values    map[string]float64
	modifiers []pendingModifier
}

// NewCollectionBuilder creates a builder registering into registry with
// sequential IDs
func NewCollectionBuilder(registry stats.Registry) *CollectionBuilder {
	return &CollectionBuilder{
		cfg: &stats.Config[string]{
			Name:        "test-collection",
			Registry:    registry,
			IDGenerator: idgen.NewSequential("stats"),
		},
		values: make(map[string]float64),
	}
}

// WithName sets the collection name
func (b *CollectionBuilder) WithName(name string) *CollectionBuilder {
	b.cfg.Name = name
	return b
}

// WithParent chains the collection to parent
func (b *CollectionBuilder) WithParent(parent *stats.Collection[string]) *CollectionBuilder {
	b.cfg.Parent = parent
	return b
}

// WithIDGenerator overrides the sequential generator
func (b *CollectionBuilder) WithIDGenerator(gen idgen.Generator) *CollectionBuilder {
	b.cfg.IDGenerator = gen
	return b
}

// WithStat adds a root stat
func (b *CollectionBuilder) WithStat(key string, initialValue float64) *CollectionBuilder {
	if _, ok := b.values[key]; !ok {
		b.stats = append(b.stats, key)
	}
	b.values[key] = initialValue
	return b
}

// WithModifier attaches m to key once the stats exist
func (b *CollectionBuilder) WithModifier(key string, m *stats.Modifier) *CollectionBuilder {
	b.modifiers = append(b.modifiers, pendingModifier{key: key, mod: m})
	return b
}

// Build returns the constructed collection
func (b *CollectionBuilder) Build() (*stats.Collection[string], error) {
	c, err := stats.NewCollection(b.cfg)
	if err != nil {
		return nil, err
	}
	for _, key := range b.stats {
		c.AddStat(key, b.values[key])
	}
	for _, pm := range b.modifiers {
		c.AddModifier(pm.key, pm.mod)
	}
	return c, nil
}
