// Package testutils holds shared fixtures for stat tests
package testutils

import (
	"github.com/KirkDiggler/rpg-stats/internal/stats"
	"github.com/KirkDiggler/rpg-stats/internal/testutils/builders"
)

// Stat keys used across fixtures
const (
	StatPower  = "POWER"
	StatHealth = "HEALTH"

	// TestCollectionName is the default collection name for fixtures
	TestCollectionName = "hero"
)

// CreateTestCollection creates a root collection with POWER 50 and HEALTH 100
func CreateTestCollection(registry stats.Registry) (*stats.Collection[string], error) {
	return builders.NewCollectionBuilder(registry).
		WithName(TestCollectionName).
		WithStat(StatPower, 50).
		WithStat(StatHealth, 100).
		Build()
}

// CreateTestChild chains a child collection named name to parent
func CreateTestChild(registry stats.Registry, parent *stats.Collection[string], name string) (*stats.Collection[string], error) {
	return builders.NewCollectionBuilder(registry).
		WithName(name).
		WithParent(parent).
		Build()
}
