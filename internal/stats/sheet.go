package stats

import (
	"github.com/KirkDiggler/rpg-toolkit/core"
)

//go:generate mockgen -destination=mock/mock_registry.go -package=statsmock github.com/KirkDiggler/rpg-stats/internal/stats Registry

// Reader is a read-only view of a stat that does not depend on its key type
type Reader interface {
	Name() string
	InitialValue() float64
	BaseValue() float64
	Value() float64
	Modifiers(op Operation) []*Modifier
}

// Sheet is the key-type independent view of a collection
type Sheet interface {
	core.Entity
	Name() string
	Readers() []Reader
}

// Registry tracks live collections. Collections register on construction and
// unregister when closed.
type Registry interface {
	Register(sheet Sheet)
	Unregister(sheet Sheet)
}

var (
	_ Reader = (*Stat[string])(nil)
	_ Sheet  = (*Collection[string])(nil)
)
