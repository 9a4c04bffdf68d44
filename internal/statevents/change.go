package statevents

import (
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-stats/internal/stats"
)

// Change is the decoded payload of an EventStatChanged event
type Change struct {
	CollectionID   string
	CollectionName string
	StatKey        string
	Value          float64
	BaseValue      float64
}

// ChangeFromEvent decodes a stat change. Returns false for any other event
// or when the payload is incomplete.
func ChangeFromEvent(event events.Event) (*Change, bool) {
	if event == nil || event.Type() != EventStatChanged || event.Source() == nil {
		return nil, false
	}

	ctx := event.Context()
	key, ok := lookup[string](ctx, ContextKeyStat)
	if !ok {
		return nil, false
	}
	value, ok := lookup[float64](ctx, ContextKeyValue)
	if !ok {
		return nil, false
	}
	base, ok := lookup[float64](ctx, ContextKeyBaseValue)
	if !ok {
		return nil, false
	}

	change := &Change{
		CollectionID: event.Source().GetID(),
		StatKey:      key,
		Value:        value,
		BaseValue:    base,
	}
	if sheet, ok := event.Source().(stats.Sheet); ok {
		change.CollectionName = sheet.Name()
	}

	return change, true
}

func lookup[T any](ctx events.Context, key string) (T, bool) {
	var zero T
	raw, ok := ctx.Get(key)
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}
