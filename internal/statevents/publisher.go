// Package statevents bridges stat collection changes onto an rpg-toolkit
// event bus.
package statevents

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-stats/internal/errors"
	"github.com/KirkDiggler/rpg-stats/internal/stats"
)

const (
	// EventStatChanged is published whenever a stat in an attached collection
	// may have changed value
	EventStatChanged = "stats.changed"

	// StatEntityType is the core.Entity type of an event target
	StatEntityType = "stat"
)

// Event context keys
const (
	ContextKeyStat      = "stat_key"
	ContextKeyValue     = "value"
	ContextKeyBaseValue = "base_value"
)

// PublisherConfig holds the dependencies for a publisher
type PublisherConfig[K comparable] struct {
	Bus        events.EventBus
	Collection *stats.Collection[K]
	Logger     *slog.Logger
}

// Validate ensures all required dependencies are provided
func (c *PublisherConfig[K]) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Bus == nil {
		vb.RequiredField("Bus")
	}
	if c.Collection == nil {
		vb.RequiredField("Collection")
	}

	return vb.Build()
}

// Publisher forwards a collection's change notifications to an event bus
type Publisher[K comparable] struct {
	bus        events.EventBus
	collection *stats.Collection[K]
	logger     *slog.Logger

	subID    stats.SubscriptionID
	attached bool
}

// NewPublisher creates a detached publisher. Call Attach to start forwarding.
func NewPublisher[K comparable](cfg *PublisherConfig[K]) (*Publisher[K], error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Publisher[K]{
		bus:        cfg.Bus,
		collection: cfg.Collection,
		logger:     logger,
	}, nil
}

// Attach subscribes to the collection. A closed collection cannot be
// attached; attaching twice is a no-op.
func (p *Publisher[K]) Attach() error {
	if p.attached {
		return nil
	}
	if p.collection.Closed() {
		return errors.FailedPreconditionf("collection %s is closed", p.collection.GetID())
	}

	p.subID = p.collection.Subscribe(p.publish)
	p.attached = true

	p.logger.Debug("stat event publisher attached",
		"collection_id", p.collection.GetID(),
		"event_type", EventStatChanged)

	return nil
}

// Detach stops forwarding. Safe to call when not attached.
func (p *Publisher[K]) Detach() {
	if !p.attached {
		return
	}
	p.collection.Unsubscribe(p.subID)
	p.attached = false
	p.subID = 0
}

// Attached reports whether the publisher is forwarding changes
func (p *Publisher[K]) Attached() bool {
	return p.attached
}

func (p *Publisher[K]) publish(c *stats.Collection[K], s *stats.Stat[K]) {
	event := events.NewGameEvent(EventStatChanged, c, newStatEntity(c.GetID(), s.Name()))
	event.Context().Set(ContextKeyStat, s.Name())
	event.Context().Set(ContextKeyValue, s.Value())
	event.Context().Set(ContextKeyBaseValue, s.BaseValue())

	if err := p.bus.Publish(context.Background(), event); err != nil {
		p.logger.Error("failed to publish stat change",
			"collection_id", c.GetID(),
			"stat", s.Name(),
			"error", err)
	}
}

type statEntity struct {
	id string
}

func newStatEntity(collectionID, key string) *statEntity {
	return &statEntity{id: fmt.Sprintf("%s/%s", collectionID, key)}
}

func (e *statEntity) GetID() string   { return e.id }
func (e *statEntity) GetType() string { return StatEntityType }
