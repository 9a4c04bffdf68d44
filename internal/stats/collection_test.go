package stats_test

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-stats/internal/errors"
	"github.com/KirkDiggler/rpg-stats/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-stats/internal/stats"
	statsmock "github.com/KirkDiggler/rpg-stats/internal/stats/mock"
	"github.com/KirkDiggler/rpg-stats/internal/testutils/mocks"
)

type CollectionTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockRegistry *statsmock.MockRegistry
	idGen        idgen.Generator
}

func TestCollectionSuite(t *testing.T) {
	suite.Run(t, new(CollectionTestSuite))
}

func (s *CollectionTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRegistry = statsmock.NewMockRegistry(s.ctrl)
	s.idGen = idgen.NewSequential("stats")
}

func (s *CollectionTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CollectionTestSuite) newCollection(name string, parent *stats.Collection[statKey]) *stats.Collection[statKey] {
	s.mockRegistry.EXPECT().Register(gomock.Any())

	c, err := stats.NewCollection(&stats.Config[statKey]{
		Name:        name,
		Parent:      parent,
		Registry:    s.mockRegistry,
		IDGenerator: s.idGen,
	})
	s.Require().NoError(err)
	s.Require().NotNil(c)
	return c
}

func (s *CollectionTestSuite) TestNewCollectionValidatesConfig() {
	testCases := []struct {
		name      string
		cfg       *stats.Config[statKey]
		checkCode func(error) bool
	}{
		{
			name:      "nil config",
			cfg:       nil,
			checkCode: errors.IsInvalidArgument,
		},
		{
			name:      "missing registry",
			cfg:       &stats.Config[statKey]{Name: "hero"},
			checkCode: errors.IsInvalidArgument,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			c, err := stats.NewCollection(tc.cfg)
			s.Assert().Nil(c)
			s.Require().Error(err)
			s.Assert().True(tc.checkCode(err), "unexpected error: %v", err)
		})
	}
}

func (s *CollectionTestSuite) TestNewCollectionRegisters() {
	registered := mocks.ExpectRegistrations(s.mockRegistry, 1)

	c, err := stats.NewCollection(&stats.Config[statKey]{
		Name:        "hero",
		Registry:    s.mockRegistry,
		IDGenerator: s.idGen,
	})
	s.Require().NoError(err)

	s.Require().Len(registered.Sheets, 1)
	s.Assert().Same(c, registered.Sheets[0])
	s.Assert().Equal("stats_1", c.GetID())
	s.Assert().Equal(stats.EntityType, c.GetType())
	s.Assert().Equal("hero", c.Name())
	s.Assert().Nil(c.Parent())
	s.Assert().Equal(0, c.Len())
}

func (s *CollectionTestSuite) TestAddStat() {
	c := s.newCollection("hero", nil)

	s.Assert().True(c.AddStat(keyPower, 50))
	s.Assert().True(c.AddStat(keyHealth, 100))
	s.Assert().False(c.AddStat(keyPower, 999), "duplicate key is rejected")

	power, ok := c.Get(keyPower)
	s.Require().True(ok)
	s.Assert().Equal(50.0, power.Value())
	s.Assert().Equal([]statKey{keyPower, keyHealth}, c.Keys())
	s.Assert().True(c.Contains(keyHealth))
	s.Assert().False(c.Contains(keyIntelligence))
}

func (s *CollectionTestSuite) TestGetUnknownKey() {
	c := s.newCollection("hero", nil)

	stat, ok := c.Get(keyIntelligence)
	s.Assert().False(ok)
	s.Assert().Nil(stat)
}

func (s *CollectionTestSuite) TestAddAndRemoveModifier() {
	c := s.newCollection("hero", nil)
	c.AddStat(keyPower, 50)

	m := stats.NewModifier(stats.OpAdd, 10)
	s.Assert().True(c.AddModifier(keyPower, m))
	s.Assert().False(c.AddModifier(keyPower, m))
	s.Assert().False(c.AddModifier(keyIntelligence, stats.NewModifier(stats.OpAdd, 1)))

	power, _ := c.Get(keyPower)
	s.Assert().InDelta(60, power.Value(), delta)

	// unknown key and unattached modifier are both tolerated
	c.RemoveModifier(keyIntelligence, m)
	c.RemoveModifier(keyPower, stats.NewModifier(stats.OpAdd, 10))
	s.Assert().InDelta(60, power.Value(), delta)

	c.RemoveModifier(keyPower, m)
	s.Assert().Equal(50.0, power.Value())
}

func (s *CollectionTestSuite) TestRemoveModifiersAcrossStats() {
	c := s.newCollection("hero", nil)
	c.AddStat(keyPower, 10)
	c.AddStat(keyHealth, 10)

	type item struct{ name string }
	amulet := &item{name: "amulet"}

	c.AddModifier(keyPower, stats.NewModifier(stats.OpAdd, 1, stats.WithID("blessing")))
	c.AddModifier(keyHealth, stats.NewModifier(stats.OpPercent, 1, stats.WithID("blessing")))
	c.AddModifier(keyPower, stats.NewModifier(stats.OpMultiply, 1, stats.WithSource(amulet)))
	c.AddModifier(keyHealth, stats.NewModifier(stats.OpAdd, 5, stats.WithSource(amulet)))

	s.Assert().Equal(2, c.RemoveModifiersByID("blessing"))
	s.Assert().Equal(0, c.RemoveModifiersByID("blessing"))

	power, _ := c.Get(keyPower)
	health, _ := c.Get(keyHealth)
	s.Assert().InDelta(20, power.Value(), delta)
	s.Assert().InDelta(15, health.Value(), delta)

	s.Assert().Equal(2, c.RemoveModifiersBySource(amulet))
	s.Assert().Equal(10.0, power.Value())
	s.Assert().Equal(10.0, health.Value())
}

func (s *CollectionTestSuite) TestListenerReceivesCollectionAndStat() {
	c := s.newCollection("hero", nil)
	c.AddStat(keyPower, 10)
	c.AddStat(keyHealth, 10)

	type change struct {
		collection *stats.Collection[statKey]
		key        statKey
	}
	var changes []change
	id := c.Subscribe(func(got *stats.Collection[statKey], stat *stats.Stat[statKey]) {
		changes = append(changes, change{collection: got, key: stat.Key()})
	})

	c.AddModifier(keyHealth, stats.NewModifier(stats.OpAdd, 1))
	power, _ := c.Get(keyPower)
	s.Require().NoError(power.SetBaseValue(20))

	s.Require().Len(changes, 2)
	s.Assert().Same(c, changes[0].collection)
	s.Assert().Equal(keyHealth, changes[0].key)
	s.Assert().Equal(keyPower, changes[1].key)

	s.Assert().True(c.Unsubscribe(id))
	c.AddModifier(keyHealth, stats.NewModifier(stats.OpAdd, 1))
	s.Assert().Len(changes, 2)
}

func (s *CollectionTestSuite) TestChildCollectionChainsParentStats() {
	parent := s.newCollection("base", nil)
	parent.AddStat(keyPower, 50)
	parent.AddStat(keyHealth, 100)

	child := s.newCollection("hero", parent)
	s.Assert().Same(parent, child.Parent())
	s.Assert().Equal([]statKey{keyPower, keyHealth}, child.Keys())

	parentPower, _ := parent.Get(keyPower)
	childPower, _ := child.Get(keyPower)
	s.Assert().Same(parentPower, childPower.Parent())
	s.Assert().Equal(50.0, childPower.BaseValue())
	s.Assert().Equal(0.0, childPower.InitialValue())

	source := &struct{ name string }{name: "S"}
	parent.AddModifier(keyPower, stats.NewModifier(stats.OpAdd, 10, stats.WithSource(source)))
	s.Assert().InDelta(60, parentPower.Value(), delta)
	s.Assert().InDelta(60, childPower.Value(), delta)

	s.Assert().Equal(1, parent.RemoveModifiersBySource(source))
	s.Assert().Equal(50.0, parentPower.Value())
	s.Assert().Equal(50.0, childPower.Value())

	// stats added to the parent later are not cloned
	parent.AddStat(keyIntelligence, 12)
	s.Assert().False(child.Contains(keyIntelligence))
}

func (s *CollectionTestSuite) TestChildListenerFiresOncePerParentChange() {
	parent := s.newCollection("base", nil)
	parent.AddStat(keyPower, 50)
	child := s.newCollection("hero", parent)

	calls := 0
	child.Subscribe(func(got *stats.Collection[statKey], stat *stats.Stat[statKey]) {
		s.Assert().Same(child, got)
		s.Assert().Equal(keyPower, stat.Key())
		calls++
	})

	parent.AddModifier(keyPower, stats.NewModifier(stats.OpPercent, 0.5))
	s.Assert().Equal(1, calls)

	childPower, _ := child.Get(keyPower)
	s.Assert().InDelta(75, childPower.Value(), delta)
}

func (s *CollectionTestSuite) TestChildModifiersDoNotReachParent() {
	parent := s.newCollection("base", nil)
	parent.AddStat(keyPower, 50)
	child := s.newCollection("hero", parent)

	child.AddModifier(keyPower, stats.NewModifier(stats.OpMultiply, 1))

	parentPower, _ := parent.Get(keyPower)
	childPower, _ := child.Get(keyPower)
	s.Assert().Equal(50.0, parentPower.Value())
	s.Assert().InDelta(100, childPower.Value(), delta)
	s.Assert().Error(childPower.SetBaseValue(10))
}

func (s *CollectionTestSuite) TestClose() {
	parent := s.newCollection("base", nil)
	parent.AddStat(keyPower, 50)
	child := s.newCollection("hero", parent)

	calls := 0
	child.Subscribe(func(*stats.Collection[statKey], *stats.Stat[statKey]) { calls++ })

	mocks.ExpectUnregister(s.mockRegistry, child)
	s.Require().NoError(child.Close())
	s.Require().NoError(child.Close())
	s.Assert().True(child.Closed())

	parent.AddModifier(keyPower, stats.NewModifier(stats.OpAdd, 10))
	s.Assert().Equal(0, calls)

	childPower, _ := child.Get(keyPower)
	s.Assert().InDelta(60, childPower.Value(), delta, "closed stats stay readable")

	s.Assert().False(child.AddStat(keyHealth, 1))
	s.Assert().False(child.AddModifier(keyPower, stats.NewModifier(stats.OpAdd, 1)))
	s.Assert().Equal(0, child.RemoveModifiersByID("any"))
	s.Assert().Equal(0, child.RemoveModifiersBySource("any"))
}

func (s *CollectionTestSuite) TestCannotChainClosedParent() {
	parent := s.newCollection("base", nil)

	s.mockRegistry.EXPECT().Unregister(parent)
	s.Require().NoError(parent.Close())

	child, err := stats.NewCollection(&stats.Config[statKey]{
		Parent:   parent,
		Registry: s.mockRegistry,
	})
	s.Assert().Nil(child)
	s.Assert().True(errors.IsFailedPrecondition(err))
}

func (s *CollectionTestSuite) TestReaders() {
	c := s.newCollection("hero", nil)
	c.AddStat(keyPower, 10)
	c.AddModifier(keyPower, stats.NewModifier(stats.OpAdd, 5))

	readers := c.Readers()
	s.Require().Len(readers, 1)
	s.Assert().Equal("POWER", readers[0].Name())
	s.Assert().Equal(10.0, readers[0].BaseValue())
	s.Assert().InDelta(15, readers[0].Value(), delta)
	s.Assert().Len(readers[0].Modifiers(stats.OpAdd), 1)

	s.Assert().Len(c.Stats(), 1)
}
