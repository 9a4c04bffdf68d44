package sheet_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-stats/internal/errors"
	"github.com/KirkDiggler/rpg-stats/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-stats/internal/registry"
	"github.com/KirkDiggler/rpg-stats/internal/sheet"
	"github.com/KirkDiggler/rpg-stats/internal/stats"
)

const delta = 1e-9

// fixedRoller returns the same face for every die
type fixedRoller struct {
	face  int
	calls int
}

func (r *fixedRoller) Roll(_ int) (int, error) {
	r.calls++
	return r.face, nil
}

func (r *fixedRoller) RollN(count, _ int) ([]int, error) {
	r.calls++
	rolls := make([]int, count)
	for i := range rolls {
		rolls[i] = r.face
	}
	return rolls, nil
}

type SheetTestSuite struct {
	suite.Suite
	registry *registry.Registry
	roller   *fixedRoller
}

func TestSheetSuite(t *testing.T) {
	suite.Run(t, new(SheetTestSuite))
}

func (s *SheetTestSuite) SetupTest() {
	s.registry = registry.New()
	s.roller = &fixedRoller{face: 4}
}

func (s *SheetTestSuite) build(doc *sheet.Document) (*sheet.Result, error) {
	return sheet.Build(doc, &sheet.BuildConfig{
		Registry:    s.registry,
		Roller:      s.roller,
		IDGenerator: idgen.NewSequential("stats"),
	})
}

func (s *SheetTestSuite) parse(yaml string) *sheet.Document {
	doc, err := sheet.Parse(strings.NewReader(yaml))
	s.Require().NoError(err)
	return doc
}

func (s *SheetTestSuite) TestLoadFileAndBuild() {
	doc, err := sheet.LoadFile("testdata/party.yaml")
	s.Require().NoError(err)

	result, err := s.build(doc)
	s.Require().NoError(err)

	s.Assert().Equal([]string{"base", "hero"}, result.Names(), "parents are built first")
	s.Assert().Equal(2, s.registry.Len())

	base, ok := result.Collection("base")
	s.Require().True(ok)
	hero, ok := result.Collection("hero")
	s.Require().True(ok)
	s.Assert().Same(base, hero.Parent())

	luck, _ := base.Get("LUCK")
	s.Assert().Equal(12.0, luck.Value())
	s.Assert().Equal(1, s.roller.calls)

	heroPower, _ := hero.Get("POWER")
	s.Assert().InDelta(60, heroPower.Value(), delta)

	heroHealth, _ := hero.Get("HEALTH")
	s.Assert().InDelta(110, heroHealth.BaseValue(), delta)
	s.Assert().InDelta(165, heroHealth.Value(), delta)

	basePost := base.Stats()[1].Modifiers(stats.OpMultiply)
	s.Require().Len(basePost, 1)
	s.Assert().True(basePost[0].IsPost())

	s.Assert().Equal(2, hero.RemoveModifiersBySource("sword"))
	s.Assert().InDelta(50, heroPower.Value(), delta)

	s.Require().NoError(result.Close())
	s.Assert().Equal(0, s.registry.Len())
}

func (s *SheetTestSuite) TestLoadFileMissing() {
	_, err := sheet.LoadFile("testdata/missing.yaml")
	s.Assert().True(errors.IsNotFound(err))
}

func (s *SheetTestSuite) TestParseRejectsBadDocuments() {
	testCases := []struct {
		name     string
		input    string
		contains string
	}{
		{
			name:     "empty",
			input:    "",
			contains: "empty",
		},
		{
			name:     "unknown field",
			input:    "collections:\n  - name: a\n    colour: red\n",
			contains: "colour",
		},
		{
			name:     "no collections",
			input:    "collections: []\n",
			contains: "collections: is required",
		},
		{
			name:     "missing name",
			input:    "collections:\n  - stats:\n      - key: POWER\n        base: 1\n",
			contains: "collections[0].name: is required",
		},
		{
			name:     "base and roll",
			input:    "collections:\n  - name: a\n    stats:\n      - key: POWER\n        base: 1\n        roll: 1d6\n",
			contains: "mutually exclusive",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			doc, err := sheet.Parse(strings.NewReader(tc.input))
			s.Assert().Nil(doc)
			s.Require().Error(err)
			s.Assert().True(errors.IsInvalidArgument(err), "unexpected error: %v", err)
			s.Assert().Contains(err.Error(), tc.contains)
		})
	}
}

func (s *SheetTestSuite) TestBuildErrors() {
	testCases := []struct {
		name      string
		input     string
		checkCode func(error) bool
	}{
		{
			name: "duplicate collection",
			input: `
collections:
  - name: a
  - name: a
`,
			checkCode: errors.IsAlreadyExists,
		},
		{
			name: "unknown parent",
			input: `
collections:
  - name: a
    parent: ghost
`,
			checkCode: errors.IsNotFound,
		},
		{
			name: "parent cycle",
			input: `
collections:
  - name: a
    parent: b
  - name: b
    parent: a
`,
			checkCode: errors.IsFailedPrecondition,
		},
		{
			name: "self parent",
			input: `
collections:
  - name: a
    parent: a
`,
			checkCode: errors.IsFailedPrecondition,
		},
		{
			name: "unknown operation",
			input: `
collections:
  - name: a
    stats:
      - key: POWER
        base: 1
    modifiers:
      - stat: POWER
        op: divide
        value: 2
`,
			checkCode: errors.IsInvalidArgument,
		},
		{
			name: "bad dice notation",
			input: `
collections:
  - name: a
    stats:
      - key: LUCK
        roll: d20
`,
			checkCode: errors.IsInvalidArgument,
		},
		{
			name: "zero dice",
			input: `
collections:
  - name: a
    stats:
      - key: LUCK
        roll: 0d6
`,
			checkCode: errors.IsInvalidArgument,
		},
		{
			name: "too many dice",
			input: `
collections:
  - name: a
    stats:
      - key: LUCK
        roll: 101d6
`,
			checkCode: errors.IsOutOfRange,
		},
		{
			name: "modifier on unknown stat",
			input: `
collections:
  - name: a
    modifiers:
      - stat: POWER
        op: add
        value: 2
`,
			checkCode: errors.IsNotFound,
		},
		{
			name: "stat redeclared over parent",
			input: `
collections:
  - name: base
    stats:
      - key: POWER
        base: 1
  - name: hero
    parent: base
    stats:
      - key: POWER
        base: 2
`,
			checkCode: errors.IsAlreadyExists,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.registry.Clear()

			result, err := s.build(s.parse(tc.input))
			s.Assert().Nil(result)
			s.Require().Error(err)
			s.Assert().True(tc.checkCode(err), "unexpected error: %v", err)
			s.Assert().Equal(0, s.registry.Len(), "failed builds leave nothing registered")
		})
	}
}

func (s *SheetTestSuite) TestUnknownParentCarriesMeta() {
	_, err := s.build(s.parse(`
collections:
  - name: hero
    parent: ghost
`))
	s.Require().Error(err)

	meta := errors.GetMeta(err)
	s.Assert().Equal("hero", meta["collection"])
	s.Assert().Equal("ghost", meta["parent"])
}

func (s *SheetTestSuite) TestRollAtDiceCap() {
	result, err := s.build(s.parse(`
collections:
  - name: a
    stats:
      - key: LUCK
        roll: 100d6
`))
	s.Require().NoError(err)

	a, _ := result.Collection("a")
	luck, _ := a.Get("LUCK")
	s.Assert().Equal(400.0, luck.Value())
}

func (s *SheetTestSuite) TestBuildRequiresRegistry() {
	_, err := sheet.Build(&sheet.Document{}, &sheet.BuildConfig{})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = sheet.Build(nil, &sheet.BuildConfig{Registry: s.registry})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *SheetTestSuite) TestGrandchildChainsThroughParent() {
	doc := s.parse(`
collections:
  - name: grandchild
    parent: child
    modifiers:
      - stat: POWER
        op: multiply
        value: 1
  - name: child
    parent: root
    modifiers:
      - stat: POWER
        op: add
        value: 5
  - name: root
    stats:
      - key: POWER
        base: 10
`)

	result, err := s.build(doc)
	s.Require().NoError(err)
	s.Assert().Equal([]string{"root", "child", "grandchild"}, result.Names())

	grandchild, _ := result.Collection("grandchild")
	power, _ := grandchild.Get("POWER")
	s.Assert().Equal(2, power.Depth())
	s.Assert().InDelta(30, power.Value(), delta)
}
