package sheet

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-stats/internal/errors"
	"github.com/KirkDiggler/rpg-stats/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-stats/internal/stats"
)

// maxDiceCount caps a single roll
const maxDiceCount = 100

var (
	// Regex for parsing simple dice notation like "3d6", "4d6", "1d20"
	diceNotationRegex = regexp.MustCompile(`^(\d+)d(\d+)$`)
)

// BuildConfig holds the dependencies for Build
type BuildConfig struct {
	Registry    stats.Registry
	Roller      dice.Roller
	IDGenerator idgen.Generator
	Logger      *slog.Logger
}

// Validate ensures all required dependencies are provided
func (c *BuildConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Registry == nil {
		vb.RequiredField("Registry")
	}

	return vb.Build()
}

// Result holds the collections built from a document
type Result struct {
	collections map[string]*stats.Collection[string]
	order       []string
}

// Collection returns the collection declared as name
func (r *Result) Collection(name string) (*stats.Collection[string], bool) {
	c, ok := r.collections[name]
	return c, ok
}

// Names returns collection names in build order, parents before children
func (r *Result) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Collections returns the built collections in build order
func (r *Result) Collections() []*stats.Collection[string] {
	out := make([]*stats.Collection[string], len(r.order))
	for i, name := range r.order {
		out[i] = r.collections[name]
	}
	return out
}

// Close closes every collection, children first
func (r *Result) Close() error {
	for i := len(r.order) - 1; i >= 0; i-- {
		if err := r.collections[r.order[i]].Close(); err != nil {
			return errors.Wrapf(err, "failed to close collection %s", r.order[i])
		}
	}
	return nil
}

// Build creates the document's collections. On error nothing stays
// registered.
func Build(doc *Document, cfg *BuildConfig) (*Result, error) {
	if doc == nil {
		return nil, errors.InvalidArgument("document is required")
	}
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
	roller := cfg.Roller
	if roller == nil {
		roller = dice.DefaultRoller
	}

	order, specs, err := resolveOrder(doc)
	if err != nil {
		return nil, err
	}

	result := &Result{
		collections: make(map[string]*stats.Collection[string], len(order)),
	}

	for _, name := range order {
		spec := specs[name]

		var parent *stats.Collection[string]
		if spec.Parent != "" {
			parent = result.collections[spec.Parent]
		}

		c, err := stats.NewCollection(&stats.Config[string]{
			Name:        spec.Name,
			Parent:      parent,
			Registry:    cfg.Registry,
			Logger:      logger,
			IDGenerator: cfg.IDGenerator,
		})
		if err != nil {
			_ = result.Close()
			return nil, errors.Wrapf(err, "failed to create collection %s", name)
		}
		result.collections[name] = c
		result.order = append(result.order, name)

		if err := populate(c, spec, roller); err != nil {
			_ = result.Close()
			return nil, errors.Wrapf(err, "failed to populate collection %s", name)
		}

		logger.Debug("sheet collection built",
			"collection", name,
			"parent", spec.Parent,
			"stats", c.Len())
	}

	return result, nil
}

// resolveOrder indexes collections by name and orders them so every parent
// precedes its children
func resolveOrder(doc *Document) ([]string, map[string]*CollectionSpec, error) {
	specs := make(map[string]*CollectionSpec, len(doc.Collections))
	for i := range doc.Collections {
		spec := &doc.Collections[i]
		if _, ok := specs[spec.Name]; ok {
			return nil, nil, errors.AlreadyExistsf("collection %s is declared more than once", spec.Name)
		}
		specs[spec.Name] = spec
	}

	for _, spec := range doc.Collections {
		if spec.Parent == "" {
			continue
		}
		if _, ok := specs[spec.Parent]; !ok {
			return nil, nil, errors.NotFoundf("collection %s has unknown parent %s", spec.Name, spec.Parent).
				WithMeta("collection", spec.Name).
				WithMeta("parent", spec.Parent)
		}
	}

	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int, len(specs))
	order := make([]string, 0, len(specs))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return errors.FailedPreconditionf("collection parents form a cycle: %s",
				strings.Join(append(path, name), " -> "))
		}
		state[name] = visiting
		if parent := specs[name].Parent; parent != "" {
			if err := visit(parent, append(path, name)); err != nil {
				return err
			}
		}
		state[name] = done
		order = append(order, name)
		return nil
	}

	for _, spec := range doc.Collections {
		if err := visit(spec.Name, nil); err != nil {
			return nil, nil, err
		}
	}

	return order, specs, nil
}

func populate(c *stats.Collection[string], spec *CollectionSpec, roller dice.Roller) error {
	for _, st := range spec.Stats {
		value := 0.0
		switch {
		case st.Base != nil:
			value = *st.Base
		case st.Roll != "":
			rolled, err := roll(roller, st.Roll)
			if err != nil {
				return errors.Wrapf(err, "failed to roll stat %s", st.Key)
			}
			value = float64(rolled)
		}

		if !c.AddStat(st.Key, value) {
			return errors.AlreadyExistsf("stat %s already exists in collection %s", st.Key, spec.Name)
		}
	}

	for _, ms := range spec.Modifiers {
		op, err := stats.ParseOperation(ms.Op)
		if err != nil {
			return errors.Wrapf(err, "invalid modifier for stat %s", ms.Stat)
		}
		if !c.Contains(ms.Stat) {
			return errors.NotFoundf("modifier targets unknown stat %s", ms.Stat)
		}

		var opts []stats.ModifierOption
		if ms.ID != "" {
			opts = append(opts, stats.WithID(ms.ID))
		}
		if ms.Source != "" {
			opts = append(opts, stats.WithSource(ms.Source))
		}
		if ms.Post {
			opts = append(opts, stats.AsPost())
		}

		c.AddModifier(ms.Stat, stats.NewModifier(op, ms.Value, opts...))
	}

	return nil
}

// roll evaluates simple XdY notation and returns the sum of the dice
func roll(roller dice.Roller, notation string) (int, error) {
	matches := diceNotationRegex.FindStringSubmatch(strings.ToLower(strings.TrimSpace(notation)))
	if len(matches) != 3 {
		return 0, errors.InvalidArgumentf("invalid dice notation: %s (expected format: XdY)", notation)
	}

	count, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, errors.InvalidArgumentf("invalid dice count in notation: %s", notation)
	}
	size, err := strconv.Atoi(matches[2])
	if err != nil {
		return 0, errors.InvalidArgumentf("invalid die size in notation: %s", notation)
	}
	if count <= 0 || size <= 0 {
		return 0, errors.InvalidArgumentf("dice count and size must be positive: %s", notation)
	}
	if count > maxDiceCount {
		return 0, errors.OutOfRangef("cannot roll more than %d dice: %s", maxDiceCount, notation)
	}

	rolls, err := roller.RollN(count, size)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to roll %s", notation)
	}

	total := 0
	for _, r := range rolls {
		total += r
	}
	return total, nil
}
