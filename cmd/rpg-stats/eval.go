package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-stats/internal/config"
	"github.com/KirkDiggler/rpg-stats/internal/errors"
	"github.com/KirkDiggler/rpg-stats/internal/registry"
	"github.com/KirkDiggler/rpg-stats/internal/sheet"
	"github.com/KirkDiggler/rpg-stats/internal/statevents"
	"github.com/KirkDiggler/rpg-stats/internal/stats"
)

type evalOptions struct {
	file         string
	collection   string
	removeID     string
	removeSource string
	trace        bool
}

func newEvalCmd() *cobra.Command {
	opts := &evalOptions{}

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Resolve and print every stat in a sheet",
		Long: `Load a sheet, optionally strip modifiers by id or source, and print
collection, key, base value and value for each stat.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEval(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "path to the YAML sheet")
	cmd.Flags().StringVarP(&opts.collection, "collection", "c", "", "only act on this collection")
	cmd.Flags().StringVar(&opts.removeID, "remove-id", "", "remove modifiers with this id before printing")
	cmd.Flags().StringVar(&opts.removeSource, "remove-source", "", "remove modifiers from this source before printing")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "log every stat change event")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runEval(cmd *cobra.Command, opts *evalOptions) error {
	env, err := config.Load()
	if err != nil {
		return err
	}
	if opts.trace {
		env.LogLevel = slog.LevelInfo.String()
	}
	logger, err := env.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	doc, err := sheet.LoadFile(opts.file)
	if err != nil {
		return err
	}

	reg := registry.New()
	result, err := sheet.Build(doc, &sheet.BuildConfig{
		Registry: reg,
		Roller:   dice.DefaultRoller,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := result.Close(); err != nil {
			logger.Error("failed to close sheet", "error", err)
		}
	}()

	selected := func(c *stats.Collection[string]) bool {
		return opts.collection == "" || c.Name() == opts.collection
	}
	if opts.collection != "" {
		if _, ok := result.Collection(opts.collection); !ok {
			return errors.NotFoundf("collection %s not found in %s", opts.collection, opts.file)
		}
	}

	if opts.trace {
		detach, err := traceChanges(reg, logger)
		if err != nil {
			return err
		}
		defer detach()
	}

	registry.ForEach(reg, func(c *stats.Collection[string]) {
		if !selected(c) {
			return
		}
		if opts.removeID != "" {
			n := c.RemoveModifiersByID(opts.removeID)
			logger.Info("removed modifiers", "collection", c.Name(), "id", opts.removeID, "count", n)
		}
		if opts.removeSource != "" {
			n := c.RemoveModifiersBySource(opts.removeSource)
			logger.Info("removed modifiers", "collection", c.Name(), "source", opts.removeSource, "count", n)
		}
	})

	var rows []*stats.Collection[string]
	for _, c := range result.Collections() {
		if selected(c) {
			rows = append(rows, c)
		}
	}
	return printStats(cmd.OutOrStdout(), rows)
}

// traceChanges bridges every registered collection onto an event bus and
// logs what arrives
func traceChanges(reg *registry.Registry, logger *slog.Logger) (func(), error) {
	bus := events.NewBus()
	bus.SubscribeFunc(statevents.EventStatChanged, 0, func(_ context.Context, e events.Event) error {
		change, ok := statevents.ChangeFromEvent(e)
		if !ok {
			return nil
		}
		logger.Info("stat changed",
			"collection", change.CollectionName,
			"stat", change.StatKey,
			"base_value", change.BaseValue,
			"value", change.Value)
		return nil
	})

	var publishers []*statevents.Publisher[string]
	detach := func() {
		for _, p := range publishers {
			p.Detach()
		}
	}

	for _, c := range registry.CollectionsOf[string](reg) {
		p, err := statevents.NewPublisher(&statevents.PublisherConfig[string]{
			Bus:        bus,
			Collection: c,
			Logger:     logger,
		})
		if err != nil {
			detach()
			return nil, err
		}
		if err := p.Attach(); err != nil {
			detach()
			return nil, err
		}
		publishers = append(publishers, p)
	}

	return detach, nil
}

func printStats(w io.Writer, collections []*stats.Collection[string]) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COLLECTION\tKEY\tBASE\tVALUE")
	for _, c := range collections {
		for _, s := range c.Stats() {
			fmt.Fprintf(tw, "%s\t%s\t%g\t%g\n", c.Name(), s.Name(), s.BaseValue(), s.Value())
		}
	}
	return tw.Flush()
}
