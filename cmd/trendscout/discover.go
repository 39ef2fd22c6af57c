package main

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/trendscout/discovery"
	"github.com/poiesic/trendscout/extract"
	"github.com/urfave/cli/v2"
)

func discoverCommand() *cli.Command {
	return &cli.Command{
		Name:   "discover",
		Usage:  "Refresh auto keywords of every category from shopping search",
		Action: discoverAction,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "major",
				Aliases: []string{"m"},
				Usage:   "Limit discovery to these major categories (repeatable)",
			},
			&cli.IntFlag{
				Name:  "min-freq",
				Usage: "How often a title word must repeat to become a keyword",
				Value: extract.DefaultMinFrequency,
			},
			&cli.IntFlag{
				Name:  "max-keywords",
				Usage: "Keep at most N keywords per category (0 keeps all)",
			},
		},
	}
}

func discoverAction(c *cli.Context) error {
	ctx := context.Background()

	ws, err := openWorkspace(c, true)
	if err != nil {
		return err
	}
	defer ws.Close()

	engine, err := ws.NewDiscoveryEngine(
		discovery.WithMinFrequency(c.Int("min-freq")),
		discovery.WithMaxKeywords(c.Int("max-keywords")),
	)
	if err != nil {
		return err
	}

	var report *discovery.Report
	var runErr error
	if majors := c.StringSlice("major"); len(majors) > 0 {
		paths, err := nodePaths(ws.Store(), majors)
		if err != nil {
			return err
		}
		report, runErr = engine.DiscoverNodes(ctx, paths)
	} else {
		report, runErr = engine.Discover(ctx)
	}

	if report == nil {
		return runErr
	}

	// Whatever was refreshed before a stop is kept.
	if err := ws.Save(); err != nil {
		return fmt.Errorf("failed to save taxonomy: %w", err)
	}

	out := c.App.Writer
	for _, n := range report.Updated() {
		fmt.Fprintf(out, "%s: %d keywords from %d listings\n", n.Path, len(n.Keywords), n.Products)
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(c.App.ErrWriter, "warning: %s\n", w)
	}
	fmt.Fprintf(out, "Updated %d of %d categories in %s\n",
		len(report.Updated()), len(report.Nodes)+len(report.Pending),
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))

	if runErr != nil {
		return fmt.Errorf("discovery stopped with %d categories pending: %w", len(report.Pending), runErr)
	}
	return nil
}

type subLister interface {
	Subcategories(major string) ([]string, error)
}

// nodePaths expands majors into the major node followed by its subcategories.
func nodePaths(store subLister, majors []string) ([]discovery.NodePath, error) {
	var paths []discovery.NodePath
	for _, major := range majors {
		subs, err := store.Subcategories(major)
		if err != nil {
			return nil, err
		}
		paths = append(paths, discovery.NodePath{Major: major})
		for _, sub := range subs {
			paths = append(paths, discovery.NodePath{Major: major, Sub: sub})
		}
	}
	return paths, nil
}
