package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/trendscout/core"
	"github.com/urfave/cli/v2"
)

const historyPreview = 5

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:   "history",
		Usage:  "List stored rankings of a category, newest first",
		Action: historyAction,
		Flags: append(selectionFlags(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Number of rankings to show",
				Value: 10,
			},
			&cli.BoolFlag{Name: "json", Usage: "Print JSON"},
		),
	}
}

func historyAction(c *cli.Context) error {
	if c.String("history") == "" {
		return fmt.Errorf("--history is required to read stored rankings")
	}

	ws, err := openWorkspace(c, false)
	if err != nil {
		return err
	}
	defer ws.Close()

	snapshots, err := ws.History().ListSnapshots(context.Background(), selectionOf(c), c.Int("limit"))
	if err != nil {
		return err
	}

	if c.Bool("json") {
		if snapshots == nil {
			snapshots = []*core.Snapshot{}
		}
		enc := json.NewEncoder(c.App.Writer)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshots)
	}

	if len(snapshots) == 0 {
		fmt.Fprintf(c.App.Writer, "No rankings stored for %s\n", selectionOf(c))
		return nil
	}
	for _, s := range snapshots {
		top := make([]string, 0, historyPreview)
		for i, cand := range s.Candidates {
			if i == historyPreview {
				break
			}
			top = append(top, cand.Keyword)
		}
		fmt.Fprintf(c.App.Writer, "%s  %s..%s  %d keywords  %s\n",
			s.CreatedAt.Local().Format(time.DateTime),
			s.Start.Format(core.DateLayout), s.End.Format(core.DateLayout),
			len(s.Candidates), strings.Join(top, ", "))
	}
	return nil
}
