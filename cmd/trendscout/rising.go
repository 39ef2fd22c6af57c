package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/poiesic/trendscout/analysis"
	"github.com/poiesic/trendscout/core"
	"github.com/poiesic/trendscout/rising"
	"github.com/poiesic/trendscout/trend"
	"github.com/urfave/cli/v2"
)

func selectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "major",
			Aliases:  []string{"m"},
			Usage:    "Major category",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "sub",
			Aliases: []string{"s"},
			Usage:   "Subcategory (empty selects the whole major category)",
		},
	}
}

func windowFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "start",
			Usage: "First day of the window (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:  "end",
			Usage: "Last day of the window (YYYY-MM-DD, default yesterday)",
		},
		&cli.IntFlag{
			Name:  "days",
			Usage: "Window length when --start is not given",
			Value: 30,
		},
		&cli.StringFlag{
			Name:  "time-unit",
			Usage: "Aggregation period (date, week, month)",
			Value: string(core.TimeUnitDate),
		},
		&cli.StringFlag{
			Name:  "device",
			Usage: "Limit to pc or mo searches",
		},
		&cli.StringFlag{
			Name:  "gender",
			Usage: "Limit to m or f searchers",
		},
		&cli.StringSliceFlag{
			Name:  "ages",
			Usage: "Limit to age buckets 1..11 (repeatable)",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print JSON instead of a table",
		},
	}
}

func risingCommand() *cli.Command {
	flags := append(selectionFlags(), windowFlags()...)
	flags = append(flags,
		&cli.IntFlag{
			Name:    "top-k",
			Aliases: []string{"k"},
			Usage:   "Number of keywords to show",
			Value:   rising.DefaultTopK,
		},
		&cli.IntFlag{
			Name:  "retries",
			Usage: "Attempts per transiently failing chunk, the first one included",
			Value: 1,
		},
		&cli.DurationFlag{
			Name:  "retry-delay",
			Usage: "Base delay for exponential backoff",
			Value: 1 * time.Second,
		},
	)
	return &cli.Command{
		Name:   "rising",
		Usage:  "Rank the enabled keywords of a category by rising search volume",
		Action: risingAction,
		Flags:  flags,
	}
}

func timelineCommand() *cli.Command {
	return &cli.Command{
		Name:   "timeline",
		Usage:  "Show the search volume series of the enabled keywords of a category",
		Action: timelineAction,
		Flags:  append(selectionFlags(), windowFlags()...),
	}
}

// parseWindow resolves --start, --end and --days relative to now.
func parseWindow(c *cli.Context, now time.Time) (time.Time, time.Time, error) {
	end := now.UTC().Truncate(24*time.Hour).AddDate(0, 0, -1)
	if s := c.String("end"); s != "" {
		t, err := time.Parse(core.DateLayout, s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --end %q: %w", s, err)
		}
		end = t
	}

	days := c.Int("days")
	if days < 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("--days must be at least 1, got %d", days)
	}
	start := end.AddDate(0, 0, -(days - 1))
	if s := c.String("start"); s != "" {
		t, err := time.Parse(core.DateLayout, s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --start %q: %w", s, err)
		}
		start = t
	}
	return start, end, nil
}

func requestFrom(c *cli.Context) (analysis.Request, error) {
	start, end, err := parseWindow(c, time.Now())
	if err != nil {
		return analysis.Request{}, err
	}
	return analysis.Request{
		Major:    c.String("major"),
		Sub:      c.String("sub"),
		Start:    start,
		End:      end,
		TimeUnit: core.TimeUnit(c.String("time-unit")),
		Device:   core.Device(c.String("device")),
		Gender:   core.Gender(c.String("gender")),
		Ages:     c.StringSlice("ages"),
		TopK:     c.Int("top-k"),
	}, nil
}

type risingOutput struct {
	RunID          string                 `json:"run_id"`
	Selection      string                 `json:"selection"`
	Start          string                 `json:"start"`
	End            string                 `json:"end"`
	TimeUnit       core.TimeUnit          `json:"time_unit"`
	Candidates     []core.RisingCandidate `json:"candidates"`
	Movements      []analysis.Movement    `json:"movements"`
	Dropped        []string               `json:"dropped,omitempty"`
	NoData         []string               `json:"no_data,omitempty"`
	FailedKeywords []string               `json:"failed_keywords,omitempty"`
}

func risingAction(c *cli.Context) error {
	ctx := context.Background()

	req, err := requestFrom(c)
	if err != nil {
		return err
	}

	ws, err := openWorkspace(c, true)
	if err != nil {
		return err
	}
	defer ws.Close()

	opts := []analysis.Option{}
	if !c.Bool("json") {
		opts = append(opts, analysis.WithProgressWriter(c.App.ErrWriter))
	}
	analyzer, err := ws.NewAnalyzer(&analysis.Config{
		MaxAttempts: c.Int("retries"),
		RetryDelay:  c.Duration("retry-delay"),
	}, opts...)
	if err != nil {
		return err
	}

	result, runErr := analyzer.Run(ctx, req)
	if result == nil {
		return runErr
	}

	for _, b := range result.Result.Failed() {
		fmt.Fprintf(c.App.ErrWriter, "warning: chunk %d %v: %v\n", b.Index, b.Keywords, b.Err)
	}

	if c.Bool("json") {
		err = printRisingJSON(c.App.Writer, result)
	} else {
		err = printRisingTable(c.App.Writer, result)
	}
	if err != nil {
		return err
	}
	return runErr
}

func printRisingJSON(w io.Writer, a *analysis.Analysis) error {
	out := risingOutput{
		RunID:          a.RunID,
		Selection:      a.Request.Selection(),
		Start:          a.Request.Start.Format(core.DateLayout),
		End:            a.Request.End.Format(core.DateLayout),
		TimeUnit:       a.Request.TimeUnit,
		Candidates:     a.Candidates,
		Movements:      a.Movements,
		Dropped:        a.Dropped,
		NoData:         a.Result.NoData,
		FailedKeywords: a.Result.FailedKeywords(),
	}
	if out.Candidates == nil {
		out.Candidates = []core.RisingCandidate{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printRisingTable(w io.Writer, a *analysis.Analysis) error {
	fmt.Fprintf(w, "Rising keywords for %s (%s to %s, %s)\n\n",
		a.Request.Selection(),
		a.Request.Start.Format(core.DateLayout),
		a.Request.End.Format(core.DateLayout),
		a.Request.TimeUnit)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tKEYWORD\tSCORE\tCHANGE %\tCHANGE\tFIRST\tLAST\tMOVE")
	for i, cand := range a.Candidates {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.1f\t%.1f\t%.1f\t%.1f\t%s\n",
			i+1, cand.Keyword, cand.Score, cand.PctChange, cand.AbsChange,
			cand.FirstRatio, cand.LastRatio, moveLabel(a, i))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(a.Dropped) > 0 {
		fmt.Fprintf(w, "\nDropped since last run: %v\n", a.Dropped)
	}
	if len(a.Result.NoData) > 0 {
		fmt.Fprintf(w, "No data: %v\n", a.Result.NoData)
	}
	return nil
}

func moveLabel(a *analysis.Analysis, i int) string {
	if a.Previous == nil || i >= len(a.Movements) {
		return ""
	}
	m := a.Movements[i]
	switch {
	case m.IsNew:
		return "new"
	case m.Change() > 0:
		return "+" + strconv.Itoa(m.Change())
	case m.Change() < 0:
		return strconv.Itoa(m.Change())
	default:
		return "="
	}
}

type timelineRow struct {
	Period string             `json:"period"`
	Ratios map[string]float64 `json:"ratios"`
}

func timelineAction(c *cli.Context) error {
	ctx := context.Background()

	req, err := requestFrom(c)
	if err != nil {
		return err
	}

	ws, err := openWorkspace(c, true)
	if err != nil {
		return err
	}
	defer ws.Close()

	keywords, err := ws.Store().EnabledKeywords(req.Major, req.Sub)
	if err != nil {
		return err
	}
	if len(keywords) == 0 {
		return analysis.ErrNoKeywords
	}

	client, err := ws.NewBatchClient()
	if err != nil {
		return err
	}
	result, fetchErr := client.Fetch(ctx, core.TrendQuery{
		Keywords: keywords,
		Start:    req.Start,
		End:      req.End,
		TimeUnit: req.TimeUnit,
		Device:   req.Device,
		Gender:   req.Gender,
		Ages:     req.Ages,
	})
	if result == nil {
		return fetchErr
	}
	for _, b := range result.Failed() {
		fmt.Fprintf(c.App.ErrWriter, "warning: chunk %d %v: %v\n", b.Index, b.Keywords, b.Err)
	}

	table := trend.Timeline(result.Series)
	if c.Bool("json") {
		rows := make([]timelineRow, 0, len(table.Rows))
		for _, row := range table.Rows {
			r := timelineRow{Period: row.Period.Format(core.DateLayout), Ratios: map[string]float64{}}
			for i, cell := range row.Cells {
				if cell.OK {
					r.Ratios[table.Keywords[i]] = cell.Ratio
				}
			}
			rows = append(rows, r)
		}
		enc := json.NewEncoder(c.App.Writer)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return fetchErr
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "PERIOD")
	for _, k := range table.Keywords {
		fmt.Fprintf(tw, "\t%s", k)
	}
	fmt.Fprintln(tw)
	for _, row := range table.Rows {
		fmt.Fprint(tw, row.Period.Format(core.DateLayout))
		for _, cell := range row.Cells {
			if cell.OK {
				fmt.Fprintf(tw, "\t%.1f", cell.Ratio)
			} else {
				fmt.Fprint(tw, "\t-")
			}
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return fetchErr
}
