package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/poiesic/trendscout"
	"github.com/poiesic/trendscout/core"
	"github.com/poiesic/trendscout/taxonomy"
	"github.com/urfave/cli/v2"
)

func categoriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "Inspect and extend the category taxonomy",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List major categories and their subcategories",
				Action: categoriesListAction,
			},
			{
				Name:   "add-sub",
				Usage:  "Add a subcategory under a major category",
				Action: categoriesAddSubAction,
				Flags:  selectionFlags(),
			},
			{
				Name:   "stats",
				Usage:  "Count categories and keywords",
				Action: categoriesStatsAction,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Print JSON"},
				},
			},
		},
	}
}

func keywordsCommand() *cli.Command {
	mutator := func(name, usage string, action cli.ActionFunc) *cli.Command {
		return &cli.Command{
			Name:      name,
			Usage:     usage,
			ArgsUsage: "KEYWORD...",
			Action:    action,
			Flags:     selectionFlags(),
		}
	}
	return &cli.Command{
		Name:  "keywords",
		Usage: "Manage the keywords of a category",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "Show auto, user and enabled keywords",
				Action: keywordsListAction,
				Flags: append(selectionFlags(),
					&cli.BoolFlag{Name: "json", Usage: "Print JSON"}),
			},
			mutator("add", "Add user keywords", keywordsEach((*taxonomy.Store).AddUserKeyword)),
			mutator("remove", "Remove user keywords", keywordsEach((*taxonomy.Store).RemoveUserKeyword)),
			mutator("enable", "Enable keywords", keywordsEach(func(s *taxonomy.Store, major, sub, k string) error {
				return s.SetEnabled(major, sub, k, true)
			})),
			mutator("disable", "Disable keywords", keywordsEach(func(s *taxonomy.Store, major, sub, k string) error {
				return s.SetEnabled(major, sub, k, false)
			})),
			{
				Name:   "enable-all",
				Usage:  "Enable every keyword of the selection",
				Action: keywordsAll((*taxonomy.Store).EnableAll),
				Flags:  selectionFlags(),
			},
			{
				Name:   "disable-all",
				Usage:  "Disable every keyword of the selection",
				Action: keywordsAll((*taxonomy.Store).DisableAll),
				Flags:  selectionFlags(),
			},
		},
	}
}

// withStore opens the workspace without a provider, runs fn and saves the
// taxonomy when fn reports a change.
func withStore(c *cli.Context, fn func(ws *trendscout.Workspace) (bool, error)) error {
	ws, err := openWorkspace(c, false)
	if err != nil {
		return err
	}
	defer ws.Close()

	changed, err := fn(ws)
	if err != nil {
		return err
	}
	if changed {
		if err := ws.Save(); err != nil {
			return fmt.Errorf("failed to save taxonomy: %w", err)
		}
	}
	return nil
}

func keywordsEach(op func(s *taxonomy.Store, major, sub, keyword string) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		keywords := c.Args().Slice()
		if len(keywords) == 0 {
			return fmt.Errorf("at least one keyword is required")
		}
		return withStore(c, func(ws *trendscout.Workspace) (bool, error) {
			for _, k := range keywords {
				if err := op(ws.Store(), c.String("major"), c.String("sub"), k); err != nil {
					return false, err
				}
			}
			fmt.Fprintf(c.App.Writer, "%s: %s %s\n", selectionOf(c), c.Command.Name, strings.Join(keywords, ", "))
			return true, nil
		})
	}
}

func keywordsAll(op func(s *taxonomy.Store, major, sub string) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		return withStore(c, func(ws *trendscout.Workspace) (bool, error) {
			if err := op(ws.Store(), c.String("major"), c.String("sub")); err != nil {
				return false, err
			}
			fmt.Fprintf(c.App.Writer, "%s: %s\n", selectionOf(c), c.Command.Name)
			return true, nil
		})
	}
}

func keywordsListAction(c *cli.Context) error {
	return withStore(c, func(ws *trendscout.Workspace) (bool, error) {
		sets, err := ws.Store().AllKeywords(c.String("major"), c.String("sub"))
		if err != nil {
			return false, err
		}
		if c.Bool("json") {
			enc := json.NewEncoder(c.App.Writer)
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return false, enc.Encode(sets)
		}
		out := c.App.Writer
		fmt.Fprintf(out, "%s\n", selectionOf(c))
		fmt.Fprintf(out, "  auto    (%d): %s\n", len(sets.Auto), strings.Join(sets.Auto, ", "))
		fmt.Fprintf(out, "  user    (%d): %s\n", len(sets.User), strings.Join(sets.User, ", "))
		fmt.Fprintf(out, "  enabled (%d): %s\n", len(sets.Enabled), strings.Join(sets.Enabled, ", "))
		return false, nil
	})
}

func categoriesListAction(c *cli.Context) error {
	return withStore(c, func(ws *trendscout.Workspace) (bool, error) {
		store := ws.Store()
		for _, major := range store.Majors() {
			subs, err := store.Subcategories(major)
			if err != nil {
				return false, err
			}
			fmt.Fprintf(c.App.Writer, "%s\n", major)
			for _, sub := range subs {
				fmt.Fprintf(c.App.Writer, "  %s\n", sub)
			}
		}
		return false, nil
	})
}

func categoriesAddSubAction(c *cli.Context) error {
	if c.String("sub") == "" {
		return fmt.Errorf("--sub is required")
	}
	return withStore(c, func(ws *trendscout.Workspace) (bool, error) {
		if err := ws.Store().AddSubcategory(c.String("major"), c.String("sub")); err != nil {
			return false, err
		}
		fmt.Fprintf(c.App.Writer, "added %s\n", selectionOf(c))
		return true, nil
	})
}

func categoriesStatsAction(c *cli.Context) error {
	return withStore(c, func(ws *trendscout.Workspace) (bool, error) {
		st := ws.Store().Stats()
		if c.Bool("json") {
			return false, json.NewEncoder(c.App.Writer).Encode(st)
		}
		fmt.Fprintf(c.App.Writer, "Major categories: %d\n", st.Majors)
		fmt.Fprintf(c.App.Writer, "Subcategories:    %d\n", st.Subcategories)
		fmt.Fprintf(c.App.Writer, "Auto keywords:    %d\n", st.Auto)
		fmt.Fprintf(c.App.Writer, "User keywords:    %d\n", st.User)
		fmt.Fprintf(c.App.Writer, "Enabled keywords: %d\n", st.Enabled)
		return false, nil
	})
}

func selectionOf(c *cli.Context) string {
	return core.SelectionKey(c.String("major"), c.String("sub"))
}
