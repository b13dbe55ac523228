package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/blip/internal/blip"
	"github.com/hpungsan/blip/internal/cleanup"
	"github.com/hpungsan/blip/internal/config"
	"github.com/hpungsan/blip/internal/errors"
	"github.com/hpungsan/blip/internal/store"
	"github.com/hpungsan/blip/internal/surface"
	"github.com/hpungsan/blip/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(s *store.Store, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "blip",
		Usage:   "Capture small notes and surface them later",
		Version: Version,
		Commands: []*cli.Command{
			captureCmd(s),
			showCmd(s),
			surfaceCmd(s, cfg),
			contextCmd(s),
			noteCmd(s),
			snoozeCmd(s, cfg),
			archiveCmd(s),
			promoteCmd(s),
			linkCmd(s),
			tagCmd(s),
			listCmd(s),
			searchCmd(s),
			recentCmd(s),
			statsCmd(s),
			deleteCmd(s),
			cleanupCmd(s, cfg),
			webCmd(s, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// captureCmd creates the capture command.
func captureCmd(s *store.Store) *cli.Command {
	return &cli.Command{
		Name:      "capture",
		Usage:     "Capture a new blip (argument or piped stdin)",
		ArgsUsage: "[content]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Value: "manual", Usage: "Source type: discord|obsidian-inbox|clipper|daily-note|manual"},
			&cli.StringFlag{Name: "ref", Aliases: []string{"r"}, Usage: "Source reference for the given source type"},
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Category tag"},
		},
		Action: func(c *cli.Context) error {
			content := strings.Join(c.Args().Slice(), " ")
			if content == "" {
				if !stdinHasData() {
					return outputError(errors.NewInvalidRequest("content argument or piped stdin is required"))
				}
				text, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				content = text
			}

			src := blip.ParseSource(c.String("source"), c.String("ref"))
			b, err := s.Capture(content, src, c.String("category"))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(cliView(b))
		},
	}
}

// showCmd creates the show command.
func showCmd(s *store.Store) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a blip by id",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if id == "" {
				return outputError(errors.NewInvalidRequest("id argument is required"))
			}
			b, ok := s.FindByID(id)
			if !ok {
				return outputError(errors.NewNotFound(id))
			}
			return outputJSON(cliView(b))
		},
	}
}

// surfaceCmd creates the surface command.
func surfaceCmd(s *store.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "surface",
		Usage: "Rank blips worth attention now",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum suggestions (default from config)"},
			&cli.BoolFlag{Name: "mark", Usage: "Record the surfacing on each returned blip"},
		},
		Action: func(c *cli.Context) error {
			limit := c.Int("limit")
			if limit <= 0 {
				limit = cfg.SurfaceLimit
			}
			suggestions := surface.NewEngine(s).Surface(limit)
			if c.Bool("mark") {
				for _, sg := range suggestions {
					if _, err := s.MarkSurfaced(sg.Blip.ID); err != nil {
						return outputError(err)
					}
				}
			}
			return outputJSON(suggestions)
		},
	}
}

// contextCmd creates the context command.
func contextCmd(s *store.Store) *cli.Command {
	return &cli.Command{
		Name:  "context",
		Usage: "Render the blip index as a markdown table",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum rows"},
		},
		Action: func(c *cli.Context) error {
			fmt.Println(s.FormatIndexForContext(c.Int("limit")))
			return nil
		},
	}
}

// noteCmd creates the note command.
func noteCmd(s *store.Store) *cli.Command {
	return &cli.Command{
		Name:      "note",
		Usage:     "Append a note to a blip",
		ArgsUsage: "<id> <note...>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("usage: blip note <id> <note>"))
			}
			id := c.Args().First()
			note := strings.Join(c.Args().Slice()[1:], " ")
			return mutation(s, id, func() (bool, error) {
				return s.AddNote(id, note)
			})
		},
	}
}

// snoozeCmd creates the snooze command.
func snoozeCmd(s *store.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "snooze",
		Usage:     "Hide a blip from surfacing for a number of days",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "days", Aliases: []string{"d"}, Usage: "Days to snooze (default from config)"},
		},
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if id == "" {
				return outputError(errors.NewInvalidRequest("id argument is required"))
			}
			days := c.Int("days")
			if days <= 0 {
				days = cfg.SnoozeDays
			}
			return mutation(s, id, func() (bool, error) {
				return s.Snooze(id, days)
			})
		},
	}
}

// archiveCmd creates the archive command.
func archiveCmd(s *store.Store) *cli.Command {
	return &cli.Command{
		Name:      "archive",
		Usage:     "Archive a blip (terminal)",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if id == "" {
				return outputError(errors.NewInvalidRequest("id argument is required"))
			}
			return mutation(s, id, func() (bool, error) {
				return s.Archive(id)
			})
		},
	}
}

// promoteCmd creates the promote command.
func promoteCmd(s *store.Store) *cli.Command {
	return &cli.Command{
		Name:      "promote",
		Usage:     "Promote a blip into a longer-lived artifact (terminal)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "target", Aliases: []string{"t"}, Required: true, Usage: "Target type: goal|project|task|note"},
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Destination path of the promoted artifact"},
		},
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if id == "" {
				return outputError(errors.NewInvalidRequest("id argument is required"))
			}
			return mutation(s, id, func() (bool, error) {
				return s.Promote(id, blip.PromotionType(c.String("target")), c.String("path"))
			})
		},
	}
}

// linkCmd creates the link command.
func linkCmd(s *store.Store) *cli.Command {
	return &cli.Command{
		Name:      "link",
		Usage:     "Link a blip to another blip or to a vault document",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to", Usage: "Other blip id (symmetric link)"},
			&cli.StringFlag{Name: "vault", Usage: "Vault document path"},
		},
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if id == "" {
				return outputError(errors.NewInvalidRequest("id argument is required"))
			}
			other := c.String("to")
			vault := c.String("vault")
			switch {
			case other != "" && vault != "":
				return outputError(errors.NewInvalidRequest("give --to or --vault, not both"))
			case other != "":
				return mutation(s, id, func() (bool, error) {
					return s.LinkBlips(id, other)
				})
			case vault != "":
				return mutation(s, id, func() (bool, error) {
					return s.LinkToVault(id, vault)
				})
			default:
				return outputError(errors.NewInvalidRequest("--to or --vault is required"))
			}
		},
	}
}

// tagCmd creates the tag command.
func tagCmd(s *store.Store) *cli.Command {
	return &cli.Command{
		Name:      "tag",
		Usage:     "Add tags to a blip",
		ArgsUsage: "<id> <tag...>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("usage: blip tag <id> <tag...>"))
			}
			id := c.Args().First()
			tags := c.Args().Slice()[1:]
			return mutation(s, id, func() (bool, error) {
				return s.AddTags(id, tags...)
			})
		},
	}
}

// listCmd creates the list command.
func listCmd(s *store.Store) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List blips, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "state", Usage: "Filter by state"},
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Filter by category"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum blips"},
		},
		Action: func(c *cli.Context) error {
			var blips []*blip.Blip
			switch {
			case c.String("state") != "":
				state, ok := blip.ParseState(c.String("state"))
				if !ok {
					return outputError(errors.NewInvalidRequest("unknown state: " + c.String("state")))
				}
				blips = s.GetByState(state)
			case c.String("category") != "":
				blips = s.GetByCategory(c.String("category"))
			default:
				blips = s.All()
			}
			if limit := c.Int("limit"); limit > 0 && len(blips) > limit {
				blips = blips[:limit]
			}
			return outputJSON(cliViews(blips))
		},
	}
}

// searchCmd creates the search command.
func searchCmd(s *store.Store) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search content, category, notes and tags",
		ArgsUsage: "<query>",
		Action: func(c *cli.Context) error {
			query := strings.Join(c.Args().Slice(), " ")
			if query == "" {
				return outputError(errors.NewInvalidRequest("query argument is required"))
			}
			return outputJSON(cliViews(s.Search(query)))
		},
	}
}

// recentCmd creates the recent command.
func recentCmd(s *store.Store) *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "List the most recently captured blips",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 10, Usage: "Maximum blips"},
		},
		Action: func(c *cli.Context) error {
			return outputJSON(cliViews(s.GetRecent(c.Int("limit"))))
		},
	}
}

// statsCmd creates the stats command.
func statsCmd(s *store.Store) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Aggregate counts by state and category",
		Action: func(c *cli.Context) error {
			return outputJSON(s.GetStats())
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(s *store.Store) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a blip permanently",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if id == "" {
				return outputError(errors.NewInvalidRequest("id argument is required"))
			}
			ok, err := s.Delete(id)
			if err != nil {
				return outputError(err)
			}
			if !ok {
				return outputError(errors.NewNotFound(id))
			}
			return outputJSON(map[string]string{"deleted": id})
		},
	}
}

// cleanupCmd creates the cleanup maintenance command.
func cleanupCmd(s *store.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "cleanup",
		Usage: "Quarantine harness leftovers, merge duplicates, backfill source metadata",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "apply", Usage: "Perform the reported actions (default is a dry run)"},
		},
		Action: func(c *cli.Context) error {
			rep, err := cleanup.Run(cleanup.Options{
				Dir:         s.Dir(),
				CapturesDir: cfg.CapturesDir,
				Apply:       c.Bool("apply"),
				Log: func(format string, args ...any) {
					fmt.Fprintf(os.Stderr, format+"\n", args...)
				},
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(rep)
		},
	}
}

// webCmd creates the web viewer command.
func webCmd(s *store.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the read-only web viewer",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Value: 7632, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(s, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// cliBlip is the CLI wire shape of a blip: the record plus its source pair.
type cliBlip struct {
	*blip.Blip
	SourceType string `json:"source_type"`
	SourceRef  string `json:"source_ref,omitempty"`
}

func cliView(b *blip.Blip) cliBlip {
	v := cliBlip{Blip: b, SourceType: string(blip.SourceManual)}
	if b.Source != nil {
		v.SourceType = string(b.Source.Kind())
		v.SourceRef = b.Source.Ref()
	}
	return v
}

func cliViews(blips []*blip.Blip) []cliBlip {
	out := make([]cliBlip, len(blips))
	for i, b := range blips {
		out[i] = cliView(b)
	}
	return out
}

// mutation runs a store mutator and prints the updated blip on success.
func mutation(s *store.Store, id string, fn func() (bool, error)) error {
	ok, err := fn()
	if err != nil {
		return outputError(err)
	}
	if !ok {
		return outputError(errors.NewNotFound(id))
	}
	b, found := s.FindByID(id)
	if !found {
		return outputError(errors.NewNotFound(id))
	}
	return outputJSON(cliView(b))
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if blipErr, ok := err.(*errors.BlipError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", blipErr.Code, blipErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
