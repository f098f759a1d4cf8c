package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/capstudio/capstudio/internal/capsule"
	"github.com/capstudio/capstudio/internal/config"
	"github.com/capstudio/capstudio/internal/errors"
	"github.com/capstudio/capstudio/internal/ops"
	"github.com/capstudio/capstudio/internal/registry"
	"github.com/capstudio/capstudio/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, reg *registry.Registry, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "capstudio",
		Usage:   "Capsule compositions, exported to native source trees",
		Version: Version,
		Commands: []*cli.Command{
			catalogCmd(reg),
			projectCmd(db, reg, cfg),
			exportCmd(db, reg, cfg),
			serveCmd(db, reg, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// catalogCmd creates the catalog command.
func catalogCmd(reg *registry.Registry) *cli.Command {
	return &cli.Command{
		Name:      "catalog",
		Usage:     "List capsule definitions, or show one by id",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Filter by category"},
			&cli.StringFlag{Name: "tag", Usage: "Filter by tag"},
			&cli.StringFlag{Name: "platform", Aliases: []string{"p"}, Usage: "Filter by platform: web|ios|android|desktop"},
		},
		Action: func(c *cli.Context) error {
			// Positional id → detail view
			if c.NArg() > 0 {
				output, err := ops.CatalogGet(reg, ops.CatalogGetInput{ID: c.Args().First()})
				if err != nil {
					return outputError(err)
				}
				return outputJSON(output)
			}

			output, err := ops.CatalogList(reg, ops.CatalogListInput{
				Category: c.String("category"),
				Tag:      c.String("tag"),
				Platform: c.String("platform"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// projectCmd creates the project command with its subcommands.
func projectCmd(db *sql.DB, reg *registry.Registry, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "project",
		Usage: "Manage stored projects",
		Subcommands: []*cli.Command{
			projectSaveCmd(db, reg),
			projectFetchCmd(db),
			projectListCmd(db),
			projectDeleteCmd(db),
			projectHistoryCmd(db),
		},
	}
}

// projectSaveCmd creates the project save subcommand.
func projectSaveCmd(db *sql.DB, reg *registry.Registry) *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Save a project composition (reads composition JSON from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true, Usage: "Project name"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|replace"},
		},
		Action: func(c *cli.Context) error {
			comp, err := readComposition()
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Save(db, reg, ops.SaveInput{
				Name:        c.String("name"),
				Composition: comp,
				Mode:        ops.SaveMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// projectFetchCmd creates the project fetch subcommand.
func projectFetchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch a project by ID or name",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Project name"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted projects"},
		},
		Action: func(c *cli.Context) error {
			input := ops.FetchInput{
				IncludeDeleted: c.Bool("include-deleted"),
			}

			// Check for positional ID argument
			if c.NArg() > 0 {
				input.ID = c.Args().First()
			} else {
				input.Name = c.String("name")
			}

			output, err := ops.Fetch(db, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// projectListCmd creates the project list subcommand.
func projectListCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List stored projects",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted projects"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(db, ops.ListInput{
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				IncludeDeleted: c.Bool("include-deleted"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// projectDeleteCmd creates the project delete subcommand.
func projectDeleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Soft-delete a project",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Project name"},
		},
		Action: func(c *cli.Context) error {
			input := ops.DeleteInput{}

			if c.NArg() > 0 {
				input.ID = c.Args().First()
			} else {
				input.Name = c.String("name")
			}

			output, err := ops.Delete(db, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// projectHistoryCmd creates the project history subcommand.
func projectHistoryCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "Show a project's export history",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Project name"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 50, Usage: "Maximum items to return"},
		},
		Action: func(c *cli.Context) error {
			input := ops.HistoryInput{
				Limit: c.Int("limit"),
			}

			if c.NArg() > 0 {
				input.ID = c.Args().First()
			} else {
				input.Name = c.String("name")
			}

			output, err := ops.History(db, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, reg *registry.Registry, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Generate source trees for a project, or for a composition piped via stdin",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Project name"},
			&cli.StringFlag{Name: "targets", Aliases: []string{"t"}, Usage: "Comma-separated target platforms (default: the composition's own)"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Write generated files under this directory"},
			&cli.BoolFlag{Name: "summary", Usage: "Print per-target summaries instead of file contents"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ExportInput{
				OutDir: c.String("out"),
			}

			if targets := c.String("targets"); targets != "" {
				input.Targets = splitList(targets)
			}

			// Composition piped via stdin takes precedence over addressing
			if stdinHasData() {
				comp, err := readComposition()
				if err != nil {
					return outputError(err)
				}
				input.Composition = comp
			} else if c.NArg() > 0 {
				input.ID = c.Args().First()
			} else {
				input.Name = c.String("name")
			}

			output, err := ops.Export(c.Context, db, reg, cfg, input)
			if err != nil {
				return outputError(err)
			}

			// With --out or --summary, print the per-target reports only.
			// Otherwise dump the full results including file contents.
			if c.String("out") != "" || c.Bool("summary") {
				return outputJSON(output)
			}
			return outputJSON(output.Results)
		},
	}
}

// serveCmd creates the serve command for the web dashboard.
func serveCmd(db *sql.DB, reg *registry.Registry, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 7414, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, reg, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if sErr, ok := err.(*errors.StudioError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
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

// readComposition reads and decodes a composition JSON document from stdin.
func readComposition() (*capsule.ProjectComposition, error) {
	if !stdinHasData() {
		return nil, errors.NewInvalidRequest("composition JSON must be piped via stdin")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	var comp capsule.ProjectComposition
	if err := json.Unmarshal(data, &comp); err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid composition JSON: %v", err))
	}
	return &comp, nil
}

// splitList splits a comma-separated string into trimmed parts.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
