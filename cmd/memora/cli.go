package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/memora-app/memora/internal/capsule"
	"github.com/memora-app/memora/internal/config"
	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/ops"
	"github.com/memora-app/memora/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "memora",
		Usage:   "Personal memory vault with AI capsules",
		Version: Version,
		Commands: []*cli.Command{
			addCmd(db, cfg),
			getCmd(db, cfg),
			listCmd(db, cfg),
			updateCmd(db, cfg),
			deleteCmd(db, cfg),
			capsuleCmd(db, cfg),
			infoCmd(db, cfg),
			exportCmd(db, cfg),
			serveCmd(db, cfg),
			tokenCmd(cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// addCmd creates the add command.
func addCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a new memory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Memory title (required)"},
			&cli.StringFlag{Name: "type", Value: "note", Usage: "Memory type: note|photo|audio|video"},
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "Note text or a content reference (required)"},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Longer description (optional)"},
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags"},
			&cli.StringFlag{Name: "date", Usage: "When the memory occurred (YYYY-MM-DD or Unix seconds; default now)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.CreateInput{
				UserID:  cfg.DefaultUser,
				Title:   c.String("title"),
				Type:    c.String("type"),
				Content: c.String("content"),
			}

			if desc := c.String("description"); desc != "" {
				input.Description = &desc
			}
			if tags := c.String("tags"); tags != "" {
				input.Tags = parseTags(tags)
			}
			if c.IsSet("date") {
				ts, err := parseDate(c.String("date"))
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.Date = &ts
			}

			output, err := ops.Create(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// getCmd creates the get command.
func getCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Fetch a memory by ID",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Fetch(db, ops.FetchInput{
				UserID: cfg.DefaultUser,
				ID:     c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List memories, most recent first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Page size (default 20, max 100)"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Number of memories to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(db, ops.ListInput{
				UserID: cfg.DefaultUser,
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// updateCmd creates the update command.
func updateCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update fields of an existing memory",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "New title"},
			&cli.StringFlag{Name: "type", Usage: "New type: note|photo|audio|video"},
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "New content"},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "New description"},
			&cli.StringFlag{Name: "tags", Usage: "New comma-separated tags"},
			&cli.StringFlag{Name: "date", Usage: "New occurrence date (YYYY-MM-DD or Unix seconds)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.UpdateInput{
				UserID: cfg.DefaultUser,
				ID:     c.Args().First(),
			}

			if c.IsSet("title") {
				title := c.String("title")
				input.Title = &title
			}
			if c.IsSet("type") {
				typ := c.String("type")
				input.Type = &typ
			}
			if c.IsSet("content") {
				content := c.String("content")
				input.Content = &content
			}
			if c.IsSet("description") {
				desc := c.String("description")
				input.Description = &desc
			}
			if c.IsSet("tags") {
				tags := parseTags(c.String("tags"))
				input.Tags = &tags
			}
			if c.IsSet("date") {
				ts, err := parseDate(c.String("date"))
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.Date = &ts
			}

			output, err := ops.Update(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a memory permanently",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(db, ops.DeleteInput{
				UserID: cfg.DefaultUser,
				ID:     c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// capsuleCmd creates the capsule command.
func capsuleCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "capsule",
		Usage: "Generate an AI memory capsule from all memories",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "Output format: json|markdown"},
		},
		Action: func(c *cli.Context) error {
			format := c.String("format")
			if format != "json" && format != "markdown" {
				return outputError(errors.NewInvalidRequest("format must be json or markdown"))
			}

			client, err := buildLLMClient(cfg)
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}

			result, err := ops.GenerateCapsule(c.Context, db, client, ops.GenerateCapsuleInput{
				UserID: cfg.DefaultUser,
			})
			if err != nil {
				return outputError(err)
			}

			if format == "markdown" {
				fmt.Println(capsule.RenderMarkdown(result))
				return nil
			}
			return outputJSON(result)
		},
	}
}

// infoCmd creates the info command.
func infoCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Check whether capsule generation can proceed",
		Action: func(c *cli.Context) error {
			output, err := ops.CapsuleInfo(db, ops.CapsuleInfoInput{
				UserID: cfg.DefaultUser,
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Generate a capsule and write it to a file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Output path (default: ~/.memora/exports/capsule-<timestamp>)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "markdown", Usage: "Export format: markdown|html"},
		},
		Action: func(c *cli.Context) error {
			client, err := buildLLMClient(cfg)
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}

			homeDir, err := os.UserHomeDir()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			output, err := ops.ExportCapsule(c.Context, db, client, ops.ExportCapsuleInput{
				UserID:  cfg.DefaultUser,
				BaseDir: filepath.Join(homeDir, ".memora"),
				Path:    c.String("path"),
				Format:  c.String("format"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Bind address (default from config)"},
			&cli.IntFlag{Name: "port", Usage: "Port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			client, err := buildLLMClient(cfg)
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}

			serveCfg := *cfg
			if c.IsSet("bind") {
				serveCfg.Bind = c.String("bind")
			}
			if c.IsSet("port") {
				serveCfg.Port = c.Int("port")
			}

			srv := web.NewServer(db, &serveCfg, client, Version)
			if err := web.Run(srv, &serveCfg); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// tokenCmd creates the token command.
func tokenCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Issue a bearer token for the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "User ID (default from config)"},
			&cli.Int64Flag{Name: "ttl", Value: 86400, Usage: "Token lifetime in seconds"},
		},
		Action: func(c *cli.Context) error {
			if cfg.JWTSecret == "" {
				return outputError(errors.NewInvalidRequest("jwt_secret is not configured; tokens are only needed when auth is enabled"))
			}

			userID := c.String("user")
			if userID == "" {
				userID = cfg.DefaultUser
			}

			token, err := web.IssueToken(userID, cfg.JWTSecret, c.Int64("ttl"))
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			fmt.Println(token)
			return nil
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
	if mErr, ok := err.(*errors.MemoraError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", mErr.Code, mErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// parseDate accepts YYYY-MM-DD or raw Unix seconds.
func parseDate(s string) (int64, error) {
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ts, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: use YYYY-MM-DD or Unix seconds", s)
	}
	return t.Unix(), nil
}
