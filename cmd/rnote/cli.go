package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/rnote-app/rnote/internal/config"
	"github.com/rnote-app/rnote/internal/emotion"
	"github.com/rnote-app/rnote/internal/errors"
	"github.com/rnote-app/rnote/internal/export"
	"github.com/rnote-app/rnote/internal/list"
	"github.com/rnote-app/rnote/internal/note"
	"github.com/rnote-app/rnote/internal/session"
	"github.com/rnote-app/rnote/internal/store"
	"github.com/rnote-app/rnote/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(st *store.Store, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "rnote",
		Usage:   "Local mood journal",
		Version: Version,
		Commands: []*cli.Command{
			recordCmd(st),
			showCmd(st),
			listCmd(st),
			deleteCmd(st),
			draftCmd(st),
			exportCmd(st, cfg),
			shareCmd(st),
			webCmd(st, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// dayGroupOutput is one calendar day of notes for CLI JSON output.
type dayGroupOutput struct {
	Day   string      `json:"day"`
	Notes []note.View `json:"notes"`
}

// listOutput is the list command's JSON payload.
type listOutput struct {
	Days  []dayGroupOutput `json:"days"`
	Total int              `json:"total"`
}

// draftOutput is the draft show/save JSON payload.
type draftOutput struct {
	Draft *note.View `json:"draft"`
}

// applyEdits copies the record/draft flags onto an editing session.
func applyEdits(c *cli.Context, s *session.Session) error {
	if c.IsSet("score") {
		score := emotion.ClampScore(c.Int("score"))
		level := emotion.Lookup(score)
		s.SetEmotion(level)
		if score != level.Score {
			s.AdjustScoreBy(score - level.Score)
		}
	}
	if c.IsSet("label") {
		s.SetLabel(c.String("label"))
	}
	if c.IsSet("title") {
		s.SetTitle(c.String("title"))
	}

	// Body: --body flag, or piped stdin
	if c.IsSet("body") {
		s.SetBody(c.String("body"))
	} else if stdinHasData() {
		body, err := readStdin()
		if err != nil {
			return errors.NewInternal(err)
		}
		if body != "" {
			s.SetBody(body)
		}
	}
	return nil
}

// recordCmd creates the record command.
func recordCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:  "record",
		Usage: "Record a committed note (body from --body or piped stdin)",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "score", Aliases: []string{"s"}, Required: true, Usage: "Emotion score 0-100"},
			&cli.StringFlag{Name: "label", Aliases: []string{"l"}, Usage: "Emotion label (defaults to the scale label)"},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Note title"},
			&cli.StringFlag{Name: "body", Aliases: []string{"b"}, Usage: "Note body"},
			&cli.StringFlag{Name: "id", Usage: "Existing note id to update"},
		},
		Action: func(c *cli.Context) error {
			s := session.New(st)

			var idPtr *string
			if id := c.String("id"); id != "" {
				idPtr = &id
			}
			if err := s.Load(idPtr); err != nil {
				return outputError(err)
			}

			if err := applyEdits(c, s); err != nil {
				return outputError(err)
			}

			saved, err := s.Save()
			if err != nil {
				return outputError(err)
			}

			return outputJSON(saved.ToView())
		},
	}
}

// showCmd creates the show command.
func showCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a note by id",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("note id is required"))
			}

			n, err := st.GetByID(c.Args().First())
			if err != nil {
				return outputError(err)
			}

			return outputJSON(n.ToView())
		},
	}
}

// listCmd creates the list command.
func listCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List committed notes grouped by day, newest first",
		Action: func(c *cli.Context) error {
			notes, err := st.All()
			if err != nil {
				return outputError(err)
			}

			groups := list.GroupByDay(notes)
			days := make([]dayGroupOutput, len(groups))
			for i, g := range groups {
				days[i] = dayGroupOutput{Day: g.Day, Notes: note.ToViews(g.Notes)}
			}

			return outputJSON(listOutput{Days: days, Total: len(notes)})
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete one or more notes by id",
		ArgsUsage: "<id> [id...]",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("at least one note id is required"))
			}

			ids := c.Args().Slice()
			if err := st.DeleteMany(ids); err != nil {
				return outputError(err)
			}

			return outputJSON(map[string]any{"deleted": ids})
		},
	}
}

// draftCmd creates the draft command with its subcommands.
func draftCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:  "draft",
		Usage: "Inspect, save, or clear the single in-progress draft",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the current draft, if any",
				Action: func(c *cli.Context) error {
					draft, err := st.GetDraft()
					if err != nil {
						return outputError(err)
					}
					out := draftOutput{}
					if draft != nil {
						v := draft.ToView()
						out.Draft = &v
					}
					return outputJSON(out)
				},
			},
			{
				Name:  "save",
				Usage: "Save the given fields as the draft (body from --body or piped stdin)",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "score", Aliases: []string{"s"}, Usage: "Emotion score 0-100"},
					&cli.StringFlag{Name: "label", Aliases: []string{"l"}, Usage: "Emotion label"},
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Note title"},
					&cli.StringFlag{Name: "body", Aliases: []string{"b"}, Usage: "Note body"},
				},
				Action: func(c *cli.Context) error {
					s := session.New(st)
					if err := s.Load(nil); err != nil {
						return outputError(err)
					}

					if err := applyEdits(c, s); err != nil {
						return outputError(err)
					}

					if err := s.SaveDraft(); err != nil {
						return outputError(err)
					}

					draft, err := st.GetDraft()
					if err != nil {
						return outputError(err)
					}
					out := draftOutput{}
					if draft != nil {
						v := draft.ToView()
						out.Draft = &v
					}
					return outputJSON(out)
				},
			},
			{
				Name:  "clear",
				Usage: "Discard the current draft",
				Action: func(c *cli.Context) error {
					if err := st.ClearDrafts(); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"cleared": true})
				},
			},
		},
	}
}

// exportCmd creates the export command.
func exportCmd(st *store.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the journal export document to a JSON file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.rnote/exports/rnote_export_<timestamp>.json)"},
		},
		Action: func(c *cli.Context) error {
			notes, err := st.All()
			if err != nil {
				return outputError(err)
			}

			out, err := export.WriteFile(context.Background(), notes, cfg, export.WriteInput{
				Path: c.String("path"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(out)
		},
	}
}

// shareCmd creates the share command.
func shareCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:  "share",
		Usage: "Print the AI-chat share text for the journal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "prompt", Aliases: []string{"p"}, Required: true, Usage: "Prompt type: analysis|weekly_report|counseling"},
		},
		Action: func(c *cli.Context) error {
			promptType, err := export.ParsePromptType(c.String("prompt"))
			if err != nil {
				return outputError(err)
			}

			notes, err := st.All()
			if err != nil {
				return outputError(err)
			}

			fmt.Print(export.BuildShareText(notes, promptType))
			return nil
		},
	}
}

// webCmd creates the web command.
func webCmd(st *store.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the read-only journal viewer",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Value: 8787, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(st, cfg, Version, c.String("bind"), c.Int("port"))
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
	if noteErr, ok := err.(*errors.NoteError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", noteErr.Code, noteErr.Message), 1)
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
