package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/noticeboard/internal/core/notice"
	"github.com/colonyops/noticeboard/internal/core/styles"
)

const previewFallbackWidth = 80

type PreviewCmd struct {
	flags *Flags

	// flags
	id string
}

// NewPreviewCmd creates a new preview command
func NewPreviewCmd(flags *Flags) *PreviewCmd {
	return &PreviewCmd{flags: flags}
}

// Register adds the preview command to the application
func (cmd *PreviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "preview",
		Usage:     "Render configured notices in the terminal",
		UsageText: "noticeboard preview [--id notice-id]",
		Description: `Renders each configured notice with its style color so content can be
checked without a running server. Markdown-authored notices are rendered
with glamour; inline HTML notices are shown as-is.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "id",
				Usage:       "preview only the notice with this id",
				Destination: &cmd.id,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *PreviewCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config

	width := previewFallbackWidth
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}

	shown := 0
	for _, nc := range cfg.Notices {
		if cmd.id != "" && nc.ID != cmd.id {
			continue
		}
		shown++

		style := notice.Style(nc.Style)
		if style == "" {
			style = notice.StyleInfo
		}

		body := strings.TrimSpace(nc.Content)
		if nc.ContentMD != "" {
			rendered, err := renderer.Render(nc.ContentMD)
			if err != nil {
				return fmt.Errorf("render notice %q: %w", nc.ID, err)
			}
			body = strings.TrimSpace(rendered)
		}

		header := fmt.Sprintf("%s %s", styles.Badge(style), styles.Muted.Render(nc.ID))
		fmt.Println(header)
		fmt.Println(styles.NoticeBox(style, width-2).Render(body))
		fmt.Println()
	}

	if shown == 0 {
		if cmd.id != "" {
			return fmt.Errorf("no notice with id %q", cmd.id)
		}
		fmt.Fprintf(os.Stderr, "No notices configured\n")
	}

	return nil
}
