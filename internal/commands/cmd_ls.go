package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/noticeboard/internal/core/notice"
)

type LsCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List configured notices",
		UsageText: "noticeboard ls [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

// lsRow is the JSON shape for a single notice.
type lsRow struct {
	ID          string   `json:"id"`
	Style       string   `json:"style"`
	Scope       string   `json:"scope"`
	Dismissible bool     `json:"dismissible"`
	Capability  string   `json:"capability"`
	Screens     []string `json:"screens,omitempty"`
	StorageKey  string   `json:"storage_key"`
	Disabled    bool     `json:"disabled,omitempty"`
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	configs, err := cmd.flags.Config.NoticeConfigs()
	if err != nil {
		return fmt.Errorf("build notices: %w", err)
	}

	if len(configs) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No notices configured\n")
		}
		return nil
	}

	rows := make([]lsRow, 0, len(configs))
	for _, nc := range configs {
		// Mirror the defaults the controller applies so the listing matches
		// what serve would register.
		ctrl := notice.NewController(nc, nil, nil, nil)
		frozen := ctrl.Config()

		rows = append(rows, lsRow{
			ID:          frozen.ID,
			Style:       string(frozen.Style),
			Scope:       string(frozen.Scope),
			Dismissible: frozen.Dismissible,
			Capability:  frozen.Capability,
			Screens:     frozen.Screens,
			StorageKey:  frozen.StorageKey(),
			Disabled:    ctrl.Disabled(),
		})
	}

	if cmd.jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		for _, row := range rows {
			if err := enc.Encode(row); err != nil {
				return fmt.Errorf("encode notice: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTYLE\tSCOPE\tDISMISSIBLE\tCAPABILITY\tSCREENS")
	for _, row := range rows {
		id := row.ID
		if row.Disabled {
			id += " (disabled)"
		}
		screens := strings.Join(row.Screens, ",")
		if screens == "" {
			screens = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\t%s\n", id, row.Style, row.Scope, row.Dismissible, row.Capability, screens)
	}

	return w.Flush()
}
