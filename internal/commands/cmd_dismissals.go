package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/noticeboard/internal/data/db"
	"github.com/colonyops/noticeboard/internal/data/stores"
)

type DismissalsCmd struct {
	flags *Flags

	// flags
	key        string
	jsonOutput bool
}

// NewDismissalsCmd creates a new dismissals command
func NewDismissalsCmd(flags *Flags) *DismissalsCmd {
	return &DismissalsCmd{flags: flags}
}

// Register adds the dismissals command to the application
func (cmd *DismissalsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "dismissals",
		Usage:     "List persisted dismissed flags",
		UsageText: "noticeboard dismissals [--key storage-key] [--json]",
		Description: `Reads the dismissed flags from the database. This is a read-only
inspection tool; flags are never cleared through noticeboard.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "key",
				Usage:       "filter by storage key",
				Destination: &cmd.key,
			},
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

type dismissalRow struct {
	Key         string    `json:"key"`
	ActorID     string    `json:"actor_id,omitempty"`
	DismissedAt time.Time `json:"dismissed_at"`
}

func (cmd *DismissalsCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config

	database, err := db.Open(cfg.DataDir, db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	store := stores.NewDismissalStore(database)
	dismissals, err := store.List(ctx, cmd.key)
	if err != nil {
		return fmt.Errorf("list dismissals: %w", err)
	}

	if len(dismissals) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No dismissals recorded\n")
		}
		return nil
	}

	if cmd.jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		for _, d := range dismissals {
			row := dismissalRow{Key: d.Key, ActorID: d.ActorID, DismissedAt: d.DismissedAt}
			if err := enc.Encode(row); err != nil {
				return fmt.Errorf("encode dismissal: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tACTOR\tDISMISSED AT")
	for _, d := range dismissals {
		actor := d.ActorID
		if actor == "" {
			actor = "(global)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.Key, actor, d.DismissedAt.Format(time.RFC3339))
	}

	return w.Flush()
}
