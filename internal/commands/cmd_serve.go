package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/noticeboard/internal/core/auth"
	"github.com/colonyops/noticeboard/internal/core/config"
	"github.com/colonyops/noticeboard/internal/core/notice"
	"github.com/colonyops/noticeboard/internal/core/token"
	"github.com/colonyops/noticeboard/internal/data/db"
	"github.com/colonyops/noticeboard/internal/data/stores"
	"github.com/colonyops/noticeboard/internal/server"
)

const shutdownTimeout = 10 * time.Second

type ServeCmd struct {
	flags *Flags

	// flags
	addr  string
	watch bool
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Run the notice server",
		UsageText: "noticeboard serve [--addr host:port] [--watch]",
		Description: `Serves the dashboard shell with every configured notice and the dismiss
endpoint their embedded scripts post to. Dismissed flags are persisted to
the SQLite database in the data directory.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (overrides server.addr from config)",
				Destination: &cmd.addr,
			},
			&cli.BoolFlag{
				Name:        "watch",
				Usage:       "reload notices when the config file changes",
				Destination: &cmd.watch,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, c *cli.Command) error {
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

	lifetime, err := cfg.TokenLifetime()
	if err != nil {
		return err
	}
	tokens := token.New([]byte(cfg.Server.Secret), lifetime)
	if cfg.Server.Secret == "" {
		log.Warn().Msg("no server.secret configured; tokens will not survive restarts")
	}

	registry, directory, err := buildRegistry(cfg, store, tokens)
	if err != nil {
		return err
	}

	handler := server.NewHandler(registry, directory, cfg.Server.DismissRate, cfg.Server.DismissBurst)

	addr := cmd.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	srv := server.New(addr, handler.Routes())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return err
	}
	log.Info().Int("notices", registry.Len()).Str("addr", srv.Addr()).Msg("notice server ready")

	if cmd.watch {
		go func() {
			err := config.Watch(ctx, cmd.flags.ConfigPath, cmd.flags.DataDir, func(next *config.Config) {
				reg, dir, err := buildRegistry(next, store, tokens)
				if err != nil {
					log.Warn().Err(err).Msg("reloaded config produced no usable notices, keeping previous set")
					return
				}
				handler.Swap(reg, dir)
				log.Info().Int("notices", reg.Len()).Msg("notices reloaded")
			})
			if err != nil {
				log.Error().Err(err).Msg("config watcher stopped")
			}
		}()
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// buildRegistry assembles the controller registry and actor directory from
// configuration.
func buildRegistry(cfg *config.Config, store notice.StateStore, tokens notice.TokenSource) (*notice.Registry, *auth.Directory, error) {
	directory := auth.NewDirectory(cfg.Roles, cfg.Users)

	configs, err := cfg.NoticeConfigs()
	if err != nil {
		return nil, nil, fmt.Errorf("build notices: %w", err)
	}

	registry := notice.NewRegistry()
	for _, nc := range configs {
		controller := notice.NewController(nc, store, directory, tokens)
		if controller.Disabled() {
			log.Warn().Str("notice_id", nc.ID).Msg("notice disabled: missing id or content")
		}
		registry.Register(controller)
	}

	return registry, directory, nil
}
