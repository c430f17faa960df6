package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/colonyops/noticeboard/internal/core/logging"
)

// debounceWindow absorbs the bursts of events editors emit on save.
const debounceWindow = 250 * time.Millisecond

// Watch reloads the config file on change and calls onReload with each valid
// new configuration. Invalid configs are logged and skipped, keeping the last
// good one active. The watch directory rather than the file itself is
// watched so atomic rename-on-save still triggers.
func Watch(ctx context.Context, configPath, dataDir string, onReload func(*Config)) error {
	log := logging.Component("config-watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		return err
	}

	var (
		debounce *time.Timer
		fire     = make(chan struct{}, 1)
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(configPath) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceWindow, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			cfg, err := Load(configPath, dataDir)
			if err != nil {
				log.Warn().Err(err).Msg("config reload failed, keeping previous config")
				continue
			}
			log.Info().Int("notices", len(cfg.Notices)).Msg("config reloaded")
			onReload(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("config watcher error")
		}
	}
}
