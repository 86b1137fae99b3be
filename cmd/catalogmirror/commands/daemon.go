package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/catalogmirror/internal/config"
	"git.home.luguber.info/inful/catalogmirror/internal/daemon"
)

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct {
	Listen string `help:"Admin HTTP listen address (overrides admin.listen)"`
}

func (d *DaemonCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if d.Listen != "" {
		cfg.Admin.Listen = d.Listen
	}
	return RunDaemon(cfg)
}

// RunDaemon runs the daemon until SIGINT/SIGTERM or until it closes itself
// after a relocation or an accepted restart.
func RunDaemon(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d, err := daemon.New(cfg, daemon.RuntimeOptions{})
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}
	slog.Info("Starting daemon mode", slog.String("state_dir", cfg.StateDir))
	if err := d.Run(ctx); err != nil {
		return err
	}
	slog.Info("Daemon stopped")
	return nil
}
