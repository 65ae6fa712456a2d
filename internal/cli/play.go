package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"chronocraft/internal/ui"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
)

const logFileName = "chronocraft.log"

func newPlayCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Start the terminal game (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, opts)
		},
	}
}

// runPlay opens the full-screen UI. Logs go to a file in the data dir so
// they never draw over the screen.
func runPlay(cmd *cobra.Command, opts *options) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(cfg.DataDir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, cleanup, err := openEnv(ctx, cfg, logFile)
	if err != nil {
		return err
	}
	defer cleanup()

	sess, err := e.session(ctx)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	e.logger.Info("game started", "profile", e.cfg.ProfileKey)
	err = ui.New(screen, sess, e.cfg.Shop, e.logger).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
