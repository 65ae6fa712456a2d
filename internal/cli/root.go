// Package cli is the chronocraft command line. With no subcommand it starts
// the terminal game; the subcommands inspect or adjust the saved profile
// without opening the UI.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"chronocraft/internal/config"
	"chronocraft/internal/profile"
	"chronocraft/internal/runlog"
	"chronocraft/internal/session"
	"chronocraft/internal/storage"

	"github.com/spf13/cobra"
)

const Version = "0.2.0"

// options holds the persistent flags.
type options struct {
	configPath string
	dbPath     string
	key        string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "chronocraft",
		Short:         "ChronoCraft: an idle dungeon battler for the terminal",
		Long:          "ChronoCraft is a single-player idle battler. Run dungeons, level up, collect artifacts.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, opts)
		},
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/chronocraft/config.yaml)")
	f.StringVar(&opts.dbPath, "db", "", "sqlite database path (overrides config)")
	f.StringVar(&opts.key, "key", "", "profile key (overrides config)")
	f.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	cmd.AddCommand(
		newPlayCmd(opts),
		newStatusCmd(opts),
		newClaimCmd(opts),
		newArtifactsCmd(opts),
		newHistoryCmd(opts),
		newResetCmd(opts),
	)
	return cmd
}

// Execute runs the command line and exits non-zero on error.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styleBad.Render(iconError+" "+err.Error()))
		os.Exit(1)
	}
}

// env is everything a command needs once flags and config are resolved.
type env struct {
	cfg     config.Config
	store   *storage.Store
	history *runlog.Log
	logger  *slog.Logger
}

// loadConfig reads the config file and applies flag overrides.
func (o *options) loadConfig() (config.Config, error) {
	path := o.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	if o.key != "" {
		cfg.ProfileKey = o.key
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg, cfg.Validate()
}

// open resolves the config and opens the store. Logs go to logOut.
func (o *options) open(ctx context.Context, logOut io.Writer) (*env, func(), error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return openEnv(ctx, cfg, logOut)
}

func openEnv(ctx context.Context, cfg config.Config, logOut io.Writer) (*env, func(), error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))

	store, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	e := &env{
		cfg:     cfg,
		store:   store,
		history: runlog.New(cfg.DataDir, logger),
		logger:  logger,
	}
	cleanup := func() {
		_ = store.Close()
	}
	return e, cleanup, nil
}

// player is the name run history records for the configured profile.
func (e *env) player() string { return profile.PlayerFor(e.cfg.ProfileKey) }

func (e *env) session(ctx context.Context) (*session.Session, error) {
	return session.Open(ctx, session.Options{
		Key:     e.cfg.ProfileKey,
		Player:  e.player(),
		Store:   e.store,
		History: e.history,
		Logger:  e.logger,
		MaxTier: e.cfg.MaxTier,
	})
}
