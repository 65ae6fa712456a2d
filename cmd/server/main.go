// chronocraft-server serves the terminal game over SSH. Every SSH user gets
// their own saved hero. Build:
//
//	go build -o chronocraft-server ./cmd/server
//
// Usage:
//
//	./chronocraft-server [--port 2222] [--key server_host_key] [--config path]
//
// Connect:
//
//	ssh -t -p 2222 alice@localhost
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"unicode"

	"chronocraft/internal/config"
	"chronocraft/internal/profile"
	"chronocraft/internal/runlog"
	"chronocraft/internal/session"
	internalssh "chronocraft/internal/ssh"
	"chronocraft/internal/storage"
	"chronocraft/internal/ui"

	gossh "github.com/gliderlabs/ssh"
	xssh "golang.org/x/crypto/ssh"
)

// maxNameBytes bounds the SSH user name used in profile keys.
const maxNameBytes = 16

func main() {
	port := flag.Int("port", 0, "SSH server port (overrides config)")
	keyFile := flag.String("key", "", "Path to the PEM-encoded host key, auto-generated if absent (overrides config)")
	cfgPath := flag.String("config", "", "Config file (default $XDG_CONFIG_HOME/chronocraft/config.yaml)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(*cfgPath, *port, *keyFile, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfgPath string, port int, keyFile string, logger *slog.Logger) error {
	if cfgPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.SSH.Port = port
	}
	if keyFile != "" {
		cfg.SSH.HostKey = keyFile
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	if n, err := countProfiles(ctx, store); err != nil {
		logger.Warn("could not count saved profiles", "error", err)
	} else {
		logger.Info("profiles loaded", "count", n)
	}

	signer, err := loadOrCreateHostKey(cfg.SSH.HostKey, logger)
	if err != nil {
		return err
	}

	h := &handler{cfg: cfg, store: store, history: runlog.New(cfg.DataDir, logger), logger: logger}
	srv := &gossh.Server{
		Addr:    fmt.Sprintf(":%d", cfg.SSH.Port),
		Handler: h.handleSession,
		// Accept PTY requests from any client.
		PtyCallback: func(_ gossh.Context, _ gossh.Pty) bool { return true },
		// Any user name is accepted; it only selects which hero is loaded.
		HostSigners: []gossh.Signer{signer},
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	logger.Info("chronocraft SSH server listening", "port", cfg.SSH.Port, "db", cfg.DBPath)
	logger.Info(fmt.Sprintf("connect with: ssh -t -p %d <name>@localhost", cfg.SSH.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, gossh.ErrServerClosed) {
		return err
	}
	return nil
}

// handler serves one game per SSH connection. All connections share the
// store; two connections of the same user are last-writer-wins.
type handler struct {
	cfg     config.Config
	store   *storage.Store
	history *runlog.Log
	logger  *slog.Logger
}

// handleSession blocks for the lifetime of the connection.
func (h *handler) handleSession(s gossh.Session) {
	name := playerName(s.User())
	logger := h.logger.With("player", name, "remote", s.RemoteAddr().String())

	screen, err := internalssh.NewScreen(s)
	if errors.Is(err, internalssh.ErrNoPTY) {
		fmt.Fprintf(s, "This game requires a PTY. Connect with: ssh -t -p %d <host>\n", h.cfg.SSH.Port)
		return
	}
	if err != nil {
		fmt.Fprintf(s, "Terminal setup failed: %v\n", err)
		return
	}
	defer screen.Fini()

	ctx := s.Context()
	sess, err := session.Open(ctx, h.sessionOptions(name, logger))
	if err != nil {
		logger.Error("open session", "error", err)
		return
	}

	logger.Info("player connected")
	if err := ui.New(screen, sess, h.cfg.Shop, logger).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("session ended with error", "error", err)
	}
	logger.Info("player disconnected")
}

// sessionOptions stores the hero under the player's profile key and records
// runs under the bare name.
func (h *handler) sessionOptions(name string, logger *slog.Logger) session.Options {
	return session.Options{
		Key:     profile.KeyFor(name),
		Player:  name,
		Store:   h.store,
		History: h.history,
		Logger:  logger,
		MaxTier: h.cfg.MaxTier,
	}
}

// countProfiles is the number of heroes saved in store.
func countProfiles(ctx context.Context, store *storage.Store) (int, error) {
	keys, err := store.Keys(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, k := range keys {
		if profile.IsProfileKey(k) {
			n++
		}
	}
	return n, nil
}

// sanitizeName strips control characters and truncates to maxNameBytes
// without splitting a multi-byte rune.
func sanitizeName(s string) string {
	out := make([]rune, 0, len(s))
	n := 0
	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		size := len(string(r))
		if n+size > maxNameBytes {
			break
		}
		out = append(out, r)
		n += size
	}
	return string(out)
}

// playerName is the sanitised SSH user, or "guest".
func playerName(user string) string {
	if name := sanitizeName(user); name != "" {
		return name
	}
	return "guest"
}

// loadOrCreateHostKey loads a PEM private key from path, or generates and
// persists a new ed25519 key if the file is absent or unreadable.
func loadOrCreateHostKey(path string, logger *slog.Logger) (gossh.Signer, error) {
	if data, err := os.ReadFile(path); err == nil {
		if signer, err := xssh.ParsePrivateKey(data); err == nil {
			logger.Info("loaded host key", "path", path)
			return signer, nil
		}
	}

	logger.Info("generating new ed25519 host key", "path", path)
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate host key: %w", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}
	// Persisting is best effort; a new key next start only upsets known_hosts.
	if block, err := xssh.MarshalPrivateKey(key, "chronocraft server"); err == nil {
		if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
			logger.Warn("could not save host key", "path", path, "error", err)
		}
	}
	return signer, nil
}
