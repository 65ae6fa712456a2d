package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"chronocraft/internal/config"
	"chronocraft/internal/profile"
	"chronocraft/internal/runlog"
	"chronocraft/internal/session"
	"chronocraft/internal/storage"
)

func newTestHandler(t *testing.T) *handler {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.Open(context.Background(), filepath.Join(dir, "server.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &handler{cfg: config.Default(), store: store, history: runlog.New(dir, logger), logger: logger}
}

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		expect string
	}{
		{"normal short name", "Alice", "Alice"},
		{"exactly 16 chars", "1234567890123456", "1234567890123456"},
		{"long name truncated", "ThisIsAVeryLongUsername", "ThisIsAVeryLongU"},
		{"control chars stripped", "he\x00ll\x1bo", "hello"},
		{"empty input", "", ""},
		{"pure control chars", "\x00\x01\x02\x1b", ""},
		{"multi-byte runes cut on a rune boundary", "日本語のテスト名前", "日本語のテ"},
		{"tabs stripped", "hello\tworld", "helloworld"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sanitizeName(tc.input)
			if got != tc.expect {
				t.Errorf("sanitizeName(%q) = %q, want %q", tc.input, got, tc.expect)
			}
		})
	}
}

func TestPlayerNameFallsBackToGuest(t *testing.T) {
	if got := playerName("\x1b\x00"); got != "guest" {
		t.Errorf("playerName = %q, want guest", got)
	}
	if got := playerName("bob"); got != "bob" {
		t.Errorf("playerName = %q, want bob", got)
	}
}

func TestHostKeyPersistsAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host_key")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	first, err := loadOrCreateHostKey(path, logger)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := loadOrCreateHostKey(path, logger)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !bytes.Equal(first.PublicKey().Marshal(), second.PublicKey().Marshal()) {
		t.Error("reloaded host key differs from the generated one")
	}
}

func TestSessionHistoryRecordsPlayerName(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()
	opts := h.sessionOptions("alice", h.logger)
	if opts.Key != "chronocraft_demo_v2:alice" || opts.Player != "alice" {
		t.Fatalf("options key=%q player=%q", opts.Key, opts.Player)
	}

	sess, err := session.Open(ctx, opts)
	if err != nil {
		t.Fatalf("session.Open: %v", err)
	}
	if _, err := sess.StartRun(ctx, 1); err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if _, err := sess.Flee(ctx); err != nil {
		t.Fatalf("Flee: %v", err)
	}

	entries, err := h.history.Recent("", 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 || entries[0].Player != "alice" {
		t.Errorf("history = %+v; want one run by alice", entries)
	}
	if _, err := h.store.Get(ctx, profile.KeyFor("alice")); err != nil {
		t.Errorf("profile not stored under its key: %v", err)
	}
}

func TestCountProfiles(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()
	if n, err := countProfiles(ctx, h.store); err != nil || n != 0 {
		t.Fatalf("empty store: n=%d err=%v", n, err)
	}
	for _, k := range []string{profile.DefaultKey, profile.KeyFor("alice"), profile.KeyFor("bob"), "unrelated"} {
		if err := h.store.Put(ctx, k, []byte("{}")); err != nil {
			t.Fatalf("Put %q: %v", k, err)
		}
	}
	n, err := countProfiles(ctx, h.store)
	if err != nil {
		t.Fatalf("countProfiles: %v", err)
	}
	if n != 3 {
		t.Errorf("count = %d; want 3", n)
	}
}
