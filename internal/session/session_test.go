package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"chronocraft/internal/dungeon"
	"chronocraft/internal/economy"
	"chronocraft/internal/profile"
	"chronocraft/internal/runlog"
	"chronocraft/internal/storage"
)

type fixture struct {
	s     *Session
	store *storage.Store
	hist  *runlog.Log
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	store, err := storage.Open(ctx, filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		store: store,
		hist:  runlog.New(dir, logger),
		clock: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	s, err := Open(ctx, Options{
		Key:     profile.KeyFor("alice"),
		Player:  "alice",
		Store:   store,
		History: f.hist,
		Logger:  logger,
		Rand:    rand.New(rand.NewSource(7)),
		Now:     func() time.Time { return f.clock },
		MaxTier: 3,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f.s = s
	return f
}

// stored reloads the profile the way a fresh session would see it.
func (f *fixture) stored(t *testing.T) *profile.Profile {
	t.Helper()
	p, err := profile.Load(context.Background(), f.store, profile.KeyFor("alice"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("profile.Load: %v", err)
	}
	return p
}

func TestOpenDefaults(t *testing.T) {
	f := newFixture(t)
	snap := f.s.Snapshot()
	if snap.Tier != 1 || snap.Tab != TabBattle || snap.Run != nil {
		t.Errorf("unexpected initial snapshot: %+v", snap)
	}
	if snap.Profile.Gold != 300 || snap.Status != idleStatus {
		t.Errorf("profile gold = %d, status = %q", snap.Profile.Gold, snap.Status)
	}
}

func TestOpenRequiresStore(t *testing.T) {
	if _, err := Open(context.Background(), Options{}); err == nil {
		t.Error("expected error without a store")
	}
}

func TestSelectTierClamps(t *testing.T) {
	f := newFixture(t)
	cases := []struct{ in, want int }{{0, 1}, {2, 2}, {9, 3}, {-4, 1}}
	for _, tc := range cases {
		if got := f.s.SelectTier(tc.in); got != tc.want {
			t.Errorf("SelectTier(%d) = %d; want %d", tc.in, got, tc.want)
		}
	}
}

func TestSelectTab(t *testing.T) {
	f := newFixture(t)
	if err := f.s.SelectTab(TabShop); err != nil {
		t.Fatalf("SelectTab: %v", err)
	}
	if f.s.Snapshot().Tab != TabShop {
		t.Error("tab not switched")
	}
	if err := f.s.SelectTab("casino"); err == nil {
		t.Error("expected error for unknown tab")
	}
	if f.s.Snapshot().Tab != TabShop {
		t.Error("failed switch must keep the current tab")
	}
}

func TestStartRunSavesEnergy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.s.StartRun(ctx, 1); err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if !f.s.InRun() {
		t.Fatal("expected an active run")
	}
	if got := f.stored(t).Energy; got != 4 {
		t.Errorf("stored energy = %d; want 4", got)
	}
	if _, err := f.s.StartRun(ctx, 1); !errors.Is(err, dungeon.ErrRunActive) {
		t.Errorf("second start: got %v; want ErrRunActive", err)
	}
}

func TestVictoryWritesHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.s.profile.Attack = 500

	if _, err := f.s.StartRun(ctx, 1); err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	var res dungeon.Result
	for i := 0; i < 4; i++ {
		var err error
		if res, err = f.s.Attack(ctx, false); err != nil {
			t.Fatalf("Attack %d: %v", i, err)
		}
	}
	if res.Outcome != dungeon.OutcomeVictory {
		t.Fatalf("outcome = %v; want victory", res.Outcome)
	}
	if f.s.InRun() {
		t.Error("run should be cleared after victory")
	}
	if got := f.stored(t).Stats.Wins; got != 1 {
		t.Errorf("stored wins = %d; want 1", got)
	}

	entries, err := f.hist.Recent("alice", 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d history entries; want 1", len(entries))
	}
	e := entries[0]
	if e.Outcome != "victory" || e.RoomReached != 4 || e.RoomsTotal != 4 || e.Tier != 1 {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.ID != res.Run.ID {
		t.Errorf("entry id %v does not match run %v", e.ID, res.Run.ID)
	}
}

func TestFleeRecordsLoss(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.s.Flee(ctx); !errors.Is(err, dungeon.ErrNoRun) {
		t.Errorf("flee while idle: got %v; want ErrNoRun", err)
	}
	if _, err := f.s.StartRun(ctx, 2); err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if _, err := f.s.Flee(ctx); err != nil {
		t.Fatalf("Flee: %v", err)
	}
	if got := f.stored(t).Stats.Losses; got != 1 {
		t.Errorf("stored losses = %d; want 1", got)
	}
	entries, _ := f.hist.Recent("alice", 0)
	if len(entries) != 1 || entries[0].Outcome != "fled" {
		t.Errorf("history = %+v", entries)
	}
}

func TestNewRunClearsBattleLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.s.StartRun(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := f.s.Attack(ctx, true); err != nil {
		t.Fatal(err)
	}
	if _, err := f.s.Flee(ctx); err != nil {
		t.Fatal(err)
	}
	if len(f.s.Snapshot().Log) < 3 {
		t.Fatalf("expected accumulated log, got %v", f.s.Snapshot().Log)
	}
	res, err := f.s.StartRun(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := f.s.Snapshot().Log; len(got) != len(res.Log) {
		t.Errorf("log after new run = %v; want only %v", got, res.Log)
	}
}

func TestClaimOfflineCooldown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.s.ClaimOfflineReward(ctx); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if _, err := f.s.ClaimOfflineReward(ctx); !errors.Is(err, economy.ErrTooSoon) {
		t.Errorf("second claim: got %v; want ErrTooSoon", err)
	}
	f.clock = f.clock.Add(economy.OfflineCooldown)
	if _, err := f.s.ClaimOfflineReward(ctx); err != nil {
		t.Errorf("claim after cooldown: %v", err)
	}
	if got := f.stored(t).Gold; got != 300+2*economy.OfflineGold {
		t.Errorf("stored gold = %d", got)
	}
}

func TestFailedPurchaseDoesNotSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	err := f.s.ExchangeCrystalsForGold(ctx, 10, 500)
	if !errors.Is(err, profile.ErrInsufficientResource) {
		t.Fatalf("got %v; want ErrInsufficientResource", err)
	}
	if _, err := f.store.Get(ctx, profile.KeyFor("alice")); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("nothing should be stored yet, got %v", err)
	}
}

func TestShopFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.s.BuyCrystals(ctx, 50); err != nil {
		t.Fatal(err)
	}
	if err := f.s.ExchangeCrystalsForGold(ctx, 10, 500); err != nil {
		t.Fatal(err)
	}
	if err := f.s.BuyUpgrade(ctx, economy.UpgradeKindAttack, 120); err != nil {
		t.Fatal(err)
	}
	def, err := f.s.BuyArtifact(ctx)
	if err != nil {
		t.Fatal(err)
	}
	p := f.stored(t)
	if p.Crystals != 40 {
		t.Errorf("crystals = %d; want 40", p.Crystals)
	}
	if len(p.Artifacts) != 1 || p.Artifacts[0].ID != def.ID {
		t.Errorf("artifacts = %+v; want %s", p.Artifacts, def.ID)
	}
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.s.StartRun(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := f.s.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if f.s.InRun() || len(f.s.Snapshot().Log) != 0 {
		t.Error("reset should drop the run and the log")
	}
	if _, err := f.store.Get(ctx, profile.KeyFor("alice")); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("stored record after reset: got %v, want ErrNotFound", err)
	}
	if got := f.stored(t).Energy; got != 5 {
		t.Errorf("stored energy = %d; want 5", got)
	}
	if got := f.s.Snapshot().Profile.Gold; got != 300 {
		t.Errorf("gold = %d; want 300", got)
	}
}
