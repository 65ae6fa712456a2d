// Package session owns one player's game: the profile, the run controller,
// the battle log and the UI selections. Every intent from a presentation
// layer goes through a Session, which saves the profile after each change.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"chronocraft/internal/dungeon"
	"chronocraft/internal/economy"
	"chronocraft/internal/profile"
	"chronocraft/internal/progression"
	"chronocraft/internal/runlog"
)

// Tab is a screen of the game.
type Tab string

const (
	TabBattle    Tab = "battle"
	TabTown      Tab = "town"
	TabUpgrades  Tab = "upgrades"
	TabShop      Tab = "shop"
	TabArtifacts Tab = "artifacts"
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabBattle, TabTown, TabUpgrades, TabShop, TabArtifacts}

const idleStatus = "Pick a tier and start a run."

// Options configures a Session.
type Options struct {
	Key     string        // storage key of the profile
	Player  string        // name recorded in the run history
	Store   profile.Blobs // required
	History *runlog.Log   // optional
	Logger  *slog.Logger
	Rand    *rand.Rand
	Now     func() time.Time
	MaxTier int
}

// Session is a single player's game. It is not safe for concurrent use.
type Session struct {
	key     string
	player  string
	store   profile.Blobs
	history *runlog.Log
	logger  *slog.Logger
	rng     *rand.Rand
	now     func() time.Time
	maxTier int

	profile   *profile.Profile
	ctrl      *dungeon.Controller
	battleLog []string
	status    string
	tier      int
	tab       Tab
}

// Snapshot is a read-only copy of everything a renderer needs.
type Snapshot struct {
	Profile *profile.Profile
	Run     *dungeon.Run // nil when no run is active
	Log     []string
	Status  string
	Tier    int
	MaxTier int
	Tab     Tab
}

// Open loads the profile for opts.Key and returns a ready session.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("session: store is required")
	}
	if opts.Key == "" {
		opts.Key = profile.DefaultKey
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxTier < 1 {
		opts.MaxTier = 1
	}

	p, err := profile.Load(ctx, opts.Store, opts.Key, opts.Logger)
	if err != nil {
		return nil, err
	}
	s := &Session{
		key:     opts.Key,
		player:  opts.Player,
		store:   opts.Store,
		history: opts.History,
		logger:  opts.Logger.With("profile", opts.Key),
		rng:     opts.Rand,
		now:     opts.Now,
		maxTier: opts.MaxTier,
		profile: p,
		ctrl:    dungeon.NewController(opts.Rand),
		status:  idleStatus,
		tier:    1,
		tab:     TabBattle,
	}
	return s, nil
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Profile: s.profile.Clone(),
		Run:     s.ctrl.Active(),
		Log:     append([]string(nil), s.battleLog...),
		Status:  s.status,
		Tier:    s.tier,
		MaxTier: s.maxTier,
		Tab:     s.tab,
	}
}

// InRun reports whether a run is active.
func (s *Session) InRun() bool { return s.ctrl.Active() != nil }

// SelectTier sets the tier used by the next run, clamped to [1, MaxTier].
func (s *Session) SelectTier(tier int) int {
	s.tier = max(1, min(s.maxTier, tier))
	return s.tier
}

// SelectTab switches the visible tab.
func (s *Session) SelectTab(tab Tab) error {
	for _, t := range Tabs {
		if t == tab {
			s.tab = tab
			return nil
		}
	}
	return fmt.Errorf("unknown tab %q", tab)
}

// StartRun begins a run at tier. The battle log is cleared.
func (s *Session) StartRun(ctx context.Context, tier int) (dungeon.Result, error) {
	res, err := s.ctrl.Start(s.profile, tier)
	if err != nil {
		return res, err
	}
	s.battleLog = s.battleLog[:0]
	s.record(res)
	s.logger.Info("run started", "tier", tier, "run", res.Run.ID)
	return res, s.save(ctx)
}

// Attack plays one combat turn.
func (s *Session) Attack(ctx context.Context, useSkill bool) (dungeon.Result, error) {
	res, err := s.ctrl.Attack(s.profile, useSkill)
	if err != nil {
		return res, err
	}
	s.record(res)
	return res, s.save(ctx)
}

// Flee abandons the active run.
func (s *Session) Flee(ctx context.Context) (dungeon.Result, error) {
	res, err := s.ctrl.Flee(s.profile)
	if err != nil {
		return res, err
	}
	s.record(res)
	return res, s.save(ctx)
}

// ClaimOfflineReward grants the periodic reward.
func (s *Session) ClaimOfflineReward(ctx context.Context) (economy.OfflineReward, error) {
	r, err := economy.ClaimOffline(s.profile, s.now())
	if err != nil {
		return r, err
	}
	return r, s.save(ctx)
}

// BuyUpgrade spends gold on a stat upgrade.
func (s *Session) BuyUpgrade(ctx context.Context, kind economy.UpgradeKind, cost int) error {
	if err := economy.BuyUpgrade(s.profile, kind, cost); err != nil {
		return err
	}
	return s.save(ctx)
}

// BuyArtifact grants a random artifact.
func (s *Session) BuyArtifact(ctx context.Context) (progression.ArtifactDef, error) {
	def := economy.BuyArtifact(s.profile, s.rng)
	s.logger.Info("artifact acquired", "artifact", def.ID)
	return def, s.save(ctx)
}

// BuyCrystals grants purchased crystals.
func (s *Session) BuyCrystals(ctx context.Context, amount int) error {
	economy.BuyCrystals(s.profile, amount)
	return s.save(ctx)
}

// ExchangeCrystalsForGold trades crystals for gold.
func (s *Session) ExchangeCrystalsForGold(ctx context.Context, cost, gain int) error {
	if err := economy.ExchangeCrystalsForGold(s.profile, cost, gain); err != nil {
		return err
	}
	return s.save(ctx)
}

// BuyEnergyWithCrystals trades crystals for energy.
func (s *Session) BuyEnergyWithCrystals(ctx context.Context, cost, gain int) error {
	if err := economy.BuyEnergyWithCrystals(s.profile, cost, gain); err != nil {
		return err
	}
	return s.save(ctx)
}

// Reset discards the profile and any active run, and deletes the stored
// record.
func (s *Session) Reset(ctx context.Context) error {
	s.profile = profile.Default()
	s.ctrl = dungeon.NewController(s.rng)
	s.battleLog = nil
	s.status = idleStatus
	return profile.Remove(ctx, s.store, s.key)
}

// record appends res to the battle log, updates the status line and writes
// the run history when the run ended.
func (s *Session) record(res dungeon.Result) {
	s.battleLog = append(s.battleLog, res.Log...)

	switch res.Outcome {
	case dungeon.OutcomeNone:
		r := res.Run
		s.status = fmt.Sprintf("Tier %d, room %d/%d. Enemy HP: %d.", r.Tier, r.Room, r.RoomsTotal(), max(0, r.EnemyHealth))
		return
	case dungeon.OutcomeVictory:
		s.status = "Run complete! Start a new one whenever you like."
	default:
		s.status = "You fell in the dungeon. The reward was cut short, but experience is progress too."
	}

	r := res.Run
	s.logger.Info("run finished", "run", r.ID, "tier", r.Tier, "outcome", res.Outcome.String(),
		"room", r.Room, "gold", r.GoldEarned, "exp", r.ExpEarned)
	if s.history != nil {
		s.history.Append(runlog.Entry{
			ID:          r.ID,
			Player:      s.player,
			Timestamp:   s.now(),
			Duration:    s.now().Sub(r.StartedAt).Seconds(),
			Tier:        r.Tier,
			RoomsTotal:  r.RoomsTotal(),
			RoomReached: r.Room,
			Outcome:     res.Outcome.String(),
			GoldEarned:  r.GoldEarned,
			ExpEarned:   r.ExpEarned,
			DamageDealt: r.DamageDealt,
			DamageTaken: r.DamageTaken,
			LevelAfter:  s.profile.Level,
		})
	}
}

func (s *Session) save(ctx context.Context) error {
	if err := profile.Save(ctx, s.store, s.key, s.profile); err != nil {
		s.logger.Error("profile save failed", "error", err)
		return err
	}
	return nil
}
