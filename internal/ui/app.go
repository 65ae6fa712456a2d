// Package ui is the terminal front end. It renders a session.Session with
// tcell and turns key presses into session intents. The same App serves the
// local terminal and SSH clients.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"chronocraft/internal/config"
	"chronocraft/internal/dungeon"
	"chronocraft/internal/economy"
	"chronocraft/internal/profile"
	"chronocraft/internal/session"

	"github.com/gdamore/tcell/v2"
)

// offer is one purchasable line on the upgrades or shop tab.
type offer struct {
	label string
	price string
	buy   func(ctx context.Context, s *session.Session) (string, error)
}

// App drives one screen.
type App struct {
	screen tcell.Screen
	sess   *session.Session
	logger *slog.Logger
	now    func() time.Time

	upgrades []offer
	shop     []offer

	notice     string
	noticeBad  bool
	confirming bool
}

// New returns an App drawing sess onto screen. The screen must already be
// initialised.
func New(screen tcell.Screen, sess *session.Session, shop config.Shop, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		screen:   screen,
		sess:     sess,
		logger:   logger,
		now:      time.Now,
		upgrades: upgradeOffers(shop),
		shop:     shopOffers(shop),
	}
}

// Run processes events until the player quits, the screen is closed or ctx
// is cancelled.
func (a *App) Run(ctx context.Context) error {
	eventCh := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(eventCh)
				return
			}
			eventCh <- ev
		}
	}()

	for {
		a.Draw()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-eventCh:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				a.screen.Sync()
			case *tcell.EventKey:
				if a.HandleKey(ctx, ev) {
					return nil
				}
			}
		}
	}
}

// HandleKey applies one key press and reports whether the player asked to
// quit.
func (a *App) HandleKey(ctx context.Context, ev *tcell.EventKey) bool {
	if a.confirming {
		a.confirming = false
		switch ev.Rune() {
		case 'y', 'Y':
			return true
		}
		return false
	}

	snap := a.sess.Snapshot()
	in := keyToInput(ev, snap.Tab)
	if in.Action != ActionNone {
		a.notice = ""
	}

	switch in.Action {
	case ActionQuit:
		a.confirming = true
	case ActionNextTab:
		a.shiftTab(snap.Tab, 1)
	case ActionPrevTab:
		a.shiftTab(snap.Tab, -1)
	case ActionGotoTab:
		if in.Slot < len(session.Tabs) {
			_ = a.sess.SelectTab(session.Tabs[in.Slot])
		}
	case ActionStartRun:
		_, err := a.sess.StartRun(ctx, snap.Tier)
		a.report(err, "")
	case ActionAttack, ActionSkill:
		_, err := a.sess.Attack(ctx, in.Action == ActionSkill)
		a.report(err, "")
	case ActionFlee:
		_, err := a.sess.Flee(ctx)
		a.report(err, "")
	case ActionTierUp:
		a.sess.SelectTier(snap.Tier + 1)
	case ActionTierDown:
		a.sess.SelectTier(snap.Tier - 1)
	case ActionClaim:
		r, err := a.sess.ClaimOfflineReward(ctx)
		a.report(err, fmt.Sprintf("Offline reward claimed: +%d 🪙 and +%d ⚡.", r.Gold, r.Energy))
	case ActionBuy:
		list := a.offersFor(snap.Tab)
		if in.Slot >= len(list) {
			return false
		}
		msg, err := list[in.Slot].buy(ctx, a.sess)
		a.report(err, msg)
	}
	return false
}

func (a *App) shiftTab(cur session.Tab, delta int) {
	n := len(session.Tabs)
	for i, t := range session.Tabs {
		if t == cur {
			_ = a.sess.SelectTab(session.Tabs[(i+delta+n)%n])
			return
		}
	}
}

func (a *App) offersFor(tab session.Tab) []offer {
	switch tab {
	case session.TabUpgrades:
		return a.upgrades
	case session.TabShop:
		return a.shop
	}
	return nil
}

func (a *App) report(err error, ok string) {
	if err != nil {
		a.notice = describeError(err)
		a.noticeBad = true
		if !isRuleError(err) {
			a.logger.Error("action failed", "error", err)
		}
		return
	}
	a.notice = ok
	a.noticeBad = false
}

// isRuleError reports whether err is an expected refusal rather than a fault.
func isRuleError(err error) bool {
	return errors.Is(err, profile.ErrInsufficientResource) ||
		errors.Is(err, economy.ErrTooSoon) ||
		errors.Is(err, dungeon.ErrNoRun) ||
		errors.Is(err, dungeon.ErrRunActive) ||
		errors.Is(err, dungeon.ErrInvalidTier)
}

// describeError turns an action error into a player-facing sentence.
func describeError(err error) string {
	var re *profile.ResourceError
	var ce *economy.CooldownError
	switch {
	case errors.As(err, &re):
		if re.Resource == profile.ResourceEnergy {
			return "Not enough energy to enter the dungeon."
		}
		return fmt.Sprintf("Not enough %s. (need %d %s, you have %d)", re.Resource, re.Need, resourceGlyph(re.Resource), re.Have)
	case errors.As(err, &ce):
		return fmt.Sprintf("The offline reward is not ready yet. Come back in %s.", ce.Remaining.Round(time.Second))
	case errors.Is(err, dungeon.ErrRunActive):
		return "A run is already in progress."
	case errors.Is(err, dungeon.ErrNoRun):
		return "Start a run first."
	}
	return "Something went wrong: " + err.Error()
}

func resourceGlyph(r profile.Resource) string {
	switch r {
	case profile.ResourceGold:
		return "🪙"
	case profile.ResourceCrystals:
		return "💎"
	case profile.ResourceEnergy:
		return "⚡"
	}
	return ""
}

func upgradeOffers(shop config.Shop) []offer {
	var out []offer
	for _, u := range shop.Upgrades {
		kind, err := economy.ParseUpgradeKind(u.Kind)
		if err != nil {
			continue
		}
		var label string
		switch kind {
		case economy.UpgradeKindHP:
			label = fmt.Sprintf("+%d max HP", economy.UpgradeHP)
		case economy.UpgradeKindAttack:
			label = fmt.Sprintf("+%d attack", economy.UpgradeAttack)
		case economy.UpgradeKindEnergy:
			label = fmt.Sprintf("+%d max energy, refill energy", economy.UpgradeEnergy)
		}
		cost := u.Cost
		out = append(out, offer{
			label: label,
			price: fmt.Sprintf("%d 🪙", cost),
			buy: func(ctx context.Context, s *session.Session) (string, error) {
				if err := s.BuyUpgrade(ctx, kind, cost); err != nil {
					return "", err
				}
				return "Upgrade purchased: " + label + ".", nil
			},
		})
	}
	return out
}

func shopOffers(shop config.Shop) []offer {
	var out []offer
	for _, n := range shop.CrystalPacks {
		out = append(out, offer{
			label: fmt.Sprintf("Pack of %d crystals", n),
			price: "demo",
			buy: func(ctx context.Context, s *session.Session) (string, error) {
				return fmt.Sprintf("Bought %d 💎.", n), s.BuyCrystals(ctx, n)
			},
		})
	}
	for _, o := range shop.GoldExchange {
		out = append(out, offer{
			label: fmt.Sprintf("Exchange for %d gold", o.Gain),
			price: fmt.Sprintf("%d 💎", o.Cost),
			buy: func(ctx context.Context, s *session.Session) (string, error) {
				return fmt.Sprintf("Exchanged %d 💎 for %d 🪙.", o.Cost, o.Gain), s.ExchangeCrystalsForGold(ctx, o.Cost, o.Gain)
			},
		})
	}
	for _, o := range shop.EnergyExchange {
		out = append(out, offer{
			label: fmt.Sprintf("Restore %d energy", o.Gain),
			price: fmt.Sprintf("%d 💎", o.Cost),
			buy: func(ctx context.Context, s *session.Session) (string, error) {
				return fmt.Sprintf("Bought %d ⚡ for %d 💎.", o.Gain, o.Cost), s.BuyEnergyWithCrystals(ctx, o.Cost, o.Gain)
			},
		})
	}
	out = append(out, offer{
		label: "Random artifact",
		price: "demo",
		buy: func(ctx context.Context, s *session.Session) (string, error) {
			def, err := s.BuyArtifact(ctx)
			return fmt.Sprintf("You found %s [%s]!", def.Name, def.Rarity), err
		},
	})
	return out
}
