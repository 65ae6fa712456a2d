// Package economy implements the town: the offline reward, stat upgrades and
// the crystal shop. Every operation checks balances before it mutates
// anything.
package economy

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"chronocraft/internal/profile"
	"chronocraft/internal/progression"
)

// Offline reward.
const (
	OfflineCooldown = 3 * time.Minute
	OfflineGold     = 150
	OfflineEnergy   = 1
)

// Upgrade gains.
const (
	UpgradeHP     = 10
	UpgradeAttack = 2
	UpgradeEnergy = 1
)

var (
	ErrTooSoon        = errors.New("offline reward already claimed")
	ErrUnknownUpgrade = errors.New("unknown upgrade")
)

// CooldownError carries how long until the offline reward is available.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("offline reward already claimed, try again in %s", e.Remaining.Round(time.Second))
}

func (e *CooldownError) Is(target error) bool { return target == ErrTooSoon }

// UpgradeKind names a purchasable stat upgrade.
type UpgradeKind string

const (
	UpgradeKindHP     UpgradeKind = "hp"
	UpgradeKindAttack UpgradeKind = "atk"
	UpgradeKindEnergy UpgradeKind = "energy"
)

// ParseUpgradeKind validates a kind coming from config or the command line.
func ParseUpgradeKind(s string) (UpgradeKind, error) {
	switch k := UpgradeKind(s); k {
	case UpgradeKindHP, UpgradeKindAttack, UpgradeKindEnergy:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUpgrade, s)
}

// OfflineReward is what a successful claim granted.
type OfflineReward struct {
	Gold   int
	Energy int
}

// ClaimOffline grants the offline reward if the cooldown has elapsed.
// A profile that never claimed is always eligible.
func ClaimOffline(p *profile.Profile, now time.Time) (OfflineReward, error) {
	nowMs := now.UnixMilli()
	if p.LastOfflineClaim != 0 {
		elapsed := time.Duration(nowMs-p.LastOfflineClaim) * time.Millisecond
		if elapsed < OfflineCooldown {
			return OfflineReward{}, &CooldownError{Remaining: OfflineCooldown - elapsed}
		}
	}
	energyBefore := p.Energy
	p.LastOfflineClaim = nowMs
	p.Gold += OfflineGold
	p.AddEnergy(OfflineEnergy)
	return OfflineReward{Gold: OfflineGold, Energy: p.Energy - energyBefore}, nil
}

// BuyUpgrade spends cost gold on one stat upgrade.
func BuyUpgrade(p *profile.Profile, kind UpgradeKind, cost int) error {
	if _, err := ParseUpgradeKind(string(kind)); err != nil {
		return err
	}
	if err := p.SpendGold(cost); err != nil {
		return fmt.Errorf("upgrade %s: %w", kind, err)
	}
	switch kind {
	case UpgradeKindHP:
		p.HPMax += UpgradeHP
		p.HealFull()
	case UpgradeKindAttack:
		p.Attack += UpgradeAttack
	case UpgradeKindEnergy:
		p.EnergyMax += UpgradeEnergy
		p.Energy = p.EnergyMax
	}
	return nil
}

// BuyCrystals grants crystals. Payment happens outside the game.
func BuyCrystals(p *profile.Profile, amount int) {
	if amount > 0 {
		p.Crystals += amount
	}
}

// ExchangeCrystalsForGold trades cost crystals for gain gold.
func ExchangeCrystalsForGold(p *profile.Profile, cost, gain int) error {
	if err := p.SpendCrystals(cost); err != nil {
		return fmt.Errorf("exchange for gold: %w", err)
	}
	p.Gold += gain
	return nil
}

// BuyEnergyWithCrystals trades cost crystals for up to gain energy. Energy
// above EnergyMax is lost; the crystals are spent regardless.
func BuyEnergyWithCrystals(p *profile.Profile, cost, gain int) error {
	if err := p.SpendCrystals(cost); err != nil {
		return fmt.Errorf("buy energy: %w", err)
	}
	p.AddEnergy(gain)
	return nil
}

// BuyArtifact draws a random artifact and applies it. The demo shop gives
// artifacts away.
func BuyArtifact(p *profile.Profile, rng *rand.Rand) progression.ArtifactDef {
	def := progression.DrawArtifact(rng)
	progression.ApplyArtifact(p, def)
	return def
}
