// Package dungeon runs combat runs: a fixed sequence of rooms, each holding
// one enemy, with rewards scaled by tier and player level.
package dungeon

import (
	"time"

	"github.com/google/uuid"
)

// Scaling constants.
const (
	BaseEnemyHealth     = 30
	EnemyHealthPerTier  = 25
	EnemyHealthPerLevel = 3

	GoldPerTier  = 70
	GoldPerLevel = 10
	ExpPerTier   = 40
	ExpPerLevel  = 8

	// A run has RoomsBase+tier rooms.
	RoomsBase = 3

	PartialRewardShare = 0.25
	RoomScalePerRoom   = 0.2
	RoomHeal           = 5

	PlayerDamageSpread = 4 // attack + [0, spread)
	SkillMultiplier    = 1.8
	SkillHPCost        = 2

	EnemyBaseDamage    = 4
	EnemyDamagePerTier = 3
	EnemyDamageSpread  = 4.0
)

// State is the controller's position in the run lifecycle.
type State uint8

const (
	StateIdle State = iota
	StateInRoom
	StateResolved // transient: a finished run collapses straight back to idle
)

func (s State) String() string {
	switch s {
	case StateInRoom:
		return "in-room"
	case StateResolved:
		return "resolved"
	}
	return "idle"
}

// Outcome describes how a run ended.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeVictory
	OutcomeDefeat
	OutcomeFled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	case OutcomeFled:
		return "fled"
	}
	return "none"
}

// Run is the state of one dungeon attempt. It is never persisted.
type Run struct {
	ID          uuid.UUID
	Tier        int
	EnemyHealth int
	Room        int
	RewardGold  int
	RewardExp   int
	Alive       bool
	StartedAt   time.Time

	// Bookkeeping for the run history.
	DamageDealt int
	DamageTaken int
	GoldEarned  int
	ExpEarned   int
}

// RoomsTotal is the number of rooms in this run.
func (r *Run) RoomsTotal() int { return RoomsBase + r.Tier }

// EnemyHealthFor returns the first room's enemy health.
func EnemyHealthFor(tier, level int) int {
	return BaseEnemyHealth + tier*EnemyHealthPerTier + level*EnemyHealthPerLevel
}

// RewardsFor returns the gold and experience a run is worth.
func RewardsFor(tier, level int) (gold, exp int) {
	return GoldPerTier*tier + level*GoldPerLevel, ExpPerTier*tier + level*ExpPerLevel
}
