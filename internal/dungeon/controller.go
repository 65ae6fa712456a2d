package dungeon

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"chronocraft/internal/profile"
	"chronocraft/internal/progression"

	"github.com/google/uuid"
)

var (
	ErrNoRun       = errors.New("no active run")
	ErrRunActive   = errors.New("a run is already in progress")
	ErrInvalidTier = errors.New("tier must be at least 1")
)

// Result is what one controller action did. Log holds the narrative lines in
// the order they happened.
type Result struct {
	PlayerDamage  int
	Skill         bool
	SelfDamage    int
	EnemyDefeated bool
	EnemyDamage   int // 0 when the enemy phase was skipped
	LevelsGained  int
	Outcome       Outcome

	// Run is a snapshot of the run after the action. When Outcome is not
	// OutcomeNone it is the final state of the run that just ended.
	Run Run

	Log []string
}

func (r *Result) logf(format string, args ...any) {
	r.Log = append(r.Log, fmt.Sprintf(format, args...))
}

// Controller owns at most one active run.
type Controller struct {
	rng   *rand.Rand
	now   func() time.Time
	run   *Run
	state State
}

// NewController returns an idle controller drawing randomness from rng.
func NewController(rng *rand.Rand) *Controller {
	return &Controller{rng: rng, now: time.Now}
}

// State reports whether a run is in progress.
func (c *Controller) State() State { return c.state }

// Active returns a copy of the current run, or nil when idle.
func (c *Controller) Active() *Run {
	if c.run == nil {
		return nil
	}
	r := *c.run
	return &r
}

// Start begins a run at the given tier. It consumes one energy and fully
// heals the player.
func (c *Controller) Start(p *profile.Profile, tier int) (Result, error) {
	if c.run != nil {
		return Result{}, ErrRunActive
	}
	if tier < 1 {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidTier, tier)
	}
	if err := p.SpendEnergy(1); err != nil {
		return Result{}, fmt.Errorf("start run: %w", err)
	}

	gold, exp := RewardsFor(tier, p.Level)
	c.run = &Run{
		ID:          uuid.New(),
		Tier:        tier,
		EnemyHealth: EnemyHealthFor(tier, p.Level),
		Room:        1,
		RewardGold:  gold,
		RewardExp:   exp,
		Alive:       true,
		StartedAt:   c.now(),
	}
	c.state = StateInRoom
	p.HealFull()

	var res Result
	res.logf("You enter the dungeon (tier %d, %d rooms). The first enemy charges at you! Enemy HP: %d.",
		tier, c.run.RoomsTotal(), c.run.EnemyHealth)
	res.Run = *c.run
	return res, nil
}

// Attack plays one turn. The player strikes first; the enemy retaliates only
// if it survived the strike.
func (c *Controller) Attack(p *profile.Profile, useSkill bool) (Result, error) {
	if c.run == nil || !c.run.Alive {
		return Result{}, ErrNoRun
	}
	var res Result
	if c.playerPhase(p, useSkill, &res) {
		c.nextRoomOrEnd(p, &res)
	} else {
		c.enemyPhase(p, &res)
	}
	if c.run != nil {
		res.Run = *c.run
	}
	return res, nil
}

// Flee abandons the run. It always succeeds and counts as a loss.
func (c *Controller) Flee(p *profile.Profile) (Result, error) {
	if c.run == nil {
		return Result{}, ErrNoRun
	}
	var res Result
	res.logf("You decide to retreat and leave the dungeon.")
	c.end(p, OutcomeFled, &res)
	return res, nil
}

// playerPhase applies the player's strike and reports whether it killed the
// room's enemy.
func (c *Controller) playerPhase(p *profile.Profile, useSkill bool, res *Result) bool {
	dmg := p.Attack + c.rng.Intn(PlayerDamageSpread)
	if useSkill {
		dmg = progression.Round(float64(dmg) * SkillMultiplier)
		before := p.HPCurrent
		p.HPCurrent = max(1, p.HPCurrent-SkillHPCost)
		res.SelfDamage = before - p.HPCurrent
	}
	c.run.EnemyHealth -= dmg
	c.run.DamageDealt += dmg
	res.PlayerDamage = dmg
	res.Skill = useSkill

	verb := "Strike"
	if useSkill {
		verb = "Power strike"
	}
	res.logf("%s hits the enemy for %d damage. (enemy HP: %d)", verb, dmg, max(0, c.run.EnemyHealth))

	if c.run.EnemyHealth <= 0 {
		res.EnemyDefeated = true
		res.logf("Enemy defeated!")
		return true
	}
	return false
}

// enemyPhase is the enemy's unconditional retaliation.
func (c *Controller) enemyPhase(p *profile.Profile, res *Result) {
	tier := c.run.Tier
	dmg := progression.Round(float64(EnemyBaseDamage+tier*EnemyDamagePerTier) + c.rng.Float64()*EnemyDamageSpread)
	p.HPCurrent -= dmg
	c.run.DamageTaken += dmg
	res.EnemyDamage = dmg
	res.logf("The enemy hits you for %d damage. (hero HP: %d/%d)", dmg, max(0, p.HPCurrent), p.HPMax)

	if p.HPCurrent <= 0 {
		p.HPCurrent = 0
		c.run.Alive = false
		c.end(p, OutcomeDefeat, res)
	}
}

// nextRoomOrEnd pays the per-room share and either moves to the next room or
// finishes the run.
func (c *Controller) nextRoomOrEnd(p *profile.Profile, res *Result) {
	r := c.run
	gold := progression.Round(float64(r.RewardGold) * PartialRewardShare)
	exp := progression.Round(float64(r.RewardExp) * PartialRewardShare)
	c.grant(p, gold, exp, res)
	res.logf("Room reward: +%d 🪙, +%d exp.", gold, exp)

	if r.Room >= r.RoomsTotal() {
		c.end(p, OutcomeVictory, res)
		return
	}

	r.Room++
	// The carried-over health is scaled, not the room's starting health.
	r.EnemyHealth = progression.Round(float64(r.EnemyHealth) * (1 + float64(r.Room)*RoomScalePerRoom))
	p.Heal(RoomHeal)
	res.logf("You move on to room %d/%d. The enemy grows stronger! Enemy HP: %d.",
		r.Room, r.RoomsTotal(), r.EnemyHealth)
}

// end resolves the run and returns the controller to idle.
func (c *Controller) end(p *profile.Profile, outcome Outcome, res *Result) {
	r := c.run
	c.state = StateResolved
	if outcome != OutcomeVictory {
		r.Alive = false
	}

	switch outcome {
	case OutcomeVictory:
		// Paid on top of the per-room shares.
		c.grant(p, r.RewardGold, r.RewardExp, res)
		p.Stats.Wins++
		p.Stats.BestTier = max(p.Stats.BestTier, r.Tier)
		res.logf("Run complete! Bonus reward: +%d 🪙, +%d exp.", r.RewardGold, r.RewardExp)
	case OutcomeDefeat:
		p.Stats.Losses++
		res.logf("You have fallen in the dungeon. Experience is progress too.")
	case OutcomeFled:
		p.Stats.Losses++
	}
	p.HPCurrent = max(1, p.HPCurrent)

	res.Outcome = outcome
	res.Run = *r
	c.run = nil
	c.state = StateIdle
}

func (c *Controller) grant(p *profile.Profile, gold, exp int, res *Result) {
	p.Gold += gold
	levels := progression.ApplyExperience(p, exp)
	c.run.GoldEarned += gold
	c.run.ExpEarned += exp
	if levels > 0 {
		res.LevelsGained += levels
		res.logf("Level up! You are now level %d.", p.Level)
	}
}
