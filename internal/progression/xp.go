// Package progression applies experience and artifacts to a profile.
// Functions here mutate the profile in place and never fail.
package progression

import (
	"math"

	"chronocraft/internal/profile"
)

// Level-up gains.
const (
	HPPerLevel     = 6
	AttackPerLevel = 2
	ExpCurveFactor = 1.25
)

// ApplyExperience adds amount experience and resolves every level-up it
// triggers. Afterwards Exp < ExpToNext always holds. It returns the number of
// levels gained.
func ApplyExperience(p *profile.Profile, amount int) int {
	if amount <= 0 {
		return 0
	}
	p.Exp += amount
	gained := 0
	for p.Exp >= p.ExpToNext {
		p.Exp -= p.ExpToNext
		p.Level++
		p.HPMax += HPPerLevel
		p.Attack += AttackPerLevel
		p.HealFull()
		p.ExpToNext = max(1, Round(float64(p.ExpToNext)*ExpCurveFactor))
		gained++
	}
	return gained
}

// Round rounds half up (towards +Inf), matching the arithmetic the game's
// constants were tuned with. math.Round differs on negative halves.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}
