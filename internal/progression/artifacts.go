package progression

import (
	"math/rand"

	"chronocraft/internal/profile"
)

// EffectKind selects what an artifact does when it is acquired.
type EffectKind uint8

const (
	EffectNone EffectKind = iota
	EffectExpThreshold // multiply ExpToNext by Magnitude/100, floored at MinExpToNext
	EffectAttack       // add Magnitude attack
	EffectMaxHP        // add Magnitude max HP
	EffectGold         // add Magnitude gold
)

// MinExpToNext is the lowest threshold an artifact can shrink ExpToNext to.
const MinExpToNext = 20

// Effect is the explicit effect descriptor carried by each definition.
type Effect struct {
	Kind      EffectKind
	Magnitude int
}

// ArtifactDef is one entry of the artifact pool. LegacyName is the name the
// browser demo stored, before records carried an id.
type ArtifactDef struct {
	ID         string
	Name       string
	LegacyName string
	Rarity     profile.Rarity
	Desc       string
	Effect     Effect
}

// Record converts the definition into the profile record that gets stored.
func (d ArtifactDef) Record() profile.Artifact {
	return profile.Artifact{ID: d.ID, Name: d.Name, Rarity: d.Rarity, Desc: d.Desc}
}

// ArtifactPool lists every artifact that can drop. Draws are uniform.
var ArtifactPool = []ArtifactDef{
	{
		ID:         "time-loop-ring",
		Name:       "Ring of Time Loops",
		LegacyName: "Кольцо временных петель",
		Rarity:     profile.RarityEpic,
		Desc:       "+10% experience (lowers the level threshold by 5%).",
		Effect:     Effect{Kind: EffectExpThreshold, Magnitude: 95},
	},
	{
		ID:         "cold-reckoning-amulet",
		Name:       "Amulet of Cold Reckoning",
		LegacyName: "Амулет хладного расчёта",
		Rarity:     profile.RarityRare,
		Desc:       "+3 attack.",
		Effect:     Effect{Kind: EffectAttack, Magnitude: 3},
	},
	{
		ID:         "berserker-clock",
		Name:       "Berserker's Clock",
		LegacyName: "Часы берсерка",
		Rarity:     profile.RarityLegendary,
		Desc:       "+4 attack.",
		Effect:     Effect{Kind: EffectAttack, Magnitude: 4},
	},
	{
		ID:         "farmer-luck-charm",
		Name:       "Farmer's Luck Charm",
		LegacyName: "Талисман удачи фармера",
		Rarity:     profile.RarityRare,
		Desc:       "+200 🪙 on pickup.",
		Effect:     Effect{Kind: EffectGold, Magnitude: 200},
	},
	{
		ID:         "cracked-hourglass",
		Name:       "Cracked Hourglass",
		LegacyName: "Треснувший песочные часы",
		Rarity:     profile.RarityCommon,
		Desc:       "+5 max HP.",
		Effect:     Effect{Kind: EffectMaxHP, Magnitude: 5},
	},
}

// DrawArtifact picks one definition uniformly at random.
func DrawArtifact(rng *rand.Rand) ArtifactDef {
	return ArtifactPool[rng.Intn(len(ArtifactPool))]
}

// LookupArtifact finds a definition by id. Records without an id are matched
// on the current name or the browser demo's name.
func LookupArtifact(a profile.Artifact) (ArtifactDef, bool) {
	for _, d := range ArtifactPool {
		if a.ID != "" && a.ID == d.ID {
			return d, true
		}
	}
	if a.ID != "" {
		return ArtifactDef{}, false
	}
	for _, d := range ArtifactPool {
		if a.Name == d.Name || a.Name == d.LegacyName {
			return d, true
		}
	}
	return ArtifactDef{}, false
}

// ResolveArtifact returns the current record for a, or a unchanged when it
// matches no known artifact.
func ResolveArtifact(a profile.Artifact) profile.Artifact {
	if d, ok := LookupArtifact(a); ok {
		return d.Record()
	}
	return a
}

// ApplyArtifact appends the artifact record and applies its effect once.
func ApplyArtifact(p *profile.Profile, def ArtifactDef) {
	p.Artifacts = append(p.Artifacts, def.Record())
	applyEffect(p, def.Effect)
}

func applyEffect(p *profile.Profile, e Effect) {
	switch e.Kind {
	case EffectExpThreshold:
		p.ExpToNext = max(MinExpToNext, Round(float64(p.ExpToNext)*float64(e.Magnitude)/100))
	case EffectAttack:
		p.Attack += e.Magnitude
	case EffectMaxHP:
		p.HPMax += e.Magnitude
	case EffectGold:
		p.Gold += e.Magnitude
	}
}
