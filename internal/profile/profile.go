// Package profile holds the player's durable record: level, resources,
// stats and collected artifacts. It is the only state that survives between
// sessions; everything else is rebuilt from it.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Rarity grades an artifact.
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
)

// Stats tracks run outcomes.
type Stats struct {
	Wins     int `json:"wins"`
	Losses   int `json:"losses"`
	BestTier int `json:"bestTier"`
}

// Artifact is one collected artifact record. ID is empty for records
// written before artifacts carried a definition id.
type Artifact struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Rarity Rarity `json:"rarity"`
	Desc   string `json:"desc"`
}

// Profile is the long-lived player record. JSON keys match the blob layout
// the browser build stored, so old saves load unchanged.
type Profile struct {
	Level     int        `json:"level"`
	Exp       int        `json:"exp"`
	ExpToNext int        `json:"expToNext"`
	HPMax     int        `json:"hpMax"`
	HPCurrent int        `json:"hpCurrent"`
	Attack    int        `json:"attack"`
	Gold      int        `json:"gold"`
	Crystals  int        `json:"crystals"`
	Energy    int        `json:"energy"`
	EnergyMax int        `json:"energyMax"`
	Stats     Stats      `json:"stats"`
	Artifacts []Artifact `json:"artifacts"`

	// LastOfflineClaim is epoch milliseconds; 0 means never claimed.
	LastOfflineClaim int64 `json:"lastOfflineClaim"`
}

// ErrCorrupt is returned by Decode when stored data cannot be parsed.
var ErrCorrupt = errors.New("profile data corrupt")

// Default returns a fresh level-1 profile.
func Default() *Profile {
	return &Profile{
		Level:     1,
		Exp:       0,
		ExpToNext: 100,
		HPMax:     50,
		HPCurrent: 50,
		Attack:    8,
		Gold:      300,
		Crystals:  0,
		Energy:    5,
		EnergyMax: 5,
		Artifacts: []Artifact{},
	}
}

// Decode parses a stored blob on top of the defaults, so fields missing from
// older saves keep their default values.
func Decode(data []byte) (*Profile, error) {
	p := Default()
	if err := json.Unmarshal(data, p); err != nil {
		return Default(), fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if p.Artifacts == nil {
		p.Artifacts = []Artifact{}
	}
	p.Normalize()
	return p, nil
}

// Encode serializes the profile for storage.
func (p *Profile) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// Clone returns a deep copy suitable for handing to renderers.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Artifacts = append([]Artifact(nil), p.Artifacts...)
	return &c
}

// Normalize re-establishes the range invariants after loading data that may
// have been edited by hand or written by an older build.
func (p *Profile) Normalize() {
	if p.Level < 1 {
		p.Level = 1
	}
	if p.ExpToNext < 1 {
		p.ExpToNext = 1
	}
	if p.Exp < 0 {
		p.Exp = 0
	}
	if p.HPMax < 1 {
		p.HPMax = 1
	}
	p.HPCurrent = clamp(p.HPCurrent, 0, p.HPMax)
	if p.EnergyMax < 0 {
		p.EnergyMax = 0
	}
	p.Energy = clamp(p.Energy, 0, p.EnergyMax)
	if p.Gold < 0 {
		p.Gold = 0
	}
	if p.Crystals < 0 {
		p.Crystals = 0
	}
}

// Heal restores amount HP, capped at HPMax.
func (p *Profile) Heal(amount int) {
	p.HPCurrent = min(p.HPMax, p.HPCurrent+amount)
}

// HealFull sets current HP to max.
func (p *Profile) HealFull() { p.HPCurrent = p.HPMax }

// AddEnergy grants energy, capped at EnergyMax.
func (p *Profile) AddEnergy(amount int) {
	p.Energy = min(p.EnergyMax, p.Energy+amount)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
