package profile

import (
	"errors"
	"fmt"
)

// Resource names a spendable balance.
type Resource string

const (
	ResourceGold     Resource = "gold"
	ResourceCrystals Resource = "crystals"
	ResourceEnergy   Resource = "energy"
)

// ErrInsufficientResource is the sentinel matched by every ResourceError.
var ErrInsufficientResource = errors.New("insufficient resource")

// ResourceError reports a spend that the balance could not cover.
// Nothing is mutated when it is returned.
type ResourceError struct {
	Resource Resource
	Need     int
	Have     int
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("not enough %s: need %d, have %d", e.Resource, e.Need, e.Have)
}

func (e *ResourceError) Is(target error) bool { return target == ErrInsufficientResource }

// SpendGold deducts cost gold or fails without changing anything.
func (p *Profile) SpendGold(cost int) error {
	if p.Gold < cost {
		return &ResourceError{Resource: ResourceGold, Need: cost, Have: p.Gold}
	}
	p.Gold -= cost
	return nil
}

// SpendCrystals deducts cost crystals or fails without changing anything.
func (p *Profile) SpendCrystals(cost int) error {
	if p.Crystals < cost {
		return &ResourceError{Resource: ResourceCrystals, Need: cost, Have: p.Crystals}
	}
	p.Crystals -= cost
	return nil
}

// SpendEnergy deducts cost energy. A run needs energy > 0, which for a cost
// of one is the same check.
func (p *Profile) SpendEnergy(cost int) error {
	if p.Energy <= 0 || p.Energy < cost {
		return &ResourceError{Resource: ResourceEnergy, Need: cost, Have: p.Energy}
	}
	p.Energy -= cost
	return nil
}
