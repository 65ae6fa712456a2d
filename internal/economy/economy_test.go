package economy

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"chronocraft/internal/profile"
)

func TestClaimOfflineFirstTime(t *testing.T) {
	p := profile.Default()
	p.Energy = 2
	now := time.UnixMilli(1_700_000_000_000)

	r, err := ClaimOffline(p, now)
	if err != nil {
		t.Fatalf("ClaimOffline: %v", err)
	}
	if r.Gold != 150 || r.Energy != 1 {
		t.Errorf("reward = %+v; want 150 gold, 1 energy", r)
	}
	if p.Gold != 450 || p.Energy != 3 {
		t.Errorf("gold=%d energy=%d; want 450, 3", p.Gold, p.Energy)
	}
	if p.LastOfflineClaim != now.UnixMilli() {
		t.Errorf("timestamp = %d; want %d", p.LastOfflineClaim, now.UnixMilli())
	}
}

func TestClaimOfflineTooSoon(t *testing.T) {
	p := profile.Default()
	now := time.UnixMilli(1_700_000_000_000)
	if _, err := ClaimOffline(p, now); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	gold, energy, ts := p.Gold, p.Energy, p.LastOfflineClaim

	_, err := ClaimOffline(p, now.Add(2*time.Minute))
	if !errors.Is(err, ErrTooSoon) {
		t.Fatalf("expected ErrTooSoon, got %v", err)
	}
	var ce *CooldownError
	if !errors.As(err, &ce) || ce.Remaining != time.Minute {
		t.Errorf("expected 1m remaining, got %v", err)
	}
	if p.Gold != gold || p.Energy != energy || p.LastOfflineClaim != ts {
		t.Error("rejected claim mutated the profile")
	}
}

func TestClaimOfflineAfterCooldown(t *testing.T) {
	p := profile.Default()
	now := time.UnixMilli(1_700_000_000_000)
	if _, err := ClaimOffline(p, now); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if _, err := ClaimOffline(p, now.Add(OfflineCooldown)); err != nil {
		t.Fatalf("claim at exactly the cooldown should succeed: %v", err)
	}
	if p.Gold != 600 {
		t.Errorf("gold = %d; want 600", p.Gold)
	}
	if p.Energy != p.EnergyMax {
		t.Errorf("energy = %d; want capped at %d", p.Energy, p.EnergyMax)
	}
}

func TestBuyUpgrade(t *testing.T) {
	cases := []struct {
		kind  UpgradeKind
		check func(p *profile.Profile) bool
	}{
		{UpgradeKindHP, func(p *profile.Profile) bool { return p.HPMax == 60 && p.HPCurrent == 60 }},
		{UpgradeKindAttack, func(p *profile.Profile) bool { return p.Attack == 10 }},
		{UpgradeKindEnergy, func(p *profile.Profile) bool { return p.EnergyMax == 6 && p.Energy == 6 }},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			p := profile.Default()
			p.HPCurrent = 20
			p.Energy = 1
			if err := BuyUpgrade(p, tc.kind, 100); err != nil {
				t.Fatalf("BuyUpgrade: %v", err)
			}
			if p.Gold != 200 {
				t.Errorf("gold = %d; want 200", p.Gold)
			}
			if !tc.check(p) {
				t.Errorf("upgrade not applied: %+v", p)
			}
		})
	}
}

func TestBuyUpgradeInsufficientGold(t *testing.T) {
	p := profile.Default()
	err := BuyUpgrade(p, UpgradeKindAttack, 301)
	if !errors.Is(err, profile.ErrInsufficientResource) {
		t.Fatalf("expected ErrInsufficientResource, got %v", err)
	}
	if p.Gold != 300 || p.Attack != 8 {
		t.Errorf("gold=%d attack=%d; want unchanged 300, 8", p.Gold, p.Attack)
	}
}

func TestBuyUpgradeUnknownKind(t *testing.T) {
	p := profile.Default()
	if err := BuyUpgrade(p, "speed", 10); !errors.Is(err, ErrUnknownUpgrade) {
		t.Fatalf("expected ErrUnknownUpgrade, got %v", err)
	}
	if p.Gold != 300 {
		t.Errorf("gold = %d; want 300", p.Gold)
	}
}

func TestCrystalShop(t *testing.T) {
	p := profile.Default()
	BuyCrystals(p, 15)
	if p.Crystals != 15 {
		t.Fatalf("crystals = %d; want 15", p.Crystals)
	}

	if err := ExchangeCrystalsForGold(p, 10, 500); err != nil {
		t.Fatalf("ExchangeCrystalsForGold: %v", err)
	}
	if p.Crystals != 5 || p.Gold != 800 {
		t.Errorf("crystals=%d gold=%d; want 5, 800", p.Crystals, p.Gold)
	}

	if err := ExchangeCrystalsForGold(p, 10, 500); !errors.Is(err, profile.ErrInsufficientResource) {
		t.Fatalf("expected ErrInsufficientResource, got %v", err)
	}
	if p.Crystals != 5 || p.Gold != 800 {
		t.Error("failed exchange mutated balances")
	}

	p.Energy = 4
	if err := BuyEnergyWithCrystals(p, 5, 3); err != nil {
		t.Fatalf("BuyEnergyWithCrystals: %v", err)
	}
	if p.Crystals != 0 || p.Energy != 5 {
		t.Errorf("crystals=%d energy=%d; want 0, 5 (capped)", p.Crystals, p.Energy)
	}
	if err := BuyEnergyWithCrystals(p, 5, 3); !errors.Is(err, profile.ErrInsufficientResource) {
		t.Fatalf("expected ErrInsufficientResource, got %v", err)
	}
}

func TestEnergyStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	p := profile.Default()
	for i := 0; i < 500; i++ {
		switch rng.Intn(3) {
		case 0:
			_ = p.SpendEnergy(1)
		case 1:
			BuyCrystals(p, 5)
			_ = BuyEnergyWithCrystals(p, 5, 1+rng.Intn(4))
		case 2:
			p.Gold += 200
			_ = BuyUpgrade(p, UpgradeKindEnergy, 200)
		}
		if p.Energy < 0 || p.Energy > p.EnergyMax {
			t.Fatalf("step %d: energy %d outside [0,%d]", i, p.Energy, p.EnergyMax)
		}
	}
}

func TestBuyArtifact(t *testing.T) {
	p := profile.Default()
	def := BuyArtifact(p, rand.New(rand.NewSource(2)))
	if len(p.Artifacts) != 1 || p.Artifacts[0].ID != def.ID {
		t.Errorf("artifacts = %+v; want one %q", p.Artifacts, def.ID)
	}
}

func TestParseUpgradeKind(t *testing.T) {
	for _, s := range []string{"hp", "atk", "energy"} {
		if _, err := ParseUpgradeKind(s); err != nil {
			t.Errorf("ParseUpgradeKind(%q): %v", s, err)
		}
	}
	if _, err := ParseUpgradeKind("HP"); !errors.Is(err, ErrUnknownUpgrade) {
		t.Errorf("expected ErrUnknownUpgrade for mixed case, got %v", err)
	}
}
