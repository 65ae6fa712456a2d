package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"chronocraft/internal/storage"
)

// DefaultKey is the storage key of the local player's profile.
const DefaultKey = "chronocraft_demo_v2"

// LocalPlayer is the history name of whoever owns DefaultKey.
const LocalPlayer = "local"

// Blobs is the storage a profile is loaded from and saved to.
type Blobs interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// KeyFor returns the storage key for a named player. An empty name is the
// local player.
func KeyFor(player string) string {
	if player == "" {
		return DefaultKey
	}
	return DefaultKey + ":" + player
}

// PlayerFor is the inverse of KeyFor. A key outside the profile namespace is
// its own player name.
func PlayerFor(key string) string {
	if key == DefaultKey {
		return LocalPlayer
	}
	if name, ok := strings.CutPrefix(key, DefaultKey+":"); ok && name != "" {
		return name
	}
	return key
}

// IsProfileKey reports whether key was produced by KeyFor.
func IsProfileKey(key string) bool {
	return key == DefaultKey || strings.HasPrefix(key, DefaultKey+":")
}

// Load reads the profile stored under key. A missing or unparsable record
// yields the default profile; only storage failures are returned.
func Load(ctx context.Context, b Blobs, key string, logger *slog.Logger) (*Profile, error) {
	data, err := b.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	p, err := Decode(data)
	if err != nil {
		logger.Warn("profile: stored data unreadable, starting fresh", "key", key, "error", err)
		return p, nil
	}
	return p, nil
}

// Save overwrites the record under key.
func Save(ctx context.Context, b Blobs, key string, p *Profile) error {
	data, err := p.Encode()
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := b.Put(ctx, key, data); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Remove drops the record under key; the next Load starts from defaults.
func Remove(ctx context.Context, b Blobs, key string) error {
	if err := b.Delete(ctx, key); err != nil {
		return fmt.Errorf("remove profile: %w", err)
	}
	return nil
}
