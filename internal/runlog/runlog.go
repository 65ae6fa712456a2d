// Package runlog keeps the history of finished runs as JSON lines.
package runlog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const fileName = "runs.jsonl"

// Entry records one finished run.
type Entry struct {
	ID          uuid.UUID `json:"id"`
	Player      string    `json:"player"`
	Timestamp   time.Time `json:"timestamp"`
	Duration    float64   `json:"duration_seconds"`
	Tier        int       `json:"tier"`
	RoomsTotal  int       `json:"rooms_total"`
	RoomReached int       `json:"room_reached"`
	Outcome     string    `json:"outcome"`
	GoldEarned  int       `json:"gold_earned"`
	ExpEarned   int       `json:"exp_earned"`
	DamageDealt int       `json:"damage_dealt"`
	DamageTaken int       `json:"damage_taken"`
	LevelAfter  int       `json:"level_after"`
}

// Log appends entries to dir/runs.jsonl.
type Log struct {
	dir    string
	logger *slog.Logger
}

// New returns a Log writing under dir.
func New(dir string, logger *slog.Logger) *Log {
	return &Log{dir: dir, logger: logger}
}

// Path is the file entries are written to.
func (l *Log) Path() string { return filepath.Join(l.dir, fileName) }

// Append writes e as a single JSON line. Errors are logged but never
// interrupt the game.
func (l *Log) Append(e Entry) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		l.logger.Warn("run log: cannot create data dir", "error", err)
		return
	}
	f, err := os.OpenFile(l.Path(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		l.logger.Warn("run log: cannot open file", "error", err)
		return
	}
	defer f.Close()
	data, err := json.Marshal(e)
	if err != nil {
		l.logger.Warn("run log: cannot marshal JSON", "error", err)
		return
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		l.logger.Warn("run log: write failed", "error", err)
	}
}

// Recent returns up to n of the newest entries, oldest first. When player is
// not empty only that player's runs are returned. Unparsable lines are
// skipped.
func (l *Log) Recent(player string, n int) ([]Entry, error) {
	f, err := os.Open(l.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	defer f.Close()

	var out []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			l.logger.Debug("run log: skipping bad line", "error", err)
			continue
		}
		if player != "" && e.Player != player {
			continue
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read run log: %w", err)
	}
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out, nil
}
