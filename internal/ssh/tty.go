// Package ssh adapts a gliderlabs/ssh session into a tcell screen so the
// terminal UI can be served to remote players.
package ssh

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
)

// ErrNoPTY is returned when the client did not request a terminal.
var ErrNoPTY = errors.New("ssh: session has no PTY")

const defaultTerm = "xterm-256color"

// allowedTerms are the TERM values handed to the terminfo lookup. Anything
// else falls back to defaultTerm.
var allowedTerms = map[string]bool{
	"xterm":                 true,
	"xterm-256color":        true,
	"screen":                true,
	"screen-256color":       true,
	"tmux":                  true,
	"tmux-256color":         true,
	"linux":                 true,
	"vt100":                 true,
	"rxvt-unicode-256color": true,
}

// Tty implements tcell.Tty on top of an SSH channel. Resizes arrive on the
// window channel gliderlabs hands out with the PTY request.
type Tty struct {
	sess gossh.Session

	mu     sync.Mutex
	window gossh.Window
	winCh  <-chan gossh.Window
	onSize func()
	term   string
}

// NewTty wraps s. It fails with ErrNoPTY for non-interactive sessions.
func NewTty(s gossh.Session) (*Tty, error) {
	pty, winCh, ok := s.Pty()
	if !ok {
		return nil, ErrNoPTY
	}
	term := pty.Term
	if !allowedTerms[term] {
		term = termFromEnv(s.Environ())
	}
	return &Tty{sess: s, window: pty.Window, winCh: winCh, term: term}, nil
}

// Term is the terminal type the client reported.
func (t *Tty) Term() string { return t.term }

func (t *Tty) Read(b []byte) (int, error) { return t.sess.Read(b) }
func (t *Tty) Write(b []byte) (int, error) { return t.sess.Write(b) }
func (t *Tty) Close() error { return t.sess.Close() }

// The channel is opened and flushed by the SSH server, so the lifecycle hooks
// have nothing to do.
func (t *Tty) Start() error { return nil }
func (t *Tty) Stop() error { return nil }
func (t *Tty) Drain() error { return nil }

// WindowSize returns the most recent client dimensions.
func (t *Tty) WindowSize() (tcell.WindowSize, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tcell.WindowSize{Width: t.window.Width, Height: t.window.Height}, nil
}

// NotifyResize registers cb and starts forwarding window changes to it until
// the client disconnects.
func (t *Tty) NotifyResize(cb func()) {
	t.mu.Lock()
	t.onSize = cb
	t.mu.Unlock()

	go func() {
		for win := range t.winCh {
			t.resize(win)
		}
	}()
}

func (t *Tty) resize(win gossh.Window) {
	t.mu.Lock()
	t.window = win
	cb := t.onSize
	t.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// termMu serialises TERM changes: tcell reads the terminfo name from the
// process environment.
var termMu sync.Mutex

// NewScreen builds and initialises a tcell screen for s.
func NewScreen(s gossh.Session) (tcell.Screen, error) {
	tty, err := NewTty(s)
	if err != nil {
		return nil, err
	}
	termMu.Lock()
	_ = os.Setenv("TERM", tty.Term())
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	termMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("terminal setup: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("screen init: %w", err)
	}
	return screen, nil
}

func termFromEnv(env []string) string {
	for _, kv := range env {
		if v, ok := strings.CutPrefix(kv, "TERM="); ok && allowedTerms[v] {
			return v
		}
	}
	return defaultTerm
}
