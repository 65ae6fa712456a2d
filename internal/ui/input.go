package ui

import (
	"chronocraft/internal/session"

	"github.com/gdamore/tcell/v2"
)

// Action represents a player-requested intent.
type Action uint8

const (
	ActionNone Action = iota
	ActionQuit
	ActionNextTab
	ActionPrevTab
	ActionGotoTab
	ActionStartRun
	ActionAttack
	ActionSkill
	ActionFlee
	ActionTierUp
	ActionTierDown
	ActionClaim
	ActionBuy
)

// Input is a decoded key press. Slot is the tab index for ActionGotoTab and
// the offer index for ActionBuy.
type Input struct {
	Action Action
	Slot   int
}

// keyToInput maps a tcell key event to an intent. Letter keys mean
// different things on the battle tab and on the list tabs.
func keyToInput(ev *tcell.EventKey, tab session.Tab) Input {
	// Named keys.
	switch ev.Key() {
	case tcell.KeyEscape:
		return Input{Action: ActionQuit}
	case tcell.KeyTab, tcell.KeyRight:
		return Input{Action: ActionNextTab}
	case tcell.KeyBacktab, tcell.KeyLeft:
		return Input{Action: ActionPrevTab}
	case tcell.KeyUp:
		if tab == session.TabBattle {
			return Input{Action: ActionTierUp}
		}
	case tcell.KeyDown:
		if tab == session.TabBattle {
			return Input{Action: ActionTierDown}
		}
	}

	r := ev.Rune()
	switch {
	case r == 'q' || r == 'Q':
		return Input{Action: ActionQuit}
	case r >= '1' && r <= '9':
		return Input{Action: ActionGotoTab, Slot: int(r - '1')}
	}

	switch tab {
	case session.TabBattle:
		switch r {
		case 's', 'S':
			return Input{Action: ActionStartRun}
		case 'a', 'A':
			return Input{Action: ActionAttack}
		case 'p', 'P':
			return Input{Action: ActionSkill}
		case 'f', 'F':
			return Input{Action: ActionFlee}
		case '+', '=', 'k', 'K':
			return Input{Action: ActionTierUp}
		case '-', '_', 'j', 'J':
			return Input{Action: ActionTierDown}
		}
	case session.TabTown:
		switch r {
		case 'c', 'C':
			return Input{Action: ActionClaim}
		}
	case session.TabUpgrades, session.TabShop:
		if r >= 'a' && r <= 'z' {
			return Input{Action: ActionBuy, Slot: int(r - 'a')}
		}
	}
	return Input{Action: ActionNone}
}
