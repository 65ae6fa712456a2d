package cli

import (
	"fmt"
	"strings"

	"chronocraft/internal/profile"

	"github.com/charmbracelet/lipgloss"
)

const (
	iconHourglass = "⏳"
	iconGold      = "🪙"
	iconCrystal   = "💎"
	iconEnergy    = "⚡"
	iconScroll    = "📜"
	iconGem       = "🔮"
	iconError     = "🧨"
)

var (
	cPrimary   = lipgloss.Color("63")  // blue
	cAccent    = lipgloss.Color("205") // magenta
	cGood      = lipgloss.Color("42")  // green
	cWarn      = lipgloss.Color("214") // orange
	cBad       = lipgloss.Color("196") // red
	cMuted     = lipgloss.Color("244") // gray
	cGold      = lipgloss.Color("220") // gold
	cRare      = lipgloss.Color("39")  // light blue
	cEpic      = lipgloss.Color("135") // purple
	cLegendary = lipgloss.Color("208") // deep orange
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	styleKey   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	styleMuted = lipgloss.NewStyle().Foreground(cMuted)
	styleGood  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	styleWarn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	styleBad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	styleGold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
)

func heading(icon, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return styleTitle.Render(icon + title)
}

func labelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", styleKey.Render(label+":"), value)
}

func rarityText(r profile.Rarity) string {
	st := lipgloss.NewStyle().Foreground(cMuted)
	switch r {
	case profile.RarityRare:
		st = lipgloss.NewStyle().Foreground(cRare)
	case profile.RarityEpic:
		st = lipgloss.NewStyle().Bold(true).Foreground(cEpic)
	case profile.RarityLegendary:
		st = lipgloss.NewStyle().Bold(true).Foreground(cLegendary)
	}
	return st.Render(string(r))
}

func outcomeText(outcome string) string {
	switch outcome {
	case "victory":
		return styleGood.Render(outcome)
	case "fled":
		return styleWarn.Render(outcome)
	case "defeat":
		return styleBad.Render(outcome)
	}
	return styleMuted.Render(outcome)
}
