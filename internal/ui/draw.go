package ui

import (
	"fmt"
	"strings"
	"time"

	"chronocraft/internal/economy"
	"chronocraft/internal/profile"
	"chronocraft/internal/progression"
	"chronocraft/internal/session"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

var tabTitles = map[session.Tab]string{
	session.TabBattle:    "Battle",
	session.TabTown:      "Town",
	session.TabUpgrades:  "Upgrades",
	session.TabShop:      "Shop",
	session.TabArtifacts: "Artifacts",
}

var tabHints = map[session.Tab]string{
	session.TabBattle:   "[s] Start  [a] Attack  [p] Power strike  [f] Flee  [↑/↓] Tier",
	session.TabTown:     "[c] Claim offline reward",
	session.TabUpgrades: "[a-z] Buy",
	session.TabShop:     "[a-z] Buy",
}

func rarityStyle(r profile.Rarity) tcell.Style {
	switch r {
	case profile.RarityRare:
		return tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue)
	case profile.RarityEpic:
		return tcell.StyleDefault.Foreground(tcell.ColorMediumPurple)
	case profile.RarityLegendary:
		return tcell.StyleDefault.Foreground(tcell.ColorOrange)
	}
	return styleText
}

// Draw renders the whole screen.
func (a *App) Draw() {
	scr := a.screen
	scr.Clear()
	sw, sh := scr.Size()
	snap := a.sess.Snapshot()

	putText(scr, 0, 0, "⏳ CHRONOCRAFT", styleTitle)
	putRight(scr, 0, "[Tab] Switch  [q] Quit", styleDim)

	x := 0
	for i, t := range session.Tabs {
		st := styleText
		if t == snap.Tab {
			st = styleHighlight
		}
		x = putText(scr, x, 1, fmt.Sprintf(" %d %s ", i+1, tabTitles[t]), st)
		x++
	}
	hline(scr, 2)

	bodyTop, bodyBottom := 3, sh-5
	switch snap.Tab {
	case session.TabBattle:
		a.drawBattle(snap, bodyTop, bodyBottom)
	case session.TabTown:
		a.drawTown(snap, bodyTop)
	case session.TabUpgrades:
		drawOffers(scr, a.upgrades, bodyTop, fmt.Sprintf("You have %d 🪙.", snap.Profile.Gold))
	case session.TabShop:
		drawOffers(scr, a.shop, bodyTop, fmt.Sprintf("You have %d 💎.", snap.Profile.Crystals))
	case session.TabArtifacts:
		drawArtifacts(scr, snap.Profile, bodyTop, bodyBottom)
	}

	hline(scr, sh-4)
	putText(scr, 0, sh-3, hudLine(snap.Profile), styleText)
	if a.notice != "" {
		st := styleGood
		if a.noticeBad {
			st = styleBad
		}
		putText(scr, 0, sh-2, a.notice, st)
	}
	putText(scr, 0, sh-1, tabHints[snap.Tab], styleDim)

	if a.confirming {
		drawConfirm(scr, sw, sh)
	}
	scr.Show()
}

func hudLine(p *profile.Profile) string {
	return fmt.Sprintf("Lv %d  EXP %d/%d  HP %d/%d  ATK %d  🪙 %d  💎 %d  ⚡ %d/%d",
		p.Level, p.Exp, p.ExpToNext, p.HPCurrent, p.HPMax, p.Attack,
		p.Gold, p.Crystals, p.Energy, p.EnergyMax)
}

func (a *App) drawBattle(snap session.Snapshot, top, bottom int) {
	scr := a.screen
	st := snap.Profile.Stats
	putText(scr, 0, top, fmt.Sprintf("Tier ◀ %d ▶ (max %d)   Best tier: %d   Wins: %d   Losses: %d",
		snap.Tier, snap.MaxTier, st.BestTier, st.Wins, st.Losses), styleText)
	putText(scr, 0, top+1, snap.Status, styleTitle)
	if r := snap.Run; r != nil {
		putText(scr, 0, top+2, fmt.Sprintf("Room %d/%d   Enemy HP: %d   Room reward: %d 🪙 / %d exp",
			r.Room, r.RoomsTotal(), max(0, r.EnemyHealth), r.RewardGold, r.RewardExp), styleText)
	}

	// Newest lines at the bottom of the log area.
	y0 := top + 4
	rows := bottom - y0 + 1
	if rows <= 0 {
		return
	}
	lines := snap.Log
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	for i, line := range lines {
		putText(scr, 0, y0+i, line, styleLog)
	}
}

func (a *App) drawTown(snap session.Snapshot, top int) {
	scr := a.screen
	p := snap.Profile
	putText(scr, 0, top, fmt.Sprintf("Offline reward: +%d 🪙 and +%d ⚡ every %s.",
		economy.OfflineGold, economy.OfflineEnergy, economy.OfflineCooldown), styleText)

	ready := "Ready to claim!"
	st := styleGood
	if p.LastOfflineClaim != 0 {
		elapsed := a.now().Sub(time.UnixMilli(p.LastOfflineClaim))
		if elapsed < economy.OfflineCooldown {
			ready = fmt.Sprintf("Next claim in %s.", (economy.OfflineCooldown - elapsed).Round(time.Second))
			st = styleDim
		}
	}
	putText(scr, 0, top+1, ready, st)

	putText(scr, 0, top+3, fmt.Sprintf("Runs won: %d   Runs lost: %d   Best tier: %d   Artifacts: %d",
		p.Stats.Wins, p.Stats.Losses, p.Stats.BestTier, len(p.Artifacts)), styleText)
}

func drawOffers(scr tcell.Screen, offers []offer, top int, balance string) {
	putText(scr, 0, top, balance, styleTitle)
	width := 0
	for _, o := range offers {
		width = max(width, runewidth.StringWidth(o.label))
	}
	for i, o := range offers {
		pad := strings.Repeat(" ", width-runewidth.StringWidth(o.label))
		putText(scr, 0, top+2+i, fmt.Sprintf("[%c] %s%s   %s", 'a'+rune(i), o.label, pad, o.price), styleText)
	}
}

func drawArtifacts(scr tcell.Screen, p *profile.Profile, top, bottom int) {
	if len(p.Artifacts) == 0 {
		putText(scr, 0, top, "No artifacts yet. Visit the shop.", styleDim)
		return
	}
	putText(scr, 0, top, fmt.Sprintf("%d collected", len(p.Artifacts)), styleTitle)
	for i, art := range p.Artifacts {
		y := top + 2 + i
		if y > bottom {
			putText(scr, 0, bottom, fmt.Sprintf("... and %d more", len(p.Artifacts)-i), styleDim)
			return
		}
		art = progression.ResolveArtifact(art)
		x := putText(scr, 0, y, fmt.Sprintf("%s [%s]", art.Name, art.Rarity), rarityStyle(art.Rarity))
		putText(scr, x+2, y, art.Desc, styleDim)
	}
}

func drawConfirm(scr tcell.Screen, sw, sh int) {
	prompt := " Really quit? (y/n) "
	width := runewidth.StringWidth(prompt) + 4
	x0 := (sw - width) / 2
	y0 := (sh - 3) / 2
	for col := x0; col < x0+width; col++ {
		scr.SetContent(col, y0+1, ' ', nil, tcell.StyleDefault)
	}
	box(scr, x0, y0, width, 3, styleRule)
	putText(scr, x0+2, y0+1, prompt, styleTitle)
}
