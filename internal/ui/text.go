package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// putText writes s starting at (x, y) and returns the column after the last
// cell written. Wide runes take two columns; zero-width runes such as
// variation selectors are dropped. Output stops at the right edge.
func putText(scr tcell.Screen, x, y int, s string, st tcell.Style) int {
	sw, _ := scr.Size()
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > sw {
			break
		}
		scr.SetContent(x, y, r, nil, st)
		if w == 2 {
			scr.SetContent(x+1, y, ' ', nil, st)
		}
		x += w
	}
	return x
}

// putRight writes s flush with the right edge of row y.
func putRight(scr tcell.Screen, y int, s string, st tcell.Style) {
	sw, _ := scr.Size()
	if w := runewidth.StringWidth(s); w < sw {
		putText(scr, sw-w, y, s, st)
	}
}

func hline(scr tcell.Screen, y int) {
	sw, _ := scr.Size()
	for x := 0; x < sw; x++ {
		scr.SetContent(x, y, '─', nil, styleRule)
	}
}

// box draws a single-line border around the rectangle.
func box(scr tcell.Screen, x0, y0, w, h int, st tcell.Style) {
	for col := x0; col < x0+w; col++ {
		scr.SetContent(col, y0, '─', nil, st)
		scr.SetContent(col, y0+h-1, '─', nil, st)
	}
	for row := y0; row < y0+h; row++ {
		scr.SetContent(x0, row, '│', nil, st)
		scr.SetContent(x0+w-1, row, '│', nil, st)
	}
	scr.SetContent(x0, y0, '┌', nil, st)
	scr.SetContent(x0+w-1, y0, '┐', nil, st)
	scr.SetContent(x0, y0+h-1, '└', nil, st)
	scr.SetContent(x0+w-1, y0+h-1, '┘', nil, st)
}

var (
	styleText      = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleRule      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTitle     = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleGood      = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleBad       = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleLog       = tcell.StyleDefault.Foreground(tcell.ColorLightYellow)
	styleHighlight = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorAqua)
)
