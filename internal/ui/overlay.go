// Package ui provides shared UI components and helpers for the TUI.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DimStyle greys out content behind a modal. Existing colors are stripped
// first because faint does not combine reliably with them.
var DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

// OverlayModal centers fg over a dimmed copy of background.
func OverlayModal(background, fg string, width, height int) string {
	fgLines := strings.Split(fg, "\n")
	x := max(0, (width-blockWidth(fgLines))/2)
	y := max(0, (height-len(fgLines))/2)
	return place(background, fgLines, x, y, height, true)
}

// OverlayBottomRight draws fg in the bottom-right corner of background,
// leaving the background undimmed. Used for toasts.
func OverlayBottomRight(background, fg string, width, height, margin int) string {
	fgLines := strings.Split(fg, "\n")
	x := max(0, width-blockWidth(fgLines)-margin)
	y := max(0, height-len(fgLines)-margin)
	return place(background, fgLines, x, y, height, false)
}

func place(background string, fgLines []string, x, y, height int, dimBackground bool) string {
	bgLines := strings.Split(background, "\n")
	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}
	fgWidth := blockWidth(fgLines)

	out := make([]string, height)
	for row := 0; row < height; row++ {
		bg := bgLines[row]
		if dimBackground {
			bg = ansi.Strip(bg)
		}
		if i := row - y; i >= 0 && i < len(fgLines) {
			out[row] = splice(bg, fgLines[i], x, fgWidth, dimBackground)
			continue
		}
		if dimBackground {
			bg = DimStyle.Render(bg)
		}
		out[row] = bg
	}
	return strings.Join(out, "\n")
}

// splice replaces the cells [x, x+w) of bg with fg.
func splice(bg, fg string, x, w int, dimBackground bool) string {
	style := func(s string) string {
		if dimBackground && s != "" {
			return DimStyle.Render(s)
		}
		return s
	}

	var b strings.Builder
	left := ansi.Truncate(bg, x, "")
	b.WriteString(style(left))
	if pad := x - ansi.StringWidth(left); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(fg)
	if pad := w - ansi.StringWidth(fg); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	if bgWidth := ansi.StringWidth(bg); bgWidth > x+w {
		b.WriteString(style(ansi.Cut(bg, x+w, bgWidth)))
	}
	return b.String()
}

func blockWidth(lines []string) int {
	w := 0
	for _, l := range lines {
		w = max(w, ansi.StringWidth(l))
	}
	return w
}
