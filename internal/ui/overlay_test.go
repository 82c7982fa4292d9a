package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestBlockWidth(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  int
	}{
		{"empty", []string{}, 0},
		{"multiple", []string{"hi", "hello", "hey"}, 5},
		{"with ansi", []string{"\x1b[31mred\x1b[0m"}, 3},
		{"wide runes", []string{"日本"}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := blockWidth(tt.lines); got != tt.want {
				t.Errorf("blockWidth() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSplice(t *testing.T) {
	tests := []struct {
		name string
		bg   string
		fg   string
		x, w int
		want string
	}{
		{"middle", "abcdefghij", "XY", 3, 2, "abcXYfghij"},
		{"left edge", "abcdef", "XY", 0, 2, "XYcdef"},
		{"background too short", "ab", "XY", 5, 2, "ab   XY"},
		{"fg narrower than block", "abcdefgh", "X", 2, 3, "abX  fgh"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splice(tt.bg, tt.fg, tt.x, tt.w, false); got != tt.want {
				t.Errorf("splice() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOverlayModal(t *testing.T) {
	result := OverlayModal("line1\n\x1b[31mline2\x1b[0m\nline3\nline4\nline5", "[M]", 10, 5)
	lines := strings.Split(result, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[2], "[M]") {
		t.Errorf("modal not centered: %q", lines[2])
	}
	if strings.Contains(result, "\x1b[31m") {
		t.Error("background colors should be stripped")
	}
	if got := ansi.Strip(lines[0]); got != "line1" {
		t.Errorf("background text lost: %q", got)
	}
}

func TestOverlayBottomRight(t *testing.T) {
	bg := strings.Repeat("..........\n", 3) + ".........."
	result := OverlayBottomRight(bg, "OK", 10, 4, 0)
	lines := strings.Split(result, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if lines[3] != "........OK" {
		t.Errorf("toast misplaced: %q", lines[3])
	}
	if lines[0] != ".........." {
		t.Errorf("background should be untouched: %q", lines[0])
	}
}
