package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the arbor banner to w, coloured for the terminal profile.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Greens from canopy to bark
	lines := []struct {
		text  string
		color string
	}{
		{"                 _                ", "#86efac"},
		{"   __ _ _ __ ___| |__   ___  _ __ ", "#4ade80"},
		{"  / _` | '__/ __| '_ \\ / _ \\| '__|", "#22c55e"},
		{" | (_| | | | (__| |_) | (_) | |   ", "#16a34a"},
		{"  \\__,_|_|  \\___|_.__/ \\___/|_|   ", "#a16207"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Highlight colours s for emphasis on capable terminals.
func Highlight(s string) string {
	p := termenv.ColorProfile()
	return termenv.String(s).Foreground(p.Color("#22c55e")).Bold().String()
}
