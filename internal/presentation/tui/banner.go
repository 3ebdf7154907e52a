package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`  ____             _ _     _   `, "#34d399"},
	{` |  _ \ __ _ _   _| (_)___| |_ `, "#2dd4bf"},
	{` | |_) / _' | | | | | / __| __|`, "#22d3ee"},
	{` |  __/ (_| | |_| | | \__ \ |_ `, "#38bdf8"},
	{` |_|   \__,_|\__, |_|_|___/\__|`, "#60a5fa"},
	{`             |___/             `, "#818cf8"},
}

// PrintBanner writes the paylist banner in the terminal's color profile.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, out.String(line.text).Foreground(out.Color(line.color)))
	}
	fmt.Fprintln(w, out.String("  payment methods by country · v"+version).Faint())
	fmt.Fprintln(w)
}

// Hint writes a dimmed one-line hint.
func Hint(w io.Writer, msg string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w, out.String(msg).Faint())
}
