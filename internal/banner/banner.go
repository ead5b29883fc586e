package banner

import (
	"io"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
)

// Fprint writes the PhishNet banner to w.
func Fprint(w io.Writer) {
	art := figure.NewColorFigure("PHISHNET", "doom", "cyan", true).ColorString()
	if color.NoColor {
		art = figure.NewFigure("PHISHNET", "doom", true).String()
	}
	_, _ = io.WriteString(w, art+"\n")

	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)

	_, _ = cyan.Fprintln(w, "════════════════════════════════════════════════")
	_, _ = green.Fprintln(w, "    URL risk scanner | phishing awareness toolkit")
	_, _ = cyan.Fprintln(w, "════════════════════════════════════════════════")
}
