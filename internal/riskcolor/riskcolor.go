// Package riskcolor renders risk levels with terminal colors.
package riskcolor

import (
	"strings"

	"github.com/fatih/color"

	"github.com/saumyapandey31/Phishnet/internal/model"
)

var (
	green  = color.New(color.FgGreen, color.Bold)
	yellow = color.New(color.FgYellow, color.Bold)
	red    = color.New(color.FgRed, color.Bold)
	gray   = color.New(color.FgHiBlack)
)

// Disable turns colors off for every helper in this package.
func Disable() { color.NoColor = true }

func colorFor(level model.RiskLevel) *color.Color {
	switch level {
	case model.RiskSafe:
		return green
	case model.RiskSuspicious:
		return yellow
	case model.RiskDangerous:
		return red
	default:
		return gray
	}
}

// Label returns the upper-cased level wrapped in its color
// (safe -> green, suspicious -> yellow, dangerous -> red).
func Label(level model.RiskLevel) string {
	if level == "" {
		return gray.Sprint("-")
	}
	return colorFor(level).Sprint(strings.ToUpper(string(level)))
}

// WrapByLevel wraps text with the color of level.
func WrapByLevel(text string, level model.RiskLevel) string {
	return colorFor(level).Sprint(text)
}

// Gray wraps text in gray.
func Gray(text string) string {
	return gray.Sprint(text)
}
