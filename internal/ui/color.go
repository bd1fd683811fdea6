// Package ui holds terminal styling helpers
package ui

import (
	"github.com/pterm/pterm"

	"github.com/ayoisaiah/upright/internal/posture"
)

var DarkTheme bool

func Green(a any) string {
	if DarkTheme {
		return pterm.LightGreen(a)
	}

	return pterm.Green(a)
}

func Yellow(a any) string {
	if DarkTheme {
		return pterm.LightYellow(a)
	}

	return pterm.Yellow(a)
}

func Cyan(a any) string {
	if DarkTheme {
		return pterm.LightCyan(a)
	}

	return pterm.Cyan(a)
}

func Red(a any) string {
	if DarkTheme {
		return pterm.LightRed(a)
	}

	return pterm.Red(a)
}

func Gray(a any) string {
	return pterm.Gray(a)
}

// Label colours a posture label by severity.
func Label(l posture.Label) string {
	switch l {
	case posture.Good:
		return Green(l)
	case posture.Slouching, posture.ForwardLean, posture.UnevenShoulders:
		return Yellow(l)
	case posture.ForwardLeanUnevenShoulders:
		return Red(l)
	default:
		return Gray(l)
	}
}

// Risk colours a risk score. Scores of 4 and above are high.
func Risk(score float64) string {
	s := pterm.Sprintf("%.2f", score)

	switch {
	case score >= 4:
		return Red(s)
	case score >= 2:
		return Yellow(s)
	default:
		return Green(s)
	}
}
