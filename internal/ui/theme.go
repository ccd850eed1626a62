package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/bamsammich/treecopy/internal/config"
)

// Theme is the color palette for terminal output.
type Theme struct {
	Green  lipgloss.Color
	Red    lipgloss.Color
	Yellow lipgloss.Color
	Muted  lipgloss.Color
}

// DefaultTheme is the Catppuccin Mocha palette.
var DefaultTheme = Theme{
	Green:  lipgloss.Color("#a6e3a1"),
	Red:    lipgloss.Color("#f38ba8"),
	Yellow: lipgloss.Color("#f9e2af"),
	Muted:  lipgloss.Color("#5a6278"),
}

// WithOverrides returns t with the colors set in the config file applied.
func (t Theme) WithOverrides(cfg config.ThemeConfig) Theme {
	apply := func(dst *lipgloss.Color, src *string) {
		if src != nil && *src != "" {
			*dst = lipgloss.Color(*src)
		}
	}
	apply(&t.Green, cfg.Green)
	apply(&t.Red, cfg.Red)
	apply(&t.Yellow, cfg.Yellow)
	apply(&t.Muted, cfg.Muted)
	return t
}

// styles are bound to one writer: the renderer detects that writer's color
// support, so output to a pipe or buffer stays free of escape codes.
type styles struct {
	done    lipgloss.Style
	failed  lipgloss.Style
	skipped lipgloss.Style
	warn    lipgloss.Style
	muted   lipgloss.Style
	header  lipgloss.Style
}

func newStyles(w io.Writer, t Theme) styles {
	if w == nil {
		w = io.Discard
	}
	if t == (Theme{}) {
		t = DefaultTheme
	}
	r := lipgloss.NewRenderer(w)
	return styles{
		done:    r.NewStyle().Foreground(t.Green),
		failed:  r.NewStyle().Foreground(t.Red),
		skipped: r.NewStyle().Foreground(t.Muted),
		warn:    r.NewStyle().Foreground(t.Yellow),
		muted:   r.NewStyle().Foreground(t.Muted),
		header:  r.NewStyle().Bold(true),
	}
}

func (s styles) summary(outcome string) lipgloss.Style {
	if outcome == "Success" {
		return s.done
	}
	return s.failed
}

func (s styles) outcome(name string) lipgloss.Style {
	switch name {
	case "Success", "RollbackSuccess":
		return s.done
	case "Skipped":
		return s.skipped
	case "Canceled":
		return s.warn
	default:
		return s.failed
	}
}
