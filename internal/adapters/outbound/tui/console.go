package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/diaglens/diaglens/internal/domain"
)

// Console writes tone-styled lines for the triage session. Colors are only
// emitted when the writer is a color-capable terminal.
type Console struct {
	w      io.Writer
	styles map[domain.Tone]lipgloss.Style
}

// NewConsole creates a console bound to w.
func NewConsole(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)
	return &Console{
		w: w,
		styles: map[domain.Tone]lipgloss.Style{
			domain.ToneTitle:   r.NewStyle().Bold(true).Foreground(accent),
			domain.ToneAccent:  r.NewStyle().Foreground(cyan),
			domain.ToneBold:    r.NewStyle().Bold(true),
			domain.ToneSuccess: r.NewStyle().Foreground(success),
			domain.ToneError:   r.NewStyle().Foreground(danger),
			domain.ToneWarning: r.NewStyle().Foreground(warning),
			domain.ToneInfo:    r.NewStyle().Foreground(info),
			domain.ToneMuted:   r.NewStyle().Foreground(dim),
		},
	}
}

func (c *Console) Println(tone domain.Tone, text string) {
	fmt.Fprintln(c.w, c.render(tone, text))
}

// Prompt writes text without a trailing newline.
func (c *Console) Prompt(text string) {
	fmt.Fprint(c.w, c.render(domain.ToneWarning, text))
}

func (c *Console) render(tone domain.Tone, text string) string {
	style, ok := c.styles[tone]
	if !ok || text == "" {
		return text
	}
	return style.Render(text)
}

var symbols = map[string]string{
	"back":      "↩",
	"check":     "✓",
	"clipboard": "📋",
	"clock":     "⏳",
	"document":  "📄",
	"error":     domain.IconError,
	"file":      "📁",
	"info":      domain.IconInfo,
	"question":  "❓",
	"quit":      "👋",
	"save":      "💾",
	"scan":      "🔍",
	"warning":   domain.IconWarning,
}

// Symbol returns the glyph registered for name, or a bullet.
func (c *Console) Symbol(name string) string {
	if s, ok := symbols[name]; ok {
		return s
	}
	return "•"
}
