package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color modes accepted by NewTheme.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Theme centralizes the styling of console blocks.
// Payload text and header values are never styled.
type Theme struct {
	enabled bool

	Banner  lipgloss.Style
	Title   lipgloss.Style
	Section lipgloss.Style
	Key     lipgloss.Style
	Dim     lipgloss.Style

	Pass    lipgloss.Style
	Fail    lipgloss.Style
	Invalid lipgloss.Style
}

// PlainTheme returns a theme that emits no escape sequences.
func PlainTheme() Theme {
	return Theme{}
}

// NewTheme builds the default theme for output written to w.
// In auto mode colors are used only when w is a color-capable terminal.
func NewTheme(w io.Writer, mode string) (Theme, error) {
	r := lipgloss.NewRenderer(w)

	switch strings.ToLower(mode) {
	case ColorAuto, "":
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	case ColorNever:
		return PlainTheme(), nil
	default:
		return Theme{}, fmt.Errorf("unknown color mode %q", mode)
	}

	if r.ColorProfile() == termenv.Ascii {
		return PlainTheme(), nil
	}

	purple := lipgloss.Color("#874BFD")

	return Theme{
		enabled: true,

		Banner:  r.NewStyle().Foreground(purple),
		Title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")),
		Section: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#61AFEF")),
		Key:     r.NewStyle().Foreground(lipgloss.Color("#E5C07B")),
		Dim:     r.NewStyle().Foreground(lipgloss.Color("#888888")),

		Pass:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF00")),
		Fail:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000")),
		Invalid: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFF00")),
	}, nil
}

func (t Theme) paint(s lipgloss.Style, text string) string {
	if !t.enabled {
		return text
	}
	return s.Render(text)
}
