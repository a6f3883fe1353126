// Package style provides shared UI styling primitives including brand colors
// and icons for consistent visual presentation across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
	Blue   = lipgloss.Color("#2563EB")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Plus    = "+"
	Minus   = "-"
	Dot     = "●"
	Circle  = "○"
	Arrow   = "→"
)

// Styles are the text styles bound to one lipgloss renderer.
type Styles struct {
	Heading lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Danger  lipgloss.Style
	Caution lipgloss.Style
	Accent  lipgloss.Style
}

// New returns the styles rendered through r.
func New(r *lipgloss.Renderer) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Styles{
		Heading: r.NewStyle().Bold(true).Foreground(Iris),
		Muted:   r.NewStyle().Foreground(Slate),
		Success: r.NewStyle().Foreground(Green),
		Danger:  r.NewStyle().Foreground(Red),
		Caution: r.NewStyle().Foreground(Yellow),
		Accent:  r.NewStyle().Foreground(Blue),
	}
}

// ChangeIcon returns the marker shown next to a staged change of the given kind.
// Kinds are the change type names add, update and delete, plus the diff kinds
// added, modified and removed.
func ChangeIcon(kind string) string {
	switch kind {
	case "add", "added":
		return Plus
	case "update", "modified":
		return Tilde
	case "delete", "removed":
		return Minus
	default:
		return Dot
	}
}

// Change returns the style used to render a change of the given kind.
func (s Styles) Change(kind string) lipgloss.Style {
	switch kind {
	case "add", "added":
		return s.Success
	case "update", "modified":
		return s.Caution
	case "delete", "removed":
		return s.Danger
	default:
		return s.Muted
	}
}

// Status returns the style for a changeset status label.
func (s Styles) Status(status string) lipgloss.Style {
	switch status {
	case "draft":
		return s.Accent
	case "committed":
		return s.Success
	default:
		return s.Muted
	}
}
