package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskdash/internal/models"
)

// Palette is the set of colors every style is cut from
type Palette struct {
	Surface lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color

	// priority and status colors
	High   lipgloss.Color
	Medium lipgloss.Color
	Low    lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Cursor      lipgloss.Color
	OpenRow     lipgloss.Color
}

// Dark is the only palette; it suits dark terminals
var Dark = Palette{
	Surface: lipgloss.Color("#1a1b26"),
	Text:    lipgloss.Color("#c0caf5"),
	Muted:   lipgloss.Color("#565f89"),
	Accent:  lipgloss.Color("#7aa2f7"),

	High:   lipgloss.Color("#f7768e"),
	Medium: lipgloss.Color("#e0af68"),
	Low:    lipgloss.Color("#9ece6a"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Cursor:      lipgloss.Color("#33467c"),
	OpenRow:     lipgloss.Color("#24283b"),
}

// Colors is the palette NewStyles reads
var Colors = Dark

const maxWidth = 100

// ContentWidth caps the layout width at 100 columns
func ContentWidth(terminalWidth int) int {
	return min(terminalWidth, maxWidth)
}

// CenterView centers content on terminals wider than the layout
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= maxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Center, lipgloss.Top, content)
}

// Styles holds all the pre-computed styles for the UI
type Styles struct {
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	// Tabs
	Tab       lipgloss.Style
	TabActive lipgloss.Style

	// Lists
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	ListExpanded lipgloss.Style

	// Tasks
	TaskTitle lipgloss.Style
	TaskDone  lipgloss.Style
	TaskMeta  lipgloss.Style

	// Filter chips
	Chip       lipgloss.Style
	ChipActive lipgloss.Style

	// Buttons
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	// Input fields
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// Overlays
	Modal lipgloss.Style

	// Help text
	Help    lipgloss.Style
	HelpKey lipgloss.Style

	// Status line
	StatusError lipgloss.Style
	StatusInfo  lipgloss.Style
}

// NewStyles cuts the styles from Colors
func NewStyles() *Styles {
	t := Colors

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.Muted),

		Tab: lipgloss.NewStyle().
			Foreground(t.Muted).
			Padding(0, 2),

		TabActive: lipgloss.NewStyle().
			Foreground(t.Accent).
			Padding(0, 2).
			Bold(true).
			Underline(true),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Text).
			Padding(0, 2),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Accent).
			Background(t.Cursor).
			Padding(0, 2).
			Bold(true),

		ListExpanded: lipgloss.NewStyle().
			Foreground(t.Text).
			Background(t.OpenRow).
			Padding(0, 2),

		TaskTitle: lipgloss.NewStyle().
			Foreground(t.Text),

		TaskDone: lipgloss.NewStyle().
			Foreground(t.Muted).
			Strikethrough(true),

		TaskMeta: lipgloss.NewStyle().
			Foreground(t.Muted),

		Chip: lipgloss.NewStyle().
			Foreground(t.Muted).
			Padding(0, 1),

		ChipActive: lipgloss.NewStyle().
			Foreground(t.Surface).
			Background(t.Accent).
			Padding(0, 1).
			Bold(true),

		Button: lipgloss.NewStyle().
			Foreground(t.Text).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Accent).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 2).
			Bold(true),

		ButtonPrimary: lipgloss.NewStyle().
			Foreground(t.Surface).
			Background(t.Accent).
			Padding(0, 2).
			Bold(true),

		Input: lipgloss.NewStyle().
			Foreground(t.Text).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Text).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		Modal: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus),

		Help: lipgloss.NewStyle().
			Foreground(t.Muted).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),

		StatusError: lipgloss.NewStyle().
			Foreground(t.High).
			Padding(0, 2),

		StatusInfo: lipgloss.NewStyle().
			Foreground(t.Low).
			Padding(0, 2),
	}
}

// Priority returns the style for a priority label
func (s *Styles) Priority(p models.Priority) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch p {
	case models.PriorityHigh:
		return base.Foreground(Colors.High)
	case models.PriorityMedium:
		return base.Foreground(Colors.Medium)
	case models.PriorityLow:
		return base.Foreground(Colors.Low)
	}
	return base.Foreground(Colors.Muted)
}
