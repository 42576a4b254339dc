package modal

import "github.com/charmbracelet/lipgloss"

// Palette shared by every dialog of the viewer.
var (
	Primary      = lipgloss.Color("212")
	Error        = lipgloss.Color("196")
	Warning      = lipgloss.Color("214")
	Info         = lipgloss.Color("45")
	Muted        = lipgloss.Color("241")
	BgSecondary  = lipgloss.Color("235")
	BorderNormal = lipgloss.Color("240")
)

// Button styles
var (
	Button = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Background(lipgloss.Color("238")).
		Padding(0, 2)

	ButtonFocused = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(Primary).
			Bold(true).
			Padding(0, 2)

	ButtonDanger = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("238")).
			Padding(0, 2)

	ButtonDangerFocused = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(Error).
				Bold(true).
				Padding(0, 2)
)

// Text styles
var (
	ModalTitle = lipgloss.NewStyle().Bold(true)
	MutedText  = lipgloss.NewStyle().Foreground(Muted)
	ErrorText  = lipgloss.NewStyle().Foreground(Error)
	Body       = lipgloss.NewStyle()
)

// Input styles. The error variant is used while a previous entry was rejected.
var (
	InputBox = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(BorderNormal).
			Padding(0, 1)

	InputBoxFocused = InputBox.
			BorderForeground(Primary)

	InputBoxError = InputBox.
			BorderForeground(Error)

	InputLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// List styles for list sections
var (
	ListItemNormal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	ListItemSelected = lipgloss.NewStyle().
				Background(lipgloss.Color("237")).
				Foreground(lipgloss.Color("255"))

	ListItemFocused = lipgloss.NewStyle().
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("255")).
			Bold(true)

	ListCursor = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)
)

// borderColor returns the frame color for a dialog variant.
func borderColor(v Variant) lipgloss.Color {
	switch v {
	case VariantDanger:
		return Error
	case VariantWarning:
		return Warning
	case VariantInfo:
		return Info
	default:
		return Primary
	}
}
