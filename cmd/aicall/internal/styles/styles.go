package styles

import "github.com/charmbracelet/lipgloss"

// GitHub terminal palette. Adaptive colors pick the light or dark variant
// from the detected background.
var (
	ColorFg      = lipgloss.AdaptiveColor{Light: "#24292f", Dark: "#e6edf3"} // primary foreground
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#656d76", Dark: "#8d96a0"} // muted/dim text
	ColorAccent  = lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#4493f8"} // accent blue
	ColorError   = lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f85149"} // error red
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#3fb950"} // success green
	ColorMagenta = lipgloss.AdaptiveColor{Light: "#8250df", Dark: "#ab7df8"} // purple/magenta
)

// Result block styles.
var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	LabelStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	ValueStyle   = lipgloss.NewStyle().Foreground(ColorFg)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	DimStyle     = lipgloss.NewStyle().Foreground(ColorMuted)

	ResponseBlockStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				BorderLeft(true).
				BorderStyle(lipgloss.ThickBorder()).
				BorderForeground(ColorAccent)

	ErrorBlockStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(ColorError).
			Foreground(ColorError)
)

// Table styles for the providers listing.
var (
	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent).PaddingRight(2)
	TableCellStyle   = lipgloss.NewStyle().PaddingRight(2)
	TableBorderStyle = lipgloss.NewStyle().Foreground(ColorMuted)
)

// SpinnerStyle colors the in-flight indicator.
var SpinnerStyle = lipgloss.NewStyle().Foreground(ColorMagenta)

// TreeCorner prefixes nested detail lines.
const TreeCorner = "└ "
