package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sitesource/internal/core/domain"
)

// stateWidth pads state labels so keys line up.
const stateWidth = 20

// palette holds the colours used for command output.
type palette struct {
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color
}

var defaultPalette = palette{
	Success: lipgloss.Color("#A6E3A1"), // Green
	Warning: lipgloss.Color("#F9E2AF"), // Yellow
	Error:   lipgloss.Color("#F38BA8"), // Red
	Muted:   lipgloss.Color("#6C7086"), // Medium gray
}

// styles renders labels for one output writer. Colour is dropped when
// the writer is not a terminal.
type styles struct {
	renderer *lipgloss.Renderer
	palette  palette
}

func newStyles(w io.Writer) *styles {
	return &styles{
		renderer: lipgloss.NewRenderer(w),
		palette:  defaultPalette,
	}
}

// State renders an item state padded to stateWidth.
func (s *styles) State(state domain.ItemState) string {
	style := s.renderer.NewStyle().Width(stateWidth)
	switch state {
	case domain.StateAdded:
		style = style.Foreground(s.palette.Success)
	case domain.StateRemoved:
		style = style.Foreground(s.palette.Error)
	case domain.StateUnchanged:
		style = style.Foreground(s.palette.Muted)
	default:
		style = style.Foreground(s.palette.Warning)
	}
	return style.Render(state.String())
}
