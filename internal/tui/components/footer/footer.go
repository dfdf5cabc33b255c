package footer

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/rrdash/internal/tui/theme"
	"github.com/garrettladley/rrdash/internal/version"
)

var (
	versionStyle = lipgloss.NewStyle().Foreground(theme.ColorDim)
	keyStyle     = lipgloss.NewStyle().Foreground(theme.ColorWhite).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(theme.ColorDim)
)

// Binding is one key hint shown in the footer.
type Binding struct {
	Key  string
	Help string
}

type Footer struct {
	bindings     []Binding
	rightContent string
	width        int
	padding      int
}

func New(bindings []Binding, rightContent string, width int) Footer {
	return Footer{
		bindings:     bindings,
		rightContent: rightContent,
		width:        width,
		padding:      2,
	}
}

func (f Footer) Render() string {
	leftContent := f.leftContent()

	leftWidth := lipgloss.Width(leftContent)
	rightWidth := lipgloss.Width(f.rightContent)
	spacerWidth := max(f.width-leftWidth-rightWidth-(f.padding*2), 0)

	return lipgloss.NewStyle().
		PaddingLeft(f.padding).
		PaddingRight(f.padding).
		PaddingBottom(1).
		Render(leftContent + strings.Repeat(" ", spacerWidth) + f.rightContent)
}

func (f Footer) leftContent() string {
	parts := []string{versionStyle.Render(version.Get())}
	for _, b := range f.bindings {
		parts = append(parts, keyStyle.Render(b.Key)+" "+hintStyle.Render(b.Help))
	}
	return strings.Join(parts, "  ")
}
