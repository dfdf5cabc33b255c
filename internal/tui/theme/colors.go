package theme

import "charm.land/lipgloss/v2"

var (
	ColorBlack = lipgloss.Color("#000000")
	ColorWhite = lipgloss.Color("#FFFFFF")
	ColorDim   = lipgloss.Color("#666666")
)

var (
	ColorPeriod1 = lipgloss.Color("#00F19F") // first period, single panel
	ColorPeriod2 = lipgloss.Color("#67AEE6") // second period
	ColorOK      = lipgloss.Color("#16EC06")
	ColorWarn    = lipgloss.Color("#FFDE00")
	ColorError   = lipgloss.Color("#FF0026")
)

var (
	ColorBgDark  = lipgloss.Color("#101518")
	ColorBgLight = lipgloss.Color("#283339")
)
