// Package chart draws small braille plots for RR series and histograms.
package chart

import (
	"fmt"
	"image/color"
	"slices"
	"strings"

	drawille "github.com/exrook/drawille-go"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/rrdash/internal/tui/theme"
)

// each braille cell is 2 dots wide and 4 dots tall
const (
	dotsPerCol = 2
	dotsPerRow = 4
)

type Chart struct {
	Width  int // cells
	Height int // cells
	Label  string
	Color  color.Color
}

func New(width, height int, label string, c color.Color) Chart {
	return Chart{
		Width:  max(width, 4),
		Height: max(height, 2),
		Label:  label,
		Color:  c,
	}
}

// Line plots values left to right, scaled to fill the chart.
func (c Chart) Line(values []float64) string {
	if len(values) == 0 {
		return c.empty()
	}

	var (
		canvas = drawille.NewCanvas()
		w, h   = c.dots()
		lo, hi = bounds(values)
		prevX  = -1
		prevY  = 0
	)
	for i, v := range values {
		x := scaleX(i, len(values), w)
		y := scaleY(v, lo, hi, h)
		if prevX >= 0 {
			line(&canvas, prevX, prevY, x, y)
		} else {
			canvas.Set(x, y)
		}
		prevX, prevY = x, y
	}

	return c.render(&canvas, fmt.Sprintf("%s  %.0f–%.0f ms", c.Label, lo, hi))
}

// Bars draws one vertical bar per count.
func (c Chart) Bars(counts []int) string {
	if len(counts) == 0 {
		return c.empty()
	}

	var (
		canvas = drawille.NewCanvas()
		w, h   = c.dots()
		peak   = slices.Max(counts)
	)
	for i, n := range counts {
		if n <= 0 || peak == 0 {
			continue
		}
		x0 := i * w / len(counts)
		x1 := max((i+1)*w/len(counts)-1, x0)
		top := scaleY(float64(n), 0, float64(peak), h)
		for x := x0; x <= x1; x++ {
			line(&canvas, x, h-1, x, top)
		}
	}

	return c.render(&canvas, fmt.Sprintf("%s  peak %d", c.Label, peak))
}

func (c Chart) dots() (int, int) {
	return c.Width * dotsPerCol, c.Height * dotsPerRow
}

func (c Chart) empty() string {
	body := lipgloss.Place(c.Width, c.Height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.ColorDim).Render("no data"))
	return lipgloss.JoinVertical(lipgloss.Left, body, c.caption(c.Label))
}

func (c Chart) render(canvas *drawille.Canvas, caption string) string {
	w, h := c.dots()
	plot := lipgloss.NewStyle().Foreground(c.Color).Render(frame(canvas, w, h))
	return lipgloss.JoinVertical(lipgloss.Left, plot, c.caption(caption))
}

func (c Chart) caption(s string) string {
	return lipgloss.NewStyle().
		Foreground(theme.ColorDim).
		MaxWidth(c.Width).
		Render(s)
}

// frame renders the canvas padded or truncated to exactly width x height dots.
func frame(canvas *drawille.Canvas, width, height int) string {
	var (
		cols  = width / dotsPerCol
		rows  = canvas.Rows(0, 0, width, height)
		lines = make([]string, height/dotsPerRow)
	)
	for i := range lines {
		var row []rune
		if i < len(rows) {
			row = []rune(rows[i])
		}
		switch {
		case len(row) < cols:
			lines[i] = string(row) + strings.Repeat(" ", cols-len(row))
		default:
			lines[i] = string(row[:cols])
		}
	}
	return strings.Join(lines, "\n")
}

func bounds(values []float64) (float64, float64) {
	return slices.Min(values), slices.Max(values)
}

func scaleX(i, n, width int) int {
	if n <= 1 {
		return 0
	}
	return i * (width - 1) / (n - 1)
}

// scaleY maps v onto dot rows with hi at the top. A flat series sits mid-height.
func scaleY(v, lo, hi float64, height int) int {
	if hi <= lo {
		return height / 2
	}
	frac := (v - lo) / (hi - lo)
	return (height - 1) - int(frac*float64(height-1)+0.5)
}

// line sets every dot between two points (Bresenham).
func line(canvas *drawille.Canvas, x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := step(x0, x1), step(y0, y1)
	err := dx + dy
	for {
		canvas.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func step(from, to int) int {
	if from < to {
		return 1
	}
	return -1
}
