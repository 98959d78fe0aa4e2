package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/noisegraph/noisegraph/pkg/noise"
)

// shadeRamp maps noise values to the ANSI 256 grayscale ramp. Index 0 is
// black (value -1), the last index white (value +1).
var shadeRamp = func() []lipgloss.Style {
	styles := make([]lipgloss.Style, 24)
	for i := range styles {
		color := lipgloss.Color(fmt.Sprintf("%d", 232+i))
		styles[i] = lipgloss.NewStyle().Foreground(color).Background(color)
	}
	return styles
}()

// shadeFor picks the ramp style for a noise value, clamping to [-1, 1].
func shadeFor(v float64) lipgloss.Style {
	if v < -1 {
		v = -1
	} else if v > 1 {
		v = 1
	}
	i := int((v + 1) / 2 * float64(len(shadeRamp)-1))
	return shadeRamp[i]
}

// PreviewModel is the bubbletea model for the interactive noise preview.
// It samples the compiled function over the visible terminal area and
// re-samples on every pan or zoom.
type PreviewModel struct {
	Fn     noise.Function
	Output string

	Scale   float64
	OriginX float64
	OriginY float64

	width  int
	height int
}

// NewPreviewModel creates a preview model centered on the origin.
func NewPreviewModel(fn noise.Function, output string, scale float64) PreviewModel {
	return PreviewModel{
		Fn:     fn,
		Output: output,
		Scale:  scale,
		width:  80,
		height: 24,
	}
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		step := m.Scale * 8
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.OriginY -= step
		case "down", "j":
			m.OriginY += step
		case "left", "h":
			m.OriginX -= step
		case "right", "l":
			m.OriginX += step
		case "+", "=":
			m.Scale /= 1.25
		case "-", "_":
			m.Scale *= 1.25
		case "0":
			m.OriginX, m.OriginY = 0, 0
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height - 3
		if m.height < 4 {
			m.height = 4
		}
	}
	return m, nil
}

func (m PreviewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Preview: " + m.Output))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("origin (%.2f, %.2f)  scale %.4f", m.OriginX, m.OriginY, m.Scale)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓/←/→ pan  +/- zoom  0 recenter  q quit"))
	b.WriteString("\n")

	// Terminal cells are roughly twice as tall as wide; step y twice as
	// far as x so the preview is not vertically stretched.
	p := []float64{0, 0}
	for row := 0; row < m.height; row++ {
		p[1] = m.OriginY + float64(row)*m.Scale*2
		for col := 0; col < m.width; col++ {
			p[0] = m.OriginX + float64(col)*m.Scale
			b.WriteString(shadeFor(m.Fn.Eval(p)).Render(" "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
