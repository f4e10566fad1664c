// Package viz renders a running lattice in the terminal.
package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/csnje/lbflow/internal/flow"
	"github.com/csnje/lbflow/internal/metrics"
	"github.com/csnje/lbflow/internal/render"
)

const (
	fieldWidth      = 78
	fieldHeight     = 24
	historyCapacity = 600
)

// Rune ramp from low to high field magnitude.
var shades = []rune{' ', '░', '▒', '▓', '█'}

type TickMsg time.Time

// Model drives the live terminal view of a flow simulation.
type Model struct {
	build    func() (*flow.Runner, error)
	runner   *flow.Runner
	scenario string
	err      error

	quantity     render.Quantity
	reference    float64
	densityRef   float64
	running      bool
	tick         int
	ticksPerStep int

	mass        *metrics.Mass
	massHistory []float64

	showHelp bool
}

// NewModel builds the initial view state. The build function constructs a
// fresh runner and is reused on reset.
func NewModel(build func() (*flow.Runner, error), scenario string, densityRef float64, ticksPerStep int) (Model, error) {
	runner, err := build()
	if err != nil {
		return Model{}, err
	}
	if ticksPerStep < 1 {
		ticksPerStep = 1
	}
	return Model{
		build:        build,
		runner:       runner,
		scenario:     scenario,
		quantity:     render.Speed,
		densityRef:   densityRef,
		running:      true,
		ticksPerStep: ticksPerStep,
		mass:         metrics.NewMass(),
		massHistory:  make([]float64, 0, historyCapacity),
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab", "v":
			m.cycleQuantity()
		case "+", "=":
			m.ticksPerStep++
		case "-", "_":
			if m.ticksPerStep > 1 {
				m.ticksPerStep--
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil {
			for i := 0; i < m.ticksPerStep; i++ {
				m.runner.Step()
				m.tick++
			}
			m.mass.Observe(m.runner.Lattice(), m.tick)
			m.massHistory = append(m.massHistory, m.mass.Value())
			if len(m.massHistory) > historyCapacity {
				m.massHistory = m.massHistory[1:]
			}
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) cycleQuantity() {
	switch m.quantity {
	case render.Density:
		m.quantity = render.Speed
	case render.Speed:
		m.quantity = render.Vorticity
	default:
		m.quantity = render.Density
	}
}

func (m *Model) reset() {
	runner, err := m.build()
	if err != nil {
		m.err = err
		return
	}
	m.runner = runner
	m.tick = 0
	m.massHistory = m.massHistory[:0]
	m.mass.Reset()
}

// View renders the field panel next to a stats panel.
func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("error: %v\n", m.err)
	}

	fieldView := fieldStyle.Render(m.renderField())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scenario)) + "\n")
	if m.running {
		s.WriteString("RUNNING\n\n")
	} else {
		s.WriteString("PAUSED\n\n")
	}

	if len(m.massHistory) > 1 {
		chart := asciigraph.Plot(m.massHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Mass"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Tick") + valueStyle.Render(fmt.Sprintf("%d", m.tick)) + "\n")
	s.WriteString(labelStyle.Render("Tau") + valueStyle.Render(fmt.Sprintf("%.4f", m.runner.Tau())) + "\n")
	s.WriteString(labelStyle.Render("Quantity") + quantityStyle.Render(m.quantity.String()) + "\n")
	s.WriteString(labelStyle.Render("Ticks/frame") + valueStyle.Render(fmt.Sprintf("%d", m.ticksPerStep)) + "\n")
	if len(m.massHistory) > 0 {
		s.WriteString(labelStyle.Render("Mass") + valueStyle.Render(fmt.Sprintf("%.2f", m.massHistory[len(m.massHistory)-1])) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\nTab:Quantity +/-:Speed ?:Help"))
	statsView := statsStyle.Render(s.String())

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, fieldView, statsView)
	if m.showHelp {
		return helpScreen + "\n\n" + mainView
	}
	return mainView
}

const helpScreen = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset to initial state   ║
║  Q        - Quit                     ║
║  Tab/V    - Cycle density/speed/     ║
║             vorticity                ║
║  +/-      - Ticks per frame          ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// renderField downsamples the lattice onto a character grid, shading each
// cell by its deviation from the reference value.
func (m Model) renderField() string {
	l := m.runner.Lattice()
	size := l.Size()
	if len(size) != 2 {
		return "(live view requires a 2-D lattice)"
	}

	w, h := fieldWidth, fieldHeight
	if size[0] < w {
		w = size[0]
	}
	if size[1] < h {
		h = size[1]
	}

	ref := 0.0
	if m.quantity == render.Density {
		ref = m.densityRef
	}

	values := make([]float64, w*h)
	solid := make([]bool, w*h)
	maxDev := 0.0
	pos := make([]int, 2)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pos[0] = x * size[0] / w
			pos[1] = y * size[1] / h
			i := y*w + x
			if l.Obstacle(pos) {
				solid[i] = true
				continue
			}
			var v float64
			switch m.quantity {
			case render.Density:
				v = l.Density(pos)
			case render.Speed:
				v = l.Velocity(pos)
			default:
				v = l.Vorticity(pos)
			}
			values[i] = v
			if dev := math.Abs(v - ref); dev > maxDev {
				maxDev = dev
			}
		}
	}

	var s strings.Builder
	// Row h-1 first so the y axis points up.
	for y := h - 1; y >= 0; y-- {
		for x := 0; x < w; x++ {
			i := y*w + x
			if solid[i] {
				s.WriteString(obstacleStyle.Render("#"))
				continue
			}
			shade := 0
			if maxDev > 0 {
				shade = int(math.Abs(values[i]-ref) / maxDev * float64(len(shades)-1))
				if shade >= len(shades) {
					shade = len(shades) - 1
				}
			}
			s.WriteRune(shades[shade])
		}
		if y > 0 {
			s.WriteByte('\n')
		}
	}
	return s.String()
}
