package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/larvasim/internal/caterpillar"
	"github.com/san-kum/larvasim/internal/sim"
)

const (
	viewWidth  = 72
	viewHeight = 18
	tickRate   = time.Second / 30
)

type TickMsg time.Time

// Model is the interactive live view: it owns the body and steps it in
// real time between render ticks.
type Model struct {
	body    *caterpillar.Caterpillar
	driver  sim.Driver
	rebuild func() (*caterpillar.Caterpillar, error)

	dt       float64
	speed    float64 // simulated seconds per wall second
	view     *BodyView
	running  bool
	showHelp bool
	err      error
}

// NewModel builds the live view. rebuild produces a fresh body for the
// reset key.
func NewModel(body *caterpillar.Caterpillar, driver sim.Driver, dt float64, terrain *caterpillar.Terrain, rebuild func() (*caterpillar.Caterpillar, error)) Model {
	return Model{
		body:    body,
		driver:  driver,
		rebuild: rebuild,
		dt:      dt,
		speed:   1.0,
		view:    NewBodyView(viewWidth, viewHeight, terrain, body.Params().SomiteRadius),
		running: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
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
			if m.rebuild != nil {
				if body, err := m.rebuild(); err == nil {
					m.body = body
					m.err = nil
				}
			}
		case "+", "=":
			if m.speed < 8 {
				m.speed *= 2
			}
		case "-":
			if m.speed > 0.125 {
				m.speed /= 2
			}
		case "?":
			m.showHelp = !m.showHelp
		}
		return m, nil

	case TickMsg:
		if m.running && m.err == nil {
			stepsPerTick := int(m.speed * float64(tickRate) / float64(time.Second) / m.dt)
			if stepsPerTick < 1 {
				stepsPerTick = 1
			}
			for i := 0; i < stepsPerTick; i++ {
				if err := m.driver.Advance(m.body, m.dt); err != nil {
					m.err = err
					m.running = false
					break
				}
			}
		}
		return m, tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m Model) View() string {
	frame := m.snapshot()
	canvas := canvasStyle.Render(m.view.Render(frame))
	stats := statsStyle.Render(m.renderStats(frame))

	out := lipgloss.JoinHorizontal(lipgloss.Top, canvas, stats)
	if m.showHelp {
		out += helpStyle.Render("\nspace pause · r reset · +/- speed · q quit")
	} else {
		out += helpStyle.Render("\n? for keys")
	}
	return out
}

func (m Model) snapshot() sim.Frame {
	return sim.Frame{
		Step:          m.body.StepCount(),
		Time:          m.body.Time(),
		Positions:     m.body.SomitePositions(),
		Phases:        m.body.SomitePhases(),
		GripperPhases: m.body.GripperPhases(),
		Tensions:      m.body.Tensions(),
		FrictionsX:    m.body.FrictionsX(),
		CenterOfMass:  m.body.CenterOfMass(),
		HeadX:         m.body.HeadPosition().X,
		Energy:        m.body.Energy(),
	}
}

func (m Model) renderStats(f sim.Frame) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("larvasim") + "\n\n")
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("time", fmt.Sprintf("%8.2f s", f.Time))
	row("speed", fmt.Sprintf("%8.2fx", m.speed))
	row("com x", fmt.Sprintf("%8.3f m", f.CenterOfMass.X))
	row("head x", fmt.Sprintf("%8.3f m", f.HeadX))
	row("energy", fmt.Sprintf("%8.3f J", f.Energy))

	b.WriteString("\n" + labelStyle.Render("grippers"))
	var grips []string
	for i := 0; i < m.body.SomiteCount(); i++ {
		if m.body.Somite(i).IsGripping() {
			grips = append(grips, fmt.Sprintf("%d", i))
		}
	}
	if len(grips) == 0 {
		b.WriteString(valueStyle.Render("none"))
	} else {
		b.WriteString(gripStyle.Render(strings.Join(grips, " ")))
	}
	b.WriteString("\n")

	if len(f.Tensions) > 0 {
		b.WriteString("\n" + labelStyle.Render("tensions") + Sparkline(f.Tensions) + "\n")
	}

	if m.err != nil {
		b.WriteString("\n" + pausedStyle.Render(fmt.Sprintf("error: %v", m.err)) + "\n")
	} else if !m.running {
		b.WriteString("\n" + pausedStyle.Render("paused") + "\n")
	}
	return b.String()
}
