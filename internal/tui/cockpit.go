// Package tui is the terminal cockpit: it flies a scripted run in real time
// and shows attitude, air data and control positions.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/flightdyn/internal/sim"
)

const historyCapacity = 300

var (
	canvasStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	statsStyle  = lipgloss.NewStyle().Padding(0, 2).Width(44)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type tickMsg time.Time

type Model struct {
	runner  *sim.Runner
	title   string
	horizon *Horizon

	paused    bool
	done      bool
	err       error
	altitudes []float64
	last      sim.Sample
}

func New(r *sim.Runner, title string) Model {
	return Model{
		runner:    r,
		title:     title,
		horizon:   NewHorizon(40, 15),
		altitudes: make([]float64, 0, historyCapacity),
		last:      r.Last(),
	}
}

func (m Model) interval() time.Duration {
	return time.Duration(m.runner.Config().RenderDt * float64(time.Second))
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval(), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			m.runner.Reset()
			m.altitudes = m.altitudes[:0]
			m.last = m.runner.Last()
			m.done = false
			m.err = nil
		}
		return m, nil
	case tickMsg:
		if !m.paused && !m.done {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) advance() {
	s, err := m.runner.Step()
	if err != nil {
		m.err = err
		m.done = true
		return
	}
	m.last = s
	m.altitudes = append(m.altitudes, s.Altitude)
	if len(m.altitudes) > historyCapacity {
		m.altitudes = m.altitudes[1:]
	}
	if m.runner.Done() {
		m.done = true
	}
}

func (m Model) View() string {
	s := m.last
	canvas := canvasStyle.Render(m.horizon.Draw(s.Pitch, s.Bank, s.Wheels > 0))

	var b strings.Builder
	b.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	b.WriteString(m.status() + "\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", s.Time))
	row("Speed", fmt.Sprintf("%.1f m/s", s.Speed))
	row("Altitude", fmt.Sprintf("%.1f m", s.Altitude))
	row("Heading", fmt.Sprintf("%.0f°", degrees(s.Heading)))

	alpha := fmt.Sprintf("%+.1f°", degrees(s.Alpha))
	if m.stalled() {
		alpha += " " + warnStyle.Render("STALL")
	}
	row("Alpha", alpha)
	row("Beta", fmt.Sprintf("%+.1f°", degrees(s.Beta)))
	row("Power", gauge(s.Power, 0, 1, 16)+fmt.Sprintf(" %3.0f%%", s.Power*100))
	row("Rotor", spinner(s.Rotor))

	b.WriteString("\n")
	row("Aileron", deflection(s.Aileron))
	row("Elevator", deflection(s.Elevator))
	row("Rudder", deflection(s.Rudder))
	row("Steering", deflection(s.Steering))
	gear := "up"
	if s.Wheels > 0 {
		gear = fmt.Sprintf("%d down", s.Wheels)
	}
	row("Gear", gear)

	if len(m.altitudes) > 1 {
		chart := asciigraph.Plot(m.altitudes, asciigraph.Height(5), asciigraph.Width(36), asciigraph.Caption("altitude"))
		b.WriteString("\n" + graphStyle.Render(chart) + "\n")
	}

	b.WriteString(helpStyle.Render("space pause   r restart   q quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, statsStyle.Render(b.String()))
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return warnStyle.Render("ABORTED: " + m.err.Error())
	case m.done:
		return okStyle.Render("FINISHED")
	case m.paused:
		return warnStyle.Render("PAUSED")
	}
	return okStyle.Render("FLYING")
}

func (m Model) stalled() bool {
	return m.runner.Flight().Airplane.Stalled()
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

func gauge(v, lo, hi float64, width int) string {
	ratio := (v - lo) / (hi - lo)
	if ratio < 0 || math.IsNaN(ratio) {
		ratio = 0
	} else if ratio > 1 {
		ratio = 1
	}
	filled := int(math.Round(ratio * float64(width)))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// deflection draws a centred bar for a surface angle.
func deflection(rad float64) string {
	const half = 8
	n := int(math.Round(math.Max(-1, math.Min(1, rad/0.6)) * half))
	left := strings.Repeat(" ", half)
	right := strings.Repeat(" ", half)
	if n < 0 {
		left = strings.Repeat(" ", half+n) + strings.Repeat("◀", -n)
	} else if n > 0 {
		right = strings.Repeat("▶", n) + strings.Repeat(" ", half-n)
	}
	return "[" + left + "|" + right + "]" + fmt.Sprintf(" %+5.1f°", degrees(rad))
}

func spinner(angle float64) string {
	frames := []string{"|", "/", "-", "\\"}
	i := int(math.Floor(angle/(math.Pi/4))) % len(frames)
	if i < 0 {
		i += len(frames)
	}
	return frames[i] + fmt.Sprintf(" %.2f rad", angle)
}

// Run starts the cockpit on the alternate screen and blocks until it exits.
func Run(r *sim.Runner, title string) error {
	p := tea.NewProgram(New(r, title), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
