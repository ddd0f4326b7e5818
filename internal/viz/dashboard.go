package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/drivelab/internal/drivetrain"
	"github.com/san-kum/drivelab/internal/harness"
	"github.com/san-kum/drivelab/internal/input"
	"github.com/san-kum/drivelab/internal/rig"
)

const (
	dialWidth       = 40
	dialHeight      = 20
	historyCapacity = 240
	// DefaultHold is how long a key counts as held after its last press.
	DefaultHold = 0.25
	// frames longer than this are clamped, e.g. after the terminal stalls
	maxFrameDt = 0.1
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Dashboard is a Bubble Tea model that plays a harness loop in real time
// from keyboard input.
type Dashboard struct {
	loop    *harness.Loop
	face    *DialFace
	rig     *rig.Rig
	log     *zap.Logger
	hold    float64
	held    map[input.Key]float64
	last    time.Time
	running bool
	theme   Theme
	frame   harness.FrameSample
	command drivetrain.Command
	speeds  []float64
	errors  int
	width   int
}

// NewDashboard expects face to be attached to the loop's dial already.
// A nil face gets a default-sized one, attached here.
func NewDashboard(loop *harness.Loop, face *DialFace, r *rig.Rig, log *zap.Logger) Dashboard {
	if log == nil {
		log = zap.NewNop()
	}
	if face == nil {
		face = NewDialFace(dialWidth, dialHeight)
		loop.Dial().Attach(face)
	}
	return Dashboard{
		loop:    loop,
		face:    face,
		rig:     r,
		log:     log,
		hold:    DefaultHold,
		held:    make(map[input.Key]float64),
		running: true,
		theme:   Themes[0],
		speeds:  make([]float64, 0, historyCapacity),
		width:   80,
	}
}

func (m Dashboard) Init() tea.Cmd { return tick() }

func (m Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "p":
			m.running = !m.running
			m.last = time.Time{}
		case "r":
			m.reset()
		case "t":
			m.theme = nextTheme(m.theme.Name)
		default:
			m.press(msg.String())
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case TickMsg:
		now := time.Time(msg)
		if m.running {
			dt := 1.0 / 60
			if !m.last.IsZero() {
				dt = min(now.Sub(m.last).Seconds(), maxFrameDt)
			}
			m.step(dt)
		}
		m.last = now
		return m, tick()
	}
	return m, nil
}

// press marks key as held for the hold window.
func (m *Dashboard) press(name string) {
	key, err := input.ParseKey(name)
	if err != nil {
		return
	}
	m.held[key] = m.hold
}

// step runs one frame with the keys whose hold window is still open.
func (m *Dashboard) step(dt float64) {
	keys := make([]input.Key, 0, len(m.held))
	for k, remaining := range m.held {
		keys = append(keys, k)
		if remaining -= dt; remaining <= 0 {
			delete(m.held, k)
		} else {
			m.held[k] = remaining
		}
	}
	m.loop.Keyboard().Set(keys)

	frame, ticks, err := m.loop.Frame(dt)
	if err != nil {
		m.errors++
		m.log.Warn("frame error", zap.Error(err))
	}
	m.frame = frame
	if len(ticks) > 0 {
		m.command = ticks[len(ticks)-1].Command
	}

	m.speeds = append(m.speeds, frame.Speed)
	if len(m.speeds) > historyCapacity {
		m.speeds = m.speeds[len(m.speeds)-historyCapacity:]
	}
}

func (m *Dashboard) reset() {
	m.loop.Reset()
	m.held = make(map[input.Key]float64)
	m.frame = harness.FrameSample{}
	m.command = drivetrain.Command{}
	m.speeds = m.speeds[:0]
	m.errors = 0
	m.last = time.Time{}
}

func (m Dashboard) View() string {
	var (
		th     = m.theme
		header = lipgloss.NewStyle().Foreground(th.Accent).Bold(true).MarginBottom(1)
		label  = lipgloss.NewStyle().Foreground(th.Muted).Width(12)
		value  = lipgloss.NewStyle().Foreground(th.Text)
		panel  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(th.Border).Padding(1, 2).Width(44)
		dial   = lipgloss.NewStyle().Foreground(th.Dial).Padding(1, 2)
		help   = lipgloss.NewStyle().Foreground(th.Muted).MarginTop(1)
	)

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}

	var s strings.Builder
	s.WriteString(header.Render("DRIVELAB") + "\n")
	s.WriteString(status + "\n\n")
	row := func(name, v string) {
		s.WriteString(label.Render(name) + value.Render(v) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.loop.Time()))
	row("Speed", fmt.Sprintf("%.1f", m.frame.Speed))
	row("Needle", fmt.Sprintf("%.1f°", m.face.Needle()))
	row("Steer", fmt.Sprintf("%+.2f", m.frame.Input.Horizontal))
	row("Throttle", fmt.Sprintf("%+.2f", m.frame.Input.Vertical))
	row("Motor", fmt.Sprintf("%.0f", m.command.FrontTorque()))
	row("Steer angle", fmt.Sprintf("%+.1f°", m.command.SteerAngle()))

	brake := "off"
	if m.frame.Input.Space {
		brake = lipgloss.NewStyle().Foreground(th.Warning).Bold(true).Render("ON")
	}
	row("Handbrake", brake)

	if m.rig != nil {
		s.WriteString("\nWHEELS (rad/s)\n")
		for _, w := range drivetrain.Wheels {
			row(w.String(), fmt.Sprintf("%7.2f", m.rig.Wheel(w).SpinRate()))
		}
	}
	if m.errors > 0 {
		row("Errors", fmt.Sprintf("%d", m.errors))
	}

	if len(m.speeds) > 1 {
		chart := asciigraph.Plot(m.speeds, asciigraph.Height(5), asciigraph.Width(32), asciigraph.LowerBound(0), asciigraph.Caption("Speed"))
		s.WriteString("\n" + chart + "\n")
	}
	s.WriteString(help.Render("arrows/wasd:drive  space:brake\np:pause  r:reset  t:theme  q:quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, dial.Render(m.face.Render()), panel.Render(s.String()))
}

// RunDashboard blocks until the user quits.
func RunDashboard(d Dashboard) error {
	_, err := tea.NewProgram(d, tea.WithAltScreen()).Run()
	return err
}
