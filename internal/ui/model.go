// ABOUTME: Bubbletea model for the soundboard TUI
// ABOUTME: Defines application state, key handling and rendering
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chime-audio/chime-go/pkg/chime"
)

// Controller is the slice of the engine the soundboard drives.
type Controller interface {
	Resume()
	Play(name string, opts chime.Options)
	StartLoop(name string, opts chime.Options)
	StopLoop(name string, opts chime.StopOptions)
	StopAllOneShots(opts chime.StopOptions)
	HardStopAll(opts chime.StopOptions)
	SetMasterGain(g float64)
	MasterGain() float64
	LoopActive(name string) bool
	Counts() (oneShots, loops int)
	Silent() bool
}

// Model represents the soundboard state
type Model struct {
	ctrl Controller

	// Sound lists
	cues  []string // one-shots, key 1..9 then 0
	loops []string // ambient beds, toggled by letter

	// Status
	lastPlayed string
	gain       float64
	resumed    bool

	// Dimensions
	width  int
	height int
}

// tickMsg refreshes live instance counts
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// NewModel creates a soundboard over the given controller
func NewModel(ctrl Controller) Model {
	var cues, loops []string
	for _, name := range chime.Sounds() {
		if chime.IsLoop(name) {
			loops = append(loops, name)
		} else {
			cues = append(cues, name)
		}
	}
	return Model{
		ctrl:  ctrl,
		cues:  cues,
		loops: loops,
		gain:  ctrl.MasterGain(),
	}
}

// Init starts the refresh ticker
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		m.gain = m.ctrl.MasterGain()
		return m, tick()
	}

	return m, nil
}

// handleKey handles keyboard input. The first keypress doubles as the user
// gesture that unlocks the audio device.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.resumed {
		m.ctrl.Resume()
		m.resumed = true
	}

	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		m.ctrl.HardStopAll(chime.StopOptions{})
		return m, tea.Quit

	case "s":
		m.ctrl.StopAllOneShots(chime.StopOptions{})
		m.lastPlayed = "(stopped one-shots)"

	case "S":
		m.ctrl.HardStopAll(chime.StopOptions{Immediate: true})
		m.lastPlayed = "(hard stop)"

	case "+", "=":
		m.ctrl.SetMasterGain(m.gain + 0.1)
		m.gain = m.ctrl.MasterGain()

	case "-":
		m.ctrl.SetMasterGain(m.gain - 0.1)
		m.gain = m.ctrl.MasterGain()

	default:
		if name, ok := m.cueForKey(key); ok {
			m.ctrl.Play(name, chime.Options{})
			m.lastPlayed = name
			break
		}
		if name, ok := m.loopForKey(key); ok {
			if m.ctrl.LoopActive(name) {
				m.ctrl.StopLoop(name, chime.StopOptions{})
			} else {
				m.ctrl.StartLoop(name, chime.Options{FadeIn: time.Second})
			}
			m.lastPlayed = name
		}
	}

	return m, nil
}

// cueForKey maps 1..9 then 0 onto the one-shot list
func (m Model) cueForKey(key string) (string, bool) {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return "", false
	}
	idx := int(key[0] - '1')
	if key[0] == '0' {
		idx = 9
	}
	if idx < 0 || idx >= len(m.cues) {
		return "", false
	}
	return m.cues[idx], true
}

// loopForKey maps each loop to its first letter (b for background, ...)
func (m Model) loopForKey(key string) (string, bool) {
	for _, name := range m.loops {
		if key == name[:1] {
			return name, true
		}
	}
	return "", false
}

// View renders the soundboard
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := m.renderHeader()
	s += m.renderCues()
	s += m.renderLoops()
	s += m.renderStatus()
	s += m.renderHelp()
	return s
}

func (m Model) renderHeader() string {
	mode := "playing"
	if m.ctrl.Silent() {
		mode = "silent (no audio device)"
	}
	return fmt.Sprintf(`┌─ Chime Soundboard ───────────────────────────────────┐
│ Output: %-45s│
├──────────────────────────────────────────────────────┤
`, mode)
}

func (m Model) renderCues() string {
	s := "│ Cues:                                                │\n"
	for i, name := range m.cues {
		key := byte('1') + byte(i)
		if i == 9 {
			key = '0'
		}
		s += fmt.Sprintf("│   %c: %-48s│\n", key, name)
	}
	return s
}

func (m Model) renderLoops() string {
	s := "│ Loops:                                               │\n"
	for _, name := range m.loops {
		state := "stopped"
		if m.ctrl.LoopActive(name) {
			state = "playing"
		}
		s += fmt.Sprintf("│   %s: %-38s %8s │\n", name[:1], truncate(name, 38), state)
	}
	return s
}

func (m Model) renderStatus() string {
	oneShots, loops := m.ctrl.Counts()
	last := m.lastPlayed
	if last == "" {
		last = "(none)"
	}
	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ Gain: [%s] %3.0f%%  Active: %d cues, %d loops%-6s│
│ Last: %-47s│
`, renderBar(int(m.gain*100), 100, 10), m.gain*100, oneShots, loops, "", truncate(last, 47))
}

func (m Model) renderHelp() string {
	return `│ 1-9:Play  b/m:Toggle loop  s:Stop cues  S:Stop all   │
│ +/-:Gain  q:Quit                                     │
└──────────────────────────────────────────────────────┘
`
}

func renderBar(value, max, width int) string {
	filled := (value * width) / max
	if filled > width {
		filled = width
	}
	var b strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			b.WriteString("█")
		} else {
			b.WriteString("░")
		}
	}
	return b.String()
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
