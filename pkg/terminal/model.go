package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kakapo-ui/kakapo/pkg/view"
	"github.com/kakapo-ui/kakapo/pkg/widgets"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Padding(0, 2)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

// Presser receives presses chosen in the terminal. *app.Window
// implements it.
type Presser interface {
	Press(id view.ID) error
}

// Model is the Bubble Tea model of one window.
type Model struct {
	title   string
	presser Presser
	frame   Frame
	cursor  int
	status  string
	keys    keyMap
	help    help.Model
}

// NewModel creates a model that sends presses to presser.
func NewModel(title string, presser Presser) *Model {
	return &Model{
		title:   title,
		presser: presser,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

// Frame returns the frame being shown.
func (m *Model) Frame() Frame {
	return m.frame
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		// Frames are sent from separate goroutines and may arrive out of
		// order.
		if msg.Generation < m.frame.Generation {
			return m, nil
		}
		m.frame = Frame(msg)
		if m.cursor >= len(m.frame.Items) {
			m.cursor = max(len(m.frame.Items)-1, 0)
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Next):
			m.move(1)

		case key.Matches(msg, m.keys.Prev):
			m.move(-1)

		case key.Matches(msg, m.keys.Press):
			if m.cursor < len(m.frame.Items) {
				m.press(m.frame.Items[m.cursor])
			}

		case key.Matches(msg, m.keys.Nth):
			n := int(msg.String()[0] - '1')
			idx := m.frame.pressable()
			if n < len(idx) {
				m.cursor = idx[n]
				m.press(m.frame.Items[idx[n]])
			}
		}
	}

	return m, nil
}

func (m *Model) move(delta int) {
	n := len(m.frame.Items)
	if n == 0 {
		return
	}
	m.cursor = (m.cursor + delta + n) % n
}

func (m *Model) press(it Item) {
	if !it.Pressable {
		m.status = fmt.Sprintf("%s is not pressable", it.Label)
		return
	}
	if err := m.presser.Press(it.ID); err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString(labelStyle.Render(fmt.Sprintf(" frame %d", m.frame.Generation)))
	b.WriteString("\n\n")

	if len(m.frame.Items) == 0 {
		b.WriteString("Waiting for the first frame...\n")
	}

	nth := 0
	for i, it := range m.frame.Items {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		b.WriteString(strings.Repeat("  ", max(it.Depth-1, 0)))
		b.WriteString(cursor)

		if it.Pressable {
			nth++
			b.WriteString(labelStyle.Render(fmt.Sprintf("%d ", nth)))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(itemStyleFor(it).Render(it.Label))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// itemStyleFor paints an item with its widget color and a readable
// foreground.
func itemStyleFor(it Item) lipgloss.Style {
	if !it.HasColor {
		return labelStyle
	}
	fg := widgets.White
	if it.Color.Luminance() > 0.5 {
		fg = widgets.Black
	}
	return itemStyle.
		Background(lipgloss.Color(it.Color.Hex())).
		Foreground(lipgloss.Color(fg.Hex()))
}
