package session

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#0B0B0B")).
				Background(lipgloss.Color("#7FDBFF")).
				Bold(true).
				Padding(0, 1)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#0B0B0B")).
				Background(lipgloss.Color("#00F5D4")).
				Bold(true)

	pickerItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EAEAEA"))

	pickerHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6ADC8")).
			Faint(true)
)

type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

var defaultPickerKeys = pickerKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "cancel"),
	),
}

// qualityPickerModel is a small arrow-key selector over the allowed
// quality set. Cancelling returns no selection, which leaves the stored
// preference untouched.
type qualityPickerModel struct {
	qualities []int
	cursor    int
	selected  int
	keys      pickerKeyMap
	done      bool
}

func newQualityPickerModel(current int) *qualityPickerModel {
	cursor := 0
	for i, q := range AllowedQualities {
		if q == current {
			cursor = i
			break
		}
	}
	return &qualityPickerModel{
		qualities: AllowedQualities,
		cursor:    cursor,
		selected:  -1,
		keys:      defaultPickerKeys,
	}
}

func (m *qualityPickerModel) Init() tea.Cmd {
	return nil
}

func (m *qualityPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		} else {
			m.cursor = len(m.qualities) - 1
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.qualities)-1 {
			m.cursor++
		} else {
			m.cursor = 0
		}
	case key.Matches(keyMsg, m.keys.Select):
		m.selected = m.cursor
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Cancel):
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *qualityPickerModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render("Video Quality"))
	b.WriteString("\n")
	for i, q := range m.qualities {
		line := fmt.Sprintf("  %4dp", q)
		if i == m.cursor {
			line = pickerSelectedStyle.Render(fmt.Sprintf("> %4dp", q))
		} else {
			line = pickerItemStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(pickerHelpStyle.Render("↑/↓ select · enter confirm · q cancel"))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen quality, or 0 when the picker was cancelled.
func (m *qualityPickerModel) Selected() int {
	if m.selected < 0 || m.selected >= len(m.qualities) {
		return 0
	}
	return m.qualities[m.selected]
}

// runQualityPicker shows the interactive selector on stderr so stdout
// stays clean. Returns 0 when cancelled.
func runQualityPicker(current int) (int, error) {
	model := newQualityPickerModel(current)
	p := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	result, err := p.Run()
	if err != nil {
		return 0, err
	}
	if m, ok := result.(*qualityPickerModel); ok {
		return m.Selected(), nil
	}
	return 0, nil
}
