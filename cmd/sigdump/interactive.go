package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	rep      *report
	filter   textinput.Model
	visible  []int // indexes into rep.Signatures
	selected int
	detail   bool
}

func newInteractiveModel(rep *report) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "filter by type or function"
	ti.Prompt = "/ "
	ti.Width = 40
	ti.Focus()

	m := &interactiveModel{rep: rep, filter: ti}
	m.applyFilter()
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for i, s := range m.rep.Signatures {
		if q == "" || matches(s, q) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func matches(s sigEntry, q string) bool {
	if strings.Contains(strings.ToLower(s.Type), q) {
		return true
	}
	for _, u := range s.Users {
		if strings.Contains(strings.ToLower(u), q) {
			return true
		}
	}
	return false
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.detail {
				m.detail = false
				return m, nil
			}
			return m, tea.Quit

		case "up":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down":
			if m.selected < len(m.visible)-1 {
				m.selected++
			}
			return m, nil

		case "enter":
			if len(m.visible) > 0 {
				m.detail = !m.detail
			}
			return m, nil
		}
	}

	if m.detail {
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Signature Registry"))
	fmt.Fprintf(&b, " %d signatures, %d modules\n\n", len(m.rep.Signatures), len(m.rep.Modules))

	if m.detail {
		s := m.rep.Signatures[m.visible[m.selected]]
		b.WriteString(indexStyle.Render(fmt.Sprintf("sig %d", s.Index)))
		b.WriteString("  ")
		b.WriteString(sigStyle.Render(s.Type))
		b.WriteString("\n\n")
		for _, u := range s.Users {
			b.WriteString("  ")
			b.WriteString(userStyle.Render(u))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
		b.WriteString(helpStyle.Render("enter/esc back"))
		return b.String()
	}

	b.WriteString(m.filter.View())
	b.WriteString("\n\n")
	for i, si := range m.visible {
		s := m.rep.Signatures[si]
		line := fmt.Sprintf("%4d  %s  (%d users)", s.Index, s.Type, len(s.Users))
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(helpStyle.Render("type to filter • ↑/↓ select • enter details • esc quit"))
	return b.String()
}

func runInteractive(rep *report) error {
	p := tea.NewProgram(newInteractiveModel(rep), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
