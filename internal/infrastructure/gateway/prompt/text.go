package prompt

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/westward-dev/westward/internal/application/port/output"
)

type textModel struct {
	title     string
	input     textinput.Model
	validate  func(string) error
	errText   string
	value     string
	cancelled bool
}

func newTextModel(p output.TextPrompt) textModel {
	ti := textinput.New()
	ti.Placeholder = p.Placeholder
	ti.CharLimit = 128
	ti.Width = 48
	ti.Focus()

	return textModel{
		title:    p.Title,
		input:    ti,
		validate: p.Validate,
	}
}

func (m textModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			value := m.input.Value()
			if m.validate != nil {
				if err := m.validate(value); err != nil {
					m.errText = err.Error()
					return m, nil
				}
			}
			m.value = value
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m textModel) View() string {
	view := titleStyle.Render(m.title) + "\n\n" + m.input.View() + "\n"
	if m.errText != "" {
		view += errorStyle.Render(m.errText) + "\n"
	}
	view += helpStyle.Render("enter confirm, esc cancel")
	return view
}
