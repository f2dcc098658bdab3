package prompt

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/westward-dev/westward/internal/application/port/output"
)

type selectItem struct {
	value   string
	label   string
	hint    string
	multi   bool
	checked bool
}

func (i *selectItem) Title() string {
	if !i.multi {
		return i.label
	}
	if i.checked {
		return checkedStyle.Render("[x] ") + i.label
	}
	return "[ ] " + i.label
}

func (i *selectItem) Description() string { return i.hint }
func (i *selectItem) FilterValue() string { return i.label }

type selectModel struct {
	list      list.Model
	multi     bool
	chosen    []string
	cancelled bool
}

func newSelectModel(p output.SelectPrompt, multi bool) selectModel {
	items := make([]list.Item, 0, len(p.Options))
	for _, opt := range p.Options {
		items = append(items, &selectItem{
			value: opt.Value,
			label: opt.Label,
			hint:  opt.Hint,
			multi: multi,
		})
	}

	delegate := list.NewDefaultDelegate()
	height := len(items)*3 + 6
	if height > 24 {
		height = 24
	}
	l := list.New(items, delegate, 72, height)
	l.Title = p.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(!multi)

	return selectModel{list: l, multi: multi}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-1)

	case tea.KeyMsg:
		// While the filter input is focused every key belongs to the list.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.cancelled = true
			return m, tea.Quit
		case " ":
			if m.multi {
				if it, ok := m.list.SelectedItem().(*selectItem); ok {
					it.checked = !it.checked
				}
				return m, nil
			}
		case "enter":
			if m.multi {
				for _, it := range m.list.Items() {
					si := it.(*selectItem)
					if si.checked {
						m.chosen = append(m.chosen, si.value)
					}
				}
				return m, tea.Quit
			}
			if it, ok := m.list.SelectedItem().(*selectItem); ok {
				m.chosen = []string{it.value}
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	view := m.list.View()
	if m.multi {
		view += "\n" + helpStyle.Render("space toggle, enter confirm, esc cancel")
	}
	return view
}
