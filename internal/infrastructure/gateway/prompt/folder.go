package prompt

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/westward-dev/westward/internal/application/port/output"
)

const (
	folderUseHere = "\x00use-here"
	folderUp      = "\x00up"
)

type folderItem struct {
	path  string
	label string
}

func (i folderItem) Title() string       { return i.label }
func (i folderItem) Description() string { return "" }
func (i folderItem) FilterValue() string { return i.label }

// folderModel is a minimal directory browser. The file picker widget binds
// enter to both "descend" and "select", which makes choosing a non-leaf
// directory impossible, so directories are listed explicitly instead.
type folderModel struct {
	title     string
	current   string
	list      list.Model
	chosen    string
	cancelled bool
}

func newFolderModel(p output.FolderPrompt) (folderModel, error) {
	root := p.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return folderModel{}, err
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return folderModel{}, err
	}

	items, err := folderItems(abs)
	if err != nil {
		return folderModel{}, err
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	l := list.New(items, delegate, 72, 18)
	l.Title = p.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return folderModel{title: p.Title, current: abs, list: l}, nil
}

func folderItems(dir string) ([]list.Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	items := []list.Item{
		folderItem{path: folderUseHere, label: selectedStyle.Render("[ use " + dir + " ]")},
	}
	if filepath.Dir(dir) != dir {
		items = append(items, folderItem{path: folderUp, label: "../"})
	}
	for _, name := range names {
		items = append(items, folderItem{path: filepath.Join(dir, name), label: name + "/"})
	}
	return items, nil
}

func (m folderModel) Init() tea.Cmd {
	return nil
}

func (m folderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-1)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			it, ok := m.list.SelectedItem().(folderItem)
			if !ok {
				return m, nil
			}
			switch it.path {
			case folderUseHere:
				m.chosen = m.current
				return m, tea.Quit
			case folderUp:
				return m.descend(filepath.Dir(m.current)), nil
			default:
				return m.descend(it.path), nil
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// descend moves the browser into dir, keeping the old listing on error
func (m folderModel) descend(dir string) folderModel {
	items, err := folderItems(dir)
	if err != nil {
		return m
	}
	m.current = dir
	m.list.SetItems(items)
	m.list.ResetSelected()
	return m
}

func (m folderModel) View() string {
	return m.list.View()
}
