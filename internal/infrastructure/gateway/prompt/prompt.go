// Package prompt implements the interactive UserPrompt port with one-shot
// Bubble Tea programs. Every question runs its own program and returns to
// the normal terminal, so prompts compose with plain command output.
package prompt

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/westward-dev/westward/internal/application/port/output"
	"github.com/westward-dev/westward/internal/domain/model"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	checkedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// TerminalPrompt implements output.UserPrompt on the controlling terminal
type TerminalPrompt struct{}

// NewTerminalPrompt creates a terminal-backed prompt gateway
func NewTerminalPrompt() *TerminalPrompt {
	return &TerminalPrompt{}
}

// SelectOne asks the user to pick exactly one option
func (t *TerminalPrompt) SelectOne(ctx context.Context, p output.SelectPrompt) (string, error) {
	final, err := tea.NewProgram(newSelectModel(p, false), tea.WithContext(ctx)).Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	m := final.(selectModel)
	if m.cancelled {
		return "", model.ErrCancelled
	}
	if len(m.chosen) != 1 {
		return "", model.ErrCancelled
	}
	return m.chosen[0], nil
}

// SelectMany asks the user to pick any subset of the options.
// Confirming an empty subset counts as cancellation.
func (t *TerminalPrompt) SelectMany(ctx context.Context, p output.SelectPrompt) ([]string, error) {
	final, err := tea.NewProgram(newSelectModel(p, true), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, fmt.Errorf("prompt failed: %w", err)
	}
	m := final.(selectModel)
	if m.cancelled || len(m.chosen) == 0 {
		return nil, model.ErrCancelled
	}
	return m.chosen, nil
}

// Text asks for a free-form value, re-asking until Validate accepts it
func (t *TerminalPrompt) Text(ctx context.Context, p output.TextPrompt) (string, error) {
	final, err := tea.NewProgram(newTextModel(p), tea.WithContext(ctx)).Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	m := final.(textModel)
	if m.cancelled {
		return "", model.ErrCancelled
	}
	return m.value, nil
}

// SelectFolder asks the user to choose a directory
func (t *TerminalPrompt) SelectFolder(ctx context.Context, p output.FolderPrompt) (string, error) {
	m0, err := newFolderModel(p)
	if err != nil {
		return "", err
	}
	final, err := tea.NewProgram(m0, tea.WithContext(ctx)).Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	m := final.(folderModel)
	if m.cancelled || m.chosen == "" {
		return "", model.ErrCancelled
	}
	return m.chosen, nil
}
