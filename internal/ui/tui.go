// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the soundboard
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the soundboard TUI over the given controller and blocks until
// the user quits.
func Run(ctrl Controller) error {
	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
