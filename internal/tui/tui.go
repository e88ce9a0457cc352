// Package tui implements the interactive catalog browser for stylebook.
//
// The browser is a Bubble Tea model with two panes: a filterable list of
// everything the content tree serves (standards documents and code
// examples, grouped by category) and a preview pane. Standards render as
// markdown through Glamour with the style picked from the terminal
// background; code examples show as plain text. Previews are debounced
// while the selection moves and cached in a byte-capped LRU so revisiting
// an item is instant.
//
// The package follows the Elm architecture Bubble Tea prescribes: models
// are updated by messages, side effects run as commands. Rendering styles
// live in the styles subpackage so every screen draws from one palette.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"stylebook/internal/config"
	"stylebook/internal/logging"
)

// UIContext carries the environment a model needs at construction time.
type UIContext struct {
	Width  int
	Height int
	Config *config.Config
	Logger *logging.AppLogger
}

// NewUIContext creates a new UI context with the provided parameters.
func NewUIContext(width, height int, cfg *config.Config, logger *logging.AppLogger) UIContext {
	return UIContext{
		Width:  width,
		Height: height,
		Config: cfg,
		Logger: logger,
	}
}

// HasValidDimensions checks if the context has usable window dimensions.
func (ctx UIContext) HasValidDimensions() bool {
	return ctx.Width > 0 && ctx.Height > 0
}

// Run starts a full-screen Bubble Tea program around the model and
// blocks until it exits.
func Run(model tea.Model) error {
	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
