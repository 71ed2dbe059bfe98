// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/buddy-tui/internal/ui/styles"
)

// =============================================================================
// SPINNER MODEL
// =============================================================================

// Spinner is a loading spinner with a message and optional elapsed timer.
// Frames are ASCII-only for maximum terminal compatibility.
type Spinner struct {
	spinner   spinner.Model
	message   string
	startTime time.Time
	isActive  bool
	showTimer bool
}

// NewSpinner creates a new spinner with default settings.
func NewSpinner(message string) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	s.Style = lipgloss.NewStyle().Foreground(styles.Amber)

	return Spinner{
		spinner:   s,
		message:   message,
		showTimer: true,
	}
}

// Start activates the spinner and resets the timer.
func (s *Spinner) Start() tea.Cmd {
	s.isActive = true
	s.startTime = time.Now()
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.isActive = false
}

// Active reports whether the spinner is running.
func (s Spinner) Active() bool {
	return s.isActive
}

// SetMessage changes the status text shown next to the spinner.
func (s *Spinner) SetMessage(message string) {
	s.message = message
}

// Update advances the spinner animation.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.isActive {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the spinner frame, message, and elapsed time.
func (s Spinner) View() string {
	if !s.isActive {
		return ""
	}

	text := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Render(s.message)

	out := s.spinner.View() + " " + text
	if s.showTimer {
		elapsed := time.Since(s.startTime).Round(time.Second)
		out += lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render(fmt.Sprintf(" (%s)", elapsed))
	}
	return out
}
