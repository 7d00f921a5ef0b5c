package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jurebordon/meal-frame/internal/errors"
	"github.com/jurebordon/meal-frame/internal/models"
	"github.com/jurebordon/meal-frame/internal/review"
)

type loadedMsg struct {
	refreshErr error
	checkErr   error
}

type mutationMsg struct {
	err error
}

// ConnectivityMsg is sent into the program when the monitor reports a
// transition; main wires Monitor.Subscribe to Program.Send.
type ConnectivityMsg struct {
	Online bool
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ConnectivityMsg:
		m.online = msg.Online
		return m, nil

	case loadedMsg:
		m.errMsg = ""
		if msg.refreshErr != nil && m.today.Snapshot() == nil {
			m.errMsg = errors.Format(msg.refreshErr)
		}
		if m.controller.State() == review.StateShowing {
			m.view = viewReview
		} else {
			m.view = viewToday
		}
		m.cursor = 0
		return m, nil

	case mutationMsg:
		m.errMsg = ""
		if msg.err != nil {
			m.errMsg = errors.Format(msg.err)
		}
		// The review session may have auto-dismissed on the last mark.
		if m.view == viewReview && m.controller.State() != review.StateShowing {
			m.view = viewToday
			m.cursor = 0
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		m.cursor++
		m.clampCursor()
		return m, nil

	case "r":
		if m.view == viewToday {
			m.view = viewLoading
			return m, tea.Batch(m.spinner.Tick, m.loadCmd())
		}
		return m, nil

	case "f", "m", "s":
		status := keyToStatus(msg.String())
		if m.view == viewReview {
			return m, m.markReviewCmd(status)
		}
		if m.view == viewToday {
			return m, m.completeTodayCmd(status)
		}
		return m, nil

	case "u":
		if m.view == viewToday {
			return m, m.uncompleteTodayCmd()
		}
		return m, nil

	case "d", "esc":
		if m.view == viewReview {
			m.controller.Dismiss()
			m.view = viewToday
			m.cursor = 0
		}
		return m, nil
	}

	return m, nil
}

func keyToStatus(key string) models.CompletionStatus {
	switch key {
	case "m":
		return models.StatusModified
	case "s":
		return models.StatusSkipped
	default:
		return models.StatusFollowed
	}
}

func (m Model) completeTodayCmd(status models.CompletionStatus) tea.Cmd {
	snap := m.today.Snapshot()
	if snap == nil || m.cursor >= len(snap.Slots) {
		return nil
	}
	slotID := snap.Slots[m.cursor].ID
	return func() tea.Msg {
		return mutationMsg{err: m.today.Complete(context.Background(), slotID, status)}
	}
}

func (m Model) uncompleteTodayCmd() tea.Cmd {
	snap := m.today.Snapshot()
	if snap == nil || m.cursor >= len(snap.Slots) {
		return nil
	}
	slotID := snap.Slots[m.cursor].ID
	return func() tea.Msg {
		return mutationMsg{err: m.today.Uncomplete(context.Background(), slotID)}
	}
}

func (m Model) markReviewCmd(status models.CompletionStatus) tea.Cmd {
	unmarked := m.controller.Unmarked()
	if m.cursor >= len(unmarked) {
		return nil
	}
	slotID := unmarked[m.cursor].ID
	return func() tea.Msg {
		return mutationMsg{err: m.controller.MarkSlot(context.Background(), slotID, status)}
	}
}

func (m *Model) clampCursor() {
	max := 0
	switch m.view {
	case viewToday:
		if snap := m.today.Snapshot(); snap != nil {
			max = len(snap.Slots) - 1
		}
	case viewReview:
		max = len(m.controller.Unmarked()) - 1
	}
	if max < 0 {
		max = 0
	}
	if m.cursor > max {
		m.cursor = max
	}
}
