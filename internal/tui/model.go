// Package tui is the interactive terminal front end. It is a thin adapter:
// all completion state lives in the mutation engines, and the review flow
// is driven by the session controller.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jurebordon/meal-frame/internal/connectivity"
	"github.com/jurebordon/meal-frame/internal/engine"
	"github.com/jurebordon/meal-frame/internal/queue"
	"github.com/jurebordon/meal-frame/internal/review"
)

// view is the active screen.
type view int

const (
	viewLoading view = iota
	viewToday
	viewReview
)

type Model struct {
	today      *engine.Engine
	yesterday  *engine.Engine
	controller *review.Controller
	queue      *queue.Queue
	monitor    *connectivity.Monitor

	view    view
	cursor  int
	spinner spinner.Model
	online  bool
	errMsg  string
}

func NewModel(today, yesterday *engine.Engine, ctrl *review.Controller, q *queue.Queue, monitor *connectivity.Monitor) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		today:      today,
		yesterday:  yesterday,
		controller: ctrl,
		queue:      q,
		monitor:    monitor,
		view:       viewLoading,
		spinner:    sp,
		online:     monitor.Online(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

// loadCmd fetches today's snapshot and runs the once-per-day review check.
func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		refreshErr := m.today.Refresh(context.Background())
		checkErr := m.controller.Check(context.Background())
		return loadedMsg{refreshErr: refreshErr, checkErr: checkErr}
	}
}
