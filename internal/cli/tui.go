package cli

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jurebordon/meal-frame/internal/connectivity"
	"github.com/jurebordon/meal-frame/internal/review"
	"github.com/jurebordon/meal-frame/internal/tui"
)

type TuiCmd struct {
	ProbeInterval int `help:"Connectivity probe interval in seconds." default:"30"`
}

func (c *TuiCmd) Run(ctx *Context) error {
	controller := review.NewController(ctx.Gate, ctx.Yesterday)

	model := tui.NewModel(ctx.Today, ctx.Yesterday, controller, ctx.Queue, ctx.Monitor)
	program := tea.NewProgram(model, tea.WithAltScreen())

	// Transitions flow into the UI; coming back online also replays the
	// offline queue.
	unsubscribe := ctx.Monitor.Subscribe(func(online bool) {
		if online {
			ctx.Queue.Flush(context.Background())
		}
		program.Send(tui.ConnectivityMsg{Online: online})
	})
	defer unsubscribe()

	probeCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	interval := time.Duration(c.ProbeInterval) * time.Second
	go connectivity.NewProber(ctx.Monitor, ctx.APIBase, interval).Run(probeCtx)

	_, err := program.Run()
	return err
}
