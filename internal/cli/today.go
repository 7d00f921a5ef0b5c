package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/jurebordon/meal-frame/internal/api"
)

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *Context) error {
	err := ctx.Today.Refresh(context.Background())
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			fmt.Println("No plan for today.")
			return nil
		}
		if api.IsNetworkError(err) {
			snap := ctx.Today.Snapshot()
			if snap != nil {
				fmt.Println(warningStyle.Render("Offline, showing cached data."))
				PrintSnapshot(snap)
				return nil
			}
			return fmt.Errorf("offline and no cached data: %w", err)
		}
		return err
	}

	PrintSnapshot(ctx.Today.Snapshot())

	if pending := ctx.Queue.PendingCount(); pending > 0 {
		fmt.Println()
		fmt.Println(warningStyle.Render(fmt.Sprintf("%d action(s) pending sync", pending)))
	}
	return nil
}
