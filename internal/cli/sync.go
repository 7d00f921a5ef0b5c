package cli

import (
	"context"
	"fmt"
)

type SyncCmd struct{}

func (c *SyncCmd) Run(ctx *Context) error {
	pending := ctx.Queue.PendingCount()
	if pending == 0 {
		fmt.Println("Nothing to sync.")
		return nil
	}

	synced := ctx.Queue.Flush(context.Background())
	remaining := ctx.Queue.PendingCount()

	fmt.Printf("Synced %d of %d action(s).\n", synced, pending)
	if remaining > 0 {
		fmt.Println(warningStyle.Render(fmt.Sprintf("%d action(s) still pending, will retry.", remaining)))
	}
	return nil
}
