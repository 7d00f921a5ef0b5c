package cli

import (
	"context"
	"fmt"

	"github.com/jurebordon/meal-frame/internal/models"
)

type CompleteCmd struct {
	SlotID string `arg:"" help:"Slot to mark."`
	Status string `short:"s" help:"Completion status (followed|modified|skipped)." enum:"followed,modified,skipped" default:"followed"`
}

func (c *CompleteCmd) Run(ctx *Context) error {
	if err := ctx.Today.Refresh(context.Background()); err != nil && ctx.Today.Snapshot() == nil {
		return err
	}

	status := models.CompletionStatus(c.Status)
	if err := ctx.Today.Complete(context.Background(), c.SlotID, status); err != nil {
		return err
	}

	if ctx.Monitor.Online() {
		fmt.Printf("Marked %s as %s.\n", c.SlotID, status)
	} else {
		fmt.Printf("Marked %s as %s (offline, will sync).\n", c.SlotID, status)
	}
	return nil
}

type UncompleteCmd struct {
	SlotID string `arg:"" help:"Slot to unmark."`
}

func (c *UncompleteCmd) Run(ctx *Context) error {
	if err := ctx.Today.Refresh(context.Background()); err != nil && ctx.Today.Snapshot() == nil {
		return err
	}

	if err := ctx.Today.Uncomplete(context.Background(), c.SlotID); err != nil {
		return err
	}

	if ctx.Monitor.Online() {
		fmt.Printf("Unmarked %s.\n", c.SlotID)
	} else {
		fmt.Printf("Unmarked %s (offline, will sync).\n", c.SlotID)
	}
	return nil
}
