package cli

import "fmt"

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *Context) error {
	if ctx.Monitor.Online() {
		fmt.Println(doneStyle.Render("Online"))
	} else {
		fmt.Println(warningStyle.Render("Offline"))
	}

	pending := ctx.Queue.PendingCount()
	if pending == 0 {
		fmt.Println("All actions synced.")
		return nil
	}
	fmt.Printf("%d action(s) pending sync:\n", pending)
	for _, a := range ctx.Queue.Pending() {
		if a.Status != "" {
			fmt.Printf("  %s %s (%s) queued %s\n", a.Kind, a.SlotID, a.Status, a.EnqueuedAt.Format("15:04:05"))
		} else {
			fmt.Printf("  %s %s queued %s\n", a.Kind, a.SlotID, a.EnqueuedAt.Format("15:04:05"))
		}
	}
	return nil
}
