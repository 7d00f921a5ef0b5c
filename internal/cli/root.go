package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jurebordon/meal-frame/internal/api"
	"github.com/jurebordon/meal-frame/internal/connectivity"
	"github.com/jurebordon/meal-frame/internal/engine"
	"github.com/jurebordon/meal-frame/internal/models"
	"github.com/jurebordon/meal-frame/internal/queue"
	"github.com/jurebordon/meal-frame/internal/review"
	"github.com/jurebordon/meal-frame/internal/storage"
)

// Context carries the assembled components into each command.
type Context struct {
	APIBase   string
	API       api.Client
	Store     storage.KeyValue
	Queue     *queue.Queue
	Monitor   *connectivity.Monitor
	Today     *engine.Engine
	Yesterday *engine.Engine
	Gate      *review.Gate
}

var (
	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	nextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// FormatSlot renders one slot line for terminal output.
func FormatSlot(slot models.Slot) string {
	name := slot.MealTypeName
	if name == "" {
		name = slot.MealTypeID
	}
	meal := "unassigned"
	if slot.Meal != nil {
		meal = slot.Meal.Name
	}
	line := fmt.Sprintf("%-12s %s", name, meal)

	switch {
	case slot.Marked():
		return doneStyle.Render(fmt.Sprintf("✓ %s (%s)", line, slot.CompletionStatus))
	case slot.IsNext:
		return nextStyle.Render(fmt.Sprintf("→ %s", line))
	default:
		return mutedStyle.Render(fmt.Sprintf("  %s", line))
	}
}

// PrintSnapshot writes a day snapshot to stdout.
func PrintSnapshot(snap *models.DaySnapshot) {
	if snap == nil || len(snap.Slots) == 0 {
		fmt.Println("No meals planned.")
		return
	}
	fmt.Printf("%s  (%d/%d completed)\n\n", snap.Date, snap.Stats.Completed, snap.Stats.Total)
	for _, slot := range snap.Slots {
		fmt.Println(FormatSlot(slot))
	}
}
