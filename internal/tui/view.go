package tui

import (
	"fmt"
	"strings"

	"github.com/jurebordon/meal-frame/internal/models"
)

func (m Model) View() string {
	var b strings.Builder

	switch m.view {
	case viewLoading:
		b.WriteString(fmt.Sprintf("%s Loading today's plan...", m.spinner.View()))

	case viewReview:
		b.WriteString(titleStyle.Render("Review yesterday"))
		b.WriteString("\n\n")
		unmarked := m.controller.Unmarked()
		for i, slot := range unmarked {
			b.WriteString(m.renderRow(slot, i == m.cursor))
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("f followed · m modified · s skipped · d skip for today · q quit"))

	case viewToday:
		snap := m.today.Snapshot()
		if snap == nil || len(snap.Slots) == 0 {
			b.WriteString("No meals planned for today.\n")
		} else {
			b.WriteString(titleStyle.Render(fmt.Sprintf("Today · %d/%d completed", snap.Stats.Completed, snap.Stats.Total)))
			b.WriteString("\n\n")
			for i, slot := range snap.Slots {
				b.WriteString(m.renderRow(slot, i == m.cursor))
				b.WriteString("\n")
			}
		}
		b.WriteString(helpStyle.Render("f/m/s mark · u unmark · r refresh · q quit"))
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(m.errMsg))
	}

	return docStyle.Render(b.String())
}

func (m Model) renderRow(slot models.Slot, selected bool) string {
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
		line = doneStyle.Render(fmt.Sprintf("✓ %s (%s)", line, slot.CompletionStatus))
	case slot.IsNext:
		line = nextStyle.Render(fmt.Sprintf("→ %s", line))
	default:
		line = mutedStyle.Render(fmt.Sprintf("  %s", line))
	}

	if selected {
		return cursorStyle.Render("▌ ") + line
	}
	return "  " + line
}

func (m Model) statusLine() string {
	var parts []string
	if m.online {
		parts = append(parts, doneStyle.Render("online"))
	} else {
		parts = append(parts, offlineStyle.Render("offline"))
	}
	if pending := m.queue.PendingCount(); pending > 0 {
		parts = append(parts, offlineStyle.Render(fmt.Sprintf("%d pending sync", pending)))
	}
	return mutedStyle.Render(strings.Join(parts, " · "))
}
