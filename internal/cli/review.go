package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/jurebordon/meal-frame/internal/models"
	"github.com/jurebordon/meal-frame/internal/review"
	"github.com/jurebordon/meal-frame/internal/utils"
)

type ReviewCmd struct {
	Force bool `short:"f" help:"Run the review even if already dismissed today."`
}

func (c *ReviewCmd) Run(ctx *Context) error {
	if c.Force {
		ctx.Gate.ClearDismissal()
	}

	controller := review.NewController(ctx.Gate, ctx.Yesterday)
	if err := controller.Check(context.Background()); err != nil {
		return err
	}

	switch controller.State() {
	case review.StateHidden:
		fmt.Println("Nothing to review.")
		return nil
	case review.StateShowing:
		return c.runSession(ctx, controller)
	default:
		return nil
	}
}

func (c *ReviewCmd) runSession(ctx *Context, controller *review.Controller) error {
	fmt.Printf("Yesterday (%s) had unmarked meals.\n", utils.YesterdayString(time.Local))

	for controller.State() == review.StateShowing {
		unmarked := controller.Unmarked()
		if len(unmarked) == 0 {
			break
		}
		slot := unmarked[0]

		choice, err := promptSlot(slot, len(unmarked))
		if err != nil {
			return err
		}
		if choice == "" {
			controller.Dismiss()
			fmt.Println("Skipped for today.")
			return nil
		}

		if err := controller.MarkSlot(context.Background(), slot.ID, models.CompletionStatus(choice)); err != nil {
			return err
		}
	}

	if controller.State() == review.StateDismissed {
		fmt.Println(doneStyle.Render("All of yesterday's meals are marked."))
	}
	return nil
}

func promptSlot(slot models.Slot, remaining int) (string, error) {
	label := slot.MealTypeName
	if label == "" {
		label = slot.MealTypeID
	}
	if slot.Meal != nil {
		label = fmt.Sprintf("%s: %s", label, slot.Meal.Name)
	}

	var choice string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(fmt.Sprintf("%s (%d left)", label, remaining)).
			Options(
				huh.NewOption("Followed the plan", string(models.StatusFollowed)),
				huh.NewOption("Ate something else", string(models.StatusModified)),
				huh.NewOption("Skipped it", string(models.StatusSkipped)),
				huh.NewOption("Skip review for today", ""),
			).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return choice, nil
}
