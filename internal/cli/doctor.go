package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/jurebordon/meal-frame/internal/api"
	"github.com/jurebordon/meal-frame/internal/constants"
	"github.com/jurebordon/meal-frame/internal/keyring"
)

type DoctorCmd struct{}

func (c *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Check 1: local storage readable and writable
	if err := checkStorage(ctx); err != nil {
		fmt.Printf("❌ Local storage: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Local storage: OK\n")
	}

	// Check 2: API reachable. A 404 still proves the server answered.
	if _, err := ctx.API.FetchDay(context.Background(), api.Today); err != nil && !errors.Is(err, api.ErrNotFound) {
		fmt.Printf("⚠ API reachable: WARNING\n   %v\n", err)
	} else {
		fmt.Printf("✓ API reachable: OK\n")
	}

	// Check 3: OS keyring available (warning only, token auth is optional)
	if keyring.IsAvailable() {
		fmt.Printf("✓ OS keyring: OK\n")
	} else {
		fmt.Printf("⚠ OS keyring: WARNING\n   keyring unavailable, token auth disabled\n")
	}

	// Check 4: no other mealframe process fighting over the queue
	if n, err := countOtherInstances(); err != nil {
		fmt.Printf("⊘ Duplicate processes: SKIPPED (%v)\n", err)
	} else if n > 0 {
		fmt.Printf("⚠ Duplicate processes: WARNING\n   %d other %s process(es) running\n", n, constants.AppName)
	} else {
		fmt.Printf("✓ Duplicate processes: OK\n")
	}

	// Check 5: pending queue size
	if pending := ctx.Queue.PendingCount(); pending > 0 {
		fmt.Printf("⚠ Offline queue: %d action(s) pending\n", pending)
	} else {
		fmt.Printf("✓ Offline queue: empty\n")
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkStorage(ctx *Context) error {
	if err := ctx.Store.Set("doctor-probe", "ok"); err != nil {
		return err
	}
	if _, err := ctx.Store.Get("doctor-probe"); err != nil {
		return err
	}
	return ctx.Store.Delete("doctor-probe")
}

func countOtherInstances() (int, error) {
	procs, err := ps.Processes()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, p := range procs {
		if p.Pid() == os.Getpid() {
			continue
		}
		if strings.HasPrefix(p.Executable(), constants.AppName) {
			count++
		}
	}
	return count, nil
}
