package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/jurebordon/meal-frame/internal/api"
	"github.com/jurebordon/meal-frame/internal/cli"
	"github.com/jurebordon/meal-frame/internal/connectivity"
	"github.com/jurebordon/meal-frame/internal/constants"
	"github.com/jurebordon/meal-frame/internal/engine"
	"github.com/jurebordon/meal-frame/internal/errors"
	"github.com/jurebordon/meal-frame/internal/keyring"
	"github.com/jurebordon/meal-frame/internal/logger"
	"github.com/jurebordon/meal-frame/internal/queue"
	"github.com/jurebordon/meal-frame/internal/review"
	"github.com/jurebordon/meal-frame/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Local state location: a SQLite file path, a directory (file-per-key store), or a PostgreSQL connection string without embedded credentials." env:"MEALFRAME_CONFIG" default:"~/.config/mealframe/mealframe.db"`
	API     string `help:"Base URL of the MealFrame API." env:"MEALFRAME_API" default:"http://localhost:8000"`
	Debug   bool   `help:"Enable debug logging."`

	Tui        cli.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Today      cli.TodayCmd      `cmd:"" help:"Show today's meal plan."`
	Complete   cli.CompleteCmd   `cmd:"" help:"Mark a slot as completed."`
	Uncomplete cli.UncompleteCmd `cmd:"" help:"Clear a slot's completion."`
	Review     cli.ReviewCmd     `cmd:"" help:"Review yesterday's unmarked meals."`
	Sync       cli.SyncCmd       `cmd:"" help:"Replay queued offline actions."`
	Status     cli.StatusCmd     `cmd:"" help:"Show connectivity and pending sync state."`
	Doctor     cli.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Auth       struct {
		Set   cli.AuthSetCmd   `cmd:"" help:"Store the API token in the OS keyring."`
		Clear cli.AuthClearCmd `cmd:"" help:"Remove the stored API token."`
	} `cmd:"" help:"Manage API credentials."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Local-first meal planning companion"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	configPath := expandPath(CLI.Config)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir(configPath)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	store := openStore(configPath)
	defer store.Close()

	token, err := keyring.GetToken()
	if err != nil && err != keyring.ErrNotFound {
		logger.Debug("Keyring unavailable, proceeding without token", "error", err)
	}

	client := api.NewHTTPClient(CLI.API, token)
	monitor := connectivity.NewMonitor(true)
	q := queue.New(store, client)

	// Coming back online replays whatever queued up while offline.
	monitor.Subscribe(func(online bool) {
		if online {
			q.Flush(context.Background())
		}
	})

	appCtx := &cli.Context{
		APIBase:   CLI.API,
		API:       client,
		Store:     store,
		Queue:     q,
		Monitor:   monitor,
		Today:     engine.New(api.Today, client, q, monitor, store),
		Yesterday: engine.New(api.Yesterday, client, q, monitor, store),
		Gate:      review.NewGate(store),
	}

	errors.Fatal(ctx.Run(appCtx))
}

// openStore picks the KeyValue backend from the config string: PostgreSQL
// connection strings get the shared-database store, directories get the
// file-per-key store, anything else is treated as a SQLite path. Failures
// fall back to in-memory so the app still works for the session.
func openStore(configPath string) storage.KeyValue {
	var (
		store storage.KeyValue
		err   error
	)

	switch {
	case strings.HasPrefix(configPath, "postgres://") || strings.HasPrefix(configPath, "postgresql://"):
		if storage.HasEmbeddedCredentials(configPath) {
			fmt.Fprintln(os.Stderr, "Error: connection strings with embedded credentials are not allowed; use environment variables or .pgpass")
			os.Exit(1)
		}
		store, err = storage.NewPostgresStore(configPath)
	case isDirectory(configPath):
		store, err = storage.NewDiskvStore(configPath)
	default:
		store, err = storage.NewSQLiteStore(configPath)
	}

	if err != nil {
		logger.Warn("Local storage unavailable, state will not survive this session", "error", err)
		fmt.Fprintf(os.Stderr, "Warning: local storage unavailable (%v); continuing without persistence\n", err)
		return storage.NewMemoryStore()
	}
	return store
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func configDir(configPath string) string {
	if strings.HasPrefix(configPath, "postgres") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", constants.AppName)
	}
	return filepath.Dir(configPath)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
