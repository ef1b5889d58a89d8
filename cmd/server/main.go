// Package main implements the entry point for the taskprefs API server,
// which manages users' tasks and key/value preferences behind JWT
// authentication.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/phrazzld/taskprefs-api/internal/platform/postgres"
	"github.com/phrazzld/taskprefs-api/internal/redact"
)

// cliFlags holds the parsed command-line options.
type cliFlags struct {
	// migrate applies pending migrations before serving
	migrate bool

	// migrateOnly runs a single migration command and exits
	migrateOnly string
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("Server exited with error", "error", redact.Error(err))
		os.Exit(1)
	}
}

// parseFlags reads the server's command-line options from args.
func parseFlags(args []string) (cliFlags, error) {
	var flags cliFlags

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.BoolVar(&flags.migrate, "migrate", true, "apply pending database migrations at startup")
	fs.StringVar(&flags.migrateOnly, "migrate-only", "",
		"run a migration command and exit ("+strings.Join(postgres.MigrationCommands, ", ")+")")

	if err := fs.Parse(args); err != nil {
		return cliFlags{}, err
	}
	if fs.NArg() > 0 {
		return cliFlags{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if flags.migrateOnly != "" && !slices.Contains(postgres.MigrationCommands, flags.migrateOnly) {
		return cliFlags{}, fmt.Errorf("invalid -migrate-only command %q (expected one of: %s)",
			flags.migrateOnly, strings.Join(postgres.MigrationCommands, ", "))
	}

	return flags, nil
}

// run wires the application together and blocks until the server stops.
func run(args []string) error {
	flags, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if flags.migrateOnly != "" {
		defer func() { _ = db.Close() }()
		return runMigrations(ctx, db, flags.migrateOnly, logger)
	}

	if flags.migrate {
		if err := runMigrations(ctx, db, "up", logger); err != nil {
			_ = db.Close()
			return err
		}
	}

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
