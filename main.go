// Package main is the operator command line for the expense ledger.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"gitlab.com/yelinaung/expense-ledger/internal/config"
	"gitlab.com/yelinaung/expense-ledger/internal/database"
	"gitlab.com/yelinaung/expense-ledger/internal/logger"
	"gitlab.com/yelinaung/expense-ledger/internal/telemetry"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var errUsage = errors.New("usage")

// app carries what every command needs.
type app struct {
	cfg    *config.Config
	db     database.DB
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"signup":   {"create a user and seed default categories", cmdSignup},
	"category": {"add or list categories", cmdCategory},
	"expense":  {"add, list or show expenses", cmdExpense},
	"wishlist": {"add or list wishlist items", cmdWishlist},
	"goal":     {"set, show or list monthly goals", cmdGoal},
	"report":   {"summarize a period and write CSV, PDF and chart exports", cmdReport},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		stop()
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stderr)
		return errUsage
	}

	name := args[0]
	if name == "version" {
		fmt.Fprintf(stdout, "expense-ledger %s (commit: %s, built: %s)\n", version, commit, date)
		return nil
	}

	cmd, ok := commands[name]
	if !ok && name != "migrate" {
		usage(stderr)
		return fmt.Errorf("unknown command %q", name)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.SetLevel(cfg.LogLevel)
	if cfg.LogFormat == "json" {
		logger.SetJSON()
	}
	logger.InitHashSalt(cfg.LogHashSalt)

	shutdown, err := telemetry.Setup(ctx, cfg, version, stderr)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to flush telemetry")
		}
	}()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if name == "migrate" {
		if err := database.RunMigrations(ctx, pool); err != nil {
			return err
		}
		logger.Log.Info().Msg("Database migrated")
		fmt.Fprintln(stdout, "Migrations applied")
		return nil
	}

	return cmd.run(ctx, &app{cfg: cfg, db: pool, stdin: stdin, stdout: stdout, stderr: stderr}, args[1:])
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: expense-ledger <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintf(w, "  %-9s %s\n", "version", "print build information")
	fmt.Fprintf(w, "  %-9s %s\n", "migrate", "apply database migrations")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-9s %s\n", name, commands[name].summary)
	}
}
