package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/scopecurve/internal/cli"
	"github.com/alexanderramin/scopecurve/internal/config"
	"github.com/alexanderramin/scopecurve/internal/db"
	"github.com/alexanderramin/scopecurve/internal/preset"
	"github.com/alexanderramin/scopecurve/internal/repository"
	"github.com/alexanderramin/scopecurve/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	kv := repository.NewSQLiteKVRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.LogUseCases {
		observer = service.NewLogUseCaseObserver(os.Stderr)
	}
	opts := []service.Option{
		service.WithLogger(service.NewWarnLogger(os.Stderr)),
		service.WithObserver(observer),
	}

	ctx := context.Background()
	// Sessions of long-closed terminals would otherwise accumulate forever.
	if _, err := service.PruneIdle(ctx, kv, cfg.Retention, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: pruning idle sessions: %v\n", err)
	}

	workspace := service.NewWorkspaceService(kv, uow, cfg.Session, opts...)
	app := &cli.App{
		Workspace:     workspace,
		Prompt:        service.NewPromptService(kv, workspace, cfg.Session, opts...),
		Presets:       service.NewPresetService(preset.NewCatalog(cfg.PresetDir), workspace, observer),
		PromptEnabled: cfg.Prompt,
	}

	// Detect an interactive terminal for the history-date prompt.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
