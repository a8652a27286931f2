package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/prodsched/internal/cli"
	"github.com/alexanderramin/prodsched/internal/cli/formatter"
	"github.com/alexanderramin/prodsched/internal/config"
	"github.com/alexanderramin/prodsched/internal/db"
	"github.com/alexanderramin/prodsched/internal/logging"
	"github.com/alexanderramin/prodsched/internal/metrics"
	"github.com/alexanderramin/prodsched/internal/service"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	stdoutTTY := isTerminal(os.Stdout)
	if !stdoutTTY {
		formatter.DisableColor()
	}

	// Open database
	database, conn, uow, err := db.Open(ctx, cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()
	logger.Debug("database opened", zap.String("dialect", string(db.DialectFor(cfg.Database))))

	opts, err := cfg.Schedule.Options()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	settings := service.Settings{
		Options:             opts,
		Location:            loc,
		ExcludeWeekends:     cfg.Schedule.ExcludeWeekends,
		RiskBufferDays:      cfg.Schedule.RiskBufferDays,
		DefaultWorkingHours: cfg.Schedule.WorkingHours,
	}

	// Wire services
	repos := service.NewRepos(conn)
	recorder := metrics.NewRecorder()
	observer := service.NewLogUseCaseObserver(logger)

	app := &cli.App{
		Schedule: service.NewScheduleService(repos, uow, settings, logger.Named("scheduler"), recorder, observer),
		Reports:  service.NewReportService(repos, settings),
		Import:   service.NewImportService(uow, observer),
		Holidays: service.NewHolidayService(repos.Holidays),
		Metrics:  recorder,
		Config:   cfg,
		Location: loc,

		Interactive: stdoutTTY && isTerminal(os.Stdin),
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
