package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"punch-payroll/config"
	"punch-payroll/internal/app/service"
	"punch-payroll/internal/delivery/telegram"
	"punch-payroll/internal/loader"
	"punch-payroll/internal/report"
	"punch-payroll/internal/repository/sqlite"
	"punch-payroll/pkg/workerpool"

	"github.com/urfave/cli/v3"
	"gopkg.in/telebot.v3"

	_ "github.com/mattn/go-sqlite3"
)

func bandsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "bands",
		Usage:   "YAML band table (default: 40h regular, 48h overtime, doubletime beyond)",
		Sources: cli.EnvVars("PAYROLL_BANDS"),
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		Usage:   "sqlite file for run history",
		Sources: cli.EnvVars("PAYROLL_DB"),
	}
}

func workersFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "workers",
		Usage:   "employees processed in parallel",
		Value:   1,
		Sources: cli.EnvVars("PAYROLL_WORKERS"),
	}
}

func calcCommand() *cli.Command {
	return &cli.Command{
		Name:   "calc",
		Usage:  "allocate hours for a JSONC punch file and write the results",
		Action: runCalc,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "JSONC file with jobMeta and employeeData",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "results file (default: results.json next to the input)",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "do not echo results to stdout",
			},
			bandsFlag(),
			workersFlag(),
			dbFlag(),
		},
	}
}

func bandsCommand() *cli.Command {
	return &cli.Command{
		Name:  "bands",
		Usage: "print the active band table",
		Flags: []cli.Flag{bandsFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if cmd.IsSet("bands") {
				cfg.BandsFile = cmd.String("bands")
			}
			bands, err := config.LoadBands(cfg.BandsFile)
			if err != nil {
				return err
			}
			fmt.Println(telegram.FormatBands(bands))
			return nil
		},
	}
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:   "history",
		Usage:  "list stored runs",
		Action: runHistory,
		Flags: []cli.Flag{
			dbFlag(),
			&cli.StringFlag{Name: "source", Usage: "only runs from this input"},
			&cli.IntFlag{Name: "limit", Usage: "number of runs", Value: 10},
			&cli.IntFlag{Name: "run", Usage: "print the results of one run"},
		},
	}
}

func botCommand() *cli.Command {
	return &cli.Command{
		Name:   "bot",
		Usage:  "serve the calculator over Telegram (TELEGRAM_TOKEN)",
		Action: runBot,
		Flags:  []cli.Flag{bandsFlag(), workersFlag(), dbFlag()},
	}
}

// setup читает конфиг из окружения, применяет флаги поверх него и собирает сервис расчёта.
// Возвращённый cleanup нужно вызвать, когда сервис больше не используется.
func setup(cmd *cli.Command) (*config.Config, *service.PayrollService, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	if cmd.IsSet("bands") {
		cfg.BandsFile = cmd.String("bands")
	}
	if cmd.IsSet("workers") {
		cfg.Workers = int(cmd.Int("workers"))
	}
	if cmd.IsSet("db") {
		cfg.DBPath = cmd.String("db")
	}

	bands, err := config.LoadBands(cfg.BandsFile)
	if err != nil {
		return nil, nil, nil, err
	}

	var async *service.AsyncService
	cleanup := func() {}
	if cfg.Workers > 1 {
		pool := workerpool.NewWorkerPool(cfg.Workers, cfg.QueueSize)
		async = service.NewAsyncService(pool)
		cleanup = pool.Close
	}

	svc, err := service.NewPayrollService(bands, async)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return cfg, svc, cleanup, nil
}

func openResults(path string) (*service.ResultService, *sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if err := sqlite.Migrate(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return service.NewResultService(sqlite.NewSqliteRunRepo(db)), db, nil
}

func runCalc(ctx context.Context, cmd *cli.Command) error {
	cfg, svc, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	input := cmd.String("input")
	output := cmd.String("output")
	if output == "" {
		output = report.DefaultOutputPath(input)
	}

	doc, err := loader.LoadFile(input)
	if err != nil {
		return err
	}
	log.Printf("[calc] %s: %d jobs, %d employees", input, len(doc.JobMeta), len(doc.EmployeeData))

	results, err := svc.Allocate(ctx, doc)
	if err != nil {
		return err
	}

	var echo io.Writer
	if !cmd.Bool("quiet") {
		echo = os.Stdout
	}
	if err := report.Emit(results, output, echo); err != nil {
		return err
	}
	log.Printf("[calc] results written to %s", output)

	if cfg.DBPath != "" {
		store, db, err := openResults(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		id, err := store.Record(input, results)
		if err != nil {
			return fmt.Errorf("store run: %w", err)
		}
		log.Printf("[calc] stored as run #%d in %s", id, cfg.DBPath)
	}
	return nil
}

func runHistory(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if cmd.IsSet("db") {
		cfg.DBPath = cmd.String("db")
	}
	if cfg.DBPath == "" {
		return fmt.Errorf("no database: set --db or PAYROLL_DB")
	}
	results, db, err := openResults(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if id := int64(cmd.Int("run")); id > 0 {
		run, err := results.GetRun(id)
		if err != nil {
			return err
		}
		data, err := report.Encode(run.Results)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	runs, err := results.History(cmd.String("source"), int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	for _, run := range runs {
		fmt.Printf("#%d\t%s\t%s\t%d employees\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), run.Source, run.Employees)
	}
	return nil
}

const pollTimeout = 10 * time.Second

func botSettings(token string) telebot.Settings {
	return telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: pollTimeout},
	}
}

func runBot(ctx context.Context, cmd *cli.Command) error {
	log.Println("Запуск Telegram Payroll Bot...")

	cfg, svc, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	token, err := cfg.RequireToken()
	if err != nil {
		return err
	}

	var results *service.ResultService
	if cfg.DBPath != "" {
		var db *sql.DB
		results, db, err = openResults(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	bot, err := telebot.NewBot(botSettings(token))
	if err != nil {
		return fmt.Errorf("start bot: %w", err)
	}

	handler := &telegram.Handler{
		Bot:     bot,
		Payroll: svc,
		Results: results,
	}
	handler.Register()

	go func() {
		<-ctx.Done()
		bot.Stop()
	}()

	log.Println("Бот запущен!")
	bot.Start()
	return nil
}
