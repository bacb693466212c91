package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "payroll",
		Usage: "regular / overtime / doubletime totals from employee time punches",
		Commands: []*cli.Command{
			calcCommand(),
			bandsCommand(),
			historyCommand(),
			botCommand(),
		},
	}
}

func main() {
	cmd := newApp()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		stop()
		log.Printf("Ошибка: %v", err)
		os.Exit(1)
	}
}
