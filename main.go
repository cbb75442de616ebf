package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/corpeningc/gitassist/cmd"
	"github.com/corpeningc/gitassist/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer logging.CloseFiles()

	if err := cmd.Execute(ctx); err != nil {
		logging.Default().Error(err.Error())
		return 1
	}
	return 0
}
