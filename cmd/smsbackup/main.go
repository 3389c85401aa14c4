package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/wesm/smsbackup/cmd/smsbackup/cmd"
)

const (
	exitCodeError       = 1
	exitCodeUsage       = 2   // bad flags or option values, as shell builtins use
	exitCodeInterrupted = 130 // 128 + SIGINT, mirrors shell convention
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.ExecuteContext(ctx); err != nil {
		switch {
		case isSignalCanceled(err, ctx):
			return exitCodeInterrupted
		case cmd.IsUsageError(err):
			return exitCodeUsage
		default:
			return exitCodeError
		}
	}
	return 0
}

func isSignalCanceled(err error, ctx context.Context) bool {
	return errors.Is(err, context.Canceled) && ctx.Err() == context.Canceled
}
