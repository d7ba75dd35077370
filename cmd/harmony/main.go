package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const (
	exitSuccess     = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
	version         = "1.0.0"
)

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

// errReported means the failure was already shown to the user.
var errReported = errors.New("reported")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	interrupted := ctx.Err() != nil
	stop()

	if err != nil && !errors.Is(err, errReported) {
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprintln(os.Stderr, ue.msg)
		} else if !interrupted {
			fmt.Fprintln(os.Stderr, "Error:", err.Error())
		}
	}
	if interrupted && err != nil {
		fmt.Fprintln(os.Stderr, "Interrupted (Ctrl-C)")
	}
	os.Exit(exitCode(err, interrupted))
}

func exitCode(err error, interrupted bool) int {
	if err == nil {
		return exitSuccess
	}
	var ue usageError
	switch {
	case errors.As(err, &ue):
		return exitUsage
	case interrupted:
		return exitInterrupted
	default:
		return exitFailure
	}
}
