package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tileboard/internal/cli"
	"github.com/matzehuels/tileboard/pkg/errors"
)

// Exit codes.
const (
	exitFailure   = 1
	exitUsage     = 2   // bad config, script or output format
	exitInterrupt = 130 // shell convention for SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	cancel()

	if err != nil {
		if !stderrors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "tileboard:", err)
		}
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	// Raise the level before the root hook runs so config loading sees it.
	next := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if next != nil {
			return next(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	if stderrors.Is(err, context.Canceled) {
		return exitInterrupt
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidScript, errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidHandle, errors.ErrCodeUnsupported:
		return exitUsage
	}
	return exitFailure
}
