// SPDX-License-Identifier: EPL-2.0

// Command melfeat extracts log-mel and delta features from a folder-organized
// audio corpus and stores them as a compressed dataset artifact.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mdobak/go-xerrors"

	"github.com/ik5/melfeat/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// run executes one command line. A failure is logged while the log file
// configured by the command is still open.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	defer logging.Shutdown()

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		logging.For(logging.CategoryApp).WithError(xerrors.New(err)).Error("melfeat failed")
	}

	return err
}
