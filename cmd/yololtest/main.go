// Command yololtest runs Yolol test scripts and reports their results.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/roach88/yololtest/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	stop()
	os.Exit(cli.GetExitCode(err))
}
