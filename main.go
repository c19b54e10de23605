// netbat relays bytes between one TCP connection and standard I/O.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"netbat/cmd"
	"netbat/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: error: %v\n", config.ProgramName, err)
		cancel()
		os.Exit(1)
	}
}
