// Package cmd wires up the CLI flags and dispatches to the core modes.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"netbat/config"
	"netbat/internal/core"
	nberrors "netbat/internal/errors"
	"netbat/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X netbat/cmd.version=1.1"
var version = "1.0" //nolint:gochecknoglobals

// Usage and version text go here; swapped out in tests.
var (
	stdout io.Writer = os.Stdout //nolint:gochecknoglobals
	stderr io.Writer = os.Stderr //nolint:gochecknoglobals
)

// invocation is the parsed command line.
type invocation struct {
	cfg         *config.Config
	showVersion bool
	showHelp    bool
}

// Execute parses args and runs netbat in the selected role.
func Execute(ctx context.Context, args []string) error {
	inv, fs, err := parseArgs(args)
	if err != nil {
		printUsage(fs)
		return err
	}

	if inv.showHelp {
		printUsage(fs)
		return nil
	}
	if inv.showVersion {
		fmt.Fprintf(stdout, "%s %s\nWritten by %s\n", config.ProgramName, version, config.Authors)
		return nil
	}

	logger := util.NewLogger(inv.cfg.Verbose)
	logger.Debug("config: role=%s host=%q port=%d timeout=%s",
		inv.cfg.Role(), inv.cfg.Host, inv.cfg.Port, inv.cfg.Timeout)

	mode, err := core.Build(inv.cfg, logger)
	if err != nil {
		return err
	}
	if err := mode.Run(ctx); err != nil {
		logger.Debug("run failed: kind=%s", nberrors.KindOf(err))
		return err
	}
	return nil
}

// parseArgs builds the invocation from the command line.  The FlagSet
// is returned even on error so the caller can print usage.
func parseArgs(args []string) (*invocation, *flag.FlagSet, error) {
	inv := &invocation{cfg: &config.Config{}}
	cfg := inv.cfg

	fs := flag.NewFlagSet(config.ProgramName, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	// ── connection ───────────────────────────────────────────────
	fs.BoolVarP(&cfg.NoDNS, "no-dns", "n", false, "Numeric-only host, no DNS resolution")

	var timeoutSec int
	fs.IntVarP(&timeoutSec, "timeout", "w", int(config.DefaultTimeout/time.Second),
		"Connect/accept timeout in seconds (0 = none)")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")

	fs.BoolVar(&inv.showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&inv.showHelp, "help", "h", false, "Show this help")

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return nil, fs, &nberrors.ArgumentError{Message: err.Error()}
	}
	if inv.showHelp || inv.showVersion {
		return inv, fs, nil
	}

	cfg.Timeout = time.Duration(timeoutSec) * time.Second

	// ── positional arguments ─────────────────────────────────────
	if err := parsePositional(cfg, fs.Args()); err != nil {
		return nil, fs, err
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return nil, fs, err
	}
	return inv, fs, nil
}

// parsePositional accepts "[host] <port>": the port is always the last
// argument and the host, when present, the one before it.
func parsePositional(cfg *config.Config, remaining []string) error {
	switch len(remaining) {
	case 1, 2:
	case 0:
		return &nberrors.ArgumentError{
			Message: "port required",
			Hint:    "netbat <port> listens, netbat <host> <port> connects",
		}
	default:
		return &nberrors.ArgumentError{
			Message: fmt.Sprintf("too many arguments (%d)", len(remaining)),
		}
	}

	port, err := config.ParsePort(remaining[len(remaining)-1])
	if err != nil {
		return err
	}
	cfg.Port = port
	if len(remaining) == 2 {
		cfg.Host = remaining[0]
	}
	return nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(stderr, `%s %s - single-connection TCP byte pipe

Usage:
  %[1]s [options] <port>            Listen for one connection
  %[1]s [options] <host> <port>     Connect to host

Options:
`, config.ProgramName, version)
	fs.SetOutput(stderr)
	fs.PrintDefaults()
	fs.SetOutput(io.Discard)
	fmt.Fprintf(stderr, `
Examples:
  %[1]s 8080 > received.bin               Receive a file
  %[1]s host.example.com 8080 < file.bin  Send a file
`, config.ProgramName)
}
