// Package core is the orchestration layer.  It composes a transport
// and the relay into the two roles netbat can run in and provides a
// builder that selects the role from a Config.
//
// Architecture layers (bottom → top):
//
//	transport  →  session  →  relay  →  core  →  cmd (CLI)
package core

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"

	nberrors "netbat/internal/errors"
	"netbat/internal/metrics"
	"netbat/internal/relay"
	"netbat/internal/session"
	"netbat/util"
)

// Mode represents a complete run of netbat in one role.  Each mode owns
// its full lifecycle from connection establishment to teardown.
type Mode interface {
	Run(ctx context.Context) error
}

// streams holds the local I/O pair shared by both modes.
//
// Stdin/Stdout default to os.Stdin/os.Stdout when nil.  Override in
// tests for deterministic I/O.
type streams struct {
	Stdin  io.Reader
	Stdout io.Writer
}

func (s *streams) stdin() io.Reader {
	if s.Stdin != nil {
		return s.Stdin
	}
	return os.Stdin
}

func (s *streams) stdout() io.Writer {
	if s.Stdout != nil {
		return s.Stdout
	}
	return os.Stdout
}

// serve relays over an established connection until the session ends.
// The relay owns conn from here on and closes it.
func serve(ctx context.Context, conn net.Conn, s streams, r *relay.Relay, m *metrics.Collector, logger *util.Logger) error {
	logger = logger.With("peer", conn.RemoteAddr().String())

	stdin := s.stdin()
	if util.IsTerminal(stdin) {
		logger.Verbose("reading input from terminal")
	}

	if r == nil {
		r = &relay.Relay{}
	}
	sess := session.New(conn, stdin, s.stdout(), logger).WithMetrics(m)
	stats, err := r.Run(ctx, sess)

	logger.Verbose("received %d bytes, sent %d bytes", stats.Inbound.Bytes, stats.Outbound.Bytes)
	if stats.Outbound.Canceled {
		logger.Verbose("outbound cancelled after peer finished")
	}
	if m != nil {
		logger.Debug("metrics %s", m.JSON())
	}

	if err != nil {
		return interrupted(err)
	}
	return nil
}

// interrupted tags err as the result of an interrupt.
func interrupted(err error) error {
	return fmt.Errorf("%w: %w", nberrors.ErrInterrupted, err)
}
