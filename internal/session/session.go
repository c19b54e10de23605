// Package session binds the one established connection to the local
// I/O streams it is relayed with.
//
// The relay reads and writes through the session rather than os.Stdin
// and os.Stdout directly, so tests can substitute pipes and buffers.
package session

import (
	"io"
	"net"

	"netbat/internal/metrics"
	"netbat/util"
)

// Session encapsulates the runtime context for the single connection.
type Session struct {
	Conn    net.Conn
	Stdin   io.Reader // source of outbound bytes; never closed
	Stdout  io.Writer // sink for inbound bytes; never closed
	Logger  *util.Logger
	Metrics *metrics.Collector // may be nil
}

// New creates a Session bound to the given connection and I/O pair.
func New(conn net.Conn, stdin io.Reader, stdout io.Writer, logger *util.Logger) *Session {
	return &Session{
		Conn:   conn,
		Stdin:  stdin,
		Stdout: stdout,
		Logger: logger,
	}
}

// WithMetrics attaches a collector and returns s.
func (s *Session) WithMetrics(c *metrics.Collector) *Session {
	s.Metrics = c
	return s
}
