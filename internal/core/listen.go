package core

import (
	"context"

	"netbat/internal/metrics"
	"netbat/internal/relay"
	"netbat/internal/transport"
	"netbat/util"
)

// ListenMode waits for exactly one inbound connection on Port and
// relays over it in the server role.  The listening socket is released
// as soon as the peer is accepted; later peers are refused.
type ListenMode struct {
	Acceptor transport.Acceptor
	Port     int
	Relay    *relay.Relay
	Logger   *util.Logger
	Metrics  *metrics.Collector // optional

	streams
}

// Run accepts one peer and relays until the session ends.
func (m *ListenMode) Run(ctx context.Context) error {
	conn, err := m.Acceptor.Accept(ctx, m.Port)
	if err != nil {
		if ctx.Err() != nil {
			return interrupted(err)
		}
		return err
	}

	m.Logger.Info("connection from %s", conn.RemoteAddr())
	return serve(ctx, conn, m.streams, m.Relay, m.Metrics, m.Logger)
}
