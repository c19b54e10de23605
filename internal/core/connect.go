package core

import (
	"context"

	"netbat/internal/metrics"
	"netbat/internal/relay"
	"netbat/internal/transport"
	"netbat/util"
)

// ConnectMode dials host:port and relays over the resulting connection in
// the client role.
type ConnectMode struct {
	Dialer  transport.Dialer
	Host    string
	Port    int
	Relay   *relay.Relay
	Logger  *util.Logger
	Metrics *metrics.Collector // optional

	streams
}

// Run dials the remote address and relays until the session ends.
func (m *ConnectMode) Run(ctx context.Context) error {
	m.Logger.Verbose("connecting to %s", util.FormatAddr(m.Host, m.Port))

	conn, err := m.Dialer.Dial(ctx, m.Host, m.Port)
	if err != nil {
		if ctx.Err() != nil {
			return interrupted(err)
		}
		return err
	}

	m.Logger.Info("connected to %s", conn.RemoteAddr())
	return serve(ctx, conn, m.streams, m.Relay, m.Metrics, m.Logger)
}
