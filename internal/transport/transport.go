// Package transport establishes the single connection a netbat run
// relays over: either by dialing out (client role) or by accepting one
// inbound peer (server role).  What happens over the connection is the
// relay's job.
package transport

import (
	"context"
	"net"
)

// Dialer opens the outbound connection for the client role.
type Dialer interface {
	// Dial resolves host and connects to host:port.  Failures are
	// *errors.NetworkError values of kind Resolve or Connect.
	Dial(ctx context.Context, host string, port int) (net.Conn, error)
}

// Acceptor yields the inbound connection for the server role.
type Acceptor interface {
	// Accept binds port, waits for exactly one peer and returns its
	// connection.  Failures are *errors.NetworkError values of kind
	// Bind, Listen or Accept.
	Accept(ctx context.Context, port int) (net.Conn, error)
}
