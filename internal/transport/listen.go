package transport

import (
	"context"
	"net"
	"time"

	nberrors "netbat/internal/errors"
)

// OnceListener accepts a single TCP connection on all local IPv4
// addresses and releases the listening socket straight afterwards.
type OnceListener struct {
	Backlog int           // pending-connection queue length
	Timeout time.Duration // 0 = wait forever

	// Bound, if set, is called with the listening address once the
	// socket is ready for peers.
	Bound func(net.Addr)
}

// Accept implements [Acceptor].
func (l *OnceListener) Accept(ctx context.Context, port int) (net.Conn, error) {
	ln, err := bindAndListen(port, l.Backlog)
	if err != nil {
		return nil, err
	}
	defer ln.Close()

	if l.Bound != nil {
		l.Bound(ln.Addr())
	}

	if l.Timeout > 0 {
		if dl, ok := ln.(interface{ SetDeadline(time.Time) error }); ok {
			dl.SetDeadline(time.Now().Add(l.Timeout)) //nolint:errcheck
		}
	}

	// Shut the listener down if the context expires mid-accept.
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	conn, err := ln.Accept()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, nberrors.Listen(nberrors.KindAccept, port, err)
	}
	return conn, nil
}
