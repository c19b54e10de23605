package relay

import (
	"net"
	"sync"
	"time"
)

// aLongTimeAgo is a deadline that has always already expired.
var aLongTimeAgo = time.Unix(1, 0)

type readCloser interface{ CloseRead() error }
type writeCloser interface{ CloseWrite() error }

// endpoint wraps the relayed connection so that each half-close and the
// final close happen at most once.  Repeated calls are no-ops.
type endpoint struct {
	net.Conn

	readOnce  sync.Once
	writeOnce sync.Once
	closeOnce sync.Once
}

func newEndpoint(conn net.Conn) *endpoint {
	return &endpoint{Conn: conn}
}

// CloseRead shuts down the read side, if the connection supports it.
func (e *endpoint) CloseRead() (err error) {
	e.readOnce.Do(func() {
		if rc, ok := e.Conn.(readCloser); ok {
			err = rc.CloseRead()
		}
	})
	return err
}

// CloseWrite shuts down the write side, telling the peer no more data
// will follow.
func (e *endpoint) CloseWrite() (err error) {
	e.writeOnce.Do(func() {
		if wc, ok := e.Conn.(writeCloser); ok {
			err = wc.CloseWrite()
		}
	})
	return err
}

// Close releases the connection.
func (e *endpoint) Close() (err error) {
	e.closeOnce.Do(func() { err = e.Conn.Close() })
	return err
}

// interruptRead makes a pending or future Read fail immediately.
func (e *endpoint) interruptRead() {
	e.Conn.SetReadDeadline(aLongTimeAgo) //nolint:errcheck
}

// interruptWrite makes a pending or future Write fail immediately.
func (e *endpoint) interruptWrite() {
	e.Conn.SetWriteDeadline(aLongTimeAgo) //nolint:errcheck
}
