package transport

import (
	"context"
	"net"
	"strconv"
	"time"

	nberrors "netbat/internal/errors"
	"netbat/util"
)

// TCPDialer establishes plain TCP connections.
type TCPDialer struct {
	Timeout time.Duration // 0 = operating system default
	NoDNS   bool          // accept numeric addresses only
}

// Dial resolves host to a numeric address and connects to it.
func (d *TCPDialer) Dial(ctx context.Context, host string, port int) (net.Conn, error) {
	ip, err := util.ResolveHost(ctx, host, d.NoDNS)
	if err != nil {
		return nil, nberrors.Dial(nberrors.KindResolve, host, port, err)
	}

	dialer := net.Dialer{Timeout: d.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(ip.String(), strconv.Itoa(port)))
	if err != nil {
		return nil, nberrors.Dial(nberrors.KindConnect, host, port, err)
	}
	return conn, nil
}
