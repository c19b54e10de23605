//go:build !linux

package transport

import (
	"errors"
	"net"
	"strconv"
	"syscall"

	nberrors "netbat/internal/errors"
)

// bindAndListen falls back to net.Listen, which binds and listens in
// one call; the errno tells the two failures apart.
func bindAndListen(port, _ int) (net.Listener, error) {
	ln, err := net.Listen("tcp4", ":"+strconv.Itoa(port))
	if err != nil {
		kind := nberrors.KindListen
		var errno syscall.Errno
		if errors.As(err, &errno) &&
			(errno == syscall.EADDRINUSE || errno == syscall.EACCES || errno == syscall.EADDRNOTAVAIL) {
			kind = nberrors.KindBind
		}
		return nil, nberrors.Listen(kind, port, err)
	}
	return ln, nil
}
