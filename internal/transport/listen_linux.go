//go:build linux

package transport

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"

	nberrors "netbat/internal/errors"
)

// bindAndListen performs socket, bind and listen as separate steps so
// that a port already in use is reported as a bind failure and the
// backlog is exactly the one requested.
func bindAndListen(port, backlog int) (net.Listener, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return nil, nberrors.Listen(nberrors.KindListen, port, os.NewSyscallError("socket", err))
	}

	fail := func(kind nberrors.Kind, call string, err error) (net.Listener, error) {
		unix.Close(fd) //nolint:errcheck
		return nil, nberrors.Listen(kind, port, os.NewSyscallError(call, err))
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return fail(nberrors.KindBind, "setsockopt", err)
	}
	if err := unix.Bind(fd, &unix.SockaddrInet4{Port: port}); err != nil {
		return fail(nberrors.KindBind, "bind", err)
	}
	if err := unix.Listen(fd, backlog); err != nil {
		return fail(nberrors.KindListen, "listen", err)
	}

	f := os.NewFile(uintptr(fd), fmt.Sprintf("tcp4-listener:%d", port))
	ln, err := net.FileListener(f)
	f.Close() // FileListener holds its own dup
	if err != nil {
		return nil, nberrors.Listen(nberrors.KindListen, port, err)
	}
	return ln, nil
}
