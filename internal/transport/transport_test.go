package transport

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	nberrors "netbat/internal/errors"
	"netbat/util"
)

// TestTCPDialer_Connect verifies that TCPDialer can reach a local
// TCP server and exchange data.
func TestTCPDialer_Connect(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	// Server: accept, send greeting, close.
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Write([]byte("hello from server\n")) //nolint:errcheck
	}()

	d := &TCPDialer{Timeout: 2 * time.Second, NoDNS: true}
	port := ln.Addr().(*net.TCPAddr).Port

	conn, err := d.Dial(context.Background(), "127.0.0.1", port)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	got, err := io.ReadAll(conn)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "hello from server\n" {
		t.Errorf("got %q, want %q", got, "hello from server\n")
	}
}

// TestTCPDialer_Refused verifies a closed port yields a connect error.
func TestTCPDialer_Refused(t *testing.T) {
	port, err := util.FindFreePort()
	if err != nil {
		t.Fatal(err)
	}

	d := &TCPDialer{Timeout: 2 * time.Second}
	_, err = d.Dial(context.Background(), "127.0.0.1", port)
	if !nberrors.Is(err, nberrors.ErrConnect) {
		t.Fatalf("err = %v, want connect error", err)
	}
	want := "failure connecting to 127.0.0.1:"
	if got := err.Error(); len(got) < len(want) || got[:len(want)] != want {
		t.Errorf("message %q should start with %q", got, want)
	}
}

// TestTCPDialer_ResolveError verifies an unusable host is a resolve error.
func TestTCPDialer_ResolveError(t *testing.T) {
	d := &TCPDialer{NoDNS: true}
	_, err := d.Dial(context.Background(), "not-an-ip", 80)
	if !nberrors.Is(err, nberrors.ErrResolve) {
		t.Fatalf("err = %v, want resolve error", err)
	}
}

// TestTCPDialer_ContextCancel verifies that a cancelled context stops the dial.
func TestTCPDialer_ContextCancel(t *testing.T) {
	d := &TCPDialer{Timeout: 5 * time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := d.Dial(ctx, "127.0.0.1", 1)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

// TestOnceListener_Accept verifies exactly one peer is accepted and the
// listening socket is released afterwards.
func TestOnceListener_Accept(t *testing.T) {
	port, err := util.FindFreePort()
	if err != nil {
		t.Fatal(err)
	}

	bound := make(chan net.Addr, 1)
	l := &OnceListener{Backlog: 1, Bound: func(a net.Addr) { bound <- a }}

	type result struct {
		conn net.Conn
		err  error
	}
	done := make(chan result, 1)
	go func() {
		c, err := l.Accept(context.Background(), port)
		done <- result{c, err}
	}()

	select {
	case <-bound:
	case r := <-done:
		t.Fatalf("accept returned early: %v", r.err)
	case <-time.After(2 * time.Second):
		t.Fatal("listener never bound")
	}

	client, err := net.DialTimeout("tcp", util.FormatAddr("127.0.0.1", port), 2*time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	var r result
	select {
	case r = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("accept did not return")
	}
	if r.err != nil {
		t.Fatalf("accept: %v", r.err)
	}
	defer r.conn.Close()

	client.Write([]byte("ping")) //nolint:errcheck
	buf := make([]byte, 4)
	if _, err := io.ReadFull(r.conn, buf); err != nil || string(buf) != "ping" {
		t.Fatalf("read %q, %v", buf, err)
	}

	// The listening socket is gone: a second dial must fail.
	if c2, err := net.DialTimeout("tcp", util.FormatAddr("127.0.0.1", port), time.Second); err == nil {
		c2.Close()
		t.Error("second dial succeeded; listener was not released")
	}
}

// TestOnceListener_PortInUse verifies binding an occupied port is a
// bind error rather than a crash or hang.
func TestOnceListener_PortInUse(t *testing.T) {
	occupied, err := net.Listen("tcp4", "0.0.0.0:0")
	if err != nil {
		t.Fatal(err)
	}
	defer occupied.Close()
	port := occupied.Addr().(*net.TCPAddr).Port

	l := &OnceListener{Backlog: 1}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err = l.Accept(ctx, port)
	if !nberrors.Is(err, nberrors.ErrBind) {
		t.Fatalf("err = %v, want bind error", err)
	}
}

// TestOnceListener_Timeout verifies the optional accept timeout.
func TestOnceListener_Timeout(t *testing.T) {
	port, err := util.FindFreePort()
	if err != nil {
		t.Fatal(err)
	}

	l := &OnceListener{Backlog: 1, Timeout: 100 * time.Millisecond}
	start := time.Now()
	_, err = l.Accept(context.Background(), port)
	if !nberrors.Is(err, nberrors.ErrAccept) {
		t.Fatalf("err = %v, want accept error", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("timeout not honoured")
	}
}

// TestOnceListener_ContextCancel verifies cancellation unblocks Accept.
func TestOnceListener_ContextCancel(t *testing.T) {
	port, err := util.FindFreePort()
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	l := &OnceListener{Backlog: 1, Bound: func(net.Addr) { cancel() }}

	_, err = l.Accept(ctx, port)
	if !nberrors.Is(err, nberrors.ErrAccept) {
		t.Fatalf("err = %v, want accept error", err)
	}
	if !nberrors.Is(err, context.Canceled) {
		t.Errorf("err = %v should wrap context.Canceled", err)
	}
}
