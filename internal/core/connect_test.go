package core

import (
	"bytes"
	"context"
	"io"
	"net"
	"testing"
	"time"

	nberrors "netbat/internal/errors"
	"netbat/internal/metrics"
	"netbat/internal/transport"
	"netbat/util"
)

func newConnectMode(port int, stdin io.Reader, stdout io.Writer) *ConnectMode {
	m := &ConnectMode{
		Dialer: &transport.TCPDialer{Timeout: 2 * time.Second, NoDNS: true},
		Host:   "127.0.0.1",
		Port:   port,
		Logger: util.NewLogger(0),
	}
	m.Stdin = stdin
	m.Stdout = stdout
	return m
}

// TestConnectMode_TCP verifies end-to-end connect mode.
func TestConnectMode_TCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	// Server: accept one conn, send greeting, close.
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Write([]byte("hello from server\n")) //nolint:errcheck
	}()

	output := &bytes.Buffer{}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	mode := newConnectMode(ln.Addr().(*net.TCPAddr).Port, bytes.NewBufferString(""), output)
	if err := mode.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := output.String(); got != "hello from server\n" {
		t.Errorf("output = %q, want %q", got, "hello from server\n")
	}
}

// TestConnectMode_SendData verifies data flows from client to server.
func TestConnectMode_SendData(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	received := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		var buf bytes.Buffer
		io.Copy(&buf, conn) //nolint:errcheck
		received <- buf.String()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	mode := newConnectMode(ln.Addr().(*net.TCPAddr).Port, bytes.NewBufferString("payload from client"), &bytes.Buffer{})
	mode.Metrics = metrics.New()
	if err := mode.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	select {
	case got := <-received:
		if got != "payload from client" {
			t.Errorf("server got %q", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for data")
	}
	if n := mode.Metrics.TotalBytesOut(); n != int64(len("payload from client")) {
		t.Errorf("bytes out = %d", n)
	}
}

// TestConnectMode_Refused verifies a refused connection surfaces as a
// connect error, not an interrupt.
func TestConnectMode_Refused(t *testing.T) {
	port, err := util.FindFreePort()
	if err != nil {
		t.Fatal(err)
	}

	mode := newConnectMode(port, bytes.NewBufferString(""), io.Discard)
	err = mode.Run(context.Background())
	if !nberrors.Is(err, nberrors.ErrConnect) {
		t.Fatalf("err = %v, want connect error", err)
	}
	if nberrors.Is(err, nberrors.ErrInterrupted) {
		t.Errorf("refusal reported as interrupt: %v", err)
	}
}
