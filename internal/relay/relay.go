// Package relay moves bytes between the connection and the local
// streams in both directions at once.
//
// Two Tasks run concurrently: inbound (connection → stdout) and
// outbound (stdin → connection).  The session ends when the inbound
// task ends, because the peer having nothing more to send is what ends
// an interactive session; local input such as a terminal never reports
// end of input on its own.  The outbound task is then cancelled if it
// is still running, and the connection is closed once both tasks have
// stopped.
package relay

import (
	"context"
	"errors"

	nberrors "netbat/internal/errors"
	"netbat/internal/session"
	"netbat/util"
)

var (
	errDetached = errors.New("relay: task detached from destination")
	errCanceled = errors.New("relay: task cancelled")
)

// Relay runs the duplex copy over a session.
type Relay struct {
	ChunkSize int // 0 selects util.DefaultChunkSize
}

// Stats summarises a finished relay.
type Stats struct {
	Inbound  Result
	Outbound Result
}

// Run relays until the peer stops sending (or ctx is done), then stops
// the outbound direction and closes sess.Conn exactly once.  Mid-relay
// I/O errors end their direction like end of input and are reported in
// Stats only; the returned error is non-nil only when ctx ended the
// session.
func (r *Relay) Run(ctx context.Context, sess *session.Session) (Stats, error) {
	log := sess.Logger
	if log == nil {
		log = util.NewLogger(0)
	}
	m := sess.Metrics

	ep := newEndpoint(sess.Conn)
	defer ep.Close()

	src := newSource(sess.Stdin)
	defer src.Close()

	inbound := &Task{
		Name:      "inbound",
		Src:       ep,
		Dst:       sess.Stdout,
		HalfClose: ep.CloseRead,
		ChunkSize: r.ChunkSize,
		OnCopy:    func(n int) { m.BytesReceived(int64(n)) },
		OnShort:   m.ShortWrite,
	}
	outbound := &Task{
		Name:      "outbound",
		Src:       src,
		Dst:       ep,
		HalfClose: ep.CloseWrite,
		ChunkSize: r.ChunkSize,
		OnCopy:    func(n int) { m.BytesSent(int64(n)) },
		OnShort:   m.ShortWrite,
	}

	inDone := make(chan Result, 1)
	outDone := make(chan Result, 1)
	m.ConnectionOpened()
	defer m.ConnectionClosed()
	go func() { inDone <- inbound.Run() }()
	go func() { outDone <- outbound.Run() }()

	var stats Stats
	var interrupted error

	select {
	case stats.Inbound = <-inDone:
	case <-ctx.Done():
		interrupted = ctx.Err()
		log.Verbose("interrupted; stopping inbound")
		inbound.Cancel()
		ep.interruptRead()
		stats.Inbound = <-inDone
		m.Cancellation()
	}
	log.Debug("inbound finished after %d bytes", stats.Inbound.Bytes)

	select {
	case stats.Outbound = <-outDone:
	default:
		stats.Outbound = stopOutbound(outbound, src.Cancel, ep, outDone, log)
		if stats.Outbound.Canceled {
			m.Cancellation()
		}
	}
	log.Debug("outbound finished after %d bytes", stats.Outbound.Bytes)

	for _, res := range []Result{stats.Inbound, stats.Outbound} {
		if res.Err != nil && !nberrors.IsExpectedClose(res.Err) && !isCanceled(res.Err) {
			m.RecordError(res.Err.Error())
			log.Warn("%s: %v", res.Name, &nberrors.NetworkError{Kind: nberrors.KindIO, Err: res.Err})
		}
	}

	return stats, interrupted
}

// stopOutbound forcibly ends the outbound task.  A blocked read of the
// local input is interrupted through the cancellable source and a
// blocked write to the peer through an expired write deadline.  When
// the source cannot guarantee interruption, the task is detached from
// the connection instead.  A task parked in its read is then abandoned:
// it can no longer touch the connection, which is all the caller needs
// before closing it.  A task anywhere else is about to finish and is
// waited for.
func stopOutbound(t *Task, cancelRead func() bool, ep *endpoint, done <-chan Result, log *util.Logger) Result {
	t.Cancel()
	interrupted := cancelRead()
	ep.interruptWrite()

	if interrupted {
		return <-done
	}

	t.Detach()
	if !t.Reading() {
		return <-done
	}
	select {
	case res := <-done:
		return res
	default:
		log.Debug("outbound read abandoned; input is not interruptible")
		return Result{Name: t.Name, Bytes: t.Bytes(), Canceled: true}
	}
}
