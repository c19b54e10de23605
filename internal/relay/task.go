package relay

import (
	"io"
	"sync"
	"sync/atomic"

	"netbat/util"
)

// Task copies one direction of the relay: it reads Src in fixed-size
// chunks and writes every chunk to Dst in full, until Src reports end
// of input or either side fails.
type Task struct {
	Name string
	Src  io.Reader
	Dst  io.Writer

	// HalfClose runs once when the task ends on its own, whether by
	// end of input or by an I/O error.  It does not run when Cancel
	// interrupted the task, nor once the task is detached.
	HalfClose func() error

	ChunkSize int         // bytes per read; 0 selects util.DefaultChunkSize
	OnCopy    func(n int) // called with the bytes each write delivered
	OnShort   func()      // called per resumed short write

	bytes    atomic.Int64
	canceled atomic.Bool
	reading  atomic.Bool // inside Src.Read

	mu       sync.Mutex // held while writing to Dst
	detached bool
}

// Result describes how a task ended.
type Result struct {
	Name     string
	Bytes    int64 // bytes written to Dst
	Err      error // nil when Src reached end of input
	Canceled bool  // stopped by Cancel rather than by Src or Dst
}

// Run executes the copy loop and blocks until it ends.
func (t *Task) Run() Result {
	var buf []byte
	if t.ChunkSize <= 0 || t.ChunkSize == util.DefaultChunkSize {
		pooled := util.GetBuf()
		defer util.PutBuf(pooled)
		buf = *pooled
	} else {
		buf = make([]byte, t.ChunkSize)
	}

	err := t.copyLoop(buf)

	// Reaching end of input is a natural finish even if Cancel raced it.
	if err != nil && t.canceled.Load() {
		return Result{Name: t.Name, Bytes: t.bytes.Load(), Canceled: true}
	}
	if t.HalfClose != nil && !t.isDetached() {
		t.HalfClose() //nolint:errcheck
	}
	return Result{Name: t.Name, Bytes: t.bytes.Load(), Err: err}
}

func (t *Task) copyLoop(buf []byte) error {
	for {
		// Publish the read before checking for Cancel, so the
		// canceller either stops us here or sees us reading.
		t.reading.Store(true)
		if t.canceled.Load() {
			t.reading.Store(false)
			return errCanceled
		}
		n, rerr := t.Src.Read(buf)
		t.reading.Store(false)
		if n > 0 {
			if werr := t.write(buf[:n]); werr != nil {
				return werr
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return rerr
		}
	}
}

func (t *Task) write(p []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.detached {
		return errDetached
	}
	n, err := util.WriteFull(t.Dst, p, t.OnShort)
	t.bytes.Add(int64(n))
	if n > 0 && t.OnCopy != nil {
		t.OnCopy(n)
	}
	return err
}

// Cancel marks the task as stopped from outside.  It only records the
// decision; interrupting a blocked Read or Write is the owner's job.
// Calling Cancel after Src has reached end of input is a no-op.
func (t *Task) Cancel() {
	t.canceled.Store(true)
}

// Detach waits for any write in progress to return and then forbids
// further writes to Dst, so the owner may release Dst even while the
// task is still blocked reading Src.
func (t *Task) Detach() {
	t.mu.Lock()
	t.detached = true
	t.mu.Unlock()
}

func (t *Task) isDetached() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.detached
}

// Reading reports whether the task is blocked in, or about to enter,
// a Read of Src.
func (t *Task) Reading() bool { return t.reading.Load() }

// Bytes returns the number of bytes written to Dst so far.
func (t *Task) Bytes() int64 { return t.bytes.Load() }
