package relay

import (
	"errors"
	"io"

	"github.com/muesli/cancelreader"
)

// newSource wraps the local input so that a Read blocked on it can be
// interrupted.  For files the operating system can poll, Cancel returns
// true and the blocked Read returns at once.  Anything else (in-memory
// readers, regular files) gets the fallback: Cancel returns false and
// whatever the in-flight Read produces is discarded.
func newSource(r io.Reader) cancelreader.CancelReader {
	cr, err := cancelreader.NewReader(r)
	if err == nil {
		return cr
	}
	// Hide the Fd method so that NewReader takes the fallback path.
	cr, _ = cancelreader.NewReader(struct{ io.Reader }{r})
	return cr
}

// isCanceled reports whether err is the cancelled-read error.
func isCanceled(err error) bool {
	return errors.Is(err, cancelreader.ErrCanceled)
}
