package util

import "io"

// WriteFull writes all of p to w.  A write that accepts only part of its
// input is resumed with the remaining tail; onShort, if non-nil, is called
// once per resumption.  A write that fails is not retried, and a write
// that makes no progress without reporting an error is treated as
// [io.ErrShortWrite].
func WriteFull(w io.Writer, p []byte, onShort func()) (int, error) {
	written := 0
	for written < len(p) {
		n, err := w.Write(p[written:])
		if n < 0 || n > len(p)-written {
			return written, io.ErrShortWrite
		}
		written += n
		if err != nil {
			return written, err
		}
		if n == 0 {
			return written, io.ErrShortWrite
		}
		if written < len(p) && onShort != nil {
			onShort()
		}
	}
	return written, nil
}
