package util

import "sync"

// DefaultChunkSize is the number of bytes each relay direction reads
// per iteration.
const DefaultChunkSize = 1024

// BufPool provides reusable chunk buffers for the relay copy loops.
var BufPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, DefaultChunkSize)
		return &buf
	},
}

// GetBuf retrieves a buffer from the pool.  Callers must return it
// with [PutBuf] when finished.
func GetBuf() *[]byte {
	return BufPool.Get().(*[]byte)
}

// PutBuf returns a buffer to the pool for reuse.  Buffers of any other
// size are dropped.
func PutBuf(buf *[]byte) {
	if buf == nil || cap(*buf) != DefaultChunkSize {
		return
	}
	*buf = (*buf)[:DefaultChunkSize]
	BufPool.Put(buf)
}
