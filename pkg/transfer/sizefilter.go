package transfer

import (
	"errors"
	"io"
)

// The size filter applies two policies, depending on what the source reports:
//
//   - Known size: checked before any bytes are fetched, so an oversized
//     artifact costs one closed connection and nothing more.
//   - Unknown size: the artifact is allowed through, but its stream is capped
//     while the sink write is in flight. The moment the cap trips, the write
//     is aborted and the artifact is recorded as skipped. Nothing is ever
//     stored truncated.

// ErrSizeExceeded is returned by a capped artifact stream once more bytes
// than the configured maximum have been read from it.
var ErrSizeExceeded = errors.New("artifact size exceeds configured maximum")

// allowSize reports whether an artifact of the given byte size may be
// transferred. A non-positive maxSize disables the limit.
func allowSize(size, maxSize int64) bool {
	return maxSize <= 0 || size <= maxSize
}

// maxSizeReader caps an artifact stream whose size the source did not report.
type maxSizeReader struct {
	body     io.ReadCloser
	maxSize  int64
	read     int64
	exceeded bool
}

func newMaxSizeReader(body io.ReadCloser, maxSize int64) *maxSizeReader {
	return &maxSizeReader{body: body, maxSize: maxSize}
}

func (r *maxSizeReader) Read(p []byte) (int, error) {
	if r.exceeded {
		return 0, ErrSizeExceeded
	}
	n, err := r.body.Read(p)
	r.read += int64(n)
	if r.maxSize > 0 && r.read > r.maxSize {
		r.exceeded = true
		return n, ErrSizeExceeded
	}
	return n, err
}

func (r *maxSizeReader) Close() error {
	return r.body.Close()
}

// Exceeded reports whether the stream went past the configured maximum.
func (r *maxSizeReader) Exceeded() bool {
	return r.exceeded
}
