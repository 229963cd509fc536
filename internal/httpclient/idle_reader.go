package httpclient

import (
	"context"
	"io"
	"sync/atomic"
	"time"
)

// idleTimeoutReader fails a body read that makes no progress for timeout.
// On expiry it cancels the request context, which unblocks the pending Read.
type idleTimeoutReader struct {
	r       io.Reader
	timeout time.Duration
	timer   *time.Timer
	fired   atomic.Bool
	// srcErr keeps the last non-EOF error from r, so callers can tell
	// transport failures from errors raised by readers stacked on top.
	srcErr error
}

func newIdleTimeoutReader(r io.Reader, timeout time.Duration, cancel context.CancelFunc) *idleTimeoutReader {
	ir := &idleTimeoutReader{r: r, timeout: timeout}
	if timeout > 0 {
		ir.timer = time.AfterFunc(timeout, func() {
			ir.fired.Store(true)
			cancel()
		})
		ir.timer.Stop()
	}
	return ir
}

func (ir *idleTimeoutReader) Read(p []byte) (int, error) {
	if ir.fired.Load() {
		return 0, ErrReadTimeout
	}
	if ir.timer != nil {
		ir.timer.Reset(ir.timeout)
	}
	n, err := ir.r.Read(p)
	if ir.timer != nil {
		ir.timer.Stop()
	}
	if err != nil && err != io.EOF {
		if ir.fired.Load() {
			err = ErrReadTimeout
		}
		ir.srcErr = err
	}
	return n, err
}

func (ir *idleTimeoutReader) stop() {
	if ir.timer != nil {
		ir.timer.Stop()
	}
}
