package server

import "github.com/pkg/errors"

// ErrSendQueueExceeded is returned by outBuffer.push when appending a line
// would exceed the per-user send-q cap.
var ErrSendQueueExceeded = errors.New("SendQ exceeded")

// outBuffer is a per-user queue of CRLF-terminated lines awaiting write.
// Capped so a slow or malicious peer cannot grow server memory without
// bound.
type outBuffer struct {
	cap   int
	size  int
	lines []string
}

func newOutBuffer(capacity int) *outBuffer {
	return &outBuffer{cap: capacity}
}

// push enqueues a line (which must already end in CRLF). It never partially
// enqueues: either the whole line fits under the cap or none of it does.
func (b *outBuffer) push(line string) error {
	if b.size+len(line) > b.cap {
		return ErrSendQueueExceeded
	}
	b.lines = append(b.lines, line)
	b.size += len(line)
	return nil
}

// drain returns and clears all pending lines.
func (b *outBuffer) drain() []string {
	lines := b.lines
	b.lines = nil
	b.size = 0
	return lines
}

func (b *outBuffer) empty() bool {
	return len(b.lines) == 0
}
