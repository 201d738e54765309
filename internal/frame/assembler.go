package frame

import (
	stderrors "errors"
	"io"
	"log/slog"

	"github.com/wagiedev/pipeloop-go/internal/errors"
	"github.com/wagiedev/pipeloop-go/internal/pipe"
)

// DefaultMaxLineSize is the maximum line length accepted before the
// assembler gives up on finding a newline.
const DefaultMaxLineSize = 1024 * 1024 // 1MB

// Status is the outcome of one Poll call.
type Status int

const (
	// NoData means no complete line is available yet. Partial bytes stay
	// buffered for the next poll.
	NoData Status = iota
	// LineReady means a complete line was assembled and returned.
	LineReady
	// Closed means the stream reached end-of-stream.
	Closed
)

func (s Status) String() string {
	switch s {
	case LineReady:
		return "line"
	case Closed:
		return "closed"
	default:
		return "no_data"
	}
}

// Assembler collects bytes from a non-blocking reader into lines.
//
// The reader must have raw-read semantics: a would-block error (per
// pipe.IsWouldBlock) when no data is available, and zero bytes with nil
// error (or io.EOF) at end-of-stream. Each channel gets its own Assembler;
// the pending-reset state is owned, never shared.
type Assembler struct {
	log        *slog.Logger
	r          io.Reader
	buf        []byte
	maxSize    int
	needsReset bool
}

// New creates an Assembler over r. If maxSize is zero or negative,
// DefaultMaxLineSize is used.
func New(log *slog.Logger, r io.Reader, maxSize int) *Assembler {
	if maxSize <= 0 {
		maxSize = DefaultMaxLineSize
	}

	return &Assembler{
		log:     log.With("component", "assembler"),
		r:       r,
		maxSize: maxSize,
	}
}

// Poll attempts to complete one line without blocking.
//
// Returns exactly one of:
//   - (line, LineReady, nil): a newline was seen; line excludes the
//     terminating newline. The buffer is cleared on the next call, so a
//     caller that sees NoData in between never loses partial bytes.
//   - ("", NoData, nil): no byte available right now; buffered partial
//     content is preserved.
//   - ("", Closed, nil): end-of-stream.
//   - ("", NoData, err): the read failed; err wraps the cause as a
//     ChannelError, or is ErrLineTooLong past the size limit.
func (a *Assembler) Poll() (string, Status, error) {
	// Clear exactly once per reported line, not on every poll.
	if a.needsReset {
		a.buf = a.buf[:0]
		a.needsReset = false
	}

	var b [1]byte

	for {
		n, err := a.r.Read(b[:])
		if n == 1 {
			a.buf = append(a.buf, b[0])
			if b[0] == '\n' {
				a.needsReset = true
				line := string(a.buf[:len(a.buf)-1])
				a.log.Debug("Assembled line", "len", len(line))

				return line, LineReady, nil
			}

			if len(a.buf) >= a.maxSize {
				a.log.Error("Line exceeds maximum size", "max_size", a.maxSize)

				return "", NoData, errors.ErrLineTooLong
			}

			continue
		}

		switch {
		case err == nil || stderrors.Is(err, io.EOF):
			a.log.Debug("Stream closed", "buffered", len(a.buf))

			return "", Closed, nil
		case pipe.IsWouldBlock(err):
			return "", NoData, nil
		default:
			a.log.Error("Read failed", "error", err)

			return "", NoData, &errors.ChannelError{Err: err}
		}
	}
}

// Pending returns the number of buffered bytes of the current partial line.
func (a *Assembler) Pending() int {
	if a.needsReset {
		return 0
	}

	return len(a.buf)
}
