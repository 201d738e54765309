package pipe

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// FD wraps a raw descriptor with direct read/write syscalls.
//
// Reads and writes bypass the Go runtime poller: on a descriptor in
// non-blocking mode, Read returns unix.EAGAIN instead of parking the
// goroutine, and a zero-byte read with nil error means end-of-stream.
type FD int

// Read reads from the descriptor. Returns (0, nil) at end-of-stream and
// an error satisfying IsWouldBlock when the descriptor is non-blocking
// and no data is available.
func (fd FD) Read(p []byte) (int, error) {
	n, err := unix.Read(int(fd), p)
	if n < 0 {
		n = 0
	}

	return n, err
}

// Write writes to the descriptor.
func (fd FD) Write(p []byte) (int, error) {
	n, err := unix.Write(int(fd), p)
	if n < 0 {
		n = 0
	}

	return n, err
}

// SetNonblock switches the descriptor to non-blocking mode.
func (fd FD) SetNonblock() error {
	if err := unix.SetNonblock(int(fd), true); err != nil {
		return fmt.Errorf("set nonblock: %w", err)
	}

	return nil
}

// Close closes the descriptor.
func (fd FD) Close() error {
	return unix.Close(int(fd))
}

// IsWouldBlock reports whether err indicates a non-blocking read found no
// data. This is the normal "nothing yet" case, not a channel failure.
func IsWouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}

// Pair is one unidirectional pipe: a read end and a write end.
//
// Each end is owned until it is closed or detached. Detaching transfers
// ownership to an *os.File so the launcher can bind it to the child's
// stdio; closing the returned file is then the caller's job.
type Pair struct {
	r, w                 FD
	rReleased, wReleased bool
}

// New allocates a pipe. Fails with the OS error when descriptors are
// exhausted; on success both ends are valid, distinct, and empty.
//
// Both ends are close-on-exec: the child image must not inherit the
// parent's side of either pipe, or it holds a write end of its own stdin
// and never sees EOF there. exec's dup onto the child's stdio clears the
// flag for the two ends the child keeps.
func New() (*Pair, error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC); err != nil {
		return nil, fmt.Errorf("pipe: %w", err)
	}

	return &Pair{r: FD(fds[0]), w: FD(fds[1])}, nil
}

// ReadFD returns the read end.
func (p *Pair) ReadFD() FD { return p.r }

// WriteFD returns the write end.
func (p *Pair) WriteFD() FD { return p.w }

// DetachReadFile transfers ownership of the read end to a new *os.File.
// The pair no longer closes this end; the file does.
func (p *Pair) DetachReadFile(name string) *os.File {
	p.rReleased = true

	return os.NewFile(uintptr(p.r), name)
}

// DetachWriteFile transfers ownership of the write end to a new *os.File.
func (p *Pair) DetachWriteFile(name string) *os.File {
	p.wReleased = true

	return os.NewFile(uintptr(p.w), name)
}

// CloseRead closes the read end if still owned. Safe to call twice.
func (p *Pair) CloseRead() error {
	if p.rReleased {
		return nil
	}

	p.rReleased = true

	return p.r.Close()
}

// CloseWrite closes the write end if still owned. Safe to call twice.
func (p *Pair) CloseWrite() error {
	if p.wReleased {
		return nil
	}

	p.wReleased = true

	return p.w.Close()
}

// Close closes both ends that are still owned.
func (p *Pair) Close() error {
	rErr := p.CloseRead()
	wErr := p.CloseWrite()

	if rErr != nil {
		return rErr
	}

	return wErr
}
