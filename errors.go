package pipeloop

import "github.com/wagiedev/pipeloop-go/internal/errors"

// Re-export error types from internal package

// PipeError indicates the OS could not allocate a pipe.
type PipeError = errors.PipeError

// ChildNotFoundError indicates the child program binary was not found.
type ChildNotFoundError = errors.ChildNotFoundError

// SpawnError indicates the child process failed to start.
type SpawnError = errors.SpawnError

// ChannelError indicates a pipe channel failed for a reason other than
// "no data available".
type ChannelError = errors.ChannelError

// ProcessError indicates the child process exited abnormally.
type ProcessError = errors.ProcessError

// PipeLoopError is the base interface for all pipeloop errors.
type PipeLoopError = errors.PipeLoopError

// Re-export sentinel errors from internal package.
var (
	// ErrChildClosed indicates the child closed its output stream.
	ErrChildClosed = errors.ErrChildClosed

	// ErrLoopStopped indicates the loop has stopped and cannot be reused.
	ErrLoopStopped = errors.ErrLoopStopped

	// ErrAlreadyStarted indicates the loop is already running.
	ErrAlreadyStarted = errors.ErrAlreadyStarted

	// ErrStdinClosed indicates the child's stdin was closed.
	ErrStdinClosed = errors.ErrStdinClosed

	// ErrLineTooLong indicates an inbound line exceeded the maximum size.
	ErrLineTooLong = errors.ErrLineTooLong
)
