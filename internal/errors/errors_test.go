package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChildNotFoundError(t *testing.T) {
	err := &ChildNotFoundError{SearchedPaths: []string{"$PATH", "/usr/local/bin/cat"}}

	require.Contains(t, err.Error(), "$PATH")
	require.Contains(t, err.Error(), "/usr/local/bin/cat")
	require.True(t, err.IsPipeLoopError())
}

func TestPipeErrorUnwrap(t *testing.T) {
	cause := stderrors.New("too many open files")
	err := &PipeError{Err: cause}

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "too many open files")
}

func TestSpawnErrorUnwrap(t *testing.T) {
	cause := stderrors.New("fork/exec: permission denied")
	err := &SpawnError{Err: cause}

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "permission denied")
}

func TestChannelErrorUnwrap(t *testing.T) {
	cause := stderrors.New("bad file descriptor")
	err := &ChannelError{Err: cause}

	require.ErrorIs(t, err, cause)

	var chanErr *ChannelError
	require.ErrorAs(t, err, &chanErr)
}

func TestProcessErrorMessage(t *testing.T) {
	err := &ProcessError{ExitCode: 2, Stderr: "cat: bad option"}
	require.Contains(t, err.Error(), "exit 2")
	require.Contains(t, err.Error(), "cat: bad option")

	cause := stderrors.New("signal: killed")
	err = &ProcessError{ExitCode: -1, Err: cause}
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "signal: killed")
}

func TestSentinelsAreDistinct(t *testing.T) {
	require.NotErrorIs(t, ErrChildClosed, ErrStdinClosed)
	require.NotErrorIs(t, ErrLoopStopped, ErrNotStarted)
	require.NotErrorIs(t, ErrLineTooLong, ErrChildClosed)
}
