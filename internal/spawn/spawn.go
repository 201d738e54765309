package spawn

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"

	"github.com/wagiedev/pipeloop-go/internal/errors"
	"github.com/wagiedev/pipeloop-go/internal/pipe"
)

const (
	// maxStderrBufferSize is the maximum size for the stderr buffer.
	// Stderr reading continues indefinitely (callback receives all lines),
	// but the buffer stops growing after this limit to prevent unbounded
	// memory usage.
	maxStderrBufferSize = 10 * 1024 * 1024 // 10MB

	// writeRetryDelay is the pause between retries when a non-blocking
	// write channel reports would-block (PTY mode only).
	writeRetryDelay = time.Millisecond
)

// Options configures a child launch.
type Options struct {
	// Program is the child executable. Paths containing a separator are
	// used as-is; bare names are resolved via PATH.
	Program string

	// Args are the arguments passed to the child (argv[1:]).
	Args []string

	// Env provides additional environment variables for the child.
	Env map[string]string

	// Cwd sets the working directory for the child.
	Cwd string

	// UsePTY launches the child on a pseudo-terminal instead of two
	// anonymous pipes. One descriptor then serves both directions, and
	// the child's stderr is merged into its output stream.
	UsePTY bool

	// Stderr is an optional per-line callback for the child's stderr.
	// Ignored in PTY mode.
	Stderr func(string)

	// Logger receives operational logging. Required.
	Logger *slog.Logger
}

// Child is an owned handle on a spawned process wired into the pipe loop.
//
// The parent side holds exactly two live channel descriptors: the write end
// of the to-child pipe and the non-blocking read end of the from-child pipe
// (or the single ptmx descriptor in PTY mode).
type Child struct {
	log *slog.Logger
	cmd *exec.Cmd

	toChild   *pipe.Pair // parent owns the write end
	fromChild *pipe.Pair // parent owns the read end, non-blocking
	ptmx      *os.File   // PTY mode only

	in  pipe.FD
	out pipe.FD

	stderr         io.ReadCloser
	stderrCallback func(string)
	stderrMu       sync.Mutex
	stderrBuf      strings.Builder

	mu          sync.Mutex
	closing     bool
	stdinClosed bool
}

// Launch resolves the program, allocates the pipe channels, and starts the
// child with its stdio rebound to them.
//
// Returns ChildNotFoundError if the program cannot be resolved, PipeError
// if the OS cannot allocate a pipe, and SpawnError if the process fails to
// start (including exec failure, which the runtime reports to the parent).
// All descriptors are released on every error path.
func Launch(ctx context.Context, opts *Options) (*Child, error) {
	log := opts.Logger.With("component", "spawn")

	program, err := resolveProgram(opts.Program)
	if err != nil {
		log.Error("Failed to resolve child program", "program", opts.Program, "error", err)

		return nil, err
	}

	log.Debug("Resolved child program", "path", program, "args", opts.Args)

	//nolint:gosec // G204: launching a caller-specified child is the point
	cmd := exec.CommandContext(ctx, program, opts.Args...)
	cmd.Dir = opts.Cwd
	cmd.Env = buildEnv(opts.Env)

	if opts.UsePTY {
		return launchPTY(log, cmd)
	}

	return launchPipes(log, cmd, opts.Stderr)
}

// launchPipes starts the child over two anonymous pipe pairs.
func launchPipes(log *slog.Logger, cmd *exec.Cmd, stderrCb func(string)) (*Child, error) {
	toChild, err := pipe.New()
	if err != nil {
		return nil, &errors.PipeError{Err: fmt.Errorf("to-child: %w", err)}
	}

	fromChild, err := pipe.New()
	if err != nil {
		_ = toChild.Close()

		return nil, &errors.PipeError{Err: fmt.Errorf("from-child: %w", err)}
	}

	// The child reads stdin from the to-child pipe and writes stdout to
	// the from-child pipe. exec duplicates these into the child image.
	childStdin := toChild.DetachReadFile("tochild-read")
	childStdout := fromChild.DetachWriteFile("fromchild-write")
	cmd.Stdin = childStdin
	cmd.Stdout = childStdout

	stderr, err := cmd.StderrPipe()
	if err != nil {
		closeAll(childStdin, childStdout, toChild, fromChild)

		return nil, &errors.SpawnError{Err: fmt.Errorf("stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		closeAll(childStdin, childStdout, toChild, fromChild)

		return nil, &errors.SpawnError{Err: fmt.Errorf("start process: %w", err)}
	}

	// The parent never uses the child-side ends. Closing them here is the
	// bookkeeping that makes EOF detection on both pipes possible.
	_ = childStdin.Close()
	_ = childStdout.Close()

	if err := fromChild.ReadFD().SetNonblock(); err != nil {
		_ = cmd.Process.Kill()
		_ = toChild.Close()
		_ = fromChild.Close()

		return nil, &errors.SpawnError{Err: fmt.Errorf("set inbound nonblock: %w", err)}
	}

	log.Info("Child process started", "pid", cmd.Process.Pid)

	return &Child{
		log:            log,
		cmd:            cmd,
		toChild:        toChild,
		fromChild:      fromChild,
		in:             toChild.WriteFD(),
		out:            fromChild.ReadFD(),
		stderr:         stderr,
		stderrCallback: stderrCb,
	}, nil
}

// launchPTY starts the child on a pseudo-terminal. The single ptmx
// descriptor carries both directions; stderr is merged by the terminal.
func launchPTY(log *slog.Logger, cmd *exec.Cmd) (*Child, error) {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, &errors.SpawnError{Err: fmt.Errorf("start pty: %w", err)}
	}

	// All channel IO goes through raw reads and writes on the ptmx fd, so
	// taking Fd() out of the runtime poller here is fine.
	fd := pipe.FD(ptmx.Fd())
	if err := fd.SetNonblock(); err != nil {
		_ = cmd.Process.Kill()
		_ = ptmx.Close()

		return nil, &errors.SpawnError{Err: fmt.Errorf("set ptmx nonblock: %w", err)}
	}

	log.Info("Child process started on pty", "pid", cmd.Process.Pid)

	return &Child{
		log:  log,
		cmd:  cmd,
		ptmx: ptmx,
		in:   fd,
		out:  fd,
	}, nil
}

// resolveProgram locates the child executable.
func resolveProgram(program string) (string, error) {
	if program == "" {
		return "", &errors.ChildNotFoundError{SearchedPaths: []string{""}}
	}

	if strings.ContainsRune(program, os.PathSeparator) {
		if _, err := os.Stat(program); err != nil {
			return "", &errors.ChildNotFoundError{SearchedPaths: []string{program}}
		}

		return program, nil
	}

	path, err := exec.LookPath(program)
	if err != nil {
		return "", &errors.ChildNotFoundError{SearchedPaths: []string{program, "$PATH"}}
	}

	return path, nil
}

// buildEnv merges extra variables over the parent environment.
func buildEnv(extra map[string]string) []string {
	env := os.Environ()
	for k, v := range extra {
		env = append(env, k+"="+v)
	}

	return env
}

func closeAll(stdin, stdout *os.File, toChild, fromChild *pipe.Pair) {
	_ = stdin.Close()
	_ = stdout.Close()
	_ = toChild.Close()
	_ = fromChild.Close()
}

// Reader returns the non-blocking inbound channel. Reads report would-block
// when no data is available and zero bytes at end-of-stream.
func (c *Child) Reader() io.Reader {
	return c.out
}

// Write writes data fully to the child's stdin.
//
// The outbound descriptor is blocking in pipe mode: if the pipe buffer
// fills because the child is not draining it, the write blocks with the
// pipe capacity as the documented bound. In PTY mode would-block results
// are retried, honoring ctx between attempts.
func (c *Child) Write(ctx context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stdinClosed {
		return errors.ErrStdinClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	for len(data) > 0 {
		n, err := c.in.Write(data)
		if err != nil {
			if pipe.IsWouldBlock(err) {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(writeRetryDelay):
					continue
				}
			}

			c.log.Error("Failed to write to child", "error", err)

			return &errors.ChannelError{Err: fmt.Errorf("write to child: %w", err)}
		}

		data = data[n:]
	}

	return nil
}

// DrainStderr reads the child's stderr until it closes, buffering lines for
// error reporting and invoking the configured callback per line. Run this
// on its own goroutine; it unblocks when the child exits or is killed.
// No-op in PTY mode.
func (c *Child) DrainStderr(ctx context.Context) {
	if c.stderr == nil {
		return
	}

	scanner := bufio.NewScanner(c.stderr)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := scanner.Text()

		c.stderrMu.Lock()

		if c.stderrBuf.Len() < maxStderrBufferSize {
			if c.stderrBuf.Len() > 0 {
				c.stderrBuf.WriteString("\n")
			}

			c.stderrBuf.WriteString(line)
		}

		c.stderrMu.Unlock()

		if c.stderrCallback != nil {
			c.stderrCallback(line)
		}
	}

	if err := scanner.Err(); err != nil {
		c.log.Debug("Stderr scanner error", "error", err)
	}
}

// StderrOutput returns the stderr captured so far.
func (c *Child) StderrOutput() string {
	c.stderrMu.Lock()
	defer c.stderrMu.Unlock()

	return c.stderrBuf.String()
}

// PID returns the child's process ID, or 0 if not started.
func (c *Child) PID() int {
	if c.cmd == nil || c.cmd.Process == nil {
		return 0
	}

	return c.cmd.Process.Pid
}

// CloseStdin closes the outbound channel to signal end of input.
func (c *Child) CloseStdin() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closeStdinLocked()
}

func (c *Child) closeStdinLocked() error {
	if c.stdinClosed {
		return nil
	}

	c.stdinClosed = true

	if c.toChild != nil {
		return c.toChild.CloseWrite()
	}

	return nil
}

// Wait reaps the child and converts abnormal exits into ProcessError with
// the captured stderr attached. Call only after DrainStderr has returned.
// Returns nil when Close was called first (intentional shutdown).
func (c *Child) Wait() error {
	if c.cmd == nil {
		return errors.ErrNotStarted
	}

	err := c.cmd.Wait()
	if err == nil {
		c.log.Info("Child process exited cleanly")

		return nil
	}

	c.mu.Lock()
	isClosing := c.closing
	c.mu.Unlock()

	if isClosing {
		c.log.Debug("Child process terminated during shutdown")

		return nil
	}

	exitCode := 0
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	stderrOutput := c.StderrOutput()
	c.log.Error("Child process exited with error", "exit_code", exitCode, "stderr", stderrOutput)

	return &errors.ProcessError{
		ExitCode: exitCode,
		Stderr:   stderrOutput,
		Err:      err,
	}
}

// Close terminates the child and releases the parent's channel descriptors.
// Safe to call multiple times or on an already-exited process.
func (c *Child) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closing {
		return nil
	}

	c.closing = true

	if c.cmd != nil && c.cmd.Process != nil {
		c.log.Debug("Killing child process", "pid", c.cmd.Process.Pid)
		// Already-exited children report an error here; nothing to act on.
		_ = c.cmd.Process.Kill()
	}

	_ = c.closeStdinLocked()

	if c.toChild != nil {
		_ = c.toChild.Close()
	}

	if c.fromChild != nil {
		_ = c.fromChild.Close()
	}

	if c.ptmx != nil {
		_ = c.ptmx.Close()
	}

	return nil
}
