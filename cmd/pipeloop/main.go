// Command pipeloop runs the duplex pipe demo: it spawns a line-oriented
// child program (by default /bin/cat as a loopback), sends it a
// counter-stamped line every interval, and renders both directions on the
// terminal until the child goes away or the user interrupts.
//
// Configuration comes from the environment:
//
//	PIPELOOP_PROGRAM    child executable (default /bin/cat)
//	PIPELOOP_ARGS       comma-separated child arguments (default "-")
//	PIPELOOP_INTERVAL   wait between iterations (default 250ms)
//	PIPELOOP_PREFIX     outbound message prefix (default "Line: ")
//	PIPELOOP_PTY        run the child on a pseudo-terminal (default false)
//	PIPELOOP_LOG_LEVEL  debug, info, warn, or error (default info)
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	pipeloop "github.com/wagiedev/pipeloop-go"
	"github.com/wagiedev/pipeloop-go/internal/config"
	"github.com/wagiedev/pipeloop-go/internal/display"
)

func main() {
	// The exit code is 0 on both clean termination and caught fatal
	// errors; the diagnostic goes to stderr.
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []pipeloop.Option{
		pipeloop.WithLogger(logger),
		pipeloop.WithProgram(cfg.Program, cfg.Args...),
		pipeloop.WithInterval(cfg.Interval),
		pipeloop.WithPrefix(cfg.Prefix),
		pipeloop.WithSink(display.NewConsole(os.Stdout)),
		pipeloop.WithStderr(func(line string) {
			logger.Warn("Child stderr", "line", line)
		}),
	}
	if cfg.UsePTY {
		opts = append(opts, pipeloop.WithPTY())
	}

	return pipeloop.Run(ctx, opts...)
}
