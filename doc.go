// Package pipeloop drives a duplex message loop with an unmodified child
// process over a pair of anonymous pipes.
//
// The loop spawns an external program, rebinds its standard input and
// output to the two pipes, and then continuously sends counter-stamped
// lines while polling — without ever blocking — for whatever the child
// writes back. The child needs no cooperation: it just reads stdin and
// writes stdout as usual.
//
// # Basic Usage
//
// For a one-shot loop against the default echo child (/bin/cat), use Run:
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	err := pipeloop.Run(ctx,
//	    pipeloop.WithSink(sink),
//	    pipeloop.WithInterval(250*time.Millisecond),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Custom Children
//
// Any line-oriented program can sit on the other side of the pipes:
//
//	loop := pipeloop.New(
//	    pipeloop.WithProgram("tr", "a-z", "A-Z"),
//	    pipeloop.WithPrefix("msg "),
//	)
//	defer loop.Close()
//
//	err := loop.Run(ctx)
//
// # Logging
//
// For detailed operation tracking, use WithLogger:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	err := pipeloop.Run(ctx, pipeloop.WithLogger(logger))
//
// # Error Handling
//
// The loop stops when the inbound channel closes or fails. Typed errors
// distinguish the failure scenarios:
//
//	err := pipeloop.Run(ctx, opts...)
//	switch {
//	case err == nil:
//	    // stopped by ctx cancellation
//	case errors.Is(err, pipeloop.ErrChildClosed):
//	    // child exited or closed its output
//	default:
//	    var procErr *pipeloop.ProcessError
//	    if errors.As(err, &procErr) {
//	        log.Fatalf("child failed (exit %d): %s", procErr.ExitCode, procErr.Stderr)
//	    }
//	    log.Fatal(err)
//	}
package pipeloop
