// Package spawn launches the child process and wires its stdio to pipes.
//
// This package implements the process-launcher half of the engine: it
// resolves the child program, binds the read end of the to-child pipe to
// the child's stdin and the write end of the from-child pipe to its stdout,
// closes the parent's copies of both child-side descriptors, and switches
// the inbound read end to non-blocking mode. It also handles process
// lifecycle, stderr capture, and teardown.
package spawn
