// Package engine drives the steady-state duplex loop.
//
// Each iteration builds a counter-stamped outbound line, writes it to the
// child, polls the inbound channel for a completed line, forwards both
// directions to the display sink, and waits out the configured interval.
// The loop is a single cooperative goroutine; the child is the only other
// schedulable party and is visible solely through the pipe channels.
package engine
