// Package frame assembles newline-terminated lines from a non-blocking
// byte stream.
//
// The child's output arrives as an unbounded byte stream with no framing
// beyond the newline. An Assembler reconstructs discrete lines one byte at
// a time without ever blocking the caller, distinguishing "no data yet"
// from "stream closed" from "channel failure".
package frame
